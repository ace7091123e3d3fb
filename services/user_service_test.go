package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"user-account/models"
	"user-account/repositories"
	"user-account/utils"
)

var persistedAt = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// fakeStore is an in-memory UserStore.
type fakeStore struct {
	users    map[int]models.User
	nextID   int
	findErr  error
	listErr  error
	finds    int
	updates  []models.User
	createFn func(*models.User) error
}

func newFakeStore(users ...models.User) *fakeStore {
	s := &fakeStore{users: map[int]models.User{}, nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeStore) Create(_ context.Context, user *models.User) error {
	if s.createFn != nil {
		return s.createFn(user)
	}
	user.ID = s.nextID
	user.CreatedAt = time.Now()
	s.nextID++
	s.users[user.ID] = *user
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id int) (*models.User, error) {
	s.finds++
	if s.findErr != nil {
		return nil, s.findErr
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &u, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (s *fakeStore) FindAll(_ context.Context) ([]models.User, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []models.User
	for id := 1; id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *fakeStore) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	user.UpdatedAt = persistedAt
	s.users[user.ID] = *user
	s.updates = append(s.updates, *user)
	return nil
}

type fakeTokens struct{ err error }

func (f fakeTokens) GenerateToken(userID int, email string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "token-for-" + email, nil
}

type fakeMailer struct {
	sent []string
	err  error
}

func (m *fakeMailer) SendWelcome(toEmail, name string) error {
	m.sent = append(m.sent, toEmail)
	return m.err
}

func newService(store *fakeStore, cache *repositories.UserCache, mailer Mailer) *UserService {
	return NewUserService(store, cache, fakeTokens{}, mailer, zap.NewNop())
}

func newRedisCache(t *testing.T) *repositories.UserCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return repositories.NewUserCache(client, time.Minute)
}

func TestRegisterUser_Success(t *testing.T) {
	store := newFakeStore()
	mailer := &fakeMailer{}
	svc := newService(store, nil, mailer)

	result := svc.RegisterUser(context.Background(), models.Submission{
		Name: "Ann", Email: "ann@x.com", Password: "secret1",
	})

	require.Equal(t, 200, result.Status)
	assert.Equal(t, true, result.Response["success"])
	data := result.Response["data"].(map[string]interface{})
	assert.Equal(t, "token-for-ann@x.com", data["token"])
	assert.Equal(t, "Ann", data["user"].(models.PublicUser).Name)

	stored := store.users[1]
	ok, err := utils.VerifyPassword(stored.Password, "secret1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, stored.ProfilePicture)
	assert.Equal(t, []string{"ann@x.com"}, mailer.sent)
}

func TestRegisterUser_MailerFailureIgnored(t *testing.T) {
	svc := newService(newFakeStore(), nil, &fakeMailer{err: errBoom{}})

	result := svc.RegisterUser(context.Background(), models.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

	assert.Equal(t, 200, result.Status)
}

func TestRegisterUser_Duplicate(t *testing.T) {
	store := newFakeStore(models.User{ID: 1, Email: "ann@x.com"})
	svc := newService(store, nil, nil)

	result := svc.RegisterUser(context.Background(), models.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

	assert.Equal(t, 400, result.Status)
	assert.Equal(t, false, result.Response["success"])
	assert.Equal(t, models.ErrorList("User already exists"), result.Response["error"])
}

func TestRegisterUser_DuplicateRace(t *testing.T) {
	store := newFakeStore()
	store.createFn = func(*models.User) error { return repositories.ErrDuplicateKey }
	svc := newService(store, nil, nil)

	result := svc.RegisterUser(context.Background(), models.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

	assert.Equal(t, 400, result.Status)
}

func TestRegisterUser_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.findErr = errBoom{}
	svc := newService(store, nil, nil)

	result := svc.RegisterUser(context.Background(), models.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

	assert.Equal(t, 500, result.Status)
}

func TestRegisterUser_TokenFailure(t *testing.T) {
	svc := NewUserService(newFakeStore(), nil, fakeTokens{err: errBoom{}}, nil, zap.NewNop())

	result := svc.RegisterUser(context.Background(), models.Submission{Name: "Ann", Email: "ann@x.com", Password: "secret1"})

	assert.Equal(t, 500, result.Status)
}

func TestGetUserByID(t *testing.T) {
	store := newFakeStore(models.User{ID: 4, Name: "Ann"})
	svc := newService(store, nil, nil)

	user, err := svc.GetUserByID(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)

	_, err = svc.GetUserByID(context.Background(), 5)
	assert.ErrorIs(t, err, ErrUserNotFound)

	store.findErr = errBoom{}
	_, err = svc.GetUserByID(context.Background(), 4)
	assert.ErrorContains(t, err, "boom")
	assert.False(t, errors.Is(err, ErrUserNotFound))
}

func TestGetUserByID_ReadThroughCache(t *testing.T) {
	store := newFakeStore(models.User{ID: 4, Name: "Ann", Password: "hash"})
	svc := newService(store, newRedisCache(t), nil)
	ctx := context.Background()

	_, err := svc.GetUserByID(ctx, 4)
	require.NoError(t, err)
	user, err := svc.GetUserByID(ctx, 4)
	require.NoError(t, err)

	assert.Equal(t, 1, store.finds)
	assert.Equal(t, "hash", user.Password)
}

func TestGetAllUsers(t *testing.T) {
	store := newFakeStore(
		models.User{ID: 1, Name: "Ann", Password: "h1"},
		models.User{ID: 2, Name: "Bob", Password: "h2"},
	)
	svc := newService(store, nil, nil)

	result := svc.GetAllUsers(context.Background())

	assert.Equal(t, 200, result.Status)
	users := result.Response["data"].([]models.PublicUser)
	require.Len(t, users, 2)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestGetAllUsers_Failure(t *testing.T) {
	store := newFakeStore()
	store.listErr = errBoom{}
	svc := newService(store, nil, nil)

	result := svc.GetAllUsers(context.Background())

	assert.Equal(t, 500, result.Status)
	assert.Equal(t, false, result.Response["success"])
}

func TestUpdateUser(t *testing.T) {
	store := newFakeStore(models.User{ID: 1, Name: "Ann", Email: "ann@x.com", Password: "hash"})
	svc := newService(store, nil, nil)

	user := models.User{ID: 1, Name: "Anna", Email: "ann@x.com", Password: "hash"}
	err := svc.UpdateUser(context.Background(), &user)

	require.NoError(t, err)
	assert.Equal(t, "Anna", store.users[1].Name)
	assert.Equal(t, "hash", store.users[1].Password)
	assert.Equal(t, persistedAt, user.UpdatedAt)
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	store := newFakeStore(
		models.User{ID: 1, Email: "ann@x.com"},
		models.User{ID: 2, Email: "bob@x.com"},
	)
	svc := newService(store, nil, nil)

	err := svc.UpdateUser(context.Background(), &models.User{ID: 1, Email: "bob@x.com"})

	assert.ErrorIs(t, err, ErrEmailTaken)
	assert.Empty(t, store.updates)
}

func TestUpdateUser_Missing(t *testing.T) {
	svc := newService(newFakeStore(), nil, nil)

	err := svc.UpdateUser(context.Background(), &models.User{ID: 9, Email: "x@x.com"})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateUser_InvalidatesCache(t *testing.T) {
	store := newFakeStore(models.User{ID: 1, Name: "Ann", Email: "ann@x.com"})
	svc := newService(store, newRedisCache(t), nil)
	ctx := context.Background()

	_, err := svc.GetUserByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 200, svc.GetAllUsers(ctx).Status)

	require.NoError(t, svc.UpdateUser(ctx, &models.User{ID: 1, Name: "Anna", Email: "ann@x.com"}))

	user, err := svc.GetUserByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	users := svc.GetAllUsers(ctx).Response["data"].([]models.PublicUser)
	assert.Equal(t, "Anna", users[0].Name)
}

func TestLogin(t *testing.T) {
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	svc := newService(newFakeStore(models.User{ID: 1, Name: "Ann", Email: "ann@x.com", Password: hash}), nil, nil)

	result := svc.Login(context.Background(), "ann@x.com", "secret1")
	require.Equal(t, 200, result.Status)
	login := result.Response["data"].(models.LoginResponse)
	assert.Equal(t, "token-for-ann@x.com", login.Token)
	assert.Equal(t, 1, login.User.ID)

	assert.Equal(t, 400, svc.Login(context.Background(), "ann@x.com", "wrong").Status)
	assert.Equal(t, 400, svc.Login(context.Background(), "nobody@x.com", "secret1").Status)
}

func TestSanitizeUser(t *testing.T) {
	public := SanitizeUser(models.User{ID: 1, Name: "Ann", Password: "hash"})
	assert.Equal(t, models.PublicUser{ID: 1, Name: "Ann"}, public)
}
