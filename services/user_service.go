package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"user-account/models"
	"user-account/repositories"
	"user-account/utils"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
}

type TokenIssuer interface {
	GenerateToken(userID int, email string) (string, error)
}

type Mailer interface {
	SendWelcome(toEmail, name string) error
}

type UserService struct {
	repo   UserStore
	cache  *repositories.UserCache
	tokens TokenIssuer
	mailer Mailer
	logger *zap.Logger
}

// NewUserService wires the service. cache and mailer may be nil.
func NewUserService(repo UserStore, cache *repositories.UserCache, tokens TokenIssuer, mailer Mailer, logger *zap.Logger) *UserService {
	return &UserService{
		repo:   repo,
		cache:  cache,
		tokens: tokens,
		mailer: mailer,
		logger: logger,
	}
}

// SanitizeUser strips the password hash.
func SanitizeUser(user models.User) models.PublicUser {
	return models.PublicUser{
		ID:             user.ID,
		Name:           user.Name,
		Email:          user.Email,
		Phone:          user.Phone,
		ProfilePicture: user.ProfilePicture,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func (s *UserService) SanitizeUser(user models.User) models.PublicUser {
	return SanitizeUser(user)
}

func failure(status int, msg string) models.Result {
	return models.Result{
		Response: map[string]interface{}{
			"error":   models.ErrorList(msg),
			"success": false,
		},
		Status: status,
	}
}

func success(data interface{}) models.Result {
	return models.Result{
		Response: map[string]interface{}{
			"data":    data,
			"success": true,
		},
		Status: 200,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, sub models.Submission) models.Result {
	const internalMsg = "There was an error registering the user"

	_, err := s.repo.FindByEmail(ctx, sub.Email)
	switch {
	case err == nil:
		return failure(400, "User already exists")
	case !errors.Is(err, repositories.ErrNotFound):
		s.logger.Error("lookup email failed", zap.Error(err))
		return failure(500, internalMsg)
	}

	hash, err := utils.HashPassword(sub.Password)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return failure(500, internalMsg)
	}

	user := &models.User{
		Name:           sub.Name,
		Email:          sub.Email,
		Phone:          sub.Phone,
		ProfilePicture: sub.ProfilePicture,
		Password:       hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return failure(400, "User already exists")
		}
		s.logger.Error("create user failed", zap.Error(err))
		return failure(500, internalMsg)
	}
	s.invalidate(ctx)

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("generate token failed", zap.Int("user_id", user.ID), zap.Error(err))
		return failure(500, internalMsg)
	}

	s.sendWelcome(user)

	s.logger.Info("user registered", zap.Int("user_id", user.ID))
	return success(map[string]interface{}{
		"msg":   "User registered successfully",
		"token": token,
		"user":  SanitizeUser(*user),
	})
}

func (s *UserService) sendWelcome(user *models.User) {
	if s.mailer == nil {
		return
	}
	if err := s.mailer.SendWelcome(user.Email, user.Name); err != nil {
		s.logger.Warn("welcome email not sent", zap.Int("user_id", user.ID), zap.Error(err))
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	if user, ok := s.cache.GetUser(ctx, id); ok {
		return user, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %d: %w", id, err)
	}

	if err := s.cache.SetUser(ctx, user); err != nil {
		s.logger.Warn("cache user failed", zap.Int("user_id", id), zap.Error(err))
	}
	return user, nil
}

func (s *UserService) GetAllUsers(ctx context.Context) models.Result {
	if users, ok := s.cache.GetList(ctx); ok {
		return success(users)
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("list users failed", zap.Error(err))
		return failure(500, "There was an error fetching users")
	}

	public := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		public = append(public, SanitizeUser(u))
	}

	if err := s.cache.SetList(ctx, public); err != nil {
		s.logger.Warn("cache user list failed", zap.Error(err))
	}
	return success(public)
}

// UpdateUser persists user as given and refreshes its timestamps from the
// stored row. The caller is responsible for merging with the stored record
// first.
func (s *UserService) UpdateUser(ctx context.Context, user *models.User) error {
	owner, err := s.repo.FindByEmail(ctx, user.Email)
	switch {
	case err == nil && owner.ID != user.ID:
		return ErrEmailTaken
	case err != nil && !errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("lookup email: %w", err)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return ErrUserNotFound
		case errors.Is(err, repositories.ErrDuplicateKey):
			return ErrEmailTaken
		}
		return fmt.Errorf("update user %d: %w", user.ID, err)
	}

	s.invalidate(ctx, user.ID)
	s.logger.Info("user updated", zap.Int("user_id", user.ID))
	return nil
}

func (s *UserService) Login(ctx context.Context, email, password string) models.Result {
	const invalidMsg = "Invalid credentials"

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return failure(400, invalidMsg)
		}
		s.logger.Error("lookup email failed", zap.Error(err))
		return failure(500, "There was an error signing in")
	}

	ok, err := utils.VerifyPassword(user.Password, password)
	if err != nil {
		s.logger.Warn("verify password failed", zap.Int("user_id", user.ID), zap.Error(err))
	}
	if !ok {
		return failure(400, invalidMsg)
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("generate token failed", zap.Int("user_id", user.ID), zap.Error(err))
		return failure(500, "There was an error signing in")
	}

	return success(models.LoginResponse{Token: token, User: SanitizeUser(*user)})
}

func (s *UserService) invalidate(ctx context.Context, ids ...int) {
	if err := s.cache.Invalidate(ctx, ids...); err != nil {
		s.logger.Warn("cache invalidation failed", zap.Ints("user_ids", ids), zap.Error(err))
	}
}
