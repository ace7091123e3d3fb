package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"user-account/models"
)

const usersListKey = "users:all"

// UserCache is a read-through cache for user records. A nil client turns
// every method into a no-op miss.
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// cachedUser carries the password hash that models.User hides from JSON.
type cachedUser struct {
	models.User
	PasswordHash string `json:"password_hash"`
}

func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func userKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}

func (c *UserCache) GetUser(ctx context.Context, id int) (*models.User, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var entry cachedUser
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	user := entry.User
	user.Password = entry.PasswordHash
	return &user, true
}

func (c *UserCache) SetUser(ctx context.Context, user *models.User) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(cachedUser{User: *user, PasswordHash: user.Password})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, userKey(user.ID), raw, c.ttl).Err()
}

func (c *UserCache) GetList(ctx context.Context) ([]models.PublicUser, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, usersListKey).Bytes()
	if err != nil {
		return nil, false
	}
	var users []models.PublicUser
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, false
	}
	return users, true
}

func (c *UserCache) SetList(ctx context.Context, users []models.PublicUser) error {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := json.Marshal(users)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, usersListKey, raw, c.ttl).Err()
}

// Invalidate drops the list entry and the entries of the given users.
func (c *UserCache) Invalidate(ctx context.Context, ids ...int) error {
	if c == nil || c.client == nil {
		return nil
	}
	keys := []string{usersListKey}
	for _, id := range ids {
		keys = append(keys, userKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
