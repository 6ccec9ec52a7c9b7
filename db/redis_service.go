package db

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"parent-portal-go/session"
)

const (
	sessionPrefix   = "session:"   // String: session:{clientKey}:logged_in -> "1"
	loggedInSuffix  = ":logged_in"
	loggedInValue   = "1"
	defaultRedisTTL = 0 // keep until logout
)

// RedisService keeps session flags in Redis so they survive restarts and
// are shared between server instances.
type RedisService struct {
	Client *redis.Client
	TTL    time.Duration // Expiry of a session flag; 0 means no expiry
}

var _ session.Store = (*RedisService)(nil)

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client, ttl time.Duration) *RedisService {
	if ttl < 0 {
		ttl = defaultRedisTTL
	}
	return &RedisService{
		Client: client,
		TTL:    ttl,
	}
}

// Helper to generate the session flag key
func getLoggedInKey(clientKey string) string {
	return sessionPrefix + clientKey + loggedInSuffix
}

// --- Session Operations ---

// IsLoggedIn reports whether the client has the logged-in flag
func (s *RedisService) IsLoggedIn(ctx context.Context, clientKey string) (bool, error) {
	if clientKey == "" {
		return false, nil
	}
	_, err := s.Client.Get(ctx, getLoggedInKey(clientKey)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		log.Printf("Error reading session flag for client %s: %v", clientKey, err)
		return false, fmt.Errorf("failed to read session flag from Redis: %w", err)
	}
	return true, nil
}

// SetLoggedIn sets the flag, refreshing its expiry
func (s *RedisService) SetLoggedIn(ctx context.Context, clientKey string) error {
	if clientKey == "" {
		return errors.New("client key cannot be empty")
	}
	err := s.Client.Set(ctx, getLoggedInKey(clientKey), loggedInValue, s.TTL).Err()
	if err != nil {
		log.Printf("Error setting session flag for client %s: %v", clientKey, err)
		return fmt.Errorf("failed to set session flag in Redis: %w", err)
	}
	return nil
}

// Clear deletes the flag. Deleting a missing key is not an error.
func (s *RedisService) Clear(ctx context.Context, clientKey string) error {
	if clientKey == "" {
		return nil
	}
	if err := s.Client.Del(ctx, getLoggedInKey(clientKey)).Err(); err != nil {
		log.Printf("Error clearing session flag for client %s: %v", clientKey, err)
		return fmt.Errorf("failed to clear session flag in Redis: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// --- Utility ---

// RedisOptions are the connection settings for InitializeRedisClient
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// InitializeRedisClient creates and tests a Redis client connection
func InitializeRedisClient(ctx context.Context, opts RedisOptions) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	// Ping Redis to check connection
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", opts.Addr, err)
	}

	log.Printf("Successfully connected to Redis %s DB %d", opts.Addr, opts.DB)
	return rdb, nil
}
