// Package session keeps the per-client "logged in" flag.
//
// The browser only carries an opaque client key inside a signed cookie; the
// flag itself lives server-side in a Store so it can be dropped on logout.
package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const clientKeyField = "client_key"

// Store holds the logged-in flag per client key
type Store interface {
	IsLoggedIn(ctx context.Context, clientKey string) (bool, error)
	SetLoggedIn(ctx context.Context, clientKey string) error
	// Clear removes the flag. Clearing an absent flag is not an error.
	Clear(ctx context.Context, clientKey string) error
}

// CookieMiddleware installs the signed cookie session that carries the
// client key.
func CookieMiddleware(name string, secret []byte, maxAge time.Duration) gin.HandlerFunc {
	store := cookie.NewStore(secret)
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(name, store)
}

// ClientKey returns the key stored in the cookie, or "" when the client has
// none yet.
func ClientKey(c *gin.Context) string {
	key, _ := sessions.Default(c).Get(clientKeyField).(string)
	return key
}

// EnsureClientKey returns the existing client key or mints and saves a new one
func EnsureClientKey(c *gin.Context) (string, error) {
	if key := ClientKey(c); key != "" {
		return key, nil
	}
	s := sessions.Default(c)
	key := uuid.NewString()
	s.Set(clientKeyField, key)
	if err := s.Save(); err != nil {
		return "", err
	}
	return key, nil
}

// MemoryStore is a process-local Store used in development and tests
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	flags map[string]time.Time // client key -> expiry (zero means never)
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a MemoryStore. A ttl of zero keeps flags until logout.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:   ttl,
		flags: make(map[string]time.Time),
		now:   time.Now,
	}
}

// IsLoggedIn reports the flag for clientKey, dropping it once expired
func (m *MemoryStore) IsLoggedIn(_ context.Context, clientKey string) (bool, error) {
	if clientKey == "" {
		return false, nil
	}
	m.mu.RLock()
	expiry, ok := m.flags[clientKey]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !expiry.IsZero() && !m.now().Before(expiry) {
		m.mu.Lock()
		// re-check: a concurrent login may have refreshed the flag
		if cur, ok := m.flags[clientKey]; ok && cur.Equal(expiry) {
			delete(m.flags, clientKey)
		}
		m.mu.Unlock()
		return false, nil
	}
	return true, nil
}

// SetLoggedIn sets the flag and restarts its ttl
func (m *MemoryStore) SetLoggedIn(_ context.Context, clientKey string) error {
	var expiry time.Time
	if m.ttl > 0 {
		expiry = m.now().Add(m.ttl)
	}
	m.mu.Lock()
	m.flags[clientKey] = expiry
	m.mu.Unlock()
	return nil
}

// Clear removes the flag; clearing an unknown key is not an error
func (m *MemoryStore) Clear(_ context.Context, clientKey string) error {
	m.mu.Lock()
	delete(m.flags, clientKey)
	m.mu.Unlock()
	return nil
}
