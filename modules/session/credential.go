package session

import (
	"context"
	"strings"
	"sync"
)

// CredentialProvider is asked for a usable key before every HD call.
type CredentialProvider interface {
	HasSelectedKey(ctx context.Context) (bool, error)
	OpenSelectKey(ctx context.Context) error
	APIKey() string
}

// Credentials holds the key a session selected for HD calls.
// Without a selection the process default key is used.
type Credentials struct {
	mu       sync.RWMutex
	selected string
	fallback string
}

func NewCredentials(fallback string) *Credentials {
	return &Credentials{fallback: fallback}
}

// Select - 세션 HD 키 선택 (빈 문자열이면 선택 해제)
func (c *Credentials) Select(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = strings.TrimSpace(key)
}

func (c *Credentials) HasSelectedKey(ctx context.Context) (bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.selected != "", nil
}

// OpenSelectKey has no picker to open; the selection stays as it is.
func (c *Credentials) OpenSelectKey(ctx context.Context) error {
	return nil
}

func (c *Credentials) APIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selected != "" {
		return c.selected
	}
	return c.fallback
}

// Offer returns a provider whose OpenSelectKey adopts key, the key sent
// along with an HD request.
func (c *Credentials) Offer(key string) CredentialProvider {
	return &offeredKey{Credentials: c, key: strings.TrimSpace(key)}
}

type offeredKey struct {
	*Credentials
	key string
}

func (o *offeredKey) OpenSelectKey(ctx context.Context) error {
	if o.key != "" {
		o.Select(o.key)
	}
	return nil
}
