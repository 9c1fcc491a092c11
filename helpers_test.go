package goCrypt

import (
	"context"
	"crypto/sha512"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/MrEthical07/goCrypt/token"
	"github.com/google/uuid"
)

func testKeys() (pwdKey, tokenKey []byte) {
	p := sha512.Sum512([]byte("goCrypt test password key"))
	k := sha512.Sum512([]byte("goCrypt test token key"))
	return p[:], k[:]
}

func testConfig() Config {
	pwdKey, tokenKey := testKeys()

	cfg := DefaultConfig()
	cfg.Password.Key = pwdKey
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Time = 1
	cfg.Token.Key = tokenKey
	cfg.Metrics.Enabled = true
	return cfg
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2023, 5, 17, 15, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type memProvider struct {
	mu         sync.RWMutex
	byID       map[string]UserRecord
	byUsername map[string]string
	seq        int

	updateErr error
	updates   int
}

func newMemProvider() *memProvider {
	return &memProvider{
		byID:       make(map[string]UserRecord),
		byUsername: make(map[string]string),
	}
}

func (p *memProvider) put(u UserRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byID[u.UserID] = u
	p.byUsername[u.Username] = u.UserID
}

func (p *memProvider) get(userID string) UserRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[userID]
}

func (p *memProvider) GetUserByUsername(_ context.Context, username string) (UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.byUsername[username]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return p.byID[id], nil
}

func (p *memProvider) GetUserByID(_ context.Context, userID string) (UserRecord, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	u, ok := p.byID[userID]
	if !ok {
		return UserRecord{}, ErrUserNotFound
	}
	return u, nil
}

func (p *memProvider) CreateUser(_ context.Context, in CreateUserInput) (UserRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.byUsername[in.Username]; ok {
		return UserRecord{}, ErrAccountExists
	}
	p.seq++
	u := UserRecord{
		UserID:       "user-" + strconv.Itoa(p.seq),
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		PasswordSalt: in.PasswordSalt,
		TokenSalt:    in.TokenSalt,
	}
	p.byID[u.UserID] = u
	p.byUsername[u.Username] = u.UserID
	return u, nil
}

func (p *memProvider) UpdatePasswordHash(_ context.Context, userID string, newHash string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.updateErr != nil {
		return p.updateErr
	}
	u, ok := p.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.PasswordHash = newHash
	p.byID[userID] = u
	p.updates++
	return nil
}

func (p *memProvider) RotateTokenSalt(_ context.Context, userID string, newSalt uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	u, ok := p.byID[userID]
	if !ok {
		return ErrUserNotFound
	}
	u.TokenSalt = newSalt
	p.byID[userID] = u
	return nil
}

var errBackend = errors.New("backend down")

func newTestEngine(t testing.TB, up UserProvider, opts ...func(*Builder)) *Engine {
	t.Helper()

	b := New().WithConfig(testConfig()).WithUserProvider(up)
	for _, opt := range opts {
		opt(b)
	}
	engine, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)
	return engine
}

func withClock(c *fakeClock) func(*Builder) {
	return func(b *Builder) {
		b.WithTokenOptions(token.WithClock(c.Now))
	}
}
