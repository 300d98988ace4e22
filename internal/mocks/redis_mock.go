package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient is an in-memory stand-in for the Redis commands used by the
// session store and the readiness probe. Expiry is checked against Now so tests
// can move time instead of sleeping.
type MockRedisClient struct {
	mu      sync.RWMutex
	entries map[string]redisEntry
	calls   map[string]int

	Now func() time.Time

	SetError  error
	GetError  error
	DelError  error
	PingError error
}

type redisEntry struct {
	payload string
	ttl     time.Duration
	stored  time.Time
}

func (e redisEntry) expired(now time.Time) bool {
	return e.ttl > 0 && now.Sub(e.stored) >= e.ttl
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{
		entries: make(map[string]redisEntry),
		calls:   make(map[string]int),
		Now:     time.Now,
	}
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["set"]++

	cmd := redis.NewStatusCmd(ctx)
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	var payload string
	switch v := value.(type) {
	case string:
		payload = v
	case []byte:
		payload = string(v)
	default:
		cmd.SetErr(fmt.Errorf("mock redis: cannot store %T", value))
		return cmd
	}
	m.entries[key] = redisEntry{payload: payload, ttl: expiration, stored: m.Now()}
	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["get"]++

	cmd := redis.NewStringCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}
	e, ok := m.entries[key]
	if !ok || e.expired(m.Now()) {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(e.payload)
	return cmd
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls["del"]++

	cmd := redis.NewIntCmd(ctx)
	if m.DelError != nil {
		cmd.SetErr(m.DelError)
		return cmd
	}
	var n int64
	for _, k := range keys {
		if _, ok := m.entries[k]; ok {
			delete(m.entries, k)
			n++
		}
	}
	cmd.SetVal(n)
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// SetKey seeds a raw payload, bypassing error injection.
func (m *MockRedisClient) SetKey(key, payload string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = redisEntry{payload: payload, ttl: ttl, stored: m.Now()}
}

// HasKey reports whether key holds a live entry.
func (m *MockRedisClient) HasKey(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return ok && !e.expired(m.Now())
}

// TTL returns the expiration key was stored with.
func (m *MockRedisClient) TTL(key string) time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[key].ttl
}

// CallCount returns how often a command ("set", "get", "del") ran.
func (m *MockRedisClient) CallCount(cmd string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[cmd]
}
