// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides HTTP session management for the admin API.
// Sessions are identified by a random cookie value and stored as JSON in
// Valkey with automatic TTL expiry, or in process memory when running
// without Valkey.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "sitecms_session"

	// DefaultTTL is how long a session lives before automatic expiry.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// Data holds the session payload: the authenticated user's identity.
type Data struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// backend stores encoded session payloads by ID.
type backend interface {
	set(ctx context.Context, id string, payload []byte, ttl time.Duration) error
	get(ctx context.Context, id string) ([]byte, bool, error)
	del(ctx context.Context, id string) error
}

// Store manages session lifecycle.
type Store struct {
	backend backend
	ttl     time.Duration
	secure  bool
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie Secure and should be set behind TLS.
func NewStore(client *redis.Client, secure bool) *Store {
	return &Store{backend: &valkeyBackend{client: client}, ttl: DefaultTTL, secure: secure}
}

// NewMemoryStore creates a session store that keeps sessions in process
// memory. Sessions are lost on restart.
func NewMemoryStore(secure bool) *Store {
	return &Store{
		backend: &memoryBackend{entries: make(map[string]memoryEntry), now: time.Now},
		ttl:     DefaultTTL,
		secure:  secure,
	}
}

// Create generates a new session, stores it, and sets the session cookie
// on the response. Returns the session ID.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now()

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.backend.set(ctx, id, payload, s.ttl); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})

	return id, nil
}

// Get retrieves session data using the session ID from the request cookie.
// Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil // No cookie = no session (not an error)
	}

	payload, ok, err := s.backend.get(ctx, cookie.Value)
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	if !ok {
		return nil, nil // Session expired or doesn't exist
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	return &data, nil
}

// Destroy removes the session and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil // No cookie, nothing to destroy
	}

	if err := s.backend.del(ctx, cookie.Value); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	// Expire the cookie immediately.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

type valkeyBackend struct {
	client *redis.Client
}

func (b *valkeyBackend) set(ctx context.Context, id string, payload []byte, ttl time.Duration) error {
	return b.client.Set(ctx, keyPrefix+id, payload, ttl).Err()
}

func (b *valkeyBackend) get(ctx context.Context, id string) ([]byte, bool, error) {
	payload, err := b.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return payload, true, nil
}

func (b *valkeyBackend) del(ctx context.Context, id string) error {
	return b.client.Del(ctx, keyPrefix+id).Err()
}

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

type memoryBackend struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func (b *memoryBackend) set(_ context.Context, id string, payload []byte, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	b.sweep(now)
	b.entries[id] = memoryEntry{payload: payload, expiresAt: now.Add(ttl)}
	return nil
}

// sweep drops expired entries. Callers hold b.mu.
func (b *memoryBackend) sweep(now time.Time) {
	for id, e := range b.entries {
		if !now.Before(e.expiresAt) {
			delete(b.entries, id)
		}
	}
}

func (b *memoryBackend) get(_ context.Context, id string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[id]
	if !ok {
		return nil, false, nil
	}
	if !b.now().Before(e.expiresAt) {
		delete(b.entries, id)
		return nil, false, nil
	}
	return e.payload, true, nil
}

func (b *memoryBackend) del(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, id)
	return nil
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
