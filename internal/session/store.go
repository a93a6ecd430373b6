package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("сессия не найдена")

type Session struct {
	Token     string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Store interface {
	Create(ctx context.Context, userID uuid.UUID) (*Session, error)
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) (int, error)
}

// InMemoryStore - единственное разделяемое между запросами изменяемое
// состояние приложения. Сессия видна только своему принципалу.
type InMemoryStore struct {
	sessions map[string]*Session
	mtx      *sync.RWMutex
	ttl      time.Duration
}

func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*Session),
		mtx:      &sync.RWMutex{},
		ttl:      ttl,
	}
}

func (s *InMemoryStore) Create(ctx context.Context, userID uuid.UUID) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, fmt.Errorf("генерация токена: %w", err)
	}

	now := time.Now()
	sess := &Session{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mtx.Lock()
	s.sessions[token] = sess
	s.mtx.Unlock()

	return sess, nil
}

func (s *InMemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mtx.RLock()
	sess, ok := s.sessions[token]
	s.mtx.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}

	if time.Now().After(sess.ExpiresAt) {
		s.mtx.Lock()
		delete(s.sessions, token)
		s.mtx.Unlock()
		return nil, ErrNotFound
	}

	copied := *sess
	return &copied, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, token string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.sessions, token)
	return nil
}

func (s *InMemoryStore) DeleteExpired(ctx context.Context) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := time.Now()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed, nil
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
