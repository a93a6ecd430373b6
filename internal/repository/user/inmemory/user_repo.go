package inmemory

import (
	"context"
	"sync"
	"time"

	"taskManager/internal/models/stats"
	"taskManager/internal/models/user"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
)

type UserStorage struct {
	storage map[uuid.UUID]*user.User
	byEmail map[string]uuid.UUID
	mtx     *sync.RWMutex
	ids     []uuid.UUID
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		storage: make(map[uuid.UUID]*user.User),
		byEmail: make(map[string]uuid.UUID),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
	}
}

// Create атомарно проверяет занятость email и вставляет запись.
func (s *UserStorage) Create(ctx context.Context, userToCreate *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, exists := s.byEmail[userToCreate.Email]; exists {
		return repo.ErrEmailTaken
	}

	if userToCreate.CreatedAt.IsZero() {
		userToCreate.CreatedAt = time.Now()
	}

	stored := *userToCreate
	s.storage[stored.ID] = &stored
	s.byEmail[stored.Email] = stored.ID
	s.ids = append(s.ids, stored.ID)
	return nil
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	stored, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	u := *stored
	return &u, nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}

	u := *s.storage[id]
	return &u, nil
}

func (s *UserStorage) GetAll(ctx context.Context) ([]*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []*user.User{}
	for i := len(s.ids) - 1; i >= 0; i-- {
		u := *s.storage[s.ids[i]]
		res = append(res, &u)
	}
	return res, nil
}

func (s *UserStorage) CountByRole(ctx context.Context) (*stats.UserStats, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	st := &stats.UserStats{}
	for _, u := range s.storage {
		st.TotalUsers++
		switch u.Role {
		case user.RoleAdmin:
			st.AdminUsers++
		case user.RoleUser:
			st.NormalUsers++
		}
	}
	return st, nil
}
