package store

import (
	"context"
	"sync"

	"go-bookstore/models"
)

// MemoryStore keeps everything in process. Order slices are append-only.
type MemoryStore struct {
	mu     sync.RWMutex
	users  map[string]models.User
	orders map[string][]models.Order
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]models.User),
		orders: make(map[string][]models.Order),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	key := models.NormalizeEmail(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; ok {
		return ErrDuplicateUser
	}
	u := *user
	u.Email = key
	s.users[key] = u
	return nil
}

func (s *MemoryStore) FindUser(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[models.NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user *models.User) error {
	key := models.NormalizeEmail(user.Email)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[key]; !ok {
		return ErrUserNotFound
	}
	u := *user
	u.Email = key
	s.users[key] = u
	return nil
}

func (s *MemoryStore) AppendOrder(_ context.Context, email string, order models.Order) error {
	key := models.NormalizeEmail(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[key] = append(s.orders[key], order.Clone())
	return nil
}

// OrderHistory walks the append-only slice backwards.
func (s *MemoryStore) OrderHistory(_ context.Context, email string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	placed := s.orders[models.NormalizeEmail(email)]
	out := make([]models.Order, 0, len(placed))
	for i := len(placed) - 1; i >= 0; i-- {
		out = append(out, placed[i].Clone())
	}
	return out, nil
}

func (s *MemoryStore) Close(context.Context) error { return nil }
