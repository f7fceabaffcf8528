// Package session keeps a cart per browser session in a bounded LRU cache.
package session

import (
	"fmt"
	"sync"

	"go-bookstore/cart"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Session owns one cart. Callers hold Lock for the whole request so each
// session has a single writer.
type Session struct {
	ID   string
	mu   sync.Mutex
	cart *cart.Cart
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// Cart must only be used while the session is locked.
func (s *Session) Cart() *cart.Cart { return s.cart }

// Store is safe for concurrent use. The least recently used session is
// evicted once capacity is reached.
type Store struct {
	cache *lru.Cache[string, *Session]
}

func NewStore(capacity int) (*Store, error) {
	cache, err := lru.New[string, *Session](capacity)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Store{cache: cache}, nil
}

func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	return s.cache.Get(id)
}

// GetOrCreate returns the session for id, or a fresh one under a new id when
// id is unknown. created reports the latter.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if existing, ok := s.Get(id); ok {
		return existing, false
	}
	fresh := &Session{ID: uuid.NewString(), cart: cart.New()}
	if prev, ok, _ := s.cache.PeekOrAdd(fresh.ID, fresh); ok {
		return prev, false
	}
	return fresh, true
}

func (s *Store) Delete(id string) {
	s.cache.Remove(id)
}

func (s *Store) Len() int {
	return s.cache.Len()
}
