// Package memory provides in-memory repository implementations backed by
// plain maps. They interpret the same specification values as the GORM
// implementations, so services can run against them in tests without a
// database.
package memory

import (
	"context"
	"sort"
	"sync"

	"ai-booking-be/internal/repository/contract"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/internal/repository/unitofwork"
)

// Store holds the shared state for one in-memory "database".
type Store struct {
	mu       sync.RWMutex
	users    *UserRepository
	chats    *ChatRepository
	messages *MessageRepository
	bookings *BookingRepository
}

func NewStore() *Store {
	s := &Store{}
	s.users = &UserRepository{store: s}
	s.chats = &ChatRepository{store: s}
	s.messages = &MessageRepository{store: s}
	s.bookings = &BookingRepository{store: s}
	return s
}

// NewUnitOfWork implements unitofwork.RepositoryFactory. Transactions are
// no-ops here; tests exercise service logic, not rollback behavior.
func (s *Store) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: s}
}

type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository       { return u.store.users }
func (u *unitOfWork) ChatRepository() contract.ChatRepository       { return u.store.chats }
func (u *unitOfWork) MessageRepository() contract.MessageRepository { return u.store.messages }
func (u *unitOfWork) BookingRepository() contract.BookingRepository { return u.store.bookings }

// Direct accessors for test assertions.

func (s *Store) Users() *UserRepository       { return s.users }
func (s *Store) Chats() *ChatRepository       { return s.chats }
func (s *Store) Messages() *MessageRepository { return s.messages }
func (s *Store) Bookings() *BookingRepository { return s.bookings }

// splitSpecs separates filter specifications from the ordering directive.
func splitSpecs(specs []specification.Specification) (filters []specification.Specification, order *specification.OrderBy) {
	for _, spec := range specs {
		if o, ok := spec.(specification.OrderBy); ok {
			ob := o
			order = &ob
			continue
		}
		filters = append(filters, spec)
	}
	return filters, order
}

func sortByCreatedAt[T any](items []T, created func(T) int64, desc bool) {
	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return created(items[i]) > created(items[j])
		}
		return created(items[i]) < created(items[j])
	})
}
