package memory

import (
	"context"
	"fmt"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UserRepository struct {
	store *Store
	users []*entity.User
}

func (r *UserRepository) matches(u *entity.User, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false, nil
			}
		case specification.ByEmail:
			if u.Email != s.Email {
				return false, nil
			}
		case specification.Pagination:
			// handled by callers that need it; ignored for users
		default:
			return false, fmt.Errorf("memory user repository: unsupported specification %T", spec)
		}
	}
	return true, nil
}

func (r *UserRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	clone := *user
	r.users = append(r.users, &clone)
	return nil
}

func (r *UserRepository) Update(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.users {
		if u.Id == user.Id {
			clone := *user
			r.users[i] = &clone
			return nil
		}
	}
	return fmt.Errorf("user %s not found", user.Id)
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, u := range r.users {
		if u.Id == id {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *UserRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, _ := splitSpecs(specs)
	for _, u := range r.users {
		ok, err := r.matches(u, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, order := splitSpecs(specs)
	var out []*entity.User
	for _, u := range r.users {
		ok, err := r.matches(u, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			clone := *u
			out = append(out, &clone)
		}
	}
	if order != nil {
		sortByCreatedAt(out, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() }, order.Desc)
	}
	return out, nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
