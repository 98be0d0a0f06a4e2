package memory

import (
	"context"
	"fmt"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/repository/specification"

	"github.com/google/uuid"
)

type BookingRepository struct {
	store    *Store
	bookings []*entity.Booking
}

func (r *BookingRepository) matches(b *entity.Booking, specs []specification.Specification) (bool, error) {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if b.Id != s.ID {
				return false, nil
			}
		case specification.ByChatID:
			if b.ChatId != s.ChatID {
				return false, nil
			}
		case specification.UserOwnedBy:
			if b.UserId != s.UserID {
				return false, nil
			}
		case specification.ByCallID:
			if b.CallId != s.CallID {
				return false, nil
			}
		case specification.ByStatus:
			if b.Status != s.Status {
				return false, nil
			}
		default:
			return false, fmt.Errorf("memory booking repository: unsupported specification %T", spec)
		}
	}
	return true, nil
}

func cloneBooking(b *entity.Booking) *entity.Booking {
	clone := *b
	if b.Result != nil {
		res := *b.Result
		if b.Result.Outcome != nil {
			res.Outcome = make(map[string]interface{}, len(b.Result.Outcome))
			for k, v := range b.Result.Outcome {
				res.Outcome[k] = v
			}
		}
		clone.Result = &res
	}
	if b.Details.Extra != nil {
		clone.Details.Extra = make(map[string]interface{}, len(b.Details.Extra))
		for k, v := range b.Details.Extra {
			clone.Details.Extra[k] = v
		}
	}
	return &clone
}

func (r *BookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if booking.Id == uuid.Nil {
		booking.Id = uuid.New()
	}
	r.bookings = append(r.bookings, cloneBooking(booking))
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, b := range r.bookings {
		if b.Id == booking.Id {
			r.bookings[i] = cloneBooking(booking)
			return nil
		}
	}
	return fmt.Errorf("booking %s not found", booking.Id)
}

func (r *BookingRepository) DeleteByChatId(ctx context.Context, chatId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	kept := r.bookings[:0]
	for _, b := range r.bookings {
		if b.ChatId != chatId {
			kept = append(kept, b)
		}
	}
	r.bookings = kept
	return nil
}

func (r *BookingRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, _ := splitSpecs(specs)
	for _, b := range r.bookings {
		ok, err := r.matches(b, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			return cloneBooking(b), nil
		}
	}
	return nil, nil
}

func (r *BookingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Booking, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	filters, order := splitSpecs(specs)
	var out []*entity.Booking
	for _, b := range r.bookings {
		ok, err := r.matches(b, filters)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, cloneBooking(b))
		}
	}
	if order != nil {
		sortByCreatedAt(out, func(b *entity.Booking) int64 { return b.CreatedAt.UnixNano() }, order.Desc)
	}
	return out, nil
}

func (r *BookingRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(all)), nil
}
