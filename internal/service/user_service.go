package service

import (
	"context"
	"time"

	"ai-booking-be/internal/config"
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IUserService interface {
	// EnsureDemoUser returns the configured demo identity, creating it on
	// first call. There is no registration flow; every session runs as
	// this user.
	EnsureDemoUser(ctx context.Context) (*entity.User, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
}

type userService struct {
	uowFactory unitofwork.RepositoryFactory
	demo       config.DemoConfig
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, demo config.DemoConfig) IUserService {
	return &userService{
		uowFactory: uowFactory,
		demo:       demo,
	}
}

func (s *userService) EnsureDemoUser(ctx context.Context) (*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: s.demo.Email})
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user = &entity.User{
		Id:        uuid.New(),
		Email:     s.demo.Email,
		Name:      s.demo.Name,
		Phone:     s.demo.Phone,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		// Concurrent bootstrap may have inserted it first.
		existing, findErr := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: s.demo.Email})
		if findErr == nil && existing != nil {
			return existing, nil
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}, nil
}
