package service

import (
	"context"
	"testing"

	"ai-booking-be/internal/config"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var demoCfg = config.DemoConfig{
	Email: "demo@example.com",
	Name:  "Demo User",
	Phone: "+15550100000",
}

func TestEnsureDemoUserIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store, demoCfg)

	first, err := svc.EnsureDemoUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "demo@example.com", first.Email)

	second, err := svc.EnsureDemoUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)

	count, err := store.Users().Count(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGetProfile(t *testing.T) {
	store := memory.NewStore()
	svc := NewUserService(store, demoCfg)

	user, err := svc.EnsureDemoUser(context.Background())
	require.NoError(t, err)

	profile, err := svc.GetProfile(context.Background(), user.Id)
	require.NoError(t, err)
	assert.Equal(t, "Demo User", profile.Name)
	assert.Equal(t, "+15550100000", profile.Phone)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
