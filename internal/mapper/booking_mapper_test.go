package mapper

import (
	"testing"
	"time"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// JSONB numbers come back as float64; the mapper must recover the typed
// fields regardless.
func TestBookingMapperRecoversNumericJSONB(t *testing.T) {
	m := NewBookingMapper()

	stored := &model.Booking{
		Id:     uuid.New(),
		ChatId: uuid.New(),
		UserId: uuid.New(),
		Type:   "restaurant",
		Status: "completed",
		Details: datatypes.JSONMap{
			"business_name": "The Garden Restaurant",
			"phone_number":  "+14155551234",
			"date_time":     "2025-01-15 19:00",
			"party_size":    float64(4),
			"customer_name": "Alex Doe",
		},
		Result: datatypes.JSONMap{
			"transcript": "confirmed",
			"duration":   float64(93.5),
		},
		CreatedAt: time.Now(),
	}

	booking := m.ToEntity(stored)

	require.NotNil(t, booking)
	assert.Equal(t, 4, booking.Details.PartySize)
	assert.Equal(t, "The Garden Restaurant", booking.Details.BusinessName)
	require.NotNil(t, booking.Result)
	assert.Equal(t, 93.5, booking.Result.Duration)
	assert.Equal(t, "confirmed", booking.Result.Transcript)
}

func TestBookingMapperKeepsUnknownDetailKeys(t *testing.T) {
	m := NewBookingMapper()

	booking := &entity.Booking{
		Id:     uuid.New(),
		ChatId: uuid.New(),
		UserId: uuid.New(),
		Type:   "hotel",
		Status: "initiated",
		Details: entity.BookingDetails{
			BusinessName: "Hotel Azure",
			PhoneNumber:  "+33123456789",
			DateTime:     "2025-03-10",
			PartySize:    2,
			CustomerName: "Kim",
			Extra:        map[string]interface{}{"roomPreference": "sea view"},
		},
		CreatedAt: time.Now(),
	}

	round := m.ToEntity(m.ToModel(booking))

	require.NotNil(t, round)
	assert.Equal(t, "sea view", round.Details.Extra["roomPreference"])
	assert.Equal(t, "Hotel Azure", round.Details.BusinessName)
}
