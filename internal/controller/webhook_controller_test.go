package controller

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/pkg/serverutils"
	"ai-booking-be/internal/repository/memory"
	"ai-booking-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type muteLogger struct{}

func (muteLogger) Debug(module string, message string, details map[string]interface{}) {}
func (muteLogger) Info(module string, message string, details map[string]interface{})  {}
func (muteLogger) Warn(module string, message string, details map[string]interface{})  {}
func (muteLogger) Error(module string, message string, details map[string]interface{}) {}
func (muteLogger) Sync() error                                                         { return nil }

func newWebhookApp(store *memory.Store, authMode, secret string) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	svc := service.NewWebhookService(store, authMode, secret, nil, nil, muteLogger{})
	NewWebhookController(svc).RegisterRoutes(app.Group("/api"))
	return app
}

func seedBooking(t *testing.T, store *memory.Store, callId string) *entity.Booking {
	t.Helper()
	booking := &entity.Booking{
		Id:     uuid.New(),
		ChatId: uuid.New(),
		UserId: uuid.New(),
		Type:   constant.BookingTypeRestaurant,
		Status: constant.BookingStatusCalling,
		Details: entity.BookingDetails{
			BusinessName: "Trattoria Roma",
			PhoneNumber:  "+390612345678",
			DateTime:     "2025-02-01 20:00",
			PartySize:    2,
			CustomerName: "Sam Lee",
		},
		CallId:    callId,
		CreatedAt: time.Now(),
	}
	require.NoError(t, store.Bookings().Create(context.Background(), booking))
	return booking
}

func postOutcome(t *testing.T, app *fiber.App, body []byte, headers map[string]string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/webhook/v1/call-outcome", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestCallOutcomeEndpointHeaderAuth(t *testing.T) {
	store := memory.NewStore()
	booking := seedBooking(t, store, "call_http_1")
	app := newWebhookApp(store, constant.WebhookAuthModeHeader, "s3cret")

	body, _ := json.Marshal(map[string]interface{}{
		"callId": "call_http_1",
		"status": "completed",
	})

	resp := postOutcome(t, app, body, map[string]string{"X-Webhook-Secret": "s3cret"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope serverutils.BaseResponse[map[string]interface{}]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, booking.Id.String(), envelope.Data["bookingId"])
	assert.Equal(t, constant.BookingStatusCompleted, envelope.Data["status"])
}

func TestCallOutcomeEndpointRejectsBadSecret(t *testing.T) {
	store := memory.NewStore()
	seedBooking(t, store, "call_http_2")
	app := newWebhookApp(store, constant.WebhookAuthModeHeader, "s3cret")

	body, _ := json.Marshal(map[string]interface{}{"callId": "call_http_2", "status": "completed"})

	resp := postOutcome(t, app, body, map[string]string{"X-Webhook-Secret": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = postOutcome(t, app, body, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Auth failures must leave the booking untouched.
	stored, _ := store.Bookings().FindOne(context.Background())
	assert.Equal(t, constant.BookingStatusCalling, stored.Status)
}

func TestCallOutcomeEndpointHMACSignsRawBody(t *testing.T) {
	store := memory.NewStore()
	seedBooking(t, store, "call_http_3")
	app := newWebhookApp(store, constant.WebhookAuthModeHMAC, "s3cret")

	body, _ := json.Marshal(map[string]interface{}{"callId": "call_http_3", "status": "busy"})
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)
	signature := hex.EncodeToString(mac.Sum(nil))

	resp := postOutcome(t, app, body, map[string]string{"X-Webhook-Signature": "sha256=" + signature})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// A signature computed over different bytes fails.
	resp = postOutcome(t, app, append(body, ' '), map[string]string{"X-Webhook-Signature": "sha256=" + signature})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCallOutcomeEndpointUnknownCallId(t *testing.T) {
	store := memory.NewStore()
	app := newWebhookApp(store, constant.WebhookAuthModeHeader, "s3cret")

	body, _ := json.Marshal(map[string]interface{}{"callId": "ghost", "status": "completed"})

	resp := postOutcome(t, app, body, map[string]string{"X-Webhook-Secret": "s3cret"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCallOutcomeEndpointMalformedBody(t *testing.T) {
	store := memory.NewStore()
	app := newWebhookApp(store, constant.WebhookAuthModeHeader, "s3cret")

	resp := postOutcome(t, app, []byte("{not json"), map[string]string{"X-Webhook-Secret": "s3cret"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
