package dto

import (
	"time"

	"github.com/google/uuid"
)

// StartBookingRequest arrives from the agent's tool call, not from the
// browser. Field-level validation (type set, E.164, party size bounds)
// happens in the booking service so tool-dispatch failures surface as
// conversational error payloads instead of HTTP rejections.
type StartBookingRequest struct {
	ChatId          uuid.UUID `json:"chatId" validate:"required"`
	UserId          uuid.UUID `json:"userId" validate:"required"`
	BookingType     string    `json:"bookingType" validate:"required"`
	BusinessName    string    `json:"businessName" validate:"required"`
	PhoneNumber     string    `json:"phoneNumber" validate:"required"`
	DateTime        string    `json:"dateTime" validate:"required"`
	PartySize       int       `json:"partySize" validate:"required"`
	CustomerName    string    `json:"customerName" validate:"required"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

type StartBookingResponse struct {
	CallId    string    `json:"callId"`
	BookingId uuid.UUID `json:"bookingId"`
}

type BookingStatusResponse struct {
	Id           uuid.UUID              `json:"id"`
	ChatId       uuid.UUID              `json:"chatId"`
	Type         string                 `json:"type"`
	Status       string                 `json:"status"`
	BusinessName string                 `json:"businessName"`
	DateTime     string                 `json:"dateTime"`
	PartySize    int                    `json:"partySize"`
	CallId       string                 `json:"callId,omitempty"`
	Result       map[string]interface{} `json:"result,omitempty"`
	CreatedAt    time.Time              `json:"createdAt"`
}
