package entity

import (
	"time"

	"github.com/google/uuid"
)

// BookingDetails is the typed core of the details payload. Extra carries
// any additional key/values the agent supplied, kept round-trippable
// without loosening the rest of the schema.
type BookingDetails struct {
	BusinessName    string
	PhoneNumber     string
	DateTime        string
	PartySize       int
	CustomerName    string
	SpecialRequests string
	Extra           map[string]interface{}
}

// BookingResult is populated only once the booking reaches a terminal
// state. Outcome keeps the raw webhook result object.
type BookingResult struct {
	Transcript string
	Duration   float64
	Reason     string
	Outcome    map[string]interface{}
}

// Booking is a request to place an external call on behalf of a chat.
// CallId is assigned exactly once, during the initiated→calling transition.
type Booking struct {
	Id        uuid.UUID
	ChatId    uuid.UUID
	UserId    uuid.UUID
	Type      string
	Status    string
	Details   BookingDetails
	CallId    string
	Result    *BookingResult
	CreatedAt time.Time
	UpdatedAt *time.Time
}
