package dto

import "github.com/google/uuid"

// ChatEventMessage travels over the in-process pub/sub between the services
// that persist messages and the websocket notifier.
type ChatEventMessage struct {
	ChatId  uuid.UUID   `json:"chatId"`
	Type    string      `json:"type"`
	Message *MessageDTO `json:"message,omitempty"`
	Booking interface{} `json:"booking,omitempty"`
}

// StartBookingToolArgs is the argument payload of the start_booking_call
// tool as emitted by the agent. Chat and user identity are not part of it;
// the orchestrator binds them from the active conversation.
type StartBookingToolArgs struct {
	BookingType     string `json:"bookingType"`
	BusinessName    string `json:"businessName"`
	PhoneNumber     string `json:"phoneNumber"`
	DateTime        string `json:"dateTime"`
	PartySize       int    `json:"partySize"`
	CustomerName    string `json:"customerName"`
	SpecialRequests string `json:"specialRequests"`
}

// CheckBookingStatusToolArgs is the argument payload of the
// check_booking_status tool.
type CheckBookingStatusToolArgs struct {
	BookingId uuid.UUID `json:"bookingId"`
}
