package dto

import "github.com/google/uuid"

// CallOutcomeRequest is the asynchronous outcome notification posted by the
// call service once a previously placed call terminates.
type CallOutcomeRequest struct {
	CallId     string                 `json:"callId"`
	Status     string                 `json:"status"`
	Transcript string                 `json:"transcript,omitempty"`
	Duration   float64                `json:"duration,omitempty"`
	Reason     string                 `json:"reason,omitempty"`
	Result     map[string]interface{} `json:"result,omitempty"`
}

type CallOutcomeResponse struct {
	BookingId uuid.UUID `json:"bookingId"`
	Status    string    `json:"status"`
}
