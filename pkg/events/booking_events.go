package events

import "time"

const (
	TypeBookingCallPlaced = "BOOKING_CALL_PLACED"
	TypeBookingCompleted  = "BOOKING_COMPLETED"
	TypeBookingFailed     = "BOOKING_FAILED"
)

// NewBookingCallPlaced is published once the call service accepted a call
// request and the booking moved to calling.
func NewBookingCallPlaced(bookingId, chatId, callId, bookingType, businessName string) Event {
	return BaseEvent{
		Type: TypeBookingCallPlaced,
		Data: map[string]interface{}{
			"booking_id":    bookingId,
			"chat_id":       chatId,
			"call_id":       callId,
			"booking_type":  bookingType,
			"business_name": businessName,
		},
		OccurredAt: time.Now(),
	}
}

// NewBookingTerminal is published by the outcome relay. rawStatus is the
// status string as reported by the call service, persisted status is the
// terminal booking status.
func NewBookingTerminal(bookingId, chatId, callId, rawStatus, persistedStatus string) Event {
	eventType := TypeBookingCompleted
	if persistedStatus != "completed" {
		eventType = TypeBookingFailed
	}
	return BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"booking_id": bookingId,
			"chat_id":    chatId,
			"call_id":    callId,
			"raw_status": rawStatus,
			"status":     persistedStatus,
		},
		OccurredAt: time.Now(),
	}
}
