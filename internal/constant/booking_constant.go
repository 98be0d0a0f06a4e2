package constant

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
	MessageRoleSystem    = "system"

	BookingTypeRestaurant = "restaurant"
	BookingTypeHotel      = "hotel"
	BookingTypeTaxi       = "taxi"

	BookingStatusInitiated = "initiated"
	BookingStatusCalling   = "calling"
	BookingStatusCompleted = "completed"
	BookingStatusFailed    = "failed"

	// Outcome statuses as reported by the call service. Everything except
	// "completed" persists as BookingStatusFailed; the distinction only
	// drives the chat message template.
	CallOutcomeCompleted = "completed"
	CallOutcomeFailed    = "failed"
	CallOutcomeBusy      = "busy"
	CallOutcomeNoAnswer  = "no-answer"
	CallOutcomeVoicemail = "voicemail"

	ToolStartBookingCall   = "start_booking_call"
	ToolCheckBookingStatus = "check_booking_status"

	WebhookAuthModeHeader = "header"
	WebhookAuthModeHMAC   = "hmac"

	ChatWelcomeMessage = "Hi! I can call restaurants, hotels and taxi companies on your behalf. What would you like to book?"
)

// BookingTypes lists every accepted booking type, in validation order.
var BookingTypes = []string{BookingTypeRestaurant, BookingTypeHotel, BookingTypeTaxi}

// Per-outcome message templates. Placeholders are filled by
// service.RenderOutcomeMessage; keep the CONFIRMED fragment stable, the
// frontend highlights it.
const (
	OutcomeTemplateCompleted = "✅ Great news! Your %s booking at %s is CONFIRMED for %s, party of %d. The reservation is under the name %s."
	OutcomeTemplateFailed    = "❌ The call to %s (%s) did not go through%s. You can ask me to try again or pick another place."
	OutcomeTemplateBusy      = "📵 The line at %s (%s) was busy. Would you like me to retry in a few minutes?"
	OutcomeTemplateNoAnswer  = "🔇 Nobody answered at %s (%s). Want me to retry later or try a different time?"
	OutcomeTemplateVoicemail = "📬 The call to %s reached a voicemail, so nothing was booked. Should I call again?"
	OutcomeTemplateGeneric   = "ℹ️ Update for your booking at %s: status is now %q."

	OutcomeTranscriptHeader = "\n\nCall transcript:\n"
)
