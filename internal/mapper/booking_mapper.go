package mapper

import (
	"time"

	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/model"

	"gorm.io/datatypes"
)

// Well-known keys of the details / result JSONB payloads. Anything else in
// the payload survives round-trips via the Extra / Outcome maps.
const (
	detailKeyBusinessName    = "business_name"
	detailKeyPhoneNumber     = "phone_number"
	detailKeyDateTime        = "date_time"
	detailKeyPartySize       = "party_size"
	detailKeyCustomerName    = "customer_name"
	detailKeySpecialRequests = "special_requests"

	resultKeyTranscript = "transcript"
	resultKeyDuration   = "duration"
	resultKeyReason     = "reason"
)

type BookingMapper struct{}

func NewBookingMapper() *BookingMapper {
	return &BookingMapper{}
}

func (m *BookingMapper) ToEntity(b *model.Booking) *entity.Booking {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		t := b.UpdatedAt
		updatedAt = &t
	}

	callId := ""
	if b.CallId != nil {
		callId = *b.CallId
	}

	return &entity.Booking{
		Id:        b.Id,
		ChatId:    b.ChatId,
		UserId:    b.UserId,
		Type:      b.Type,
		Status:    b.Status,
		Details:   m.detailsToEntity(b.Details),
		CallId:    callId,
		Result:    m.resultToEntity(b.Result),
		CreatedAt: b.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *BookingMapper) ToModel(b *entity.Booking) *model.Booking {
	if b == nil {
		return nil
	}

	mb := &model.Booking{
		Id:        b.Id,
		ChatId:    b.ChatId,
		UserId:    b.UserId,
		Type:      b.Type,
		Status:    b.Status,
		Details:   m.DetailsToMap(b.Details),
		Result:    m.ResultToMap(b.Result),
		CreatedAt: b.CreatedAt,
	}
	if b.CallId != "" {
		cid := b.CallId
		mb.CallId = &cid
	}
	if b.UpdatedAt != nil {
		mb.UpdatedAt = *b.UpdatedAt
	}
	return mb
}

func (m *BookingMapper) detailsToEntity(raw datatypes.JSONMap) entity.BookingDetails {
	details := entity.BookingDetails{}
	if len(raw) == 0 {
		return details
	}

	var extra map[string]interface{}
	for k, v := range raw {
		switch k {
		case detailKeyBusinessName:
			details.BusinessName = asString(v)
		case detailKeyPhoneNumber:
			details.PhoneNumber = asString(v)
		case detailKeyDateTime:
			details.DateTime = asString(v)
		case detailKeyPartySize:
			details.PartySize = asInt(v)
		case detailKeyCustomerName:
			details.CustomerName = asString(v)
		case detailKeySpecialRequests:
			details.SpecialRequests = asString(v)
		default:
			if extra == nil {
				extra = make(map[string]interface{})
			}
			extra[k] = v
		}
	}
	details.Extra = extra
	return details
}

// DetailsToMap flattens the typed details into the JSONB shape. Exposed for
// repositories and services that build the payload directly.
func (m *BookingMapper) DetailsToMap(d entity.BookingDetails) datatypes.JSONMap {
	out := datatypes.JSONMap{
		detailKeyBusinessName: d.BusinessName,
		detailKeyPhoneNumber:  d.PhoneNumber,
		detailKeyDateTime:     d.DateTime,
		detailKeyPartySize:    d.PartySize,
		detailKeyCustomerName: d.CustomerName,
	}
	if d.SpecialRequests != "" {
		out[detailKeySpecialRequests] = d.SpecialRequests
	}
	for k, v := range d.Extra {
		out[k] = v
	}
	return out
}

func (m *BookingMapper) resultToEntity(raw datatypes.JSONMap) *entity.BookingResult {
	if len(raw) == 0 {
		return nil
	}

	result := &entity.BookingResult{}
	var outcome map[string]interface{}
	for k, v := range raw {
		switch k {
		case resultKeyTranscript:
			result.Transcript = asString(v)
		case resultKeyDuration:
			result.Duration = asFloat(v)
		case resultKeyReason:
			result.Reason = asString(v)
		default:
			if outcome == nil {
				outcome = make(map[string]interface{})
			}
			outcome[k] = v
		}
	}
	result.Outcome = outcome
	return result
}

func (m *BookingMapper) ResultToMap(r *entity.BookingResult) datatypes.JSONMap {
	if r == nil {
		return nil
	}

	out := datatypes.JSONMap{}
	if r.Transcript != "" {
		out[resultKeyTranscript] = r.Transcript
	}
	if r.Duration != 0 {
		out[resultKeyDuration] = r.Duration
	}
	if r.Reason != "" {
		out[resultKeyReason] = r.Reason
	}
	for k, v := range r.Outcome {
		out[k] = v
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// JSONB numbers come back as float64; inserts may still carry native ints.
func asInt(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	}
	return 0
}

func asFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
