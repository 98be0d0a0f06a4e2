package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/logger"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/internal/repository/unitofwork"
	"ai-booking-be/pkg/events"
	pkgNats "ai-booking-be/pkg/nats"

	"github.com/google/uuid"
)

type IWebhookService interface {
	// Authenticate verifies the webhook credential against the raw request
	// body. Mode "header" compares a shared secret, mode "hmac" verifies an
	// HMAC-SHA256 signature of the body.
	Authenticate(credential string, rawBody []byte) error
	// HandleCallOutcome applies a call outcome to its booking and appends
	// the rendered system message to the chat. Retries and duplicate
	// deliveries are processed again in full; the booking keeps the last
	// writer's result and the chat gains one message per delivery.
	HandleCallOutcome(ctx context.Context, req *dto.CallOutcomeRequest) (*dto.CallOutcomeResponse, error)
}

type webhookService struct {
	uowFactory       unitofwork.RepositoryFactory
	authMode         string
	secret           string
	publisherService IPublisherService
	natsPublisher    *pkgNats.Publisher
	logger           logger.ILogger
}

func NewWebhookService(
	uowFactory unitofwork.RepositoryFactory,
	authMode string,
	secret string,
	publisherService IPublisherService,
	natsPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IWebhookService {
	return &webhookService{
		uowFactory:       uowFactory,
		authMode:         authMode,
		secret:           secret,
		publisherService: publisherService,
		natsPublisher:    natsPublisher,
		logger:           log,
	}
}

func (s *webhookService) Authenticate(credential string, rawBody []byte) error {
	if s.secret == "" {
		return apperror.Auth("webhook secret not configured")
	}
	if credential == "" {
		return apperror.Auth("missing webhook credential")
	}

	switch s.authMode {
	case constant.WebhookAuthModeHMAC:
		mac := hmac.New(sha256.New, []byte(s.secret))
		mac.Write(rawBody)
		expected := hex.EncodeToString(mac.Sum(nil))
		received := strings.TrimPrefix(credential, "sha256=")
		if !hmac.Equal([]byte(expected), []byte(received)) {
			return apperror.Auth("invalid webhook signature")
		}
	default:
		if subtle.ConstantTimeCompare([]byte(credential), []byte(s.secret)) != 1 {
			return apperror.Auth("invalid webhook secret")
		}
	}
	return nil
}

func (s *webhookService) HandleCallOutcome(ctx context.Context, req *dto.CallOutcomeRequest) (*dto.CallOutcomeResponse, error) {
	if req.CallId == "" || req.Status == "" {
		return nil, apperror.Validation("callId and status are required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	booking, err := uow.BookingRepository().FindOne(ctx, specification.ByCallID{CallID: req.CallId})
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound(fmt.Sprintf("no booking for call %s", req.CallId))
	}

	if req.Status == constant.CallOutcomeCompleted {
		booking.Status = constant.BookingStatusCompleted
	} else {
		booking.Status = constant.BookingStatusFailed
	}
	booking.Result = mergeResult(booking.Result, req)

	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		return nil, err
	}

	content := RenderOutcomeMessage(booking, req)
	systemMsg := &entity.Message{
		Id:      uuid.New(),
		ChatId:  booking.ChatId,
		Role:    constant.MessageRoleSystem,
		Content: content,
		Metadata: map[string]interface{}{
			"call_id":     req.CallId,
			"booking_id":  booking.Id.String(),
			"call_status": req.Status,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, systemMsg); err != nil {
		// The booking already holds the outcome; the user just misses the
		// chat notification. Acknowledge so the sender stops retrying.
		s.logger.Error("WebhookService", "Failed to append outcome message", map[string]interface{}{
			"booking_id": booking.Id,
			"call_id":    req.CallId,
			"error":      err.Error(),
		})
	} else {
		s.publishMessage(ctx, booking.ChatId, systemMsg)
	}

	s.publishTerminalEvent(ctx, booking, req.Status)

	return &dto.CallOutcomeResponse{
		BookingId: booking.Id,
		Status:    booking.Status,
	}, nil
}

// mergeResult folds a new outcome into any existing result. Duplicate
// deliveries overwrite shared keys (last writer wins) but never erase keys
// only the earlier delivery carried.
func mergeResult(existing *entity.BookingResult, req *dto.CallOutcomeRequest) *entity.BookingResult {
	result := existing
	if result == nil {
		result = &entity.BookingResult{}
	}
	if req.Transcript != "" {
		result.Transcript = req.Transcript
	}
	if req.Duration > 0 {
		result.Duration = req.Duration
	}
	if req.Reason != "" {
		result.Reason = req.Reason
	}
	if len(req.Result) > 0 {
		if result.Outcome == nil {
			result.Outcome = make(map[string]interface{}, len(req.Result))
		}
		for k, v := range req.Result {
			result.Outcome[k] = v
		}
	}
	return result
}

// RenderOutcomeMessage produces the chat-facing system message for a call
// outcome. Unknown statuses fall back to a generic notice carrying the raw
// status verbatim.
func RenderOutcomeMessage(booking *entity.Booking, req *dto.CallOutcomeRequest) string {
	details := booking.Details

	var content string
	switch req.Status {
	case constant.CallOutcomeCompleted:
		content = fmt.Sprintf(constant.OutcomeTemplateCompleted,
			booking.Type, details.BusinessName, details.DateTime, details.PartySize, details.CustomerName)
	case constant.CallOutcomeFailed:
		reason := ""
		if req.Reason != "" {
			reason = fmt.Sprintf(" (%s)", req.Reason)
		}
		content = fmt.Sprintf(constant.OutcomeTemplateFailed,
			details.BusinessName, details.PhoneNumber, reason)
	case constant.CallOutcomeBusy:
		content = fmt.Sprintf(constant.OutcomeTemplateBusy,
			details.BusinessName, details.PhoneNumber)
	case constant.CallOutcomeNoAnswer:
		content = fmt.Sprintf(constant.OutcomeTemplateNoAnswer,
			details.BusinessName, details.PhoneNumber)
	case constant.CallOutcomeVoicemail:
		content = fmt.Sprintf(constant.OutcomeTemplateVoicemail, details.BusinessName)
	default:
		content = fmt.Sprintf(constant.OutcomeTemplateGeneric, details.BusinessName, req.Status)
	}

	// Busy, no-answer and voicemail keep the message short: there was no
	// conversation worth quoting.
	switch req.Status {
	case constant.CallOutcomeBusy, constant.CallOutcomeNoAnswer, constant.CallOutcomeVoicemail:
		return content
	}
	if req.Transcript != "" {
		content += constant.OutcomeTranscriptHeader + req.Transcript
	}
	return content
}

func (s *webhookService) publishMessage(ctx context.Context, chatId uuid.UUID, msg *entity.Message) {
	if s.publisherService == nil {
		return
	}
	payload, err := json.Marshal(dto.ChatEventMessage{
		ChatId:  chatId,
		Type:    "message",
		Message: messageToDTO(msg),
	})
	if err != nil {
		return
	}
	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.logger.Warn("WebhookService", "Failed to publish outcome event", map[string]interface{}{
			"chat_id": chatId,
			"error":   err.Error(),
		})
	}
}

func (s *webhookService) publishTerminalEvent(ctx context.Context, booking *entity.Booking, rawStatus string) {
	if s.natsPublisher == nil {
		return
	}
	event := events.NewBookingTerminal(booking.Id.String(), booking.ChatId.String(), booking.CallId, rawStatus, booking.Status)
	if err := s.natsPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("WebhookService", "Failed to publish terminal event", map[string]interface{}{
			"booking_id": booking.Id,
			"error":      err.Error(),
		})
	}
}
