package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/entity"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/pkg/logger"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/internal/repository/unitofwork"
	"ai-booking-be/pkg/callservice"
	"ai-booking-be/pkg/events"
	pkgNats "ai-booking-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// phoneRegex is the E.164 shape the call service dials. Validated before
// any row is written so a bad number never leaves a stranded booking.
var phoneRegex = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

const (
	partySizeMin = 1
	partySizeMax = 100
)

// CallPlacer abstracts the outbound call client.
type CallPlacer interface {
	PlaceCall(ctx context.Context, call callservice.CallRequest) (string, error)
}

type IBookingService interface {
	// StartBooking validates the request, records the booking, and asks
	// the call service to dial. On success the booking is in the calling
	// state and carries the external call id.
	StartBooking(ctx context.Context, req *dto.StartBookingRequest) (*dto.StartBookingResponse, error)
	GetBookingStatus(ctx context.Context, userId, bookingId uuid.UUID) (*dto.BookingStatusResponse, error)
	// ForgetChatOwnership drops the cached ownership check for a chat.
	// Called when the chat is deleted so a later booking attempt hits
	// the store again instead of trusting a stale entry.
	ForgetChatOwnership(chatId, userId uuid.UUID)
}

type bookingService struct {
	uowFactory     unitofwork.RepositoryFactory
	caller         CallPlacer
	natsPublisher  *pkgNats.Publisher
	ownershipCache *cache.Cache
	logger         logger.ILogger
}

func NewBookingService(
	uowFactory unitofwork.RepositoryFactory,
	caller CallPlacer,
	natsPublisher *pkgNats.Publisher,
	log logger.ILogger,
) IBookingService {
	return &bookingService{
		uowFactory:     uowFactory,
		caller:         caller,
		natsPublisher:  natsPublisher,
		ownershipCache: cache.New(5*time.Minute, 10*time.Minute),
		logger:         log,
	}
}

func (s *bookingService) StartBooking(ctx context.Context, req *dto.StartBookingRequest) (*dto.StartBookingResponse, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}
	if err := s.checkChatOwnership(ctx, req.ChatId, req.UserId); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	booking := &entity.Booking{
		Id:     uuid.New(),
		ChatId: req.ChatId,
		UserId: req.UserId,
		Type:   req.BookingType,
		Status: constant.BookingStatusInitiated,
		Details: entity.BookingDetails{
			BusinessName:    req.BusinessName,
			PhoneNumber:     req.PhoneNumber,
			DateTime:        req.DateTime,
			PartySize:       req.PartySize,
			CustomerName:    req.CustomerName,
			SpecialRequests: req.SpecialRequests,
		},
		CreatedAt: time.Now(),
	}
	if err := uow.BookingRepository().Create(ctx, booking); err != nil {
		return nil, err
	}

	callId, err := s.caller.PlaceCall(ctx, callservice.CallRequest{
		PhoneNumber:     req.PhoneNumber,
		BookingType:     req.BookingType,
		BusinessName:    req.BusinessName,
		CustomerName:    req.CustomerName,
		PartySize:       req.PartySize,
		DateTime:        req.DateTime,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		// The booking stays in initiated. No call was recorded, so there
		// is nothing for the outcome relay to resolve; recovery is left
		// to the conversation.
		if errors.Is(err, callservice.ErrTimeout) {
			return nil, apperror.Timeout("call service did not respond in time", err)
		}
		return nil, apperror.Integration("call service rejected the booking call", err)
	}

	booking.CallId = callId
	booking.Status = constant.BookingStatusCalling
	if err := uow.BookingRepository().Update(ctx, booking); err != nil {
		// The call is already on the wire. The outcome webhook resolves
		// the booking by call id, so the stale status self-heals; do not
		// fail the request.
		s.logger.Error("BookingService", "Failed to persist calling state", map[string]interface{}{
			"booking_id": booking.Id,
			"call_id":    callId,
			"error":      err.Error(),
		})
	}

	s.publishEvent(ctx, events.NewBookingCallPlaced(booking.Id.String(), booking.ChatId.String(), callId, booking.Type, req.BusinessName))

	return &dto.StartBookingResponse{
		BookingId: booking.Id,
		CallId:    callId,
	}, nil
}

func (s *bookingService) GetBookingStatus(ctx context.Context, userId, bookingId uuid.UUID) (*dto.BookingStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	booking, err := uow.BookingRepository().FindOne(ctx,
		specification.ByID{ID: bookingId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, apperror.NotFound("booking not found")
	}

	resp := &dto.BookingStatusResponse{
		Id:           booking.Id,
		ChatId:       booking.ChatId,
		Type:         booking.Type,
		Status:       booking.Status,
		BusinessName: booking.Details.BusinessName,
		DateTime:     booking.Details.DateTime,
		PartySize:    booking.Details.PartySize,
		CallId:       booking.CallId,
		CreatedAt:    booking.CreatedAt,
	}
	if booking.Result != nil {
		result := map[string]interface{}{}
		for k, v := range booking.Result.Outcome {
			result[k] = v
		}
		if booking.Result.Transcript != "" {
			result["transcript"] = booking.Result.Transcript
		}
		if booking.Result.Duration > 0 {
			result["duration"] = booking.Result.Duration
		}
		if booking.Result.Reason != "" {
			result["reason"] = booking.Result.Reason
		}
		resp.Result = result
	}
	return resp, nil
}

func (s *bookingService) validate(req *dto.StartBookingRequest) error {
	if req.BookingType == "" || req.BusinessName == "" || req.PhoneNumber == "" ||
		req.DateTime == "" || req.CustomerName == "" || req.PartySize == 0 {
		return apperror.Validation("bookingType, businessName, phoneNumber, dateTime, partySize and customerName are required")
	}

	valid := false
	for _, t := range constant.BookingTypes {
		if req.BookingType == t {
			valid = true
			break
		}
	}
	if !valid {
		return apperror.Validation(fmt.Sprintf("unknown booking type %q", req.BookingType))
	}

	if !phoneRegex.MatchString(req.PhoneNumber) {
		return apperror.Validation("phoneNumber must be E.164, e.g. +14155551234")
	}

	if req.PartySize < partySizeMin || req.PartySize > partySizeMax {
		return apperror.Validation(fmt.Sprintf("partySize must be between %d and %d", partySizeMin, partySizeMax))
	}
	return nil
}

func (s *bookingService) ForgetChatOwnership(chatId, userId uuid.UUID) {
	s.ownershipCache.Delete(ownershipKey(chatId, userId))
}

// checkChatOwnership confirms the chat exists and belongs to the user.
// Results are cached: the agent calls tools repeatedly for the same chat
// within one conversation.
func (s *bookingService) checkChatOwnership(ctx context.Context, chatId, userId uuid.UUID) error {
	key := ownershipKey(chatId, userId)
	if _, found := s.ownershipCache.Get(key); found {
		return nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	chat, err := uow.ChatRepository().FindOne(ctx,
		specification.ByID{ID: chatId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if chat == nil {
		return apperror.NotFound("chat not found")
	}

	s.ownershipCache.Set(key, true, cache.DefaultExpiration)
	return nil
}

func ownershipKey(chatId, userId uuid.UUID) string {
	return chatId.String() + ":" + userId.String()
}

func (s *bookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.natsPublisher == nil {
		return
	}
	if err := s.natsPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("BookingService", "Failed to publish booking event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
