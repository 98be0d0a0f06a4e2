package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-booking-be/internal/constant"
	"ai-booking-be/internal/dto"
	"ai-booking-be/internal/pkg/apperror"
	"ai-booking-be/internal/repository/memory"
	"ai-booking-be/internal/repository/specification"
	"ai-booking-be/pkg/assistant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedAssistant fakes the thread API. Runs complete immediately unless
// a pending tool call is scripted, in which case the first retrieve pauses
// on requires_action and the run completes after tool outputs arrive.
type scriptedAssistant struct {
	threadSeq     int
	threadsMade   int
	reply         string
	pendingCall   *assistant.ToolCall
	submitted     [][]assistant.ToolOutput
	addedMessages []string
}

func (s *scriptedAssistant) CreateThread(ctx context.Context) (string, error) {
	s.threadsMade++
	s.threadSeq++
	return fmt.Sprintf("thread_%d", s.threadSeq), nil
}

func (s *scriptedAssistant) AddMessage(ctx context.Context, threadId, role, content string) error {
	s.addedMessages = append(s.addedMessages, content)
	return nil
}

func (s *scriptedAssistant) CreateRun(ctx context.Context, threadId, assistantId string) (*assistant.Run, error) {
	return &assistant.Run{Id: "run_1", Status: assistant.StatusQueued}, nil
}

func (s *scriptedAssistant) RetrieveRun(ctx context.Context, threadId, runId string) (*assistant.Run, error) {
	if s.pendingCall != nil {
		call := *s.pendingCall
		s.pendingCall = nil
		return &assistant.Run{
			Id:     runId,
			Status: assistant.StatusRequiresAction,
			RequiredAction: &assistant.RequiredAction{
				Type:              "submit_tool_outputs",
				SubmitToolOutputs: &assistant.SubmitToolOutputs{ToolCalls: []assistant.ToolCall{call}},
			},
		}, nil
	}
	return &assistant.Run{Id: runId, Status: assistant.StatusCompleted}, nil
}

func (s *scriptedAssistant) SubmitToolOutputs(ctx context.Context, threadId, runId string, outputs []assistant.ToolOutput) error {
	s.submitted = append(s.submitted, outputs)
	return nil
}

func (s *scriptedAssistant) LatestAssistantMessage(ctx context.Context, threadId string) (string, error) {
	return s.reply, nil
}

func newTestChatService(store *memory.Store, client assistant.Client, booking IBookingService) IChatService {
	if booking == nil {
		booking = NewBookingService(store, &fakeCaller{}, nil, noopLogger{})
	}
	return NewChatService(
		store,
		client,
		"asst_test",
		time.Millisecond,
		time.Second,
		booking,
		nil,
		noopLogger{},
	)
}

func TestSendMessagePersistsBothSides(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	client := &scriptedAssistant{reply: "Sure, which restaurant?"}
	svc := newTestChatService(store, client, nil)

	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ChatId:  chat.Id,
		UserId:  userId,
		Message: "book me a table",
	})

	require.NoError(t, err)
	assert.Equal(t, constant.MessageRoleUser, res.Sent.Role)
	assert.Equal(t, "book me a table", res.Sent.Content)
	assert.Equal(t, constant.MessageRoleAssistant, res.Reply.Role)
	assert.Equal(t, "Sure, which restaurant?", res.Reply.Content)

	messages, err := store.Messages().FindAll(context.Background(),
		specification.ByChatID{ChatID: chat.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, constant.MessageRoleUser, messages[0].Role)
	assert.Equal(t, constant.MessageRoleAssistant, messages[1].Role)
	assert.Equal(t, []string{"book me a table"}, client.addedMessages)
}

func TestSendMessageCreatesThreadOnce(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	client := &scriptedAssistant{reply: "ok"}
	svc := newTestChatService(store, client, nil)

	_, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{ChatId: chat.Id, UserId: userId, Message: "one"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), &dto.SendMessageRequest{ChatId: chat.Id, UserId: userId, Message: "two"})
	require.NoError(t, err)

	assert.Equal(t, 1, client.threadsMade, "a chat keeps its thread across sends")

	stored, err := store.Chats().FindOne(context.Background(), specification.ByID{ID: chat.Id})
	require.NoError(t, err)
	assert.Equal(t, "thread_1", stored.ThreadId)
}

func TestSendMessageUnknownChat(t *testing.T) {
	store := memory.NewStore()
	svc := newTestChatService(store, &scriptedAssistant{reply: "ok"}, nil)

	_, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ChatId:  uuid.New(),
		UserId:  uuid.New(),
		Message: "hello",
	})

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSendMessageDispatchesBookingTool(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	caller := &fakeCaller{callId: "call_42"}
	bookingSvc := NewBookingService(store, caller, nil, noopLogger{})

	client := &scriptedAssistant{
		reply: "Calling The Garden Restaurant now!",
		pendingCall: &assistant.ToolCall{
			Id:   "tc_1",
			Type: "function",
			Function: assistant.ToolFunction{
				Name: constant.ToolStartBookingCall,
				Arguments: `{"bookingType":"restaurant","businessName":"The Garden Restaurant",` +
					`"phoneNumber":"+14155551234","dateTime":"2025-01-15 19:00","partySize":4,"customerName":"Alex Doe"}`,
			},
		},
	}
	svc := newTestChatService(store, client, bookingSvc)

	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ChatId:  chat.Id,
		UserId:  userId,
		Message: "book the garden for 4 tomorrow 7pm",
	})

	require.NoError(t, err)
	assert.Equal(t, "Calling The Garden Restaurant now!", res.Reply.Content)

	require.Len(t, client.submitted, 1)
	require.Len(t, client.submitted[0], 1)
	assert.Contains(t, client.submitted[0][0].Output, `"success":true`)
	assert.Contains(t, client.submitted[0][0].Output, "call_42")

	bookings, err := store.Bookings().FindAll(context.Background(), specification.ByChatID{ChatID: chat.Id})
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, userId, bookings[0].UserId, "tool bookings bind the sender's identity")
	assert.Equal(t, constant.BookingStatusCalling, bookings[0].Status)
}

func TestSendMessageToolFailureStaysConversational(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	bookingSvc := NewBookingService(store, &fakeCaller{callId: "c"}, nil, noopLogger{})

	client := &scriptedAssistant{
		reply: "That phone number does not look right.",
		pendingCall: &assistant.ToolCall{
			Id:   "tc_1",
			Type: "function",
			Function: assistant.ToolFunction{
				Name:      constant.ToolStartBookingCall,
				Arguments: `{"bookingType":"restaurant","businessName":"X","phoneNumber":"555-1234","dateTime":"t","partySize":4,"customerName":"A"}`,
			},
		},
	}
	svc := newTestChatService(store, client, bookingSvc)

	res, err := svc.SendMessage(context.Background(), &dto.SendMessageRequest{
		ChatId:  chat.Id,
		UserId:  userId,
		Message: "call 555-1234",
	})

	require.NoError(t, err, "tool-level failures never fail the send")
	assert.NotEmpty(t, res.Reply.Content)

	require.Len(t, client.submitted, 1)
	assert.Contains(t, client.submitted[0][0].Output, `"success":false`)

	count, _ := store.Bookings().Count(context.Background())
	assert.Zero(t, count)
}

func TestCreateChatSeedsWelcomeMessage(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	svc := newTestChatService(store, &scriptedAssistant{}, nil)

	res, err := svc.CreateChat(context.Background(), &dto.CreateChatRequest{UserId: userId, Title: "Dinner plans"})

	require.NoError(t, err)
	assert.Equal(t, "Dinner plans", res.Title)

	messages, err := store.Messages().FindAll(context.Background(), specification.ByChatID{ChatID: res.Id})
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, constant.MessageRoleAssistant, messages[0].Role)
	assert.Equal(t, constant.ChatWelcomeMessage, messages[0].Content)
}

func TestGetHistoryOrderedOldestFirst(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	svc := newTestChatService(store, &scriptedAssistant{}, nil)

	base := time.Now()
	for i, content := range []string{"first", "second", "third"} {
		require.NoError(t, store.Messages().Create(context.Background(), entityMessage(chat.Id, content, base.Add(time.Duration(i)*time.Second))))
	}

	history, err := svc.GetHistory(context.Background(), userId, chat.Id)

	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "first", history[0].Content)
	assert.Equal(t, "third", history[2].Content)
}

func TestGetHistoryForeignChat(t *testing.T) {
	store := memory.NewStore()
	chat := seedChat(store, uuid.New())
	svc := newTestChatService(store, &scriptedAssistant{}, nil)

	_, err := svc.GetHistory(context.Background(), uuid.New(), chat.Id)

	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteChatCascades(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	svc := newTestChatService(store, &scriptedAssistant{}, nil)

	require.NoError(t, store.Messages().Create(context.Background(), entityMessage(chat.Id, "hello", time.Now())))
	seedCallingBooking(store, chat.Id, userId, "call_del")

	require.NoError(t, svc.DeleteChat(context.Background(), userId, chat.Id))

	remaining, _ := store.Chats().FindOne(context.Background(), specification.ByID{ID: chat.Id})
	assert.Nil(t, remaining)
	msgCount, _ := store.Messages().Count(context.Background(), specification.ByChatID{ChatID: chat.Id})
	assert.Zero(t, msgCount)
	bookingCount, _ := store.Bookings().Count(context.Background(), specification.ByChatID{ChatID: chat.Id})
	assert.Zero(t, bookingCount)
}

func TestDeleteChatEvictsBookingOwnershipCache(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	chat := seedChat(store, userId)
	bookingSvc := NewBookingService(store, &fakeCaller{callId: "call_warm"}, nil, noopLogger{})
	svc := newTestChatService(store, &scriptedAssistant{reply: "ok"}, bookingSvc)

	// Warms the ownership cache for this chat.
	_, err := bookingSvc.StartBooking(context.Background(), validStartRequest(chat.Id, userId))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteChat(context.Background(), userId, chat.Id))

	_, err = bookingSvc.StartBooking(context.Background(), validStartRequest(chat.Id, userId))
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	bookingCount, _ := store.Bookings().Count(context.Background(), specification.ByChatID{ChatID: chat.Id})
	assert.Zero(t, bookingCount, "a deleted chat must not gain bookings")
}

func TestGetChatsOnlyOwn(t *testing.T) {
	store := memory.NewStore()
	userId := uuid.New()
	seedChat(store, userId)
	seedChat(store, userId)
	seedChat(store, uuid.New())
	svc := newTestChatService(store, &scriptedAssistant{}, nil)

	chats, err := svc.GetChats(context.Background(), userId)

	require.NoError(t, err)
	assert.Len(t, chats, 2)
}
