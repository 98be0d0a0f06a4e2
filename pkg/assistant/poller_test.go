package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	runs      []Run
	pollCount int
	submitted [][]ToolOutput
}

func (f *fakeClient) CreateThread(ctx context.Context) (string, error) { return "thread_1", nil }

func (f *fakeClient) AddMessage(ctx context.Context, threadId, role, content string) error {
	return nil
}

func (f *fakeClient) CreateRun(ctx context.Context, threadId, assistantId string) (*Run, error) {
	return &Run{Id: "run_1", Status: StatusQueued}, nil
}

func (f *fakeClient) RetrieveRun(ctx context.Context, threadId, runId string) (*Run, error) {
	if f.pollCount >= len(f.runs) {
		return nil, errors.New("unexpected poll")
	}
	run := f.runs[f.pollCount]
	f.pollCount++
	return &run, nil
}

func (f *fakeClient) SubmitToolOutputs(ctx context.Context, threadId, runId string, outputs []ToolOutput) error {
	f.submitted = append(f.submitted, outputs)
	return nil
}

func (f *fakeClient) LatestAssistantMessage(ctx context.Context, threadId string) (string, error) {
	return "", nil
}

func requiresAction(calls ...ToolCall) Run {
	return Run{
		Id:     "run_1",
		Status: StatusRequiresAction,
		RequiredAction: &RequiredAction{
			Type:              "submit_tool_outputs",
			SubmitToolOutputs: &SubmitToolOutputs{ToolCalls: calls},
		},
	}
}

func TestPollerAwaitCompletes(t *testing.T) {
	client := &fakeClient{runs: []Run{
		{Id: "run_1", Status: StatusQueued},
		{Id: "run_1", Status: StatusInProgress},
		{Id: "run_1", Status: StatusCompleted},
	}}
	poller := NewPoller(client, NewDispatcher(), time.Millisecond, time.Second)

	err := poller.Await(context.Background(), "thread_1", "run_1")

	require.NoError(t, err)
	assert.Equal(t, 3, client.pollCount)
	assert.Empty(t, client.submitted)
}

func TestPollerAwaitDispatchesToolsThenResumes(t *testing.T) {
	call := ToolCall{
		Id:   "call_1",
		Type: "function",
		Function: ToolFunction{
			Name:      "start_booking_call",
			Arguments: `{"bookingType":"restaurant"}`,
		},
	}
	client := &fakeClient{runs: []Run{
		requiresAction(call),
		{Id: "run_1", Status: StatusInProgress},
		{Id: "run_1", Status: StatusCompleted},
	}}
	dispatcher := NewDispatcher()
	dispatcher.Register("start_booking_call", func(ctx context.Context, tc ToolCall) (string, error) {
		return SuccessOutput(map[string]interface{}{"bookingId": "b1"}), nil
	})
	poller := NewPoller(client, dispatcher, time.Millisecond, time.Second)

	err := poller.Await(context.Background(), "thread_1", "run_1")

	require.NoError(t, err)
	require.Len(t, client.submitted, 1)
	require.Len(t, client.submitted[0], 1)
	assert.Equal(t, "call_1", client.submitted[0][0].ToolCallId)
	assert.Contains(t, client.submitted[0][0].Output, `"success":true`)
}

func TestPollerAwaitFailedRun(t *testing.T) {
	client := &fakeClient{runs: []Run{
		{Id: "run_1", Status: StatusFailed},
	}}
	poller := NewPoller(client, NewDispatcher(), time.Millisecond, time.Second)

	err := poller.Await(context.Background(), "thread_1", "run_1")

	var failed *RunFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, StatusFailed, failed.Status)
}

func TestPollerAwaitTimesOut(t *testing.T) {
	runs := make([]Run, 0, 64)
	for i := 0; i < 64; i++ {
		runs = append(runs, Run{Id: "run_1", Status: StatusInProgress})
	}
	client := &fakeClient{runs: runs}
	poller := NewPoller(client, NewDispatcher(), 5*time.Millisecond, 30*time.Millisecond)

	err := poller.Await(context.Background(), "thread_1", "run_1")

	assert.ErrorIs(t, err, ErrRunTimeout)
}

func TestDispatcherUnknownTool(t *testing.T) {
	dispatcher := NewDispatcher()

	outputs := dispatcher.Dispatch(context.Background(), []ToolCall{{
		Id:       "call_x",
		Function: ToolFunction{Name: "teleport", Arguments: "{}"},
	}})

	require.Len(t, outputs, 1)
	assert.Equal(t, "call_x", outputs[0].ToolCallId)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(outputs[0].Output), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "unknown tool")
}

func TestDispatcherHandlerErrorDoesNotAbortOtherCalls(t *testing.T) {
	dispatcher := NewDispatcher()
	dispatcher.Register("check_booking_status", func(ctx context.Context, tc ToolCall) (string, error) {
		return "", fmt.Errorf("booking not found")
	})
	dispatcher.Register("start_booking_call", func(ctx context.Context, tc ToolCall) (string, error) {
		return SuccessOutput(nil), nil
	})

	outputs := dispatcher.Dispatch(context.Background(), []ToolCall{
		{Id: "call_1", Function: ToolFunction{Name: "check_booking_status", Arguments: "{}"}},
		{Id: "call_2", Function: ToolFunction{Name: "start_booking_call", Arguments: "{}"}},
	})

	require.Len(t, outputs, 2)
	assert.Contains(t, outputs[0].Output, `"success":false`)
	assert.Contains(t, outputs[0].Output, "booking not found")
	assert.Contains(t, outputs[1].Output, `"success":true`)
}

func TestDecodeArgumentsInvalidJSON(t *testing.T) {
	call := ToolCall{Function: ToolFunction{Name: "start_booking_call", Arguments: "{not json"}}

	var dst struct{}
	err := DecodeArguments(call, &dst)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "start_booking_call")
}
