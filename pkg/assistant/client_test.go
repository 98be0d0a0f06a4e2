package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPClientCreateThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/threads", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "assistants=v2", r.Header.Get("OpenAI-Beta"))
		json.NewEncoder(w).Encode(map[string]string{"id": "thread_abc"})
	}))
	defer server.Close()

	client := NewHTTPClient("sk-test", server.URL)
	threadId, err := client.CreateThread(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "thread_abc", threadId)
}

func TestHTTPClientRetrieveRunRequiresAction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/threads/thread_1/runs/run_1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":     "run_1",
			"status": "requires_action",
			"required_action": map[string]interface{}{
				"type": "submit_tool_outputs",
				"submit_tool_outputs": map[string]interface{}{
					"tool_calls": []map[string]interface{}{{
						"id":   "call_1",
						"type": "function",
						"function": map[string]interface{}{
							"name":      "start_booking_call",
							"arguments": `{"partySize":4}`,
						},
					}},
				},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient("sk-test", server.URL)
	run, err := client.RetrieveRun(context.Background(), "thread_1", "run_1")

	require.NoError(t, err)
	assert.Equal(t, StatusRequiresAction, run.Status)
	calls := run.PendingToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "start_booking_call", calls[0].Function.Name)
	assert.Equal(t, `{"partySize":4}`, calls[0].Function.Arguments)
}

func TestHTTPClientLatestAssistantMessageSkipsUserMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{
				{
					"id":   "msg_2",
					"role": "user",
					"content": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"value": "book a table"}},
					},
				},
				{
					"id":   "msg_1",
					"role": "assistant",
					"content": []map[string]interface{}{
						{"type": "text", "text": map[string]string{"value": "On it."}},
					},
				},
			},
		})
	}))
	defer server.Close()

	client := NewHTTPClient("sk-test", server.URL)
	text, err := client.LatestAssistantMessage(context.Background(), "thread_1")

	require.NoError(t, err)
	assert.Equal(t, "On it.", text)
}

func TestHTTPClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"bad assistant id"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient("sk-test", server.URL)
	_, err := client.CreateRun(context.Background(), "thread_1", "asst_bad")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "bad assistant id")
}
