package callservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaceCallReturnsCallId(t *testing.T) {
	var received rpcRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      received.Id,
			"result":  map[string]string{"callId": "call_789"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "placeCall", "en", time.Second)
	callId, err := client.PlaceCall(context.Background(), CallRequest{
		PhoneNumber:  "+14155551234",
		BookingType:  "restaurant",
		BusinessName: "The Garden Restaurant",
		CustomerName: "Alex Doe",
		PartySize:    4,
		DateTime:     "2025-01-15 19:00",
	})

	require.NoError(t, err)
	assert.Equal(t, "call_789", callId)
	assert.Equal(t, "2.0", received.JSONRPC)
	assert.Equal(t, "placeCall", received.Method)
	assert.Equal(t, "+14155551234", received.Params.PhoneNumber)
	assert.Equal(t, 4, received.Params.PartySize)
	assert.Equal(t, "en", received.Params.Language)
	assert.NotEmpty(t, received.Id)
}

func TestPlaceCallMissingCallId(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"result":  map[string]string{},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", time.Second)
	_, err := client.PlaceCall(context.Background(), CallRequest{PhoneNumber: "+14155551234"})

	assert.ErrorIs(t, err, ErrMissingCallId)
}

func TestPlaceCallRPCError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0",
			"error":   map[string]interface{}{"code": -32000, "message": "no agents available"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", time.Second)
	_, err := client.PlaceCall(context.Background(), CallRequest{PhoneNumber: "+14155551234"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no agents available")
}

func TestPlaceCallTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "", 20*time.Millisecond)
	_, err := client.PlaceCall(context.Background(), CallRequest{PhoneNumber: "+14155551234"})

	assert.ErrorIs(t, err, ErrTimeout)
}
