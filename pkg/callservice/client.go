// Package callservice talks to the outbound phone-call service over its
// JSON-RPC endpoint. The call itself is asynchronous: PlaceCall returns as
// soon as the service accepts the call and hands back an id; the outcome
// arrives later on a webhook.
package callservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTimeout means the service did not accept the call within the
	// client's budget.
	ErrTimeout = errors.New("call service timed out")
	// ErrMissingCallId means the service answered without a call id.
	ErrMissingCallId = errors.New("call service response missing call id")
)

// CallRequest carries everything the phone agent needs to negotiate the
// booking on the line.
type CallRequest struct {
	PhoneNumber     string
	BookingType     string
	BusinessName    string
	CustomerName    string
	PartySize       int
	DateTime        string
	SpecialRequests string
}

type rpcRequest struct {
	JSONRPC string     `json:"jsonrpc"`
	Id      string     `json:"id"`
	Method  string     `json:"method"`
	Params  callParams `json:"params"`
}

type callParams struct {
	PhoneNumber     string `json:"phoneNumber"`
	BookingType     string `json:"bookingType"`
	BusinessName    string `json:"businessName"`
	CustomerName    string `json:"customerName"`
	PartySize       int    `json:"partySize"`
	DateTime        string `json:"dateTime"`
	SpecialRequests string `json:"specialRequests,omitempty"`
	Language        string `json:"language"`
}

type rpcResponse struct {
	Result *struct {
		CallId string `json:"callId"`
	} `json:"result"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Client struct {
	baseURL  string
	method   string
	language string
	client   *http.Client
}

func NewClient(baseURL, method, language string, timeout time.Duration) *Client {
	if method == "" {
		method = "placeCall"
	}
	if language == "" {
		language = "en"
	}
	return &Client{
		baseURL:  baseURL,
		method:   method,
		language: language,
		client:   &http.Client{Timeout: timeout},
	}
}

// PlaceCall asks the service to dial the business and returns the call id.
func (c *Client) PlaceCall(ctx context.Context, call CallRequest) (string, error) {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		Id:      uuid.NewString(),
		Method:  c.method,
		Params: callParams{
			PhoneNumber:     call.PhoneNumber,
			BookingType:     call.BookingType,
			BusinessName:    call.BusinessName,
			CustomerName:    call.CustomerName,
			PartySize:       call.PartySize,
			DateTime:        call.DateTime,
			SpecialRequests: call.SpecialRequests,
			Language:        c.language,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", ErrTimeout
		}
		return "", fmt.Errorf("call service request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("call service error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(bodyBytes, &rpcResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return "", fmt.Errorf("call service returned error %d: %s", rpcResp.Error.Code, rpcResp.Error.Message)
	}
	if rpcResp.Result == nil || rpcResp.Result.CallId == "" {
		return "", ErrMissingCallId
	}
	return rpcResp.Result.CallId, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
