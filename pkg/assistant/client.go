package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client is the subset of the thread API the orchestrator needs.
type Client interface {
	CreateThread(ctx context.Context) (string, error)
	AddMessage(ctx context.Context, threadId, role, content string) error
	CreateRun(ctx context.Context, threadId, assistantId string) (*Run, error)
	RetrieveRun(ctx context.Context, threadId, runId string) (*Run, error)
	SubmitToolOutputs(ctx context.Context, threadId, runId string, outputs []ToolOutput) error
	LatestAssistantMessage(ctx context.Context, threadId string) (string, error)
}

type HTTPClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewHTTPClient(apiKey, baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &HTTPClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

func (c *HTTPClient) CreateThread(ctx context.Context) (string, error) {
	var resp struct {
		Id string `json:"id"`
	}
	if err := c.do(ctx, "POST", "/threads", map[string]interface{}{}, &resp); err != nil {
		return "", err
	}
	if resp.Id == "" {
		return "", fmt.Errorf("thread api returned empty thread id")
	}
	return resp.Id, nil
}

func (c *HTTPClient) AddMessage(ctx context.Context, threadId, role, content string) error {
	body := map[string]interface{}{
		"role":    role,
		"content": content,
	}
	return c.do(ctx, "POST", fmt.Sprintf("/threads/%s/messages", threadId), body, nil)
}

func (c *HTTPClient) CreateRun(ctx context.Context, threadId, assistantId string) (*Run, error) {
	body := map[string]interface{}{
		"assistant_id": assistantId,
	}
	var run Run
	if err := c.do(ctx, "POST", fmt.Sprintf("/threads/%s/runs", threadId), body, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *HTTPClient) RetrieveRun(ctx context.Context, threadId, runId string) (*Run, error) {
	var run Run
	if err := c.do(ctx, "GET", fmt.Sprintf("/threads/%s/runs/%s", threadId, runId), nil, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

func (c *HTTPClient) SubmitToolOutputs(ctx context.Context, threadId, runId string, outputs []ToolOutput) error {
	body := map[string]interface{}{
		"tool_outputs": outputs,
	}
	path := fmt.Sprintf("/threads/%s/runs/%s/submit_tool_outputs", threadId, runId)
	return c.do(ctx, "POST", path, body, nil)
}

// LatestAssistantMessage returns the text of the newest assistant message on
// the thread. The messages endpoint lists newest first.
func (c *HTTPClient) LatestAssistantMessage(ctx context.Context, threadId string) (string, error) {
	var resp struct {
		Data []ThreadMessage `json:"data"`
	}
	path := fmt.Sprintf("/threads/%s/messages?order=desc&limit=10", threadId)
	if err := c.do(ctx, "GET", path, nil, &resp); err != nil {
		return "", err
	}
	for i := range resp.Data {
		if resp.Data[i].Role == "assistant" {
			return resp.Data[i].Text(), nil
		}
	}
	return "", fmt.Errorf("no assistant message on thread %s", threadId)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("OpenAI-Beta", "assistants=v2")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("thread api error (status %d): %s", resp.StatusCode, string(bodyBytes))
	}

	if out != nil {
		if err := json.Unmarshal(bodyBytes, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
