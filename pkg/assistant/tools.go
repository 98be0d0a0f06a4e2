package assistant

import (
	"context"
	"encoding/json"
	"fmt"
)

// HandlerFunc executes one tool call and returns the JSON payload to hand
// back to the agent.
type HandlerFunc func(ctx context.Context, call ToolCall) (string, error)

// Dispatcher routes tool calls to registered handlers. A failing or unknown
// handler never aborts the run: its error is serialized into that call's
// output so the agent can explain the failure conversationally.
type Dispatcher struct {
	handlers map[string]HandlerFunc
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: make(map[string]HandlerFunc)}
}

func (d *Dispatcher) Register(name string, handler HandlerFunc) {
	d.handlers[name] = handler
}

func (d *Dispatcher) Dispatch(ctx context.Context, calls []ToolCall) []ToolOutput {
	outputs := make([]ToolOutput, 0, len(calls))
	for _, call := range calls {
		handler, ok := d.handlers[call.Function.Name]
		if !ok {
			outputs = append(outputs, errorOutput(call.Id, fmt.Sprintf("unknown tool: %s", call.Function.Name)))
			continue
		}
		result, err := handler(ctx, call)
		if err != nil {
			outputs = append(outputs, errorOutput(call.Id, err.Error()))
			continue
		}
		outputs = append(outputs, ToolOutput{ToolCallId: call.Id, Output: result})
	}
	return outputs
}

func errorOutput(callId, message string) ToolOutput {
	payload, _ := json.Marshal(map[string]interface{}{
		"success": false,
		"error":   message,
	})
	return ToolOutput{ToolCallId: callId, Output: string(payload)}
}

// DecodeArguments parses the raw JSON arguments of a tool call into dst.
func DecodeArguments(call ToolCall, dst interface{}) error {
	if err := json.Unmarshal([]byte(call.Function.Arguments), dst); err != nil {
		return fmt.Errorf("invalid arguments for tool %s: %w", call.Function.Name, err)
	}
	return nil
}

// SuccessOutput marshals a tool result payload, tagging it as successful.
func SuccessOutput(fields map[string]interface{}) string {
	payload := map[string]interface{}{"success": true}
	for k, v := range fields {
		payload[k] = v
	}
	data, _ := json.Marshal(payload)
	return string(data)
}
