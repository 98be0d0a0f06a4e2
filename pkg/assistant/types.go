// Package assistant is a client for a hosted assistant-thread API
// (OpenAI Assistants v2 wire shape): persistent threads, appended messages,
// and runs that progress through a status lifecycle until terminal, possibly
// pausing to request tool invocations.
package assistant

// Run statuses as reported by the API.
const (
	StatusQueued         = "queued"
	StatusInProgress     = "in_progress"
	StatusRequiresAction = "requires_action"
	StatusCancelling     = "cancelling"
	StatusCompleted      = "completed"
	StatusFailed         = "failed"
	StatusCancelled      = "cancelled"
	StatusExpired        = "expired"
)

// Run is one invocation of the agent against a thread.
type Run struct {
	Id             string          `json:"id"`
	Status         string          `json:"status"`
	RequiredAction *RequiredAction `json:"required_action,omitempty"`
}

type RequiredAction struct {
	Type              string             `json:"type"`
	SubmitToolOutputs *SubmitToolOutputs `json:"submit_tool_outputs,omitempty"`
}

type SubmitToolOutputs struct {
	ToolCalls []ToolCall `json:"tool_calls"`
}

// ToolCall is a structured request from the agent to invoke a named,
// schema-described function.
type ToolCall struct {
	Id       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON string as sent by the agent
}

// ToolOutput feeds one tool call's result back into the run.
type ToolOutput struct {
	ToolCallId string `json:"tool_call_id"`
	Output     string `json:"output"`
}

// PendingToolCalls returns the tool calls the run is waiting on, or nil.
func (r *Run) PendingToolCalls() []ToolCall {
	if r == nil || r.RequiredAction == nil || r.RequiredAction.SubmitToolOutputs == nil {
		return nil
	}
	return r.RequiredAction.SubmitToolOutputs.ToolCalls
}

// ThreadMessage is one entry of a thread as returned by the messages list
// endpoint.
type ThreadMessage struct {
	Id        string           `json:"id"`
	Role      string           `json:"role"`
	CreatedAt int64            `json:"created_at"`
	Content   []messageContent `json:"content"`
}

type messageContent struct {
	Type string       `json:"type"`
	Text *messageText `json:"text,omitempty"`
}

type messageText struct {
	Value string `json:"value"`
}

// Text concatenates the text blocks of the message.
func (m *ThreadMessage) Text() string {
	out := ""
	for _, c := range m.Content {
		if c.Type == "text" && c.Text != nil {
			if out != "" {
				out += "\n"
			}
			out += c.Text.Value
		}
	}
	return out
}
