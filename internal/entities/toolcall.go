package entities

import "encoding/json"

// ToolCallPayload is the envelope Vapi posts to tool webhooks.
type ToolCallPayload struct {
	Message *ToolCallMessage `json:"message"`
}

type ToolCallMessage struct {
	ToolCalls []ToolCall `json:"toolCalls"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Function ToolFunction `json:"function"`
}

// ToolFunction keeps Arguments raw because Vapi sends them either as
// a JSON object or as a JSON-encoded string.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolResult is returned to Vapi per tool call; Result is always a
// human-readable string, never an error, per the tool-call protocol.
type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// AppointmentRequest holds the arguments of a schedule_dental_appointment
// tool call.
type AppointmentRequest struct {
	Name string `json:"name"`
	Day  string `json:"day"`
	Time string `json:"time"`
}
