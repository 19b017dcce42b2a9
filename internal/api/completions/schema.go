package completions

import "github.com/Conversly/prompt-relay/internal/types"

// Request is the body of POST /api/v1/completions/:adapter
type Request struct {
	Prompt string `json:"prompt"`
}

// Response carries the display text in Response, exactly as a text-only UI
// would show it, plus a structured error for callers that branch on failure.
type Response struct {
	RequestID string `json:"request_id,omitempty"`
	MessageID string `json:"message_id,omitempty"`
	Adapter   string `json:"adapter"`
	Model     string `json:"model,omitempty"`
	Response  string `json:"response"`
	types.BaseResponse
	Error     *types.ErrorBody `json:"error,omitempty"`
	LatencyMS int64            `json:"latency_ms"`
}
