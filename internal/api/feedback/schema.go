package feedback

import "github.com/Conversly/prompt-relay/internal/types"

// Request rates a completion previously returned with MessageID.
type Request struct {
	MessageID string `json:"messageId" binding:"required"`
	Feedback  string `json:"feedback"` // like | dislike | neutral | none
	Comment   string `json:"comment,omitempty"`
}

// Response is a minimal ack payload
type Response struct {
	RequestID string `json:"request_id,omitempty"`
	types.BaseResponse
}
