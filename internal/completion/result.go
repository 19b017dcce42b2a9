package completion

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies the outcome of a single completion call.
type Kind string

const (
	KindOK           Kind = "ok"
	KindEmptyPrompt  Kind = "empty_prompt"
	KindHTTPStatus   Kind = "http_status"
	KindTransport    Kind = "transport"
	KindEmptyChoices Kind = "empty_choices"
	KindDecode       Kind = "decode"
	KindProvider     Kind = "provider"
	KindInternal     Kind = "internal"
)

const (
	EmptyPromptText = "Prompt cannot be empty!"
	NoResponseText  = "No response"
)

// Completer is implemented by every backend the relay can forward a prompt to.
type Completer interface {
	Name() string
	Complete(ctx context.Context, prompt string) Result
}

// Result is the outcome of one Complete call. Text carries the generated
// output on success; Message carries the human-readable failure otherwise.
type Result struct {
	Kind    Kind
	Text    string
	Message string

	// StatusCode is set for KindHTTPStatus.
	StatusCode int
	cause      error
}

func OK(text string) Result {
	return Result{Kind: KindOK, Text: text}
}

func EmptyPrompt() Result {
	return Result{Kind: KindEmptyPrompt, Message: EmptyPromptText}
}

// Failed builds a failed result. message is the full display text,
// including the "Error:" prefix where one applies.
func Failed(kind Kind, message string, cause error) Result {
	return Result{Kind: kind, Message: message, cause: cause}
}

func HTTPStatus(code int) Result {
	return Result{
		Kind:       KindHTTPStatus,
		Message:    fmt.Sprintf("Error: Service request failed. Status: %d", code),
		StatusCode: code,
	}
}

// Success reports whether the call produced model output.
func (r Result) Success() bool {
	return r.Kind == KindOK
}

// String renders the result the way it is shown to a user: the model text
// on success and the failure message otherwise.
func (r Result) String() string {
	if r.Success() {
		return r.Text
	}
	return r.Message
}

// Err returns nil on success and a *Error otherwise.
func (r Result) Err() error {
	if r.Success() {
		return nil
	}
	return &Error{Kind: r.Kind, Message: r.Message, StatusCode: r.StatusCode, Cause: r.cause}
}

// Error is the error form of a failed Result.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
	Cause      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("completion %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
