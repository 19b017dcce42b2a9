package feedback

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Conversly/prompt-relay/internal/loaders"
)

var (
	// ErrStoreDisabled is returned when no completion log is configured.
	ErrStoreDisabled = errors.New("completion log is not configured")
	ErrInvalid       = errors.New("invalid feedback")
)

// notFoundRetryDelay gives an in-flight completion insert time to land.
const notFoundRetryDelay = 250 * time.Millisecond

type Service struct {
	store loaders.CompletionStore
}

// NewService accepts a nil store; every submission then fails with ErrStoreDisabled.
func NewService(store loaders.CompletionStore) *Service {
	return &Service{store: store}
}

// ParseFeedback maps a feedback label to its stored value.
func ParseFeedback(label string) (int16, error) {
	switch label {
	case "like":
		return 1, nil
	case "dislike":
		return 2, nil
	case "neutral":
		return 3, nil
	case "", "none":
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrInvalid, label)
	}
}

// SubmitFeedback validates the request and updates the stored completion.
//
// Completions are recorded in the background after the reply is sent, so
// feedback can arrive before its row exists. A loaders.ErrNotFound from the
// store is therefore retried once after a short delay before being returned.
func (s *Service) SubmitFeedback(ctx context.Context, req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: nil request", ErrInvalid)
	}

	if _, err := uuid.Parse(req.MessageID); err != nil {
		return fmt.Errorf("%w: message id %q is not a UUID", ErrInvalid, req.MessageID)
	}

	val, err := ParseFeedback(req.Feedback)
	if err != nil {
		return err
	}

	if s.store == nil {
		return ErrStoreDisabled
	}

	var commentPtr *string
	if req.Comment != "" {
		commentPtr = &req.Comment
	}

	err = s.store.UpdateCompletionFeedback(ctx, req.MessageID, val, commentPtr)
	if !errors.Is(err, loaders.ErrNotFound) {
		return err
	}

	timer := time.NewTimer(notFoundRetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return err
	case <-timer.C:
	}
	return s.store.UpdateCompletionFeedback(ctx, req.MessageID, val, commentPtr)
}
