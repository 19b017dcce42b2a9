package completions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/loaders"
	"github.com/Conversly/prompt-relay/internal/types"
	"github.com/Conversly/prompt-relay/internal/utils"
)

// ErrUnknownAdapter is returned for an adapter name no backend is registered under.
var ErrUnknownAdapter = errors.New("unknown adapter")

const saveTimeout = 5 * time.Second

type modelNamer interface {
	Model() string
}

// Service dispatches prompts to the registered adapters and records the
// outcome when a store is configured.
type Service struct {
	adapters map[string]completion.Completer
	store    loaders.CompletionStore
}

// NewService registers adapters under their Name. store may be nil.
func NewService(store loaders.CompletionStore, adapters ...completion.Completer) *Service {
	m := make(map[string]completion.Completer, len(adapters))
	for _, a := range adapters {
		m[a.Name()] = a
	}
	return &Service{adapters: m, store: store}
}

// Adapters returns the registered adapter names, sorted.
func (s *Service) Adapters() []string {
	names := make([]string, 0, len(s.adapters))
	for name := range s.adapters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Complete runs prompt through the named adapter. The only error is
// ErrUnknownAdapter; adapter failures are reported inside the Response.
func (s *Service) Complete(ctx context.Context, adapterName, requestID, prompt string) (*Response, error) {
	adapter, ok := s.adapters[adapterName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAdapter, adapterName)
	}

	start := time.Now()
	result := adapter.Complete(ctx, prompt)
	latencyMS := time.Since(start).Milliseconds()

	var model string
	if mn, ok := adapter.(modelNamer); ok {
		model = mn.Model()
	}

	resp := &Response{
		RequestID:    requestID,
		Adapter:      adapterName,
		Model:        model,
		Response:     result.String(),
		BaseResponse: types.BaseResponse{Success: result.Success()},
		LatencyMS:    latencyMS,
	}
	if !result.Success() {
		resp.Error = &types.ErrorBody{Kind: string(result.Kind), Message: result.Message}
	}

	if msgUUID, err := uuid.NewV7(); err == nil {
		resp.MessageID = msgUUID.String()
	} else {
		utils.Zlog.Error("Failed to generate message id", zap.Error(err))
	}

	utils.Zlog.Info("Completion finished",
		zap.String("request_id", requestID),
		zap.String("adapter", adapterName),
		zap.String("kind", string(result.Kind)),
		zap.Int64("latency_ms", latencyMS))

	if s.store != nil && resp.MessageID != "" {
		row := loaders.CompletionRow{
			MessageID: resp.MessageID,
			RequestID: requestID,
			Adapter:   adapterName,
			Model:     model,
			Prompt:    prompt,
			Kind:      string(result.Kind),
			Response:  resp.Response,
			LatencyMS: latencyMS,
			CreatedAt: start,
		}
		// Save in background so the caller is not held by the database.
		go func() {
			saveCtx, cancel := context.WithTimeout(context.Background(), saveTimeout)
			defer cancel()
			if err := s.store.InsertCompletion(saveCtx, row); err != nil {
				utils.Zlog.Error("Failed to save completion", zap.Error(err))
			}
		}()
	}

	return resp, nil
}
