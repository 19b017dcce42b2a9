package llm

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// MultiKeyChatModel wraps one chat model per API key and rotates between them
// round-robin so requests spread across keys.
type MultiKeyChatModel struct {
	models   []model.BaseChatModel
	keyIndex uint64 // atomic counter for round-robin selection
}

var _ model.BaseChatModel = (*MultiKeyChatModel)(nil)

// NewMultiKeyChatModel builds one model per key with build.
func NewMultiKeyChatModel(ctx context.Context, apiKeys []string, build func(ctx context.Context, apiKey string) (model.BaseChatModel, error)) (*MultiKeyChatModel, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}

	models := make([]model.BaseChatModel, len(apiKeys))
	for i, key := range apiKeys {
		chatModel, err := build(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model for key %d: %w", i+1, err)
		}
		models[i] = chatModel
	}

	return &MultiKeyChatModel{models: models}, nil
}

// Size returns the number of keys in rotation.
func (m *MultiKeyChatModel) Size() int {
	return len(m.models)
}

// next is safe for concurrent use.
func (m *MultiKeyChatModel) next() model.BaseChatModel {
	if len(m.models) == 1 {
		return m.models[0]
	}
	idx := atomic.AddUint64(&m.keyIndex, 1)
	return m.models[idx%uint64(len(m.models))]
}

// Generate implements model.BaseChatModel
func (m *MultiKeyChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	return m.next().Generate(ctx, input, opts...)
}

// Stream implements model.BaseChatModel
func (m *MultiKeyChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return m.next().Stream(ctx, input, opts...)
}
