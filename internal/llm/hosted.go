package llm

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/utils"
)

// ErrEmptyPrompt is returned by Stream for a blank prompt.
var ErrEmptyPrompt = errors.New("prompt is empty")

// HostedConfig is fixed when the adapter is built.
type HostedConfig struct {
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float32
}

// HostedAdapter forwards a prompt to a hosted chat model and joins the
// streamed reply into one string.
type HostedAdapter struct {
	chatModel model.BaseChatModel
	cfg       HostedConfig
}

var _ completion.Completer = (*HostedAdapter)(nil)

func NewHostedAdapter(chatModel model.BaseChatModel, cfg HostedConfig) *HostedAdapter {
	return &HostedAdapter{chatModel: chatModel, cfg: cfg}
}

func (a *HostedAdapter) Name() string { return "hosted" }

// Model returns the configured model identifier.
func (a *HostedAdapter) Model() string { return a.cfg.Model }

// Stream submits prompt and returns its reply as a sequence of fragments.
// The caller must Close the stream.
func (a *HostedAdapter) Stream(ctx context.Context, prompt string) (*FragmentStream, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyPrompt
	}

	sr, err := a.chatModel.Stream(ctx,
		[]*schema.Message{schema.UserMessage(prompt)},
		model.WithModel(a.cfg.Model),
		model.WithMaxTokens(a.cfg.MaxTokens),
		model.WithTemperature(a.cfg.Temperature),
	)
	if err != nil {
		return nil, err
	}
	return &FragmentStream{sr: sr}, nil
}

// Complete returns the full reply for prompt. Blank prompts short-circuit
// without calling the provider.
func (a *HostedAdapter) Complete(ctx context.Context, prompt string) completion.Result {
	if strings.TrimSpace(prompt) == "" {
		return completion.EmptyPrompt()
	}

	start := time.Now()
	stream, err := a.Stream(ctx, prompt)
	if err != nil {
		return a.providerFailure(err)
	}
	defer stream.Close()

	var sb strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return a.providerFailure(err)
		}
		sb.WriteString(fragment)
	}

	utils.Zlog.Debug("Hosted completion finished",
		zap.String("model", a.cfg.Model),
		zap.Int("fragments", stream.Count()),
		zap.Int64("latency_ms", time.Since(start).Milliseconds()))

	return completion.OK(sb.String())
}

func (a *HostedAdapter) providerFailure(err error) completion.Result {
	utils.Zlog.Error("Hosted completion failed",
		zap.String("provider", a.cfg.Provider),
		zap.String("model", a.cfg.Model),
		zap.Error(err))
	return completion.Failed(completion.KindProvider, "Error: "+err.Error(), err)
}

// FragmentStream yields the text fragments of one reply in arrival order.
// It is finite and cannot be restarted.
type FragmentStream struct {
	sr    *schema.StreamReader[*schema.Message]
	count int
}

// Recv returns the next fragment, or io.EOF once the reply is complete.
func (s *FragmentStream) Recv() (string, error) {
	for {
		msg, err := s.sr.Recv()
		if err != nil {
			return "", err
		}
		if msg == nil {
			continue
		}
		s.count++
		return msg.Content, nil
	}
}

// Count returns how many fragments have been received so far.
func (s *FragmentStream) Count() int { return s.count }

func (s *FragmentStream) Close() {
	s.sr.Close()
}
