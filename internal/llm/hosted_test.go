package llm_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/llm"
)

type stubChatModel struct {
	fragments []string
	streamErr error
	stream    func() *schema.StreamReader[*schema.Message]

	calls int
	input []*schema.Message
	opts  *model.Options
}

func (s *stubChatModel) Generate(context.Context, []*schema.Message, ...model.Option) (*schema.Message, error) {
	return nil, errors.New("generate not used")
}

func (s *stubChatModel) Stream(_ context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	s.calls++
	s.input = input
	s.opts = model.GetCommonOptions(&model.Options{}, opts...)

	if s.streamErr != nil {
		return nil, s.streamErr
	}
	if s.stream != nil {
		return s.stream(), nil
	}

	msgs := make([]*schema.Message, len(s.fragments))
	for i, f := range s.fragments {
		msgs[i] = schema.AssistantMessage(f, nil)
	}
	return schema.StreamReaderFromArray(msgs), nil
}

func newHosted(stub *stubChatModel) *llm.HostedAdapter {
	return llm.NewHostedAdapter(stub, llm.HostedConfig{
		Provider:    "openai",
		Model:       "gpt-4",
		MaxTokens:   100,
		Temperature: 1,
	})
}

func TestHostedComplete_EmptyPrompt(t *testing.T) {
	for _, prompt := range []string{"", "   ", "\t\n"} {
		stub := &stubChatModel{fragments: []string{"unused"}}

		r := newHosted(stub).Complete(context.Background(), prompt)

		assert.Equal(t, "Prompt cannot be empty!", r.String())
		assert.Equal(t, completion.KindEmptyPrompt, r.Kind)
		assert.Zero(t, stub.calls, "provider must not be called for %q", prompt)
	}
}

func TestHostedComplete_ConcatenatesFragments(t *testing.T) {
	stub := &stubChatModel{fragments: []string{"Hel", "lo"}}

	r := newHosted(stub).Complete(context.Background(), "say hello")

	require.True(t, r.Success())
	assert.Equal(t, "Hello", r.String())
	assert.Equal(t, 1, stub.calls)
}

func TestHostedComplete_PreservesFragmentBytes(t *testing.T) {
	stub := &stubChatModel{fragments: []string{" a", "a", "", " \n", "é"}}

	r := newHosted(stub).Complete(context.Background(), "x")

	assert.Equal(t, " aa \né", r.Text)
}

func TestHostedComplete_SendsPromptAndParameters(t *testing.T) {
	stub := &stubChatModel{fragments: []string{"ok"}}

	newHosted(stub).Complete(context.Background(), "What is Go?")

	require.Len(t, stub.input, 1)
	assert.Equal(t, schema.User, stub.input[0].Role)
	assert.Equal(t, "What is Go?", stub.input[0].Content)

	require.NotNil(t, stub.opts.MaxTokens)
	assert.Equal(t, 100, *stub.opts.MaxTokens)
	require.NotNil(t, stub.opts.Temperature)
	assert.Equal(t, float32(1), *stub.opts.Temperature)
	require.NotNil(t, stub.opts.Model)
	assert.Equal(t, "gpt-4", *stub.opts.Model)
}

func TestHostedComplete_StreamError(t *testing.T) {
	stub := &stubChatModel{streamErr: errors.New("401 invalid api key")}

	r := newHosted(stub).Complete(context.Background(), "hi")

	assert.False(t, r.Success())
	assert.Equal(t, completion.KindProvider, r.Kind)
	assert.Equal(t, "Error: 401 invalid api key", r.String())
}

func TestHostedComplete_MidStreamError(t *testing.T) {
	boom := errors.New("stream reset")
	stub := &stubChatModel{stream: func() *schema.StreamReader[*schema.Message] {
		sr, sw := schema.Pipe[*schema.Message](2)
		go func() {
			defer sw.Close()
			sw.Send(schema.AssistantMessage("par", nil), nil)
			sw.Send(nil, boom)
		}()
		return sr
	}}

	r := newHosted(stub).Complete(context.Background(), "hi")

	assert.Equal(t, completion.KindProvider, r.Kind)
	assert.ErrorIs(t, r.Err(), boom)
}

func TestHostedStream_YieldsFragmentsInOrder(t *testing.T) {
	stub := &stubChatModel{fragments: []string{"a", "b", "c"}}

	stream, err := newHosted(stub).Stream(context.Background(), "abc")
	require.NoError(t, err)
	defer stream.Close()

	var got []string
	for {
		f, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, f)
	}

	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 3, stream.Count())
}

func TestHostedStream_EmptyPrompt(t *testing.T) {
	stub := &stubChatModel{}

	_, err := newHosted(stub).Stream(context.Background(), " ")

	assert.ErrorIs(t, err, llm.ErrEmptyPrompt)
	assert.Zero(t, stub.calls)
}
