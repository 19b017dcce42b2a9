package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/utils"
)

// LocalAdapter posts a prompt to a local Ollama server's OpenAI-compatible
// completions endpoint. Every failure is folded into the returned Result.
type LocalAdapter struct {
	client   *http.Client
	endpoint string
	model    string
}

var _ completion.Completer = (*LocalAdapter)(nil)

// NewLocalAdapter uses client for every call; a nil client falls back to
// http.DefaultClient.
func NewLocalAdapter(client *http.Client, endpoint, model string) *LocalAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	return &LocalAdapter{client: client, endpoint: endpoint, model: model}
}

func (a *LocalAdapter) Name() string { return "local" }

func (a *LocalAdapter) Model() string { return a.model }

func (a *LocalAdapter) Endpoint() string { return a.endpoint }

type localRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type localResponse struct {
	Choices []*localChoice `json:"choices"`
}

type localChoice struct {
	Text *string `json:"text"`
}

// EncodeRequest renders the request body sent for prompt.
func (a *LocalAdapter) EncodeRequest(prompt string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(localRequest{Model: a.model, Prompt: prompt}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (a *LocalAdapter) Complete(ctx context.Context, prompt string) completion.Result {
	body, err := a.EncodeRequest(prompt)
	if err != nil {
		return a.internalFailure(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return a.internalFailure(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		// A cancelled caller is not an unreachable service.
		if ctx.Err() != nil {
			return a.internalFailure(ctx.Err())
		}
		utils.Zlog.Error("HTTP request to local model failed",
			zap.String("endpoint", a.endpoint),
			zap.Error(err))
		return completion.Failed(completion.KindTransport,
			fmt.Sprintf("Error: Unable to connect to the Ollama service at %s. Please ensure the service is running.", a.endpoint),
			err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return completion.HTTPStatus(resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return a.internalFailure(fmt.Errorf("failed to read response: %w", err))
	}

	var out localResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		utils.Zlog.Error("Failed to decode local model response",
			zap.String("endpoint", a.endpoint),
			zap.Error(err))
		return completion.Failed(completion.KindDecode, "Error: "+err.Error(), err)
	}

	if len(out.Choices) == 0 {
		utils.Zlog.Error("Local model returned no choices", zap.String("endpoint", a.endpoint))
		return completion.Failed(completion.KindEmptyChoices, "Error: response contained no choices", nil)
	}

	// A null choice is malformed; only a null or absent text means no response.
	if out.Choices[0] == nil {
		utils.Zlog.Error("Local model returned a null choice", zap.String("endpoint", a.endpoint))
		return completion.Failed(completion.KindDecode, "Error: first choice in response is null", nil)
	}

	if out.Choices[0].Text == nil {
		return completion.OK(completion.NoResponseText)
	}
	return completion.OK(*out.Choices[0].Text)
}

func (a *LocalAdapter) internalFailure(err error) completion.Result {
	utils.Zlog.Error("Local completion failed",
		zap.String("endpoint", a.endpoint),
		zap.Error(err))
	return completion.Failed(completion.KindInternal, "Error: "+err.Error(), err)
}
