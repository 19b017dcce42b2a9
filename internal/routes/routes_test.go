package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Conversly/prompt-relay/internal/completion"
	"github.com/Conversly/prompt-relay/internal/config"
	"github.com/Conversly/prompt-relay/internal/routes"
)

type echoCompleter struct{ name string }

func (e echoCompleter) Name() string { return e.name }

func (e echoCompleter) Complete(_ context.Context, prompt string) completion.Result {
	return completion.OK(prompt)
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		ServiceName:    "prompt-relay",
		AllowedOrigins: []string{"*"},
		HostedProvider: config.ProviderOpenAI,
		HostedModel:    "gpt-4",
		OpenAIAPIKeys:  []string{"sk-secret"},
		OllamaEndpoint: config.DefaultOllamaEndpoint,
		OllamaModel:    config.DefaultOllamaModel,
	}
	router := gin.New()
	routes.SetupRoutes(router, cfg, nil, echoCompleter{"hosted"}, echoCompleter{"local"})
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRoutes_Wiring(t *testing.T) {
	router := newEngine()

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/status", "").Code)

	w := serve(router, http.MethodPost, "/api/v1/completions/local", `{"prompt":"ping"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"response":"ping"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = serve(router, http.MethodPost, "/api/v1/feedback", `{"messageId":"01890a5d-ac96-774b-bcce-b302099a8057","feedback":"like"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRoutes_InfoHidesKeys(t *testing.T) {
	w := serve(newEngine(), http.MethodGet, "/api/v1/info", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model":"gpt-4"`)
	assert.NotContains(t, w.Body.String(), "sk-secret")
}

func TestRoutes_NotFound(t *testing.T) {
	w := serve(newEngine(), http.MethodGet, "/nope", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"path":"/nope"`)
}
