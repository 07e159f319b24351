package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelsHandler(ids ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		models := make([]openai.Model, 0, len(ids))
		for _, id := range ids {
			models = append(models, openai.Model{ID: id, Object: "model"})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ModelsList{Models: models}) //nolint:errcheck
	}
}

func TestAvailable(t *testing.T) {
	srv := httptest.NewServer(modelsHandler("llama3.2:1b"))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	assert.True(t, c.Available(context.Background()))
}

func TestAvailable_ServerDown(t *testing.T) {
	srv := httptest.NewServer(modelsHandler())
	srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	assert.False(t, c.Available(context.Background()))
}

func TestPickModel_PrefersSmallModels(t *testing.T) {
	srv := httptest.NewServer(modelsHandler("llama2:7b", "phi3:mini", "mistral:latest"))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	model, err := c.PickModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "phi3:mini", model)
}

func TestPickModel_FallsBackToFirstInstalled(t *testing.T) {
	srv := httptest.NewServer(modelsHandler("mistral:latest", "gemma:2b"))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	model, err := c.PickModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "mistral:latest", model)
}

func TestPickModel_NoneInstalled(t *testing.T) {
	srv := httptest.NewServer(modelsHandler())
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.PickModel(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no models installed")
}

func TestPickModel_Pinned(t *testing.T) {
	// A pinned model needs no server round trip.
	c := NewClient(WithBaseURL("http://127.0.0.1:1"), WithModel("llama3.2:3b"))
	model, err := c.PickModel(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "llama3.2:3b", model)
}

func TestGenerate(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", modelsHandler("llama3.2:1b"))
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2:1b", req.Model)
		assert.InDelta(t, 0.1, req.Temperature, 1e-6)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "Analysez ce plan.", req.Messages[0].Content)

		resp := openai.ChatCompletionResponse{
			ID:     "cmpl-1",
			Object: "chat.completion",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Score total: 72/100"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	out, err := c.Generate(context.Background(), "Analysez ce plan.")
	require.NoError(t, err)
	assert.Equal(t, "Score total: 72/100", out)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/models", modelsHandler("llama3.2:1b"))
	mux.HandleFunc("/chat/completions", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(openai.ChatCompletionResponse{Object: "chat.completion"}) //nolint:errcheck
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Generate(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty completion")
}
