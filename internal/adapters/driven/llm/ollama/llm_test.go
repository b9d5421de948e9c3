package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentora-labs/mentora-cli/internal/core/ports/driven"
)

func TestGenerate_ReturnsCompletion(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{
			Response: "Go is a statically typed language.",
			Done:     true,
		})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL, Model: "llama3.2"})
	defer svc.Close()

	answer, err := svc.Generate(context.Background(), "What is Go?", driven.GenerateOptions{
		MaxTokens:   500,
		Temperature: 0.7,
	})
	require.NoError(t, err)

	assert.Equal(t, "Go is a statically typed language.", answer)
	assert.Equal(t, "llama3.2", gotReq.Model)
	assert.False(t, gotReq.Stream)
	require.NotNil(t, gotReq.Options)
	assert.Equal(t, 500, gotReq.Options.NumPredict)
	assert.InDelta(t, 0.7, gotReq.Options.Temperature, 0.001)
}

func TestGenerate_OmitsOptionsWhenZero(t *testing.T) {
	var gotReq generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		json.NewEncoder(w).Encode(generateResponse{Response: "ok", Done: true})
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.NoError(t, err)

	assert.Nil(t, gotReq.Options)
}

func TestGenerate_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	_, err := svc.Generate(context.Background(), "hello", driven.GenerateOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestDefaults(t *testing.T) {
	svc := NewLLMService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultBaseURL, svc.baseURL)
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewLLMService(Config{BaseURL: server.URL})

	require.NoError(t, svc.Ping(context.Background()))
}
