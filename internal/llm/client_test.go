package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cerr "github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRequest() Request {
	return Request{
		Model:       "llama3",
		Prompt:      "changes",
		System:      "you write commits",
		Temperature: 0.2,
		TopP:        0.9,
		MaxTokens:   256,
		Stop:        []string{"</commit>"},
	}
}

func TestOllamaGenerate(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, http.MethodPost, request.Method)
		assert.Equal(t, "/api/generate", request.URL.Path)
		assert.Equal(t, "application/json", request.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&captured))
		_, _ = writer.Write([]byte(`{"response":"<commit><message>Add x</message></commit>","done":true}`))
	}))
	defer server.Close()

	client, newError := New(Configuration{Provider: "ollama", Endpoint: server.URL + "/"})
	require.NoError(t, newError)
	text, generateError := client.Generate(context.Background(), sampleRequest())
	require.NoError(t, generateError)
	assert.Equal(t, "<commit><message>Add x</message></commit>", text)

	assert.Equal(t, "llama3", captured["model"])
	assert.Equal(t, "changes", captured["prompt"])
	assert.Equal(t, "you write commits", captured["system"])
	assert.Equal(t, false, captured["stream"])
	options, ok := captured["options"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 0.2, options["temperature"], 1e-9)
	assert.InDelta(t, 0.9, options["top_p"], 1e-9)
	assert.InDelta(t, 256, options["num_predict"], 1e-9)
	assert.Equal(t, []any{"</commit>"}, options["stop"])
}

func TestOllamaErrorsCarryHints(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		http.Error(writer, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client, newError := New(Configuration{Endpoint: server.URL})
	require.NoError(t, newError)
	_, generateError := client.Generate(context.Background(), sampleRequest())
	require.Error(t, generateError)
	assert.Contains(t, generateError.Error(), "status 404")
	assert.Contains(t, strings.Join(cerr.GetAllHints(generateError), "\n"), "ollama pull llama3")
}

func TestOllamaUnreachableEndpointHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client, newError := New(Configuration{Endpoint: endpoint, Timeout: time.Second})
	require.NoError(t, newError)
	_, generateError := client.Generate(context.Background(), sampleRequest())
	require.Error(t, generateError)
	assert.Contains(t, strings.Join(cerr.GetAllHints(generateError), "\n"), "is Ollama running at "+endpoint)
}

func TestOllamaHonoursContextCancellation(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-release
	}))
	defer server.Close()
	defer close(release)

	client, newError := New(Configuration{Endpoint: server.URL})
	require.NoError(t, newError)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, generateError := client.Generate(ctx, sampleRequest())
	require.Error(t, generateError)
	assert.ErrorIs(t, generateError, context.DeadlineExceeded)
}

func TestOpenAIGenerate(t *testing.T) {
	var captured openAIChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/chat/completions", request.URL.Path)
		assert.Equal(t, "Bearer secret", request.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(request.Body).Decode(&captured))
		_, _ = writer.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"<files><file>a.go</file>"}}]}`))
	}))
	defer server.Close()

	client, newError := New(Configuration{Provider: "OpenAI", Endpoint: server.URL, APIKey: "secret"})
	require.NoError(t, newError)
	text, generateError := client.Generate(context.Background(), sampleRequest())
	require.NoError(t, generateError)
	assert.Equal(t, "<files><file>a.go</file>", text)

	require.Len(t, captured.Messages, 2)
	assert.Equal(t, openAIMessage{Role: "system", Content: "you write commits"}, captured.Messages[0])
	assert.Equal(t, openAIMessage{Role: "user", Content: "changes"}, captured.Messages[1])
	assert.Equal(t, 256, captured.MaxTokens)
	assert.Equal(t, []string{"</commit>"}, captured.Stop)
}

func TestOpenAIUnauthorizedHint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, newError := New(Configuration{Provider: ProviderOpenAI, Endpoint: server.URL, APIKey: "bad"})
	require.NoError(t, newError)
	_, generateError := client.Generate(context.Background(), sampleRequest())
	require.Error(t, generateError)
	assert.Contains(t, cerr.GetAllHints(generateError), "verify OPENAI_API_KEY")
}

func TestOpenAIEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		_, _ = writer.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client, newError := New(Configuration{Provider: ProviderOpenAI, Endpoint: server.URL, APIKey: "key"})
	require.NoError(t, newError)
	_, generateError := client.Generate(context.Background(), sampleRequest())
	require.Error(t, generateError)
	assert.Contains(t, generateError.Error(), "no choices")
}

func TestNewValidatesConfiguration(t *testing.T) {
	_, unknownError := New(Configuration{Provider: "bard"})
	require.Error(t, unknownError)
	assert.True(t, cerr.Is(unknownError, ErrUnknownProvider))

	_, keyError := New(Configuration{Provider: ProviderOpenAI})
	require.Error(t, keyError)
	assert.True(t, cerr.Is(keyError, ErrMissingAPIKey))

	client, defaultError := New(Configuration{})
	require.NoError(t, defaultError)
	ollama, ok := client.(*OllamaClient)
	require.True(t, ok)
	assert.Equal(t, DefaultOllamaEndpoint, ollama.Endpoint())
}
