// Package llm calls generative language models over HTTP.
package llm

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// Supported providers.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

const (
	// DefaultOllamaEndpoint is the local Ollama API.
	DefaultOllamaEndpoint = "http://localhost:11434"
	// DefaultOpenAIEndpoint is the public OpenAI API.
	DefaultOpenAIEndpoint = "https://api.openai.com"
	// DefaultTimeout bounds a single generation request.
	DefaultTimeout = 120 * time.Second

	contentTypeHeader   = "Content-Type"
	jsonContentType     = "application/json"
	errorBodyLimitBytes = 2048
)

// ErrUnknownProvider is returned for providers other than ollama and openai.
var ErrUnknownProvider = cerr.New("unknown language model provider")

// ErrMissingAPIKey is returned when the openai provider has no key.
var ErrMissingAPIKey = cerr.New("missing API key")

// Request describes one non-streaming generation.
type Request struct {
	Model       string
	Prompt      string
	System      string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Stop        []string
}

// Client generates text for a request.
type Client interface {
	Generate(ctx context.Context, request Request) (string, error)
}

// Configuration selects and parameterizes a provider.
type Configuration struct {
	Provider string
	Endpoint string
	Timeout  time.Duration
	APIKey   string
}

// Option customizes a client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
	logger     *zap.Logger
}

// WithHTTPClient replaces the HTTP client built from the configured timeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(options *clientOptions) {
		options.httpClient = httpClient
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(options *clientOptions) {
		options.logger = logger
	}
}

// New builds the client for the configured provider.
func New(configuration Configuration, options ...Option) (Client, error) {
	resolved := clientOptions{}
	for _, option := range options {
		option(&resolved)
	}
	timeout := configuration.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if resolved.httpClient == nil {
		resolved.httpClient = &http.Client{Timeout: timeout}
	}
	if resolved.logger == nil {
		resolved.logger = zap.NewNop()
	}

	provider := strings.ToLower(strings.TrimSpace(configuration.Provider))
	switch provider {
	case "", ProviderOllama:
		return &OllamaClient{
			endpoint: endpointOrDefault(configuration.Endpoint, DefaultOllamaEndpoint),
			http:     resolved.httpClient,
			logger:   resolved.logger,
		}, nil
	case ProviderOpenAI:
		if strings.TrimSpace(configuration.APIKey) == "" {
			return nil, cerr.WithHint(ErrMissingAPIKey, "set OPENAI_API_KEY or llm.api_key")
		}
		return &OpenAIClient{
			endpoint: endpointOrDefault(configuration.Endpoint, DefaultOpenAIEndpoint),
			apiKey:   configuration.APIKey,
			http:     resolved.httpClient,
			logger:   resolved.logger,
		}, nil
	default:
		return nil, cerr.WithHintf(cerr.Wrapf(ErrUnknownProvider, "provider %q", configuration.Provider),
			"use %q or %q", ProviderOllama, ProviderOpenAI)
	}
}

func endpointOrDefault(endpoint, fallback string) string {
	trimmed := strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if trimmed == "" {
		return fallback
	}
	return trimmed
}

func readErrorBody(body io.Reader) string {
	limited, _ := io.ReadAll(io.LimitReader(body, errorBodyLimitBytes))
	return strings.TrimSpace(string(limited))
}
