package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const ollamaGeneratePath = "/api/generate"

// OllamaClient calls the Ollama generate API without streaming.
type OllamaClient struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

type ollamaOptions struct {
	Temperature float64  `json:"temperature"`
	TopP        float64  `json:"top_p"`
	NumPredict  int      `json:"num_predict,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

// Endpoint returns the base URL.
func (client *OllamaClient) Endpoint() string {
	return client.endpoint
}

// Generate posts the request to /api/generate and returns the generated text.
func (client *OllamaClient) Generate(ctx context.Context, request Request) (string, error) {
	payload, marshalError := json.Marshal(ollamaGenerateRequest{
		Model:  request.Model,
		Prompt: request.Prompt,
		System: request.System,
		Stream: false,
		Options: ollamaOptions{
			Temperature: request.Temperature,
			TopP:        request.TopP,
			NumPredict:  request.MaxTokens,
			Stop:        request.Stop,
		},
	})
	if marshalError != nil {
		return "", cerr.Wrap(marshalError, "encode ollama request")
	}

	url := client.endpoint + ollamaGeneratePath
	httpRequest, requestError := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if requestError != nil {
		return "", cerr.Wrap(requestError, "build ollama request")
	}
	httpRequest.Header.Set(contentTypeHeader, jsonContentType)

	client.logger.Debug("ollama request", zap.String("url", url), zap.String("model", request.Model), zap.Int("prompt_bytes", len(request.Prompt)))
	httpResponse, doError := client.http.Do(httpRequest)
	if doError != nil {
		return "", cerr.WithHintf(cerr.Wrap(doError, "call ollama"), "is Ollama running at %s?", client.endpoint)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		body := readErrorBody(httpResponse.Body)
		statusError := cerr.Newf("ollama returned status %d: %s", httpResponse.StatusCode, body)
		if httpResponse.StatusCode == http.StatusNotFound {
			return "", cerr.WithHintf(statusError, "pull the model first: ollama pull %s", request.Model)
		}
		return "", statusError
	}

	var decoded ollamaGenerateResponse
	if decodeError := json.NewDecoder(httpResponse.Body).Decode(&decoded); decodeError != nil {
		return "", cerr.Wrap(decodeError, "decode ollama response")
	}
	if decoded.Error != "" {
		return "", cerr.Newf("ollama error: %s", decoded.Error)
	}
	return decoded.Response, nil
}
