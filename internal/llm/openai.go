package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	cerr "github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	openAIChatPath      = "/v1/chat/completions"
	authorizationHeader = "Authorization"
	bearerPrefix        = "Bearer "
	roleSystem          = "system"
	roleUser            = "user"
)

// OpenAIClient calls an OpenAI-compatible chat completions API.
type OpenAIClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
	logger   *zap.Logger
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	TopP        float64         `json:"top_p"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Stop        []string        `json:"stop,omitempty"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate sends the system and user prompts as chat messages and returns the first choice.
func (client *OpenAIClient) Generate(ctx context.Context, request Request) (string, error) {
	var messages []openAIMessage
	if request.System != "" {
		messages = append(messages, openAIMessage{Role: roleSystem, Content: request.System})
	}
	messages = append(messages, openAIMessage{Role: roleUser, Content: request.Prompt})

	payload, marshalError := json.Marshal(openAIChatRequest{
		Model:       request.Model,
		Messages:    messages,
		Temperature: request.Temperature,
		TopP:        request.TopP,
		MaxTokens:   request.MaxTokens,
		Stop:        request.Stop,
	})
	if marshalError != nil {
		return "", cerr.Wrap(marshalError, "encode openai request")
	}

	url := client.endpoint + openAIChatPath
	httpRequest, requestError := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if requestError != nil {
		return "", cerr.Wrap(requestError, "build openai request")
	}
	httpRequest.Header.Set(contentTypeHeader, jsonContentType)
	httpRequest.Header.Set(authorizationHeader, bearerPrefix+client.apiKey)

	client.logger.Debug("openai request", zap.String("url", url), zap.String("model", request.Model), zap.Int("prompt_bytes", len(request.Prompt)))
	httpResponse, doError := client.http.Do(httpRequest)
	if doError != nil {
		return "", cerr.WithHintf(cerr.Wrap(doError, "call openai"), "check network access to %s", client.endpoint)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode != http.StatusOK {
		statusError := cerr.Newf("openai returned status %d: %s", httpResponse.StatusCode, readErrorBody(httpResponse.Body))
		if httpResponse.StatusCode == http.StatusUnauthorized {
			return "", cerr.WithHint(statusError, "verify OPENAI_API_KEY")
		}
		return "", statusError
	}

	var decoded openAIChatResponse
	if decodeError := json.NewDecoder(httpResponse.Body).Decode(&decoded); decodeError != nil {
		return "", cerr.Wrap(decodeError, "decode openai response")
	}
	if decoded.Error != nil {
		return "", cerr.Newf("openai error: %s - %s", decoded.Error.Type, decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", cerr.New("openai response has no choices")
	}
	return decoded.Choices[0].Message.Content, nil
}
