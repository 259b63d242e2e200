// Package tokenizer estimates prompt sizes with tiktoken encodings.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktokenloader "github.com/pkoukk/tiktoken-go-loader"
)

// Counter estimates token counts for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

// Config selects the encoding from the configured model name.
type Config struct {
	Model string
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"

	loadEncodingErrorFormat = "load %s encoding: %w"
)

var (
	errNilEncoding = errors.New("nil tiktoken encoding")

	installOfflineLoader sync.Once

	openAIModelPrefixes = []string{"gpt-", "o1", "o3", "o4", "chatgpt-", "text-embedding", "davinci", "babbage"}
)

type encodingCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter encodingCounter) Name() string {
	return counter.name
}

func (counter encodingCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errNilEncoding
	}
	return len(counter.encoding.Encode(input, nil, nil)), nil
}

// NewCounter returns a Counter for the model and the name its counts are reported under.
// Models without a published tiktoken encoding, such as local Ollama models, are estimated with cl100k_base.
// Encodings are read from the embedded BPE files, so no network access is needed.
func NewCounter(cfg Config) (Counter, string, error) {
	installOfflineLoader.Do(func() {
		tiktoken.SetBpeLoader(tiktokenloader.NewOfflineLoader())
	})
	model := strings.ToLower(strings.TrimSpace(cfg.Model))
	if model == "" {
		model = defaultModel
	}
	if isOpenAIModel(model) {
		if encoding, err := tiktoken.EncodingForModel(model); err == nil && encoding != nil {
			return encodingCounter{encoding: encoding, name: model}, model, nil
		}
	}
	encoding, err := tiktoken.GetEncoding(defaultEncodingName)
	if err != nil {
		return nil, "", fmt.Errorf(loadEncodingErrorFormat, defaultEncodingName, err)
	}
	return encodingCounter{encoding: encoding, name: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(model string) bool {
	for _, prefix := range openAIModelPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}
