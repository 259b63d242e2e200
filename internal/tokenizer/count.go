package tokenizer

import (
	"errors"
	"unicode/utf8"
)

var errNilCounter = errors.New("nil tokenizer counter")

// CountResult captures the outcome of counting a byte slice.
type CountResult struct {
	Tokens  int
	Counted bool
}

// CountBytes estimates tokens for data. Invalid UTF-8 is reported as not counted.
func CountBytes(counter Counter, data []byte) (CountResult, error) {
	if counter == nil {
		return CountResult{}, errNilCounter
	}
	if !utf8.Valid(data) {
		return CountResult{Counted: false}, nil
	}
	tokens, err := counter.CountString(string(data))
	if err != nil {
		return CountResult{}, err
	}
	return CountResult{Tokens: tokens, Counted: true}, nil
}

// CountPrompt sums the tokens of a system prompt and its context text.
// Parts that are not valid UTF-8 contribute nothing.
func CountPrompt(counter Counter, system, text string) (int, error) {
	if counter == nil {
		return 0, errNilCounter
	}
	total := 0
	for _, part := range []string{system, text} {
		if part == "" {
			continue
		}
		result, err := CountBytes(counter, []byte(part))
		if err != nil {
			return 0, err
		}
		total += result.Tokens
	}
	return total, nil
}
