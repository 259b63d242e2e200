// Package confirm asks the user whether a generated commit message should be committed.
package confirm

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Decision is the user's answer to the confirmation prompt.
type Decision int

const (
	// DecisionNo aborts without committing.
	DecisionNo Decision = iota
	// DecisionYes creates the commit.
	DecisionYes
	// DecisionRedo generates a new message.
	DecisionRedo
)

const (
	linePromptText         = "Do you want to proceed with this commit? [y/N] "
	terminalDevicePath     = "/dev/tty"
	readAnswerErrorFormat  = "read confirmation: %w"
	writePromptErrorFormat = "write confirmation prompt: %w"
	shortAcceptedAnswer    = "y"
	longAcceptedAnswer     = "yes"
)

func (decision Decision) String() string {
	switch decision {
	case DecisionYes:
		return "yes"
	case DecisionRedo:
		return "redo"
	default:
		return "no"
	}
}

// Prompter asks for a Decision about message.
type Prompter interface {
	Confirm(ctx context.Context, message string) (Decision, error)
}

// LinePrompter reads a single [y/N] answer. An empty answer declines.
type LinePrompter struct {
	Input  io.Reader
	Output io.Writer
}

// Confirm prints the prompt and interprets the next input line.
// End of input without an answer, or no input at all, declines.
func (prompter LinePrompter) Confirm(ctx context.Context, message string) (Decision, error) {
	if prompter.Input == nil {
		return DecisionNo, nil
	}
	if _, writeError := fmt.Fprint(prompter.Output, linePromptText); writeError != nil {
		return DecisionNo, fmt.Errorf(writePromptErrorFormat, writeError)
	}

	type answer struct {
		text string
		err  error
	}
	answers := make(chan answer, 1)
	go func() {
		text, readError := bufio.NewReader(prompter.Input).ReadString('\n')
		answers <- answer{text: text, err: readError}
	}()

	select {
	case <-ctx.Done():
		return DecisionNo, ctx.Err()
	case received := <-answers:
		if received.err != nil {
			if errors.Is(received.err, io.EOF) {
				if strings.TrimSpace(received.text) == "" {
					return DecisionNo, nil
				}
				return ParseAnswer(received.text), nil
			}
			return DecisionNo, fmt.Errorf(readAnswerErrorFormat, received.err)
		}
		return ParseAnswer(received.text), nil
	}
}

// ParseAnswer accepts "y" and "yes" in any case. Everything else, including an empty answer, declines.
func ParseAnswer(text string) Decision {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case shortAcceptedAnswer, longAcceptedAnswer:
		return DecisionYes
	default:
		return DecisionNo
	}
}

// IsInteractive reports whether output is a terminal and /dev/tty can be opened.
func IsInteractive(output *os.File) bool {
	if output == nil || !term.IsTerminal(int(output.Fd())) {
		return false
	}
	tty, openError := os.Open(terminalDevicePath)
	if openError != nil {
		return false
	}
	defer tty.Close()
	return true
}

// New returns the list prompt on an interactive terminal and the line prompt otherwise.
func New(input *os.File, output *os.File) Prompter {
	var reader io.Reader
	if input != nil {
		reader = input
	}
	if !IsInteractive(output) {
		return LinePrompter{Input: reader, Output: output}
	}
	return ListPrompter{Input: reader, Output: output}
}
