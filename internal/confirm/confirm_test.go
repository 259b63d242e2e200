package confirm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestParseAnswer(t *testing.T) {
	testCases := []struct {
		answer   string
		expected Decision
	}{
		{answer: "\n", expected: DecisionNo},
		{answer: "   ", expected: DecisionNo},
		{answer: "y\n", expected: DecisionYes},
		{answer: "YES\n", expected: DecisionYes},
		{answer: "  yes  ", expected: DecisionYes},
		{answer: "n\n", expected: DecisionNo},
		{answer: "yep\n", expected: DecisionNo},
		{answer: "no\n", expected: DecisionNo},
	}
	for _, testCase := range testCases {
		if actual := ParseAnswer(testCase.answer); actual != testCase.expected {
			t.Fatalf("ParseAnswer(%q) = %s, expected %s", testCase.answer, actual, testCase.expected)
		}
	}
}

func TestLinePrompterConfirm(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Decision
	}{
		{name: "enter_declines", input: "\n", expected: DecisionNo},
		{name: "yes_accepts", input: "yes\n", expected: DecisionYes},
		{name: "no_declines", input: "n\n", expected: DecisionNo},
		{name: "eof_declines", input: "", expected: DecisionNo},
		{name: "answer_without_newline", input: "y", expected: DecisionYes},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var prompt bytes.Buffer
			prompter := LinePrompter{Input: strings.NewReader(testCase.input), Output: &prompt}
			decision, err := prompter.Confirm(context.Background(), "feat: Add parser")
			if err != nil {
				t.Fatalf("Confirm error: %v", err)
			}
			if decision != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, decision)
			}
			if prompt.String() != linePromptText {
				t.Fatalf("unexpected prompt %q", prompt.String())
			}
		})
	}
}

func TestLinePrompterHonorsCancellation(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	decision, err := LinePrompter{Input: reader, Output: io.Discard}.Confirm(ctx, "message")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if decision != DecisionNo {
		t.Fatalf("cancellation must decline, got %s", decision)
	}
}

func TestChoiceModelKeys(t *testing.T) {
	testCases := []struct {
		name     string
		keys     []tea.KeyMsg
		expected Decision
	}{
		{name: "enter_on_first_item", keys: []tea.KeyMsg{{Type: tea.KeyEnter}}, expected: DecisionYes},
		{name: "down_then_enter", keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyEnter}}, expected: DecisionNo},
		{name: "down_twice_then_enter", keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyDown}, {Type: tea.KeyEnter}}, expected: DecisionRedo},
		{name: "shortcut_redo", keys: []tea.KeyMsg{{Type: tea.KeyRunes, Runes: []rune("r")}}, expected: DecisionRedo},
		{name: "shortcut_yes", keys: []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyRunes, Runes: []rune("y")}}, expected: DecisionYes},
		{name: "escape_declines", keys: []tea.KeyMsg{{Type: tea.KeyEsc}}, expected: DecisionNo},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var current tea.Model = newChoiceModel("feat: Add parser")
			var lastCommand tea.Cmd
			for _, key := range testCase.keys {
				current, lastCommand = current.Update(key)
			}
			final, ok := current.(choiceModel)
			if !ok {
				t.Fatalf("unexpected model type %T", current)
			}
			if !final.done {
				t.Fatalf("expected the prompt to finish")
			}
			if final.decision != testCase.expected {
				t.Fatalf("expected %s, got %s", testCase.expected, final.decision)
			}
			if lastCommand == nil {
				t.Fatalf("expected a quit command")
			}
			if _, isQuit := lastCommand().(tea.QuitMsg); !isQuit {
				t.Fatalf("expected tea.QuitMsg")
			}
			if final.View() != "" {
				t.Fatalf("finished prompt must render nothing")
			}
		})
	}
}

func TestChoiceModelViewShowsMessage(t *testing.T) {
	view := newChoiceModel("feat: Add parser").View()
	if !strings.Contains(view, "feat: Add parser") || !strings.Contains(view, "Redo, generate another message") {
		t.Fatalf("unexpected view:\n%s", view)
	}
}
