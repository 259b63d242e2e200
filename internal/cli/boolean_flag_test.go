package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRegisterBooleanFlagParsesValues(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		defaultValue bool
		arguments    []string
		expected     bool
		expectError  bool
	}{
		{
			name:         "defaults_to_false",
			defaultValue: false,
			arguments:    []string{},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_without_value",
			defaultValue: false,
			arguments:    []string{"--feature"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_false_with_equals",
			defaultValue: true,
			arguments:    []string{"--feature=false"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_false_with_no_literal",
			defaultValue: true,
			arguments:    []string{"--feature", "no"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "sets_true_with_on_literal",
			defaultValue: false,
			arguments:    []string{"--feature", "on"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_true_with_shorthand",
			defaultValue: false,
			arguments:    []string{"-f"},
			expected:     true,
			expectError:  false,
		},
		{
			name:         "sets_false_with_shorthand_literal",
			defaultValue: true,
			arguments:    []string{"-f", "no"},
			expected:     false,
			expectError:  false,
		},
		{
			name:         "rejects_unknown_literal_with_equals",
			defaultValue: false,
			arguments:    []string{"--feature=maybe"},
			expected:     false,
			expectError:  true,
		},
		{
			name:         "ignores_non_boolean_trailing_value",
			defaultValue: false,
			arguments:    []string{"--feature", "maybe"},
			expected:     true,
			expectError:  false,
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			command := &cobra.Command{Use: "boolean-test"}
			flagSet := command.Flags()
			flagValue := !testCase.defaultValue
			registerBooleanFlag(flagSet, &flagValue, "feature", "f", testCase.defaultValue, "toggle feature behaviour")
			normalizedArguments := normalizeBooleanFlagArguments(command, testCase.arguments)
			parseErr := command.ParseFlags(normalizedArguments)
			if testCase.expectError {
				if parseErr == nil {
					t.Fatalf("expected parse error for arguments %v", testCase.arguments)
				}
				return
			}
			if parseErr != nil {
				t.Fatalf("unexpected parse error: %v", parseErr)
			}
			if len(testCase.arguments) == 0 && flagValue != testCase.defaultValue {
				t.Fatalf("expected default %t, got %t", testCase.defaultValue, flagValue)
			}
			if flagValue != testCase.expected {
				t.Fatalf("expected %t, got %t", testCase.expected, flagValue)
			}
		})
	}
}

func TestNormalizeBooleanFlagArguments(t *testing.T) {
	command := &cobra.Command{Use: "normalize-test"}
	var dryRun, assumeYes bool
	var issue int
	registerBooleanFlag(command.Flags(), &dryRun, "dry-run", "", false, "dry run")
	registerBooleanFlag(command.Flags(), &assumeYes, "yes", "y", false, "assume yes")
	command.Flags().IntVarP(&issue, "issue", "i", 0, "issue")

	testCases := []struct {
		name      string
		arguments []string
		expected  []string
	}{
		{name: "joins_long_literal", arguments: []string{"--dry-run", "off"}, expected: []string{"--dry-run=off"}},
		{name: "joins_short_literal", arguments: []string{"-y", "yes"}, expected: []string{"-y=yes"}},
		{name: "leaves_integer_flags", arguments: []string{"-i", "1"}, expected: []string{"-i", "1"}},
		{name: "leaves_explicit_values", arguments: []string{"--dry-run=true", "no"}, expected: []string{"--dry-run=true", "no"}},
		{name: "stops_at_terminator", arguments: []string{"--", "--dry-run", "no"}, expected: []string{"--", "--dry-run", "no"}},
		{name: "leaves_following_flags", arguments: []string{"--dry-run", "-y"}, expected: []string{"--dry-run", "-y"}},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			actual := normalizeBooleanFlagArguments(command, testCase.arguments)
			if strings.Join(actual, " ") != strings.Join(testCase.expected, " ") {
				t.Fatalf("expected %v, got %v", testCase.expected, actual)
			}
		})
	}
}
