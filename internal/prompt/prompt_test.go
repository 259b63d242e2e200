package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/response"
)

func numberedDiff(lineCount int) changes.FileChange {
	var builder strings.Builder
	for index := 1; index <= lineCount; index++ {
		builder.WriteString(fmt.Sprintf("+line %d\n", index))
	}
	return changes.FileChange{Status: changes.StatusModified, Diff: builder.String(), LineCount: lineCount}
}

func TestDetailedDiffVerbatimWithinLimit(t *testing.T) {
	limits := Limits{MaxDiffLines: 20, PreviewLines: 5, SummaryLines: 5}
	for lineCount := 0; lineCount <= limits.MaxDiffLines; lineCount++ {
		change := numberedDiff(lineCount)
		rendered := DetailedDiff(change, limits)
		if rendered != change.Diff {
			t.Fatalf("line_count %d: expected verbatim diff, got %q", lineCount, rendered)
		}
		if strings.Contains(rendered, "skipped") {
			t.Fatalf("line_count %d: unexpected skipped marker", lineCount)
		}
	}
}

func TestDetailedDiffVerbatimAddsMissingNewline(t *testing.T) {
	change := changes.FileChange{Status: changes.StatusAdded, Diff: "+a\n+b", LineCount: 2}
	if rendered := DetailedDiff(change, Limits{MaxDiffLines: 10}); rendered != "+a\n+b\n" {
		t.Fatalf("unexpected rendering %q", rendered)
	}
}

func TestDetailedDiffSkippedCount(t *testing.T) {
	testCases := []struct {
		name            string
		limits          Limits
		lineCount       int
		expectedSkipped int
	}{
		{name: "consistent_limits", limits: Limits{MaxDiffLines: 50, PreviewLines: 10, SummaryLines: 5}, lineCount: 51, expectedSkipped: 36},
		{name: "just_over", limits: Limits{MaxDiffLines: 3, PreviewLines: 1, SummaryLines: 1}, lineCount: 4, expectedSkipped: 2},
		{name: "inconsistent_limits_clamped", limits: Limits{MaxDiffLines: 10, PreviewLines: 8, SummaryLines: 8}, lineCount: 12, expectedSkipped: 0},
		{name: "zero_preview", limits: Limits{MaxDiffLines: 2, PreviewLines: 0, SummaryLines: 1}, lineCount: 6, expectedSkipped: 5},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			rendered := DetailedDiff(numberedDiff(testCase.lineCount), testCase.limits)
			marker := fmt.Sprintf("[...%d lines skipped...]\n", testCase.expectedSkipped)
			if !strings.Contains(rendered, marker) {
				t.Fatalf("expected marker %q in:\n%s", marker, rendered)
			}
			if strings.Contains(rendered, "[...-") {
				t.Fatalf("negative skipped count in:\n%s", rendered)
			}
			renderedLines := strings.Count(rendered, "+line ")
			if renderedLines > testCase.lineCount {
				t.Fatalf("head and tail overlap: %d lines rendered from %d", renderedLines, testCase.lineCount)
			}
		})
	}
}

func TestCommitContextEightyLineExample(t *testing.T) {
	changeSet := changes.ChangeSet{
		Summary: "Staged changes:\n  src/a.rs (modified)\n",
		Staged:  []string{"src/a.rs (modified)"},
		Files:   map[string]changes.FileChange{"src/a.rs": numberedDiff(80)},
	}
	limits := Limits{MaxDiffLines: 50, PreviewLines: 10, SummaryLines: 5, ShowFileStats: true}
	rendered := CommitContext(changeSet, response.NewFileSet("src/a.rs"), limits)

	var expected strings.Builder
	expected.WriteString("Detailed changes in selected files:\n")
	expected.WriteString("\nIn src/a.rs (modified) - 80 lines changed:\n```diff\n")
	for index := 1; index <= 10; index++ {
		expected.WriteString(fmt.Sprintf("+line %d\n", index))
	}
	expected.WriteString("[...65 lines skipped...]\n")
	for index := 76; index <= 80; index++ {
		expected.WriteString(fmt.Sprintf("+line %d\n", index))
	}
	expected.WriteString("```\n")

	if rendered != expected.String() {
		t.Fatalf("unexpected rendering:\n%s\nexpected:\n%s", rendered, expected.String())
	}
}

func TestCommitContextSummarizesUnselectedFiles(t *testing.T) {
	changeSet := changes.ChangeSet{
		Files: map[string]changes.FileChange{
			"b.go":       numberedDiff(4),
			"a.go":       numberedDiff(2),
			"picked.go":  numberedDiff(1),
			"no_diff.go": {Status: changes.StatusDeleted},
		},
	}
	limits := Limits{MaxDiffLines: 10, PreviewLines: 2, SummaryLines: 3}
	rendered := CommitContext(changeSet, response.NewFileSet("picked.go", "no_diff.go"), limits)

	expected := "Detailed changes in selected files:\n" +
		"\nIn picked.go (modified):\n```diff\n+line 1\n```\n" +
		"\nOther changes (summarized):\n" +
		"\nIn a.go (modified):\n```diff\n+line 1\n+line 2\n```\n" +
		"\nIn b.go (modified):\n```diff\n+line 1\n+line 2\n+line 3\n[...1 additional lines not shown...]\n```\n"
	if rendered != expected {
		t.Fatalf("unexpected rendering:\n%q\nexpected:\n%q", rendered, expected)
	}
}

func TestCommitContextOmitsEmptySections(t *testing.T) {
	changeSet := changes.ChangeSet{Files: map[string]changes.FileChange{"a.go": numberedDiff(1)}}
	rendered := CommitContext(changeSet, response.NewFileSet(), Limits{MaxDiffLines: 5, SummaryLines: 5})
	if strings.Contains(rendered, "Detailed changes") {
		t.Fatalf("detailed header must be omitted:\n%s", rendered)
	}
	if !strings.HasPrefix(rendered, "\nOther changes (summarized):\n") {
		t.Fatalf("expected summarized section first:\n%s", rendered)
	}
}

func TestSelectionContext(t *testing.T) {
	changeSet := changes.ChangeSet{
		Summary: "Unstaged changes:\n  b.go (modified)\n  a.go (added)\n  c.go (deleted)\n",
		Files: map[string]changes.FileChange{
			"b.go": {Status: changes.StatusModified, Diff: " ctx\n-old\n+new\n", LineCount: 3},
			"a.go": {Status: changes.StatusAdded, Diff: "+one\n", LineCount: 1},
			"c.go": {Status: changes.StatusDeleted},
		},
	}
	expected := changeSet.Summary +
		"\nDetailed file statistics:\n" +
		"  a.go (added) - 1 lines changed\n" +
		"  b.go (modified) - 2 lines changed\n"
	if rendered := SelectionContext(changeSet); rendered != expected {
		t.Fatalf("unexpected context:\n%q\nexpected:\n%q", rendered, expected)
	}
}

func TestRender(t *testing.T) {
	testCases := []struct {
		name         string
		template     string
		replacements []Replacement
		expected     string
	}{
		{
			name:         "literal_tokens",
			template:     "{indent}Files: {min_files}-{max_files}",
			replacements: []Replacement{{Token: "{min_files}", Value: "1"}, {Token: "{max_files}", Value: "3"}, indentReplacement(2)},
			expected:     "  Files: 1-3",
		},
		{
			name:         "no_recursive_expansion",
			template:     "A={a} B={b}",
			replacements: []Replacement{{Token: "{a}", Value: "{b}"}, {Token: "{b}", Value: "x"}},
			expected:     "A={b} B=x",
		},
		{
			name:         "unknown_tokens_untouched",
			template:     "{unknown} {changes_text}",
			replacements: []Replacement{{Token: "{changes_text}", Value: "diff"}},
			expected:     "{unknown} diff",
		},
		{
			name:         "empty_token_ignored",
			template:     "keep",
			replacements: []Replacement{{Token: "", Value: "boom"}},
			expected:     "keep",
		},
		{
			name:         "zero_indent",
			template:     "[{indent}]",
			replacements: []Replacement{indentReplacement(0)},
			expected:     "[]",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if rendered := Render(testCase.template, testCase.replacements); rendered != testCase.expected {
				t.Fatalf("expected %q, got %q", testCase.expected, rendered)
			}
		})
	}
}

func TestAssemblerPrompts(t *testing.T) {
	changeSet := changes.ChangeSet{
		Summary: "Staged changes:\n  a.go (modified)\n",
		Staged:  []string{"a.go (modified)"},
		Files:   map[string]changes.FileChange{"a.go": {Status: changes.StatusModified, Diff: "+x\n", LineCount: 1}},
	}
	assembler := Assembler{
		Templates: Templates{
			FileSelectionSystem:  "select",
			FileSelectionContext: "{changes_summary}|{min_files}|{max_files}|{indent_size}|{indent}|",
			CommitSystem:         "commit",
			CommitContext:        "{changes_summary}|{changes_text}|{max_message_length}",
		},
		Placeholders:     DefaultPlaceholders(),
		Limits:           Limits{MaxDiffLines: 10, PreviewLines: 2, SummaryLines: 2, IndentSize: 3},
		MinFiles:         1,
		MaxFiles:         4,
		MaxMessageLength: 72,
	}

	selection := assembler.Selection(changeSet)
	if selection.System != "select" {
		t.Fatalf("unexpected system prompt %q", selection.System)
	}
	expectedSelection := SelectionContext(changeSet) + "|1|4|3|   |"
	if selection.Text != expectedSelection {
		t.Fatalf("unexpected selection prompt:\n%q\nexpected:\n%q", selection.Text, expectedSelection)
	}

	commit := assembler.Commit(changeSet, response.NewFileSet("a.go"))
	expectedCommit := changeSet.Summary + "|" + CommitContext(changeSet, response.NewFileSet("a.go"), assembler.Limits) + "|72"
	if commit.Text != expectedCommit || commit.System != "commit" {
		t.Fatalf("unexpected commit prompt:\n%q", commit.Text)
	}
}
