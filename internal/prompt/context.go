package prompt

import (
	"fmt"
	"strings"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/response"
)

const (
	statisticsHeader        = "\nDetailed file statistics:\n"
	statisticsEntryFormat   = "  %s (%s) - %d lines changed\n"
	detailedSectionHeader   = "Detailed changes in selected files:\n"
	summarizedSectionHeader = "\nOther changes (summarized):\n"
	blockHeaderWithStats    = "\nIn %s (%s) - %d lines changed:\n```diff\n"
	blockHeaderPlain        = "\nIn %s (%s):\n```diff\n"
	blockFooter             = "```\n"
	skippedMarkerFormat     = "[...%d lines skipped...]\n"
	notShownMarkerFormat    = "[...%d additional lines not shown...]\n"
	newline                 = "\n"
)

// Limits bounds how much diff text reaches the commit prompt.
type Limits struct {
	MaxDiffLines  int
	PreviewLines  int
	SummaryLines  int
	IndentSize    int
	ShowFileStats bool
}

// SelectionContext augments the change summary with per-file added and removed line counts.
func SelectionContext(changeSet changes.ChangeSet) string {
	var builder strings.Builder
	builder.WriteString(changeSet.Summary)
	builder.WriteString(statisticsHeader)
	for _, path := range changeSet.Paths() {
		change := changeSet.Files[path]
		changedLines := change.ChangedLineCount()
		if !change.HasDiff() || changedLines == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf(statisticsEntryFormat, path, change.Status, changedLines))
	}
	return builder.String()
}

// CommitContext renders selected files in detail and every other file as a short summary.
// Files without a diff are omitted from both sections.
func CommitContext(changeSet changes.ChangeSet, selected response.FileSet, limits Limits) string {
	var builder strings.Builder
	paths := changeSet.Paths()

	detailedStarted := false
	for _, path := range paths {
		change := changeSet.Files[path]
		if !selected.Contains(path) || !change.HasDiff() {
			continue
		}
		if !detailedStarted {
			builder.WriteString(detailedSectionHeader)
			detailedStarted = true
		}
		builder.WriteString(blockHeader(path, change, limits.ShowFileStats))
		builder.WriteString(DetailedDiff(change, limits))
		builder.WriteString(blockFooter)
	}

	summarizedStarted := false
	for _, path := range paths {
		change := changeSet.Files[path]
		if selected.Contains(path) || !change.HasDiff() {
			continue
		}
		if !summarizedStarted {
			builder.WriteString(summarizedSectionHeader)
			summarizedStarted = true
		}
		builder.WriteString(blockHeader(path, change, limits.ShowFileStats))
		builder.WriteString(SummarizedDiff(change, limits))
		builder.WriteString(blockFooter)
	}
	return builder.String()
}

// DetailedDiff returns the diff verbatim, or its head and tail around a skipped-lines marker
// when it exceeds MaxDiffLines. The head and tail never overlap and the skipped count is never negative.
func DetailedDiff(change changes.FileChange, limits Limits) string {
	if change.LineCount <= limits.MaxDiffLines {
		return withTrailingNewline(change.Diff)
	}
	lines := changes.DiffLines(change.Diff)
	headCount := clamp(limits.PreviewLines, 0, len(lines))
	tailCount := clamp(limits.SummaryLines, 0, len(lines)-headCount)
	skipped := SkippedLines(change.LineCount, limits)

	var builder strings.Builder
	writeLines(&builder, lines[:headCount])
	builder.WriteString(fmt.Sprintf(skippedMarkerFormat, skipped))
	writeLines(&builder, lines[len(lines)-tailCount:])
	return builder.String()
}

// SummarizedDiff returns the first SummaryLines lines and a marker counting the rest.
func SummarizedDiff(change changes.FileChange, limits Limits) string {
	lines := changes.DiffLines(change.Diff)
	shownCount := clamp(limits.SummaryLines, 0, len(lines))

	var builder strings.Builder
	writeLines(&builder, lines[:shownCount])
	if change.LineCount > limits.SummaryLines {
		builder.WriteString(fmt.Sprintf(notShownMarkerFormat, change.LineCount-clamp(limits.SummaryLines, 0, change.LineCount)))
	}
	return builder.String()
}

// SkippedLines is the number of diff lines a truncated detailed block omits, clamped at zero.
func SkippedLines(lineCount int, limits Limits) int {
	skipped := lineCount - limits.PreviewLines - limits.SummaryLines
	if skipped < 0 {
		return 0
	}
	return skipped
}

func blockHeader(path string, change changes.FileChange, showStats bool) string {
	if showStats {
		return fmt.Sprintf(blockHeaderWithStats, path, change.Status, change.LineCount)
	}
	return fmt.Sprintf(blockHeaderPlain, path, change.Status)
}

func writeLines(builder *strings.Builder, lines []string) {
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteString(newline)
	}
}

func withTrailingNewline(text string) string {
	if text == "" || strings.HasSuffix(text, newline) {
		return text
	}
	return text + newline
}

func clamp(value, lower, upper int) int {
	if value < lower {
		return lower
	}
	if value > upper {
		return upper
	}
	return value
}
