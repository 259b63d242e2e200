// Package changes collects the pending changes of a repository into a ChangeSet.
package changes

import (
	"fmt"
	"sort"
	"strings"
)

// FileStatus labels the kind of change recorded for a path.
type FileStatus string

const (
	// StatusAdded marks a new file.
	StatusAdded FileStatus = "added"
	// StatusModified marks a modified file.
	StatusModified FileStatus = "modified"
	// StatusDeleted marks a deleted file.
	StatusDeleted FileStatus = "deleted"
	// StatusUnknown marks any other change.
	StatusUnknown FileStatus = "unknown"
)

const (
	stagedHeader        = "Staged changes:\n"
	unstagedHeader      = "Unstaged changes:\n"
	summaryEntryFormat  = "  %s\n"
	labelFormat         = "%s (%s)"
	changeHeaderFormat  = "\nChanges in %s (%s):\n"
	diffLineSeparator   = "\n"
	summaryBlockDivider = "\n"
)

// FileChange describes a single touched path.
type FileChange struct {
	Status    FileStatus
	Diff      string
	LineCount int
}

// HasDiff reports whether a diff was retrieved for the change.
func (change FileChange) HasDiff() bool {
	return change.Diff != ""
}

// ChangedLineCount returns the number of added and removed lines in the diff.
func (change FileChange) ChangedLineCount() int {
	total := 0
	for _, line := range DiffLines(change.Diff) {
		if strings.HasPrefix(line, "+") || strings.HasPrefix(line, "-") {
			total++
		}
	}
	return total
}

// ChangeSet is the read-only result of a collection pass.
type ChangeSet struct {
	Staged   []string
	Unstaged []string
	Files    map[string]FileChange
	Summary  string
}

// IsEmpty reports whether neither staged nor unstaged changes were found.
func (changeSet ChangeSet) IsEmpty() bool {
	return len(changeSet.Staged) == 0 && len(changeSet.Unstaged) == 0
}

// Paths returns the changed paths in ascending order.
func (changeSet ChangeSet) Paths() []string {
	paths := make([]string, 0, len(changeSet.Files))
	for path := range changeSet.Files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// String renders the summary followed by every retrieved diff.
func (changeSet ChangeSet) String() string {
	var builder strings.Builder
	builder.WriteString(changeSet.Summary)
	builder.WriteString("\n")
	for _, path := range changeSet.Paths() {
		change := changeSet.Files[path]
		if !change.HasDiff() {
			continue
		}
		builder.WriteString(formatChangeHeader(path, change.Status))
		builder.WriteString(change.Diff)
		if !strings.HasSuffix(change.Diff, diffLineSeparator) {
			builder.WriteString(diffLineSeparator)
		}
	}
	return builder.String()
}

// Label formats the "path (status)" form used in summaries and prompts.
func Label(path string, status FileStatus) string {
	return fmt.Sprintf(labelFormat, path, status)
}

// BuildSummary renders the staged block, a blank line, and the unstaged block.
// Empty blocks are omitted.
func BuildSummary(staged, unstaged []string) string {
	var builder strings.Builder
	if len(staged) > 0 {
		builder.WriteString(stagedHeader)
		for _, label := range staged {
			builder.WriteString(fmt.Sprintf(summaryEntryFormat, label))
		}
	}
	if len(unstaged) > 0 {
		if builder.Len() > 0 {
			builder.WriteString(summaryBlockDivider)
		}
		builder.WriteString(unstagedHeader)
		for _, label := range unstaged {
			builder.WriteString(fmt.Sprintf(summaryEntryFormat, label))
		}
	}
	return builder.String()
}

// DiffLines splits diff text into lines without a trailing empty element.
func DiffLines(diff string) []string {
	if diff == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(diff, diffLineSeparator), diffLineSeparator)
}

// CountLines returns the number of lines in diff text.
func CountLines(diff string) int {
	return len(DiffLines(diff))
}

func formatChangeHeader(path string, status FileStatus) string {
	return fmt.Sprintf(changeHeaderFormat, path, status)
}
