package output

import (
	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/generator"
	"github.com/temirov/commitgen/internal/types"
)

// ReportOptions selects the optional sections of a report.
type ReportOptions struct {
	// Message overrides the generated message, e.g. after issue references were appended.
	Message         string
	IncludeChanges  bool
	IncludeResponse bool
	Tokens          *types.TokenSummary
}

// NewReport converts a generation result into a renderable report.
func NewReport(changeSet changes.ChangeSet, result generator.Result, options ReportOptions) types.CommitReport {
	report := types.CommitReport{
		Message:       result.Message,
		Description:   result.Commit.Description,
		SelectedFiles: append([]string(nil), result.SelectedFiles...),
		Tokens:        options.Tokens,
	}
	if options.Message != "" {
		report.Message = options.Message
	}
	if options.IncludeResponse {
		report.Response = result.Commit.Raw
	}
	if options.IncludeChanges {
		report.Summary = changeSet.Summary
		report.Changes = ChangeEntries(changeSet)
		report.Diff = changeSet.String()
	}
	return report
}

// ChangeEntries lists the change set in path order.
func ChangeEntries(changeSet changes.ChangeSet) []types.ChangeEntry {
	staged := labelSet(changeSet.Staged)
	unstaged := labelSet(changeSet.Unstaged)
	entries := make([]types.ChangeEntry, 0, len(changeSet.Files))
	for _, path := range changeSet.Paths() {
		change := changeSet.Files[path]
		label := changes.Label(path, change.Status)
		_, isStaged := staged[label]
		_, isUnstaged := unstaged[label]
		entries = append(entries, types.ChangeEntry{
			Path:      path,
			Status:    string(change.Status),
			Staged:    isStaged,
			Unstaged:  isUnstaged,
			LineCount: change.LineCount,
		})
	}
	return entries
}

func labelSet(labels []string) map[string]struct{} {
	set := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		set[label] = struct{}{}
	}
	return set
}
