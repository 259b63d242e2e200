package prompt

import (
	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/response"
)

// Templates holds the system and context templates of both model calls.
type Templates struct {
	FileSelectionSystem  string
	FileSelectionContext string
	CommitSystem         string
	CommitContext        string
}

// Prompt is a rendered system and user prompt pair.
type Prompt struct {
	System string
	Text   string
}

// Assembler renders prompts for one configuration.
type Assembler struct {
	Templates        Templates
	Placeholders     Placeholders
	Limits           Limits
	MinFiles         int
	MaxFiles         int
	MaxMessageLength int
}

// Selection renders the prompt asking the model which files deserve a detailed look.
func (assembler Assembler) Selection(changeSet changes.ChangeSet) Prompt {
	replacements := []Replacement{
		{Token: assembler.Placeholders.ChangesSummary, Value: SelectionContext(changeSet)},
		numberReplacement(assembler.Placeholders.IndentSize, assembler.Limits.IndentSize),
		numberReplacement(assembler.Placeholders.MinFiles, assembler.MinFiles),
		numberReplacement(assembler.Placeholders.MaxFiles, assembler.MaxFiles),
		indentReplacement(assembler.Limits.IndentSize),
	}
	return Prompt{
		System: assembler.Templates.FileSelectionSystem,
		Text:   Render(assembler.Templates.FileSelectionContext, replacements),
	}
}

// Commit renders the commit-message prompt with the selected files in detail.
func (assembler Assembler) Commit(changeSet changes.ChangeSet, selected response.FileSet) Prompt {
	replacements := []Replacement{
		{Token: assembler.Placeholders.ChangesSummary, Value: changeSet.Summary},
		{Token: assembler.Placeholders.ChangesText, Value: CommitContext(changeSet, selected, assembler.Limits)},
		numberReplacement(assembler.Placeholders.IndentSize, assembler.Limits.IndentSize),
		numberReplacement(assembler.Placeholders.MaxMessageLength, assembler.MaxMessageLength),
		indentReplacement(assembler.Limits.IndentSize),
	}
	return Prompt{
		System: assembler.Templates.CommitSystem,
		Text:   Render(assembler.Templates.CommitContext, replacements),
	}
}
