// Package types defines the cross-package report structures rendered by the commitgen CLI.
package types

import "encoding/xml"

const (
	FormatRaw  = "raw"
	FormatJSON = "json"
	FormatXML  = "xml"
	FormatYAML = "yaml"
)

// SupportedFormats lists the accepted --format values in help order.
var SupportedFormats = []string{FormatRaw, FormatJSON, FormatXML, FormatYAML}

// ChangeEntry describes one changed path in a report.
type ChangeEntry struct {
	Path      string `json:"path" xml:"path" yaml:"path"`
	Status    string `json:"status" xml:"status" yaml:"status"`
	Staged    bool   `json:"staged" xml:"staged" yaml:"staged"`
	Unstaged  bool   `json:"unstaged" xml:"unstaged" yaml:"unstaged"`
	LineCount int    `json:"lineCount" xml:"lineCount" yaml:"lineCount"`
}

// TokenSummary captures prompt sizes for both model calls.
type TokenSummary struct {
	Model     string `json:"model" xml:"model" yaml:"model"`
	Selection int    `json:"selection" xml:"selection" yaml:"selection"`
	Commit    int    `json:"commit" xml:"commit" yaml:"commit"`
	Total     int    `json:"total" xml:"total" yaml:"total"`
}

// CommitReport is the rendered outcome of one generation run.
type CommitReport struct {
	XMLName       xml.Name      `json:"-" xml:"report" yaml:"-"`
	Message       string        `json:"message" xml:"message" yaml:"message"`
	Description   string        `json:"description,omitempty" xml:"description,omitempty" yaml:"description,omitempty"`
	Response      string        `json:"response,omitempty" xml:"response,omitempty" yaml:"response,omitempty"`
	SelectedFiles []string      `json:"selectedFiles,omitempty" xml:"selectedFiles>file,omitempty" yaml:"selectedFiles,omitempty"`
	Summary       string        `json:"summary,omitempty" xml:"summary,omitempty" yaml:"summary,omitempty"`
	Changes       []ChangeEntry `json:"changes,omitempty" xml:"changes>change,omitempty" yaml:"changes,omitempty"`
	Diff          string        `json:"diff,omitempty" xml:"diff,omitempty" yaml:"diff,omitempty"`
	Tokens        *TokenSummary `json:"tokens,omitempty" xml:"tokens,omitempty" yaml:"tokens,omitempty"`
	Commit        string        `json:"commit,omitempty" xml:"commit,omitempty" yaml:"commit,omitempty"`
}
