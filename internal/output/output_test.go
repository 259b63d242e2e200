package output_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/generator"
	"github.com/temirov/commitgen/internal/output"
	"github.com/temirov/commitgen/internal/response"
	"github.com/temirov/commitgen/internal/types"
)

const sampleRawResponse = "<commit>\n<message>Add parser</message>\n<description>Handles tags</description>\n</commit>"

func sampleChangeSet() changes.ChangeSet {
	staged := []string{changes.Label("src/parser.go", changes.StatusAdded)}
	unstaged := []string{changes.Label("README.md", changes.StatusModified)}
	return changes.ChangeSet{
		Staged:   staged,
		Unstaged: unstaged,
		Files: map[string]changes.FileChange{
			"src/parser.go": {Status: changes.StatusAdded, Diff: "+package parser\n", LineCount: 1},
			"README.md":     {Status: changes.StatusModified, Diff: "-old\n+new\n", LineCount: 2},
		},
		Summary: changes.BuildSummary(staged, unstaged),
	}
}

func sampleResult() generator.Result {
	return generator.Result{
		Message:       "feat: Add parser\n\nHandles tags",
		Commit:        response.ParseCommit(sampleRawResponse),
		SelectedFiles: []string{"src/parser.go"},
	}
}

func TestNewReportSections(t *testing.T) {
	testCases := []struct {
		name            string
		options         output.ReportOptions
		expectMessage   string
		expectResponse  bool
		expectChanges   int
		expectDiffEmpty bool
	}{
		{
			name:            "message_only",
			options:         output.ReportOptions{},
			expectMessage:   "feat: Add parser\n\nHandles tags",
			expectDiffEmpty: true,
		},
		{
			name:           "all_sections",
			options:        output.ReportOptions{IncludeChanges: true, IncludeResponse: true},
			expectMessage:  "feat: Add parser\n\nHandles tags",
			expectResponse: true,
			expectChanges:  2,
		},
		{
			name:            "message_override",
			options:         output.ReportOptions{Message: "feat: Add parser\n\nFixes issue #4"},
			expectMessage:   "feat: Add parser\n\nFixes issue #4",
			expectDiffEmpty: true,
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			report := output.NewReport(sampleChangeSet(), sampleResult(), testCase.options)
			if report.Message != testCase.expectMessage {
				t.Fatalf("expected message %q, got %q", testCase.expectMessage, report.Message)
			}
			if report.Description != "Handles tags" {
				t.Fatalf("unexpected description %q", report.Description)
			}
			if (report.Response != "") != testCase.expectResponse {
				t.Fatalf("unexpected response presence: %q", report.Response)
			}
			if len(report.Changes) != testCase.expectChanges {
				t.Fatalf("expected %d changes, got %d", testCase.expectChanges, len(report.Changes))
			}
			if (report.Diff == "") != testCase.expectDiffEmpty {
				t.Fatalf("unexpected diff presence: %q", report.Diff)
			}
		})
	}
}

func TestChangeEntriesOrderAndSides(t *testing.T) {
	entries := output.ChangeEntries(sampleChangeSet())
	if len(entries) != 2 {
		t.Fatalf("expected two entries, got %d", len(entries))
	}
	if entries[0].Path != "README.md" || entries[0].Staged || !entries[0].Unstaged {
		t.Fatalf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].Path != "src/parser.go" || !entries[1].Staged || entries[1].Unstaged || entries[1].Status != "added" {
		t.Fatalf("unexpected second entry: %+v", entries[1])
	}
}

func TestRenderStructuredFormats(t *testing.T) {
	tokens := &types.TokenSummary{Model: "cl100k_base", Selection: 10, Commit: 20, Total: 30}
	report := output.NewReport(sampleChangeSet(), sampleResult(), output.ReportOptions{IncludeChanges: true, Tokens: tokens})

	jsonText, jsonError := output.Render(report, types.FormatJSON)
	if jsonError != nil {
		t.Fatalf("render json: %v", jsonError)
	}
	var decodedJSON map[string]any
	if err := json.Unmarshal([]byte(jsonText), &decodedJSON); err != nil {
		t.Fatalf("json does not parse: %v", err)
	}
	if decodedJSON["message"] != report.Message {
		t.Fatalf("unexpected json message: %v", decodedJSON["message"])
	}
	if _, present := decodedJSON["response"]; present {
		t.Fatalf("response must be omitted when not requested")
	}

	xmlText, xmlError := output.Render(report, types.FormatXML)
	if xmlError != nil {
		t.Fatalf("render xml: %v", xmlError)
	}
	if !strings.HasPrefix(xmlText, xml.Header) || !strings.Contains(xmlText, "<selectedFiles>") {
		t.Fatalf("unexpected xml: %s", xmlText)
	}
	var decodedXML types.CommitReport
	if err := xml.Unmarshal([]byte(strings.TrimPrefix(xmlText, xml.Header)), &decodedXML); err != nil {
		t.Fatalf("xml does not parse: %v", err)
	}
	if decodedXML.Tokens == nil || decodedXML.Tokens.Total != 30 {
		t.Fatalf("unexpected xml tokens: %+v", decodedXML.Tokens)
	}

	yamlText, yamlError := output.Render(report, types.FormatYAML)
	if yamlError != nil {
		t.Fatalf("render yaml: %v", yamlError)
	}
	var decodedYAML types.CommitReport
	if err := yaml.Unmarshal([]byte(yamlText), &decodedYAML); err != nil {
		t.Fatalf("yaml does not parse: %v", err)
	}
	if len(decodedYAML.Changes) != 2 || decodedYAML.SelectedFiles[0] != "src/parser.go" {
		t.Fatalf("unexpected yaml report: %+v", decodedYAML)
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	if _, err := output.Render(types.CommitReport{Message: "x"}, "toon"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
	if err := output.ValidateFormat("yaml"); err != nil {
		t.Fatalf("yaml must be accepted: %v", err)
	}
}

func TestWriteRaw(t *testing.T) {
	testCases := []struct {
		name           string
		options        output.ReportOptions
		expectPresent  []string
		expectAbsent   []string
		expectEndsWith string
	}{
		{
			name:           "message_only",
			options:        output.ReportOptions{},
			expectPresent:  []string{"Generated Commit Message:\nfeat: Add parser\n\nHandles tags"},
			expectAbsent:   []string{"Changes:", "Raw XML Response:", "Prompt Tokens:"},
			expectEndsWith: "Handles tags\n",
		},
		{
			name: "diff_response_and_tokens",
			options: output.ReportOptions{
				IncludeChanges:  true,
				IncludeResponse: true,
				Tokens:          &types.TokenSummary{Model: "gpt-4o", Selection: 1, Commit: 2, Total: 3},
			},
			expectPresent: []string{
				"Changes:\nStaged changes:\n  src/parser.go (added)",
				"Selected Files:\n  src/parser.go\n",
				"Prompt Tokens:\n  gpt-4o: selection 1, commit 2, total 3\n",
				"Raw XML Response:\n" + sampleRawResponse,
				"Generated Commit Message:",
			},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var buffer bytes.Buffer
			report := output.NewReport(sampleChangeSet(), sampleResult(), testCase.options)
			if err := output.Write(&buffer, report, types.FormatRaw); err != nil {
				t.Fatalf("write raw: %v", err)
			}
			rendered := buffer.String()
			for _, fragment := range testCase.expectPresent {
				if !strings.Contains(rendered, fragment) {
					t.Fatalf("expected %q in output:\n%s", fragment, rendered)
				}
			}
			for _, fragment := range testCase.expectAbsent {
				if strings.Contains(rendered, fragment) {
					t.Fatalf("did not expect %q in output:\n%s", fragment, rendered)
				}
			}
			if testCase.expectEndsWith != "" && !strings.HasSuffix(rendered, testCase.expectEndsWith) {
				t.Fatalf("expected output to end with %q, got %q", testCase.expectEndsWith, rendered)
			}
		})
	}
}
