// Package output renders commit reports as styled text, JSON, XML, or YAML.
package output

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/temirov/commitgen/internal/types"
	"github.com/temirov/commitgen/internal/utils"
)

const (
	indentPrefix = ""
	indentSpacer = "  "
	yamlIndent   = 2

	xmlHeader = xml.Header

	changesHeader    = "Changes:"
	selectedHeader   = "Selected Files:"
	responseHeader   = "Raw XML Response:"
	messageHeader    = "Generated Commit Message:"
	tokensHeader     = "Prompt Tokens:"
	selectedFormat   = "  %s\n"
	tokensLineFormat = "  %s: selection %d, commit %d, total %d\n"

	unsupportedFormatErrorFormat = "unsupported output format %q (expected one of %s)"
	encodeErrorFormat            = "encode %s report: %w"
)

var (
	headerColor   = lipgloss.Color("170")
	messageColor  = lipgloss.Color("42")
	subtleColor   = lipgloss.Color("241")
	formatDivider = ", "
)

// ValidateFormat rejects unknown --format values.
func ValidateFormat(format string) error {
	if utils.ContainsString(types.SupportedFormats, format) {
		return nil
	}
	return fmt.Errorf(unsupportedFormatErrorFormat, format, strings.Join(types.SupportedFormats, formatDivider))
}

// Write renders report in format to writer.
func Write(writer io.Writer, report types.CommitReport, format string) error {
	if format == types.FormatRaw {
		return WriteRaw(writer, report)
	}
	rendered, renderError := Render(report, format)
	if renderError != nil {
		return renderError
	}
	_, writeError := fmt.Fprintln(writer, rendered)
	return writeError
}

// Render marshals report as json, xml, or yaml.
func Render(report types.CommitReport, format string) (string, error) {
	switch format {
	case types.FormatJSON:
		encoded, jsonEncodeError := json.MarshalIndent(report, indentPrefix, indentSpacer)
		if jsonEncodeError != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, jsonEncodeError)
		}
		return string(encoded), nil
	case types.FormatXML:
		encoded, xmlMarshalError := xml.MarshalIndent(report, indentPrefix, indentSpacer)
		if xmlMarshalError != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, xmlMarshalError)
		}
		return xmlHeader + string(encoded), nil
	case types.FormatYAML:
		var buffer bytes.Buffer
		encoder := yaml.NewEncoder(&buffer)
		encoder.SetIndent(yamlIndent)
		if yamlEncodeError := encoder.Encode(report); yamlEncodeError != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, yamlEncodeError)
		}
		if closeError := encoder.Close(); closeError != nil {
			return "", fmt.Errorf(encodeErrorFormat, format, closeError)
		}
		return strings.TrimSuffix(buffer.String(), "\n"), nil
	default:
		return "", ValidateFormat(format)
	}
}

// WriteRaw prints the human-readable report. Styles degrade to plain text when writer is not a terminal.
func WriteRaw(writer io.Writer, report types.CommitReport) error {
	renderer := lipgloss.NewRenderer(writer)
	headerStyle := renderer.NewStyle().Bold(true).Foreground(headerColor)
	messageStyle := renderer.NewStyle().Foreground(messageColor)
	subtleStyle := renderer.NewStyle().Foreground(subtleColor)

	var buffer bytes.Buffer
	if report.Diff != "" {
		buffer.WriteString(headerStyle.Render(changesHeader) + "\n")
		buffer.WriteString(report.Diff)
		buffer.WriteString("\n")
	}
	if len(report.SelectedFiles) > 0 && report.Diff != "" {
		buffer.WriteString(headerStyle.Render(selectedHeader) + "\n")
		for _, path := range report.SelectedFiles {
			buffer.WriteString(fmt.Sprintf(selectedFormat, path))
		}
		buffer.WriteString("\n")
	}
	if report.Tokens != nil {
		buffer.WriteString(headerStyle.Render(tokensHeader) + "\n")
		buffer.WriteString(subtleStyle.Render(strings.TrimSuffix(formatTokens(report.Tokens), "\n")) + "\n\n")
	}
	if report.Response != "" {
		buffer.WriteString(headerStyle.Render(responseHeader) + "\n")
		buffer.WriteString(report.Response + "\n\n")
	}
	buffer.WriteString(headerStyle.Render(messageHeader) + "\n")
	buffer.WriteString(renderLines(messageStyle, report.Message) + "\n")

	_, writeError := writer.Write(buffer.Bytes())
	return writeError
}

// renderLines styles each line on its own so lipgloss does not pad them to a common width.
func renderLines(style lipgloss.Style, text string) string {
	lines := strings.Split(text, "\n")
	for index, line := range lines {
		if line == "" {
			continue
		}
		lines[index] = style.Render(line)
	}
	return strings.Join(lines, "\n")
}

func formatTokens(tokens *types.TokenSummary) string {
	return fmt.Sprintf(tokensLineFormat, tokens.Model, tokens.Selection, tokens.Commit, tokens.Total)
}
