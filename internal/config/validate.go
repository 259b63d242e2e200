package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	validationErrorFormat   = "invalid configuration: %s"
	fieldErrorFormat        = "%s failed %q"
	fieldErrorParamFormat   = "%s failed %q (%s)"
	fieldErrorSeparator     = "; "
	truncationWarningFormat = "formatting.preview_lines (%d) + formatting.summary_lines (%d) exceeds formatting.max_diff_lines (%d)"
)

var configurationValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks ranges, the known provider, and min_files <= max_files.
func (configuration ApplicationConfiguration) Validate() error {
	validationError := configurationValidator.Struct(configuration)
	if validationError == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(validationError, &fieldErrors) {
		return fmt.Errorf(validationErrorFormat, validationError.Error())
	}
	messages := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		if fieldError.Param() != "" {
			messages = append(messages, fmt.Sprintf(fieldErrorParamFormat, fieldError.Namespace(), fieldError.Tag(), fieldError.Param()))
			continue
		}
		messages = append(messages, fmt.Sprintf(fieldErrorFormat, fieldError.Namespace(), fieldError.Tag()))
	}
	return fmt.Errorf(validationErrorFormat, strings.Join(messages, fieldErrorSeparator))
}

// Warnings reports settings that are accepted but inconsistent.
func (configuration ApplicationConfiguration) Warnings() []string {
	var warnings []string
	formatting := configuration.Formatting
	if formatting.PreviewLines+formatting.SummaryLines > formatting.MaxDiffLines {
		warnings = append(warnings, fmt.Sprintf(truncationWarningFormat, formatting.PreviewLines, formatting.SummaryLines, formatting.MaxDiffLines))
	}
	return warnings
}
