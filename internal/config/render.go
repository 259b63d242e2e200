package config

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	maskedSecret           = "********"
	yamlIndent             = 2
	renderErrorFormat      = "render configuration: %w"
	renderCloseErrorFormat = "finish configuration rendering: %w"
)

// RenderYAML renders the effective configuration with secrets masked.
func RenderYAML(configuration ApplicationConfiguration) ([]byte, error) {
	masked := configuration
	if masked.LLM.APIKey != "" {
		masked.LLM.APIKey = maskedSecret
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(yamlIndent)
	if encodeError := encoder.Encode(masked); encodeError != nil {
		return nil, fmt.Errorf(renderErrorFormat, encodeError)
	}
	if closeError := encoder.Close(); closeError != nil {
		return nil, fmt.Errorf(renderCloseErrorFormat, closeError)
	}
	return buffer.Bytes(), nil
}
