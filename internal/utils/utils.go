// Package utils contains general helper functions used across commitgen.
package utils

import (
	"strings"
)

// Configuration and repository constants used across the project.
const (
	// GlobalConfigDirectoryName is the directory under the user's home holding the global configuration.
	GlobalConfigDirectoryName = ".commitgen"
	// ConfigFileName is the name of the global configuration file.
	ConfigFileName = "config.yaml"
	// LocalConfigFileName is the name of the configuration file looked up in the working directory.
	LocalConfigFileName = ".commitgen.yaml"
	// EnvironmentPrefix prefixes environment overrides, e.g. COMMITGEN_MODEL_NAME.
	EnvironmentPrefix = "COMMITGEN"
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
)

// ErrorLogFormat defines the formatting string for error log messages.
const ErrorLogFormat = "Error: %v"

// DeduplicatePatterns removes duplicate patterns from a slice while preserving order.
// The first occurrence of each unique pattern is kept.
func DeduplicatePatterns(patterns []string) []string {
	encounteredPatterns := make(map[string]struct{})
	result := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		if _, exists := encounteredPatterns[pattern]; !exists {
			encounteredPatterns[pattern] = struct{}{}
			result = append(result, pattern)
		}
	}
	return result
}

// NormalizePatterns trims whitespace, drops blanks, and removes duplicates.
func NormalizePatterns(patterns []string) []string {
	trimmed := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		candidate := strings.TrimSpace(pattern)
		if candidate == "" {
			continue
		}
		trimmed = append(trimmed, candidate)
	}
	return DeduplicatePatterns(trimmed)
}

// ContainsString checks if a slice of strings contains a specific target string.
func ContainsString(stringSlice []string, targetString string) bool {
	for _, currentString := range stringSlice {
		if currentString == targetString {
			return true
		}
	}
	return false
}
