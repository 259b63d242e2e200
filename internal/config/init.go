package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/commitgen/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	defaultConfigurationTemplate = `model:
  name: llama3.2
  top_p: 0.9
  max_tokens: 1024
  file_selection_temperature: 0.1
  commit_temperature: 0.3
llm:
  provider: ollama
  endpoint: http://localhost:11434
  timeout: 120s
  api_key: ""
commit:
  conventional: true
  emoji: false
  max_message_length: 72
git:
  include_staged: true
  include_unstaged: true
  exclude_patterns:
    - go.sum
    - package-lock.json
    - yarn.lock
    - Cargo.lock
selection:
  min_files: 1
  max_files: 5
  prioritize_src: true
  exclude_tests: false
  min_changes: 1
formatting:
  max_diff_lines: 100
  preview_lines: 40
  summary_lines: 10
  indent_size: 2
  show_file_stats: true
prompts:
  placeholders:
    changes_summary: "{changes_summary}"
    changes_text: "{changes_text}"
    indent_size: "{indent_size}"
    max_message_length: "{max_message_length}"
    min_files: "{min_files}"
    max_files: "{max_files}"
  file_selection_system: |
    You review pending repository changes and pick the files that best explain them.
    Answer only with a <files> block containing one <file>path</file> line per file.
  file_selection_context: |
    Pending changes:
    {changes_summary}
    Select between {min_files} and {max_files} files whose diffs are needed to describe these changes.
    Answer in exactly this form:
    <files>
    {indent}<file>path/to/file</file>
    </files>
  commit_system: |
    You write concise, accurate git commit messages.
    Answer only with a <commit> block holding a <message> and an optional <description>.
  commit_context: |
    Pending changes:
    {changes_summary}
    {changes_text}
    Write a commit message no longer than {max_message_length} characters in the imperative mood.
    Add a short description only when the change needs more explanation.
    Answer in exactly this form:
    <commit>
    {indent}<message>summary line</message>
    {indent}<description>optional details</description>
    </commit>
`

	workingDirectoryInitErrorFormat = "determine working directory for configuration: %w"
	homeDirectoryInitErrorFormat    = "resolve home directory for configuration: %w"
	createDirectoryErrorFormat      = "create configuration directory %s: %w"
	unsupportedTargetErrorFormat    = "unsupported init target %q"
	existingConfigurationFormat     = "configuration file already exists at %s"
	inspectPathErrorFormat          = "inspect configuration path %s: %w"
	writeConfigurationErrorFormat   = "write configuration to %s: %w"
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
	HomeDirectory    string
}

// DefaultConfigurationTemplate returns the YAML written by InitializeConfiguration.
func DefaultConfigurationTemplate() string {
	return defaultConfigurationTemplate
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf(workingDirectoryInitErrorFormat, err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.LocalConfigFileName)
	case InitTargetGlobal:
		homeDirectory := options.HomeDirectory
		if homeDirectory == "" {
			resolvedHome, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf(homeDirectoryInitErrorFormat, err)
			}
			homeDirectory = resolvedHome
		}
		destinationPath = GlobalConfigurationPath(homeDirectory)
		configurationDirectory := filepath.Dir(destinationPath)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf(createDirectoryErrorFormat, configurationDirectory, err)
		}
	default:
		return "", fmt.Errorf(unsupportedTargetErrorFormat, target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf(existingConfigurationFormat, destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf(inspectPathErrorFormat, destinationPath, err)
	}

	if err := os.WriteFile(destinationPath, []byte(defaultConfigurationTemplate), 0o600); err != nil {
		return "", fmt.Errorf(writeConfigurationErrorFormat, destinationPath, err)
	}

	return destinationPath, nil
}
