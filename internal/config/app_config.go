// Package config loads, validates, and renders the commitgen configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/temirov/commitgen/internal/generator"
	"github.com/temirov/commitgen/internal/llm"
	"github.com/temirov/commitgen/internal/message"
	"github.com/temirov/commitgen/internal/prompt"
	"github.com/temirov/commitgen/internal/selection"
	"github.com/temirov/commitgen/internal/utils"
)

const (
	// OpenAIKeyEnvironmentVariable supplies the API key when llm.api_key is empty.
	OpenAIKeyEnvironmentVariable = "OPENAI_API_KEY"

	defaultsConfigType = "yaml"
	keyDelimiter       = "."
	envKeyDelimiter    = "_"

	workingDirectoryErrorFormat = "determine working directory: %w"
	homeDirectoryErrorFormat    = "determine home directory: %w"
	resolvePathErrorFormat      = "resolve configuration path %s: %w"
	statErrorFormat             = "stat configuration %s: %w"
	directoryPathErrorFormat    = "configuration path %s is a directory"
	readErrorFormat             = "read configuration from %s: %w"
	mergeErrorFormat            = "merge configuration from %s: %w"
	defaultsErrorFormat         = "read built-in configuration: %w"
	decodeErrorFormat           = "decode configuration: %w"
	missingExplicitErrorFormat  = "configuration file %s does not exist"
)

// LoadOptions controls how application configuration is discovered.
type LoadOptions struct {
	WorkingDirectory string
	ExplicitFilePath string
	// HomeDirectory overrides the user's home directory.
	HomeDirectory string
}

// ApplicationConfiguration is the effective configuration after all sources are merged.
type ApplicationConfiguration struct {
	Model      ModelConfiguration      `mapstructure:"model" yaml:"model"`
	LLM        LLMConfiguration        `mapstructure:"llm" yaml:"llm"`
	Commit     CommitConfiguration     `mapstructure:"commit" yaml:"commit"`
	Git        GitConfiguration        `mapstructure:"git" yaml:"git"`
	Selection  SelectionConfiguration  `mapstructure:"selection" yaml:"selection"`
	Formatting FormattingConfiguration `mapstructure:"formatting" yaml:"formatting"`
	Prompts    PromptsConfiguration    `mapstructure:"prompts" yaml:"prompts"`
	// Sources lists the files merged over the built-in defaults, in order.
	Sources []string `mapstructure:"-" yaml:"-"`
}

// ModelConfiguration holds the sampling parameters of both model calls.
type ModelConfiguration struct {
	Name                     string  `mapstructure:"name" yaml:"name" validate:"required"`
	TopP                     float64 `mapstructure:"top_p" yaml:"top_p" validate:"gte=0,lte=1"`
	MaxTokens                int     `mapstructure:"max_tokens" yaml:"max_tokens" validate:"gt=0"`
	FileSelectionTemperature float64 `mapstructure:"file_selection_temperature" yaml:"file_selection_temperature" validate:"gte=0,lte=2"`
	CommitTemperature        float64 `mapstructure:"commit_temperature" yaml:"commit_temperature" validate:"gte=0,lte=2"`
}

// LLMConfiguration selects the model provider.
type LLMConfiguration struct {
	Provider string        `mapstructure:"provider" yaml:"provider" validate:"oneof=ollama openai"`
	Endpoint string        `mapstructure:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
}

// CommitConfiguration controls message post-processing.
type CommitConfiguration struct {
	Conventional     bool `mapstructure:"conventional" yaml:"conventional"`
	Emoji            bool `mapstructure:"emoji" yaml:"emoji"`
	MaxMessageLength int  `mapstructure:"max_message_length" yaml:"max_message_length" validate:"gt=0"`
}

// GitConfiguration selects which changes are collected.
type GitConfiguration struct {
	IncludeStaged   bool     `mapstructure:"include_staged" yaml:"include_staged"`
	IncludeUnstaged bool     `mapstructure:"include_unstaged" yaml:"include_unstaged"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns"`
}

// SelectionConfiguration bounds the files reviewed in detail.
type SelectionConfiguration struct {
	MinFiles         int  `mapstructure:"min_files" yaml:"min_files" validate:"gte=0"`
	MaxFiles         int  `mapstructure:"max_files" yaml:"max_files" validate:"gtefield=MinFiles"`
	PrioritizeSource bool `mapstructure:"prioritize_src" yaml:"prioritize_src"`
	ExcludeTests     bool `mapstructure:"exclude_tests" yaml:"exclude_tests"`
	MinChanges       int  `mapstructure:"min_changes" yaml:"min_changes" validate:"gte=0"`
}

// FormattingConfiguration bounds the diff text in the commit prompt.
type FormattingConfiguration struct {
	MaxDiffLines  int  `mapstructure:"max_diff_lines" yaml:"max_diff_lines" validate:"gt=0"`
	PreviewLines  int  `mapstructure:"preview_lines" yaml:"preview_lines" validate:"gte=0"`
	SummaryLines  int  `mapstructure:"summary_lines" yaml:"summary_lines" validate:"gte=0"`
	IndentSize    int  `mapstructure:"indent_size" yaml:"indent_size" validate:"gte=0"`
	ShowFileStats bool `mapstructure:"show_file_stats" yaml:"show_file_stats"`
}

// PromptsConfiguration holds the prompt templates and their placeholder tokens.
type PromptsConfiguration struct {
	FileSelectionSystem  string                   `mapstructure:"file_selection_system" yaml:"file_selection_system"`
	FileSelectionContext string                   `mapstructure:"file_selection_context" yaml:"file_selection_context" validate:"required"`
	CommitSystem         string                   `mapstructure:"commit_system" yaml:"commit_system"`
	CommitContext        string                   `mapstructure:"commit_context" yaml:"commit_context" validate:"required"`
	Placeholders         PlaceholderConfiguration `mapstructure:"placeholders" yaml:"placeholders"`
}

// PlaceholderConfiguration names the literal tokens substituted into templates.
type PlaceholderConfiguration struct {
	ChangesSummary   string `mapstructure:"changes_summary" yaml:"changes_summary"`
	ChangesText      string `mapstructure:"changes_text" yaml:"changes_text"`
	IndentSize       string `mapstructure:"indent_size" yaml:"indent_size"`
	MaxMessageLength string `mapstructure:"max_message_length" yaml:"max_message_length"`
	MinFiles         string `mapstructure:"min_files" yaml:"min_files"`
	MaxFiles         string `mapstructure:"max_files" yaml:"max_files"`
}

// LoadApplicationConfiguration merges the built-in defaults, the global file, and the local or explicit file,
// applies COMMITGEN_ environment overrides, and validates the result.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, err)
		}
		workingDirectory = currentDirectory
	}

	reader, defaultsError := newDefaultsReader()
	if defaultsError != nil {
		return ApplicationConfiguration{}, defaultsError
	}

	var sources []string

	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}
	if homeDirectory != "" {
		globalPath := GlobalConfigurationPath(homeDirectory)
		merged, mergeError := mergeConfigurationFile(reader, globalPath)
		if mergeError != nil {
			return ApplicationConfiguration{}, mergeError
		}
		if merged {
			sources = append(sources, globalPath)
		}
	}

	localPath, resolveErr := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	if resolveErr != nil {
		return ApplicationConfiguration{}, resolveErr
	}
	merged, mergeError := mergeConfigurationFile(reader, localPath)
	if mergeError != nil {
		return ApplicationConfiguration{}, mergeError
	}
	if merged {
		sources = append(sources, localPath)
	} else if options.ExplicitFilePath != "" {
		return ApplicationConfiguration{}, fmt.Errorf(missingExplicitErrorFormat, localPath)
	}

	reader.SetEnvPrefix(utils.EnvironmentPrefix)
	reader.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, envKeyDelimiter))
	reader.AutomaticEnv()

	var configuration ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&configuration); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf(decodeErrorFormat, decodeErr)
	}
	configuration.Git.ExcludePatterns = utils.NormalizePatterns(configuration.Git.ExcludePatterns)
	configuration.LLM.Provider = strings.ToLower(strings.TrimSpace(configuration.LLM.Provider))
	configuration.Sources = sources

	if validationError := configuration.Validate(); validationError != nil {
		return ApplicationConfiguration{}, validationError
	}
	return configuration, nil
}

// GlobalConfigurationPath returns the global configuration file under homeDirectory.
func GlobalConfigurationPath(homeDirectory string) string {
	return filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
}

func newDefaultsReader() (*viper.Viper, error) {
	reader := viper.New()
	reader.SetConfigType(defaultsConfigType)
	if readErr := reader.ReadConfig(strings.NewReader(defaultConfigurationTemplate)); readErr != nil {
		return nil, fmt.Errorf(defaultsErrorFormat, readErr)
	}
	return reader, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, error) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, nil
		}
		if workingDirectory == "" {
			absolute, err := filepath.Abs(explicitPath)
			if err != nil {
				return "", fmt.Errorf(resolvePathErrorFormat, explicitPath, err)
			}
			return absolute, nil
		}
		return filepath.Join(workingDirectory, explicitPath), nil
	}
	if workingDirectory == "" {
		return "", nil
	}
	return filepath.Join(workingDirectory, utils.LocalConfigFileName), nil
}

// mergeConfigurationFile overlays the file at path onto reader. Missing files are skipped.
func mergeConfigurationFile(reader *viper.Viper, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, statErr := os.Stat(path)
	if statErr != nil {
		if os.IsNotExist(statErr) {
			return false, nil
		}
		return false, fmt.Errorf(statErrorFormat, path, statErr)
	}
	if info.IsDir() {
		return false, fmt.Errorf(directoryPathErrorFormat, path)
	}

	fileReader := viper.New()
	fileReader.SetConfigFile(path)
	if readErr := fileReader.ReadInConfig(); readErr != nil {
		return false, fmt.Errorf(readErrorFormat, path, readErr)
	}
	if mergeErr := reader.MergeConfigMap(fileReader.AllSettings()); mergeErr != nil {
		return false, fmt.Errorf(mergeErrorFormat, path, mergeErr)
	}
	return true, nil
}

// SelectionCriteria converts the selection and git sections.
func (configuration ApplicationConfiguration) SelectionCriteria() selection.Criteria {
	return selection.Criteria{
		MinFiles:         configuration.Selection.MinFiles,
		MaxFiles:         configuration.Selection.MaxFiles,
		MinChanges:       configuration.Selection.MinChanges,
		PrioritizeSource: configuration.Selection.PrioritizeSource,
		ExcludeTests:     configuration.Selection.ExcludeTests,
		ExcludePatterns:  append([]string(nil), configuration.Git.ExcludePatterns...),
	}
}

// Assembler builds the prompt assembler for the configured templates and limits.
func (configuration ApplicationConfiguration) Assembler() prompt.Assembler {
	placeholders := configuration.Prompts.Placeholders
	return prompt.Assembler{
		Templates: prompt.Templates{
			FileSelectionSystem:  configuration.Prompts.FileSelectionSystem,
			FileSelectionContext: configuration.Prompts.FileSelectionContext,
			CommitSystem:         configuration.Prompts.CommitSystem,
			CommitContext:        configuration.Prompts.CommitContext,
		},
		Placeholders: prompt.Placeholders{
			ChangesSummary:   placeholders.ChangesSummary,
			ChangesText:      placeholders.ChangesText,
			IndentSize:       placeholders.IndentSize,
			MaxMessageLength: placeholders.MaxMessageLength,
			MinFiles:         placeholders.MinFiles,
			MaxFiles:         placeholders.MaxFiles,
		},
		Limits: prompt.Limits{
			MaxDiffLines:  configuration.Formatting.MaxDiffLines,
			PreviewLines:  configuration.Formatting.PreviewLines,
			SummaryLines:  configuration.Formatting.SummaryLines,
			IndentSize:    configuration.Formatting.IndentSize,
			ShowFileStats: configuration.Formatting.ShowFileStats,
		},
		MinFiles:         configuration.Selection.MinFiles,
		MaxFiles:         configuration.Selection.MaxFiles,
		MaxMessageLength: configuration.Commit.MaxMessageLength,
	}
}

// Sampling converts the model section.
func (configuration ApplicationConfiguration) Sampling() generator.Sampling {
	return generator.Sampling{
		Model:                    configuration.Model.Name,
		TopP:                     configuration.Model.TopP,
		MaxTokens:                configuration.Model.MaxTokens,
		FileSelectionTemperature: configuration.Model.FileSelectionTemperature,
		CommitTemperature:        configuration.Model.CommitTemperature,
	}
}

// Style converts the commit section.
func (configuration ApplicationConfiguration) Style() message.Style {
	return message.Style{
		Conventional: configuration.Commit.Conventional,
		Emoji:        configuration.Commit.Emoji,
	}
}

// ClientConfiguration converts the llm section, reading OPENAI_API_KEY when no key is configured.
func (configuration ApplicationConfiguration) ClientConfiguration() llm.Configuration {
	apiKey := configuration.LLM.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(OpenAIKeyEnvironmentVariable)
	}
	return llm.Configuration{
		Provider: configuration.LLM.Provider,
		Endpoint: configuration.LLM.Endpoint,
		Timeout:  configuration.LLM.Timeout,
		APIKey:   apiKey,
	}
}
