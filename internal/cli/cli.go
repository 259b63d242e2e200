// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/config"
	"github.com/temirov/commitgen/internal/types"
	"github.com/temirov/commitgen/internal/utils"
)

const (
	configFlagName        = "config"
	yesFlagName           = "yes"
	diffFlagName          = "diff"
	verboseFlagName       = "verbose"
	xmlFlagName           = "xml"
	issueFlagName         = "issue"
	pullRequestFlagName   = "pr"
	dateFlagName          = "date"
	authorDateFlagName    = "author-date"
	committerDateFlagName = "committer-date"
	amendFlagName         = "amend"
	dryRunFlagName        = "dry-run"
	copyFlagName          = "copy"
	formatFlagName        = "format"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	versionFlagName       = "version"
	globalFlagName        = "global"
	forceFlagName         = "force"

	versionTemplate      = "commitgen version: %s\n"
	rootUse              = "commitgen"
	rootShortDescription = "generate commit messages for pending changes with a language model"
	rootLongDescription  = `commitgen reads the staged and unstaged changes of the current repository,
asks a language model which files matter, and then asks it for a commit message.
The message is shown for confirmation and committed with every pending change staged.
Use --dry-run to only print the message and --format to select raw, json, xml, or yaml output.`
	rootUsageExample = `  # Generate, confirm, and commit
  commitgen

  # Print the message with the collected changes but never commit
  commitgen --dry-run --diff

  # Commit without confirmation, referencing an issue, dated two days ago
  commitgen -y -i 42 --date "2 days ago"`

	configUse                  = "config"
	configShortDescription     = "manage commitgen configuration"
	configInitUse              = "init"
	configInitShortDescription = "write the default configuration"
	configInitLongDescription  = `Write the default configuration to .commitgen.yaml in the working directory,
or to ~/.commitgen/config.yaml with --global.`
	configShowUse              = "show"
	configShowShortDescription = "print the effective configuration as YAML"

	configFlagDescription        = "configuration file used instead of .commitgen.yaml"
	yesFlagDescription           = "commit without asking for confirmation"
	diffFlagDescription          = "print the collected changes"
	verboseFlagDescription       = "enable debug logging of prompts and responses"
	xmlFlagDescription           = "print the raw tagged model response"
	issueFlagDescription         = "issue number referenced as \"Fixes issue #N\""
	pullRequestFlagDescription   = "pull request number referenced as \"Related to PR #N\""
	dateFlagDescription          = "author and committer date (YYYY-MM-DD HH:MM:SS or \"N units ago\")"
	authorDateFlagDescription    = "author date, overrides --date"
	committerDateFlagDescription = "committer date, overrides --date"
	amendFlagDescription         = "amend the previous commit"
	dryRunFlagDescription        = "print the message without committing"
	copyFlagDescription          = "copy the final message to the clipboard"
	formatFlagDescription        = "output format (raw, json, xml, yaml)"
	tokensFlagDescription        = "report prompt token counts"
	modelFlagDescription         = "model name overriding model.name"
	versionFlagDescription       = "display application version"
	globalFlagDescription        = "write the global configuration under the home directory"
	forceFlagDescription         = "overwrite an existing configuration file"

	configWrittenFormat = "Configuration written to %s\n"
	sourceLogMessage    = "configuration source"
	warningLogMessage   = "configuration warning"
)

// Execute runs the commitgen application.
func Execute(ctx context.Context, logger *zap.Logger, level zap.AtomicLevel) error {
	rootCommand := createRootCommand(newSystemDependencies(logger, level))
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// createRootCommand builds the root Cobra command.
func createRootCommand(deps dependencies) *cobra.Command {
	options := generateOptions{format: types.FormatRaw}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, writeError := fmt.Fprintf(deps.stdout, versionTemplate, utils.GetApplicationVersion())
				return writeError
			}
			return runGenerate(command.Context(), deps, options)
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			utils.SetVerbose(deps.level, options.verbose)
		},
	}

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&options.configPath, configFlagName, "", configFlagDescription)
	registerBooleanFlag(persistentFlags, &options.verbose, verboseFlagName, "v", false, verboseFlagDescription)

	flags := rootCommand.Flags()
	registerBooleanFlag(flags, &options.assumeYes, yesFlagName, "y", false, yesFlagDescription)
	registerBooleanFlag(flags, &options.showDiff, diffFlagName, "d", false, diffFlagDescription)
	registerBooleanFlag(flags, &options.showResponse, xmlFlagName, "x", false, xmlFlagDescription)
	flags.IntVarP(&options.issue, issueFlagName, "i", 0, issueFlagDescription)
	flags.IntVarP(&options.pullRequest, pullRequestFlagName, "p", 0, pullRequestFlagDescription)
	flags.StringVar(&options.date, dateFlagName, "", dateFlagDescription)
	flags.StringVar(&options.authorDate, authorDateFlagName, "", authorDateFlagDescription)
	flags.StringVar(&options.committerDate, committerDateFlagName, "", committerDateFlagDescription)
	registerBooleanFlag(flags, &options.amend, amendFlagName, "", false, amendFlagDescription)
	registerBooleanFlag(flags, &options.dryRun, dryRunFlagName, "", false, dryRunFlagDescription)
	registerBooleanFlag(flags, &options.copyMessage, copyFlagName, "", false, copyFlagDescription)
	flags.StringVar(&options.format, formatFlagName, types.FormatRaw, formatFlagDescription)
	registerBooleanFlag(flags, &options.tokens, tokensFlagName, "", false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, "", modelFlagDescription)
	registerBooleanFlag(flags, &options.showVersion, versionFlagName, "", false, versionFlagDescription)

	rootCommand.AddCommand(createConfigCommand(deps, &options))
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// createConfigCommand returns the config command with its init and show subcommands.
func createConfigCommand(deps dependencies, rootOptions *generateOptions) *cobra.Command {
	configCommand := &cobra.Command{
		Use:   configUse,
		Short: configShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	var initGlobal bool
	var initForce bool
	initCommand := &cobra.Command{
		Use:   configInitUse,
		Short: configInitShortDescription,
		Long:  configInitLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			workingDirectory, workingDirectoryError := deps.workingDirectory()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			target := config.InitTargetLocal
			if initGlobal {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				Target:           target,
				Force:            initForce,
				WorkingDirectory: workingDirectory,
				HomeDirectory:    deps.homeDirectory,
			})
			if initError != nil {
				return initError
			}
			_, writeError := fmt.Fprintf(deps.stdout, configWrittenFormat, path)
			return writeError
		},
	}
	registerBooleanFlag(initCommand.Flags(), &initGlobal, globalFlagName, "g", false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &initForce, forceFlagName, "f", false, forceFlagDescription)

	showCommand := &cobra.Command{
		Use:   configShowUse,
		Short: configShowShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration, loadError := loadConfiguration(deps, rootOptions.configPath)
			if loadError != nil {
				return loadError
			}
			rendered, renderError := config.RenderYAML(configuration)
			if renderError != nil {
				return renderError
			}
			_, writeError := deps.stdout.Write(rendered)
			return writeError
		},
	}

	configCommand.AddCommand(initCommand, showCommand)
	return configCommand
}

// loadConfiguration loads the layered configuration and logs its sources and warnings.
func loadConfiguration(deps dependencies, explicitPath string) (config.ApplicationConfiguration, error) {
	workingDirectory, workingDirectoryError := deps.workingDirectory()
	if workingDirectoryError != nil {
		return config.ApplicationConfiguration{}, fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	configuration, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: workingDirectory,
		ExplicitFilePath: explicitPath,
		HomeDirectory:    deps.homeDirectory,
	})
	if loadError != nil {
		return config.ApplicationConfiguration{}, loadError
	}
	for _, source := range configuration.Sources {
		deps.logger.Debug(sourceLogMessage, zap.String("path", source))
	}
	for _, warning := range configuration.Warnings() {
		deps.logger.Warn(warningLogMessage, zap.String("detail", warning))
	}
	return configuration, nil
}
