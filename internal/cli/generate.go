package cli

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/confirm"
	"github.com/temirov/commitgen/internal/generator"
	"github.com/temirov/commitgen/internal/gitrepo"
	"github.com/temirov/commitgen/internal/message"
	"github.com/temirov/commitgen/internal/output"
	"github.com/temirov/commitgen/internal/selection"
	"github.com/temirov/commitgen/internal/tokenizer"
	"github.com/temirov/commitgen/internal/types"
)

const (
	noChangesMessage      = "No changes to commit!"
	commitAbortedMessage  = "Commit aborted."
	commitCreatedFormat   = "Created commit %s\n"
	shortHashLength       = 7
	clipboardCopiedNotice = "commit message copied to clipboard"

	workingDirectoryErrorFormat = "determine working directory: %w"
	invalidDateFlagErrorFormat  = "invalid --%s value %q: %w"
	createClientErrorFormat     = "configure language model client: %w"
	writeOutputErrorFormat      = "write output: %w"
)

// generateOptions carries the root command flags.
type generateOptions struct {
	configPath    string
	assumeYes     bool
	showDiff      bool
	verbose       bool
	showResponse  bool
	issue         int
	pullRequest   int
	date          string
	authorDate    string
	committerDate string
	amend         bool
	dryRun        bool
	copyMessage   bool
	format        string
	tokens        bool
	model         string
	showVersion   bool
}

type dateFlag struct {
	name  string
	value string
}

func (options generateOptions) dateFlags() []dateFlag {
	return []dateFlag{
		{name: dateFlagName, value: options.date},
		{name: authorDateFlagName, value: options.authorDate},
		{name: committerDateFlagName, value: options.committerDate},
	}
}

// runGenerate collects changes, generates a message, confirms it, and commits.
func runGenerate(ctx context.Context, deps dependencies, options generateOptions) error {
	format := strings.ToLower(strings.TrimSpace(options.format))
	if formatError := output.ValidateFormat(format); formatError != nil {
		return formatError
	}
	for _, flag := range options.dateFlags() {
		if strings.TrimSpace(flag.value) == "" {
			continue
		}
		if _, parseError := gitrepo.ParseDate(flag.value, deps.now()); parseError != nil {
			return fmt.Errorf(invalidDateFlagErrorFormat, flag.name, flag.value, parseError)
		}
	}

	configuration, loadError := loadConfiguration(deps, options.configPath)
	if loadError != nil {
		return loadError
	}
	if model := strings.TrimSpace(options.model); model != "" {
		configuration.Model.Name = model
	}

	workingDirectory, workingDirectoryError := deps.workingDirectory()
	if workingDirectoryError != nil {
		return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
	}
	repository, openError := deps.openRepository(workingDirectory, deps.logger)
	if openError != nil {
		return generator.NewStageError(generator.StageOpenRepository, openError)
	}
	deps.logger.Debug("repository opened", zap.String("root", repository.Root()))

	changeSet, collectError := changes.Collect(ctx, repository, changes.Options{
		IncludeStaged:   configuration.Git.IncludeStaged,
		IncludeUnstaged: configuration.Git.IncludeUnstaged,
	}, deps.logger)
	if collectError != nil {
		return generator.NewStageError(generator.StageReadStatus, collectError)
	}
	if changeSet.IsEmpty() {
		_, writeError := fmt.Fprintln(deps.stdout, noChangesMessage)
		return writeError
	}
	deps.logger.Debug("changes collected", zap.Int("files", len(changeSet.Files)), zap.String("summary", changeSet.Summary))

	client, clientError := deps.newClient(configuration.ClientConfiguration(), deps.logger)
	if clientError != nil {
		return fmt.Errorf(createClientErrorFormat, clientError)
	}
	selector := selection.NewSelector(configuration.SelectionCriteria(), deps.logger)
	commitGenerator := generator.New(client, configuration.Assembler(), selector, configuration.Sampling(), configuration.Style(), deps.logger)
	counter, counterModel := newTokenCounter(deps.logger, options.tokens, configuration.Model.Name)

	var prompter confirm.Prompter
	for {
		result, generateError := commitGenerator.Generate(ctx, changeSet)
		if generateError != nil {
			return generateError
		}
		finalMessage := message.AppendReferences(result.Message, options.issue, options.pullRequest)

		report := output.NewReport(changeSet, result, output.ReportOptions{
			Message:         finalMessage,
			IncludeChanges:  options.showDiff,
			IncludeResponse: options.showResponse,
			Tokens:          countTokens(deps.logger, counter, counterModel, result),
		})
		if format == types.FormatRaw {
			if writeError := output.WriteRaw(deps.stdout, report); writeError != nil {
				return fmt.Errorf(writeOutputErrorFormat, writeError)
			}
		}

		if options.copyMessage {
			if copyError := deps.copier.Copy(finalMessage); copyError != nil {
				deps.logger.Warn("clipboard copy failed", zap.Error(copyError))
			} else {
				deps.logger.Info(clipboardCopiedNotice)
			}
		}

		if options.dryRun {
			return writeStructuredReport(deps, format, report)
		}

		decision := confirm.DecisionYes
		if !options.assumeYes {
			if prompter == nil {
				prompter = deps.newPrompter()
			}
			answer, confirmError := prompter.Confirm(ctx, finalMessage)
			if confirmError != nil {
				return confirmError
			}
			decision = answer
		}

		switch decision {
		case confirm.DecisionRedo:
			deps.logger.Info("generating a new commit message")
			continue
		case confirm.DecisionNo:
			fmt.Fprintln(deps.stderr, commitAbortedMessage)
			return writeStructuredReport(deps, format, report)
		}

		hash, commitError := repository.Commit(gitrepo.CommitOptions{
			Message:       finalMessage,
			Date:          options.date,
			AuthorDate:    options.authorDate,
			CommitterDate: options.committerDate,
			Amend:         options.amend,
			Now:           deps.now(),
		})
		if commitError != nil {
			return generator.NewStageError(generator.StageCreateCommit, commitError)
		}
		report.Commit = hash.String()
		deps.logger.Debug("commit created", zap.String("hash", report.Commit), zap.Bool("amend", options.amend))
		if format == types.FormatRaw {
			_, writeError := fmt.Fprintf(deps.stdout, commitCreatedFormat, report.Commit[:shortHashLength])
			return writeError
		}
		return writeStructuredReport(deps, format, report)
	}
}

func writeStructuredReport(deps dependencies, format string, report types.CommitReport) error {
	if format == types.FormatRaw {
		return nil
	}
	if writeError := output.Write(deps.stdout, report, format); writeError != nil {
		return fmt.Errorf(writeOutputErrorFormat, writeError)
	}
	return nil
}

// newTokenCounter returns nil when token reporting is disabled or the encoding cannot be loaded.
func newTokenCounter(logger *zap.Logger, enabled bool, model string) (tokenizer.Counter, string) {
	if !enabled {
		return nil, ""
	}
	counter, resolvedModel, counterError := tokenizer.NewCounter(tokenizer.Config{Model: model})
	if counterError != nil {
		logger.Warn("token counting disabled", zap.Error(counterError))
		return nil, ""
	}
	return counter, resolvedModel
}

func countTokens(logger *zap.Logger, counter tokenizer.Counter, model string, result generator.Result) *types.TokenSummary {
	if counter == nil {
		return nil
	}
	selectionTokens, selectionError := tokenizer.CountPrompt(counter, result.SelectionPrompt.System, result.SelectionPrompt.Text)
	if selectionError != nil {
		logger.Warn("failed to count selection prompt tokens", zap.Error(selectionError))
		return nil
	}
	commitTokens, commitError := tokenizer.CountPrompt(counter, result.CommitPrompt.System, result.CommitPrompt.Text)
	if commitError != nil {
		logger.Warn("failed to count commit prompt tokens", zap.Error(commitError))
		return nil
	}
	return &types.TokenSummary{
		Model:     model,
		Selection: selectionTokens,
		Commit:    commitTokens,
		Total:     selectionTokens + commitTokens,
	}
}
