// Package generator runs the two-call commit message pipeline.
package generator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/commitgen/internal/changes"
	"github.com/temirov/commitgen/internal/llm"
	"github.com/temirov/commitgen/internal/message"
	"github.com/temirov/commitgen/internal/prompt"
	"github.com/temirov/commitgen/internal/response"
	"github.com/temirov/commitgen/internal/selection"
)

// Pipeline stages named in errors.
const (
	StageOpenRepository  = "open repository"
	StageReadStatus      = "read status"
	StageSelectFiles     = "select files"
	StageGenerateMessage = "generate message"
	StageCreateCommit    = "create commit"
)

const (
	filesStopSequence  = "</files>"
	commitStopSequence = "</commit>"
	stageErrorFormat   = "%s: %v"
)

// StageError reports which pipeline stage failed.
type StageError struct {
	Stage string
	Err   error
}

func (stageError *StageError) Error() string {
	return fmt.Sprintf(stageErrorFormat, stageError.Stage, stageError.Err)
}

func (stageError *StageError) Unwrap() error {
	return stageError.Err
}

// NewStageError wraps err with a stage name. A nil err yields nil.
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// Sampling holds the model parameters shared by both calls.
type Sampling struct {
	Model                    string
	TopP                     float64
	MaxTokens                int
	FileSelectionTemperature float64
	CommitTemperature        float64
}

// Result carries the final message and every intermediate artifact.
type Result struct {
	Message           string
	Commit            response.Commit
	SelectedFiles     []string
	SelectionPrompt   prompt.Prompt
	SelectionResponse string
	CommitPrompt      prompt.Prompt
}

// Generator is safe to reuse for several change sets.
type Generator struct {
	client    llm.Client
	assembler prompt.Assembler
	selector  *selection.Selector
	sampling  Sampling
	style     message.Style
	logger    *zap.Logger
}

// New assembles a generator from explicit collaborators.
func New(client llm.Client, assembler prompt.Assembler, selector *selection.Selector, sampling Sampling, style message.Style, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		client:    client,
		assembler: assembler,
		selector:  selector,
		sampling:  sampling,
		style:     style,
		logger:    logger,
	}
}

// Generate asks the model which files to examine, then asks for the commit message.
func (generator *Generator) Generate(ctx context.Context, changeSet changes.ChangeSet) (Result, error) {
	var result Result

	result.SelectionPrompt = generator.assembler.Selection(changeSet)
	generator.logger.Debug("file selection context", zap.String("prompt", result.SelectionPrompt.Text))

	selectionText, selectionError := generator.client.Generate(ctx, llm.Request{
		Model:       generator.sampling.Model,
		Prompt:      result.SelectionPrompt.Text,
		System:      result.SelectionPrompt.System,
		Temperature: generator.sampling.FileSelectionTemperature,
		TopP:        generator.sampling.TopP,
		MaxTokens:   generator.sampling.MaxTokens,
		Stop:        []string{filesStopSequence},
	})
	if selectionError != nil {
		return Result{}, NewStageError(StageSelectFiles, selectionError)
	}
	result.SelectionResponse = selectionText
	generator.logger.Debug("file selection response", zap.String("response", selectionText))

	selected := generator.selector.Select(changeSet, selectionText)
	result.SelectedFiles = selected.Sorted()
	generator.logger.Debug("selected files", zap.Strings("files", result.SelectedFiles))

	result.CommitPrompt = generator.assembler.Commit(changeSet, selected)
	generator.logger.Debug("commit context", zap.String("prompt", result.CommitPrompt.Text))

	commitText, commitError := generator.client.Generate(ctx, llm.Request{
		Model:       generator.sampling.Model,
		Prompt:      result.CommitPrompt.Text,
		System:      result.CommitPrompt.System,
		Temperature: generator.sampling.CommitTemperature,
		TopP:        generator.sampling.TopP,
		MaxTokens:   generator.sampling.MaxTokens,
		Stop:        []string{commitStopSequence},
	})
	if commitError != nil {
		return Result{}, NewStageError(StageGenerateMessage, commitError)
	}

	result.Commit = response.ParseCommit(commitText)
	generator.logger.Debug("commit response", zap.String("raw", result.Commit.Raw))
	result.Message = message.Finalize(result.Commit, generator.style)
	generator.logger.Debug("final message", zap.String("message", result.Message))
	return result, nil
}
