package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cerr "github.com/cockroachdb/errors"

	"github.com/temirov/commitgen/internal/cli"
	"github.com/temirov/commitgen/internal/utils"
)

const (
	loggerInitializationFailedMessageFormat = "failed to initialize logger: %v\n"
	hintMessageFormat                       = "hint: %s\n"
	failureExitCode                         = 1
)

// main is the entry point for the commitgen command.
func main() {
	loggerInstance, level, loggerInitializationError := utils.NewApplicationLogger()
	if loggerInitializationError != nil {
		fmt.Fprintf(os.Stderr, loggerInitializationFailedMessageFormat, loggerInitializationError)
		os.Exit(failureExitCode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	applicationExecutionError := cli.Execute(ctx, loggerInstance, level)
	stop()
	_ = loggerInstance.Sync()
	if applicationExecutionError != nil {
		fmt.Fprintf(os.Stderr, utils.ErrorLogFormat+"\n", applicationExecutionError)
		for _, hint := range cerr.GetAllHints(applicationExecutionError) {
			fmt.Fprintf(os.Stderr, hintMessageFormat, hint)
		}
		os.Exit(failureExitCode)
	}
}
