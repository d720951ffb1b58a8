package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/pkghistory/internal/ui"
	"github.com/josephgoksu/pkghistory/types"
	"github.com/spf13/viper"
)

// HandleFatalError handles unrecoverable errors that should terminate the application.
func HandleFatalError(userMsg string, technicalErr error) {
	PrintError(userMsg, technicalErr)
	os.Exit(1)
}

// PrintError prints an error message without exiting. If the --verbose flag is
// set, the full technical error is printed instead of the user message.
func PrintError(userMsg string, technicalErr error) {
	prefix := ui.StylePrefixError.Render("Error:")
	if viper.GetBool("verbose") && technicalErr != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", prefix, technicalErr)
	} else {
		fmt.Fprintf(os.Stderr, "%s %s\n", prefix, userMsg)
	}
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}

// UserMessage turns an error into the message shown without --verbose.
func UserMessage(err error) string {
	var herr *types.HistoryError
	if !errors.As(err, &herr) {
		return err.Error()
	}
	switch herr.Kind {
	case types.KindCorruptHistory:
		return fmt.Sprintf("History file seems corrupt. You should try removing %s", herr.Detail("path"))
	case types.KindUnknownTransaction:
		return fmt.Sprintf("Transaction %s doesn't exist.", herr.Detail("id"))
	case types.KindPermissionDenied:
		return fmt.Sprintf("pkghistory needs root to %s history", herr.Detail("operation"))
	case types.KindNoHistory:
		return "No history exists..."
	default:
		return herr.Message
	}
}
