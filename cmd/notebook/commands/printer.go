package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
)

// printedError marks an error whose message was already shown.
type printedError struct{ err error }

func (e printedError) Error() string { return e.err.Error() }
func (e printedError) Unwrap() error { return e.err }

func printed(err error) error { return printedError{err} }

func isPrinted(err error) bool {
	var p printedError
	return errors.As(err, &p)
}

// printSuccess prints a message in green with a checkmark prefix.
func printSuccess(w io.Writer, format string, a ...any) {
	green.Fprintf(w, "✓ %s", fmt.Sprintf(format, a...))
}

// printFailure prints a message in red with a cross prefix.
func printFailure(w io.Writer, format string, a ...any) {
	red.Fprintf(w, "✗ %s", fmt.Sprintf(format, a...))
}

// printWarning prints to stderr in yellow.
func printWarning(format string, a ...any) {
	yellow.Fprintf(os.Stderr, "⚠️  %s", fmt.Sprintf(format, a...))
}

// printError prints to stderr in red and returns the message as an error.
func printError(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	red.Fprint(os.Stderr, msg)
	return errors.New(strings.TrimSuffix(msg, "\n"))
}
