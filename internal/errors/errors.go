package errors

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/julianstephens/cadence/internal/logger"
)

// hinted attaches remediation lines to an error for display on the CLI.
type hinted struct {
	err   error
	hints []string
}

func (h *hinted) Error() string { return h.err.Error() }
func (h *hinted) Unwrap() error { return h.err }

// WithHint annotates err with suggestions printed under the error message.
func WithHint(err error, hints ...string) error {
	if err == nil {
		return nil
	}
	return &hinted{err: err, hints: hints}
}

// Format formats an error message with a consistent "Error: " prefix,
// followed by any hints attached with WithHint.
func Format(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Error: %v", err)
	var h *hinted
	if errors.As(err, &h) {
		for _, hint := range h.hints {
			b.WriteString("\n       ")
			b.WriteString(hint)
		}
	}
	return b.String()
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
