package cli

import (
	"errors"
	"fmt"

	"github.com/opsdeck/opsdeck/internal/output"
)

// Error codes for structured failure emission.
const (
	CodeUpstreamUnreachable = "UPSTREAM_UNREACHABLE"
	CodeUpstreamDegraded    = "UPSTREAM_DEGRADED"
	CodeInvalidFlag         = "INVALID_FLAG"
	CodeTmuxUnavailable     = "TMUX_UNAVAILABLE"
)

// CLIError is a structured error used for consistent NDJSON/text emission.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// outputError normalizes error emission across commands, respecting ndjson
// vs text formats so scripted consumers always get machine-readable
// failures.
func outputError(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		output.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", hint[0])
		}
	}
	return errors.New(message)
}

// errorHint maps a failure code to a next step the user can try.
func errorHint(code string) string {
	switch code {
	case CodeUpstreamUnreachable:
		return "check that the backend is running and --upstream points at it"
	case CodeTmuxUnavailable:
		return "install tmux or drop the --tmux flag"
	default:
		return ""
	}
}
