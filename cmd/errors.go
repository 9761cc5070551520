package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tayloree/petits-plats/internal/api"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when no recipe is available or matches.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when the recipe source fails.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

type errorKind int

const (
	kindInternal errorKind = iota
	kindNotFound
	kindInvalidArgs
	kindUpstream
)

func (k errorKind) code() string {
	switch k {
	case kindNotFound:
		return "NOT_FOUND"
	case kindInvalidArgs:
		return "INVALID_ARGS"
	case kindUpstream:
		return "UPSTREAM_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

func (k errorKind) exitCode() int {
	switch k {
	case kindNotFound:
		return ExitNotFound
	case kindInvalidArgs:
		return ExitInvalidArgs
	case kindUpstream:
		return ExitUpstream
	default:
		return ExitInternal
	}
}

// cliError is an error the CLI can explain to a person or a script.
type cliError struct {
	kind        errorKind
	message     string
	suggestions []string
	cause       error
}

func (e *cliError) Error() string { return e.message }

func (e *cliError) Unwrap() error { return e.cause }

func (e *cliError) Code() string { return e.kind.code() }

func (e *cliError) ExitCode() int { return e.kind.exitCode() }

func invalidArgsError(message string, suggestions ...string) error {
	return &cliError{kind: kindInvalidArgs, message: message, suggestions: suggestions}
}

func notFoundError(message string, suggestions ...string) error {
	return &cliError{kind: kindNotFound, message: message, suggestions: suggestions}
}

// explain maps whatever a command returned onto a cliError.
func explain(err error) *cliError {
	if err == nil {
		return nil
	}
	var known *cliError
	if errors.As(err, &known) {
		return known
	}

	var src *api.SourceError
	switch {
	case errors.Is(err, api.ErrNoRecipes):
		return &cliError{
			kind:        kindNotFound,
			message:     err.Error(),
			suggestions: []string{"Check --source, or unset PLATS_SOURCE to use the bundled dataset."},
			cause:       err,
		}
	case errors.As(err, &src):
		return explainSource(src, err)
	default:
		return &cliError{
			kind:        kindInternal,
			message:     err.Error(),
			suggestions: []string{"Run `plats --help` for usage details."},
			cause:       err,
		}
	}
}

func explainSource(src *api.SourceError, err error) *cliError {
	e := &cliError{kind: kindUpstream, message: err.Error(), cause: err}
	switch {
	case errors.Is(err, fs.ErrNotExist):
		e.kind = kindInvalidArgs
		e.message = fmt.Sprintf("recipe file %s does not exist", src.Source)
		e.suggestions = []string{"Check --source, or unset PLATS_SOURCE to use the bundled dataset."}
	case src.Retryable():
		e.suggestions = []string{"Retry in a moment."}
	case src.Stage == api.StageDecode:
		e.suggestions = []string{"The source must hold a JSON array of recipes or {\"recipes\": [...]}."}
	default:
		e.suggestions = []string{"Check the --source URL."}
	}
	return e
}

// sample values used when a flag is given without one.
var flagExamples = map[string]string{
	"query":      "tarte",
	"ingredient": "citron",
	"appliance":  "four",
	"ustensil":   "couteau",
	"filter":     "ingredients=citron",
	"search":     "cit",
	"limit":      "5",
	"source":     "./recettes.json",
}

// flagError turns pflag parse failures into INVALID_ARGS with a hint.
func flagError(c *cobra.Command, err error) error {
	e := &cliError{kind: kindInvalidArgs, message: err.Error(), cause: err}

	var (
		missing  *pflag.NotExistError
		noValue  *pflag.ValueRequiredError
		badValue *pflag.InvalidValueError
	)
	switch {
	case errors.As(err, &missing):
		if info, ok := vocabulary().resolveFlag(missing.GetSpecifiedName()); ok {
			e.suggestions = append(e.suggestions, fmt.Sprintf("Try `--%s`.", info.name))
		}
	case errors.As(err, &noValue):
		name := noValue.GetFlag().Name
		if example, ok := flagExamples[name]; ok {
			e.suggestions = append(e.suggestions, fmt.Sprintf("plats --%s %s", name, example))
		}
	case errors.As(err, &badValue):
		e.suggestions = append(e.suggestions, fmt.Sprintf("`--%s` expects a value of type %s.", badValue.GetFlag().Name, badValue.GetFlag().Value.Type()))
	}
	e.suggestions = append(e.suggestions, fmt.Sprintf("Run `%s --help` for the accepted flags.", c.CommandPath()))
	return e
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func (e *cliError) writeJSON(w io.Writer) error {
	return json.NewEncoder(w).Encode(jsonErrorPayload{Error: jsonErrorBody{
		Code:        e.Code(),
		Message:     e.message,
		Suggestions: e.suggestions,
		ExitCode:    e.ExitCode(),
	}})
}

func (e *cliError) text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "error[%s]: %s", strings.ToLower(e.Code()), e.message)
	if len(e.suggestions) > 0 {
		b.WriteString("\nsuggestions:")
		for _, s := range e.suggestions {
			b.WriteString("\n  " + s)
		}
	}
	return b.String()
}
