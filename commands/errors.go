package commands

import (
	"errors"
	"fmt"
	"strings"
)

// Routing errors. They mean the definitions and the interaction payload
// disagree, and are never retried.
var (
	ErrCommandNotFound           = errors.New("Command not found")
	ErrSubcommandNotFound        = errors.New("Subcommand not found")
	ErrSubcommandGroupNotFound   = errors.New("Subcommand group not found")
	ErrOptionNotFound            = errors.New("Option not found")
	ErrOptionNotAutocompletable  = errors.New("Option is not autocompletable")
	ErrCommandNotAutocompletable = errors.New("Command is not autocompletable")
	ErrOptionTypeMismatch        = errors.New("Option value does not match its declared type")
	ErrComponentNotFound         = errors.New("Component handler not found")
	ErrNotCommandInteraction     = errors.New("Interaction is not an application command")
	ErrNotComponentInteraction   = errors.New("Interaction is not a message component or modal submit")
)

// Definition errors, reported when a command is added to a Registry or
// serialized for publication.
var (
	ErrUnsupportedOptionType   = errors.New("Unsupported option type")
	ErrDuplicateCommand        = errors.New("Command already registered")
	ErrDuplicateOption         = errors.New("Option name used more than once")
	ErrDuplicateComponent      = errors.New("Component prefix already registered")
	ErrEmptyOptions            = errors.New("Options list is empty")
	ErrEmptySubcommands        = errors.New("Subcommands map is empty")
	ErrTooManyOptions          = errors.New("Too many options")
	ErrChoicesWithAutocomplete = errors.New("Option has both choices and autocomplete")
	ErrInvalidOptionSetting    = errors.New("Option setting does not apply")
	ErrOptionOrder             = errors.New("Required options must come before optional ones")
	ErrInvalidName             = errors.New("Invalid name")
	ErrInvalidDescription      = errors.New("Invalid description")
	ErrMissingHandler          = errors.New("Handler is nil")
)

// RouteError is returned by the Dispatcher when an interaction cannot be
// resolved to a handler or autocomplete resolver.
type RouteError struct {
	Err        error
	Command    string
	Group      string
	Subcommand string
	Option     string
}

func (e *RouteError) Error() string {
	s := fmt.Sprintf("%s: %s", e.Err.Error(), e.Path())
	if e.Option != "" {
		s += fmt.Sprintf(" (option %q)", e.Option)
	}
	return s
}

func (e *RouteError) Unwrap() error {
	return e.Err
}

// Path returns the command path as typed by users, e.g. "/admin errors show".
func (e *RouteError) Path() string {
	return commandPath(e.Command, e.Group, e.Subcommand)
}

// DefinitionError points at the node whose declaration is invalid.
type DefinitionError struct {
	Path string
	Err  error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err.Error())
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

func commandPath(parts ...string) string {
	var p []string
	for _, s := range parts {
		if s != "" {
			p = append(p, s)
		}
	}
	return "/" + strings.Join(p, " ")
}
