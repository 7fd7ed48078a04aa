package config

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	// ErrMissingKeys is matched (errors.Is) by every MissingKeysError.
	ErrMissingKeys = errors.New("missing configuration keys")

	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("configuration validation failed")
)

// MissingKeysError is returned when no provider anywhere in the chain
// has a value for a path and the field has no default.  Every missing
// path is listed, not just the first one.
type MissingKeysError struct {
	Contract string
	Paths    []Path
}

func newMissingKeysError(contract string, paths []Path) *MissingKeysError {
	sort.Slice(paths, func(i, j int) bool { return paths[i].String() < paths[j].String() })
	return &MissingKeysError{Contract: contract, Paths: paths}
}

func (e *MissingKeysError) Error() string {
	names := make([]string, len(e.Paths))
	for i, p := range e.Paths {
		names[i] = p.String()
	}
	return "could not resolve " + e.Contract + ": missing configuration keys " + strings.Join(names, ", ")
}

func (e *MissingKeysError) Is(target error) bool {
	return target == ErrMissingKeys
}

// ValidationError is returned when a value fails a rule (or the final
// type check).
type ValidationError struct {
	Path    Path
	Rule    string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	return "configuration key " + e.Path.String() + " failed " + e.Rule + ": " + e.Message
}

func (e *ValidationError) Unwrap() error { return e.Cause }

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func asValidationError(path Path, rule string, err error) error {
	var ve *ValidationError
	if errors.As(err, &ve) {
		if ve.Path == nil {
			ve.Path = path
		}
		if ve.Rule == "" {
			ve.Rule = rule
		}
		return ve
	}
	return &ValidationError{Path: path, Rule: rule, Message: err.Error(), Cause: err}
}
