package grundzeug

import (
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	// ErrDuplicateRegistration is matched (errors.Is) by every
	// DuplicateRegistrationError.
	ErrDuplicateRegistration = errors.New("duplicate registration")

	// ErrResolutionFailed is matched by every ResolutionFailedError.
	ErrResolutionFailed = errors.New("resolution failed")

	// ErrAmbiguousResolution is matched by every AmbiguousResolutionError.
	ErrAmbiguousResolution = errors.New("ambiguous resolution")

	// ErrClosed is returned by operations on a container after Close.
	ErrClosed = errors.New("container is closed")

	// ErrUnclaimedRegistration is returned when no plugin accepts a
	// registration key.
	ErrUnclaimedRegistration = errors.New("no plugin accepted the registration")
)

// DuplicateRegistrationError is returned at registration time when a
// plugin that allows a single registration per key sees the same key
// twice on the same container.
type DuplicateRegistrationError struct {
	Key       Key
	Container uuid.UUID
}

func (e *DuplicateRegistrationError) Error() string {
	return "container " + e.Container.String() + " already has a registration for " + e.Key.String()
}

func (e *DuplicateRegistrationError) Is(target error) bool {
	return target == ErrDuplicateRegistration
}

// ResolutionFailedError is returned by the must-succeed resolution
// entry points when no plugin produced a bean.
type ResolutionFailedError struct {
	Key Key
}

func (e *ResolutionFailedError) Error() string {
	return "bean not found: " + e.Key.String()
}

func (e *ResolutionFailedError) Is(target error) bool {
	return target == ErrResolutionFailed
}

// AmbiguousResolutionError is returned when more than one candidate
// survives domination elimination.  The engine never breaks such ties.
type AmbiguousResolutionError struct {
	Key        Key
	Candidates []Key
}

func (e *AmbiguousResolutionError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, k := range e.Candidates {
		names[i] = k.String()
	}
	return "ambiguous resolution of " + e.Key.String() + ": candidates " + strings.Join(names, ", ")
}

func (e *AmbiguousResolutionError) Is(target error) bool {
	return target == ErrAmbiguousResolution
}
