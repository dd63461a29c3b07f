package draw

import (
	"errors"
	"fmt"

	"go.inspectdraw.org/draw/catalog"
	"go.inspectdraw.org/draw/selector"
)

var (
	// ErrInvalidCategory: the category is unknown, not a draw category,
	// or not one the target needs.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrUnknownTarget: the target is not in the catalog.
	ErrUnknownTarget = errors.New("unknown target")
	// ErrNoCandidates: nothing is eligible; round and history unchanged.
	ErrNoCandidates = selector.ErrNoCandidates
	// ErrDuplicateDrawInRound: the target already has a counterpart for
	// the category this round.
	ErrDuplicateDrawInRound = errors.New("already drawn this round")
	// ErrDrawInProgress: another draw for the category (or a round reset
	// while draws are pending) is in progress.
	ErrDrawInProgress = errors.New("draw in progress")
)

// Error is returned by Service for rejected draws. It matches its Kind
// with errors.Is and carries a message suitable for end users.
type Error struct {
	Kind       error
	TargetID   string
	TargetName string
	Category   catalog.Category
	Detail     string
}

func newError(kind error, target catalog.Entity, category catalog.Category) *Error {
	return &Error{
		Kind:       kind,
		TargetID:   target.ID,
		TargetName: target.Name,
		Category:   category,
	}
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: target %q, category %s", e.Kind, e.TargetID, e.Category)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Message is the user-facing explanation of the error.
func (e *Error) Message() string {
	name := e.TargetName
	if name == "" {
		name = e.TargetID
	}

	switch e.Kind {
	case ErrInvalidCategory:
		if e.Detail != "" {
			return fmt.Sprintf("Invalid draw category: %s.", e.Detail)
		}
		return fmt.Sprintf("%s does not need a %s inspection.", name, e.Category)
	case ErrUnknownTarget:
		return fmt.Sprintf("Department %q is not in the catalog.", e.TargetID)
	case ErrNoCandidates:
		return fmt.Sprintf("No department is eligible to inspect %s for %s; adjust the catalog or reset the round.", name, e.Category)
	case ErrDuplicateDrawInRound:
		return fmt.Sprintf("%s already has a %s inspector this round; reset the round to draw again.", name, e.Category)
	case ErrDrawInProgress:
		return fmt.Sprintf("A %s draw is already in progress, wait for it to finish.", e.Category)
	}
	return e.Error()
}

// Message returns the user-facing message for err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message()
	}
	return err.Error()
}

// Kind returns the sentinel of a draw error, or nil.
func Kind(err error) error {
	for _, kind := range []error{
		ErrInvalidCategory,
		ErrUnknownTarget,
		ErrNoCandidates,
		ErrDuplicateDrawInRound,
		ErrDrawInProgress,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// Code is a short machine readable name for the kind of err.
func Code(err error) string {
	switch Kind(err) {
	case ErrInvalidCategory:
		return "invalid_category"
	case ErrUnknownTarget:
		return "unknown_target"
	case ErrNoCandidates:
		return "no_candidates"
	case ErrDuplicateDrawInRound:
		return "duplicate"
	case ErrDrawInProgress:
		return "in_progress"
	}
	return "error"
}
