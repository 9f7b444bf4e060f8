package padicon

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidSpec is matched by every *SpecError.
	ErrInvalidSpec = errors.New("invalid icon spec")

	// ErrUnsupportedType is returned when an icon type has no renderer.
	ErrUnsupportedType = errors.New("unsupported icon type")

	// ErrNotImplemented is returned for the icon types which are accepted by
	// the validation but can't be rendered yet (emoji and icon).
	ErrNotImplemented = fmt.Errorf("%w: renderer not implemented", ErrUnsupportedType)

	// ErrInvalidSlot is returned when a slot identifier can't be used as part of a file name.
	ErrInvalidSlot = errors.New("invalid slot identifier")

	// ErrCacheIO is matched by every *CacheError.
	ErrCacheIO = errors.New("icon cache i/o failure")
)

// SpecError holds all the violations found while validating an icon specification.
type SpecError struct {
	Violations []string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("%v: %s", ErrInvalidSpec, strings.Join(e.Violations, ", "))
}

// Is reports whether target is ErrInvalidSpec.
func (e *SpecError) Is(target error) bool {
	return target == ErrInvalidSpec
}

// CacheError records a failed operation on the cache directory.
type CacheError struct {
	Op   string
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *CacheError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCacheIO.
func (e *CacheError) Is(target error) bool {
	return target == ErrCacheIO
}
