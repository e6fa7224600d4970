package paginator

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStarted is returned by backward navigation before any jump has
	// established a context window.
	ErrNotStarted = errors.New("no context window established, jump first")

	// ErrNoLoader is returned when a paginator is built without a page loader.
	ErrNoLoader = errors.New("page loader is required")

	// ErrReleased is returned by operations on a released paginator.
	ErrReleased = errors.New("paginator released")
)

// ErrLocked indicates the operation's gate is closed, either explicitly via
// Lock or because an identical operation is still in flight.
type ErrLocked struct {
	Op Op
}

func (e *ErrLocked) Error() string {
	return fmt.Sprintf("%s is locked", e.Op)
}

// ErrGuardRejected indicates the load guard vetoed a page load. The page's
// in-flight state is left in place; no loader call was made.
type ErrGuardRejected struct {
	Page int
}

func (e *ErrGuardRejected) Error() string {
	return fmt.Sprintf("load guard rejected page %d", e.Page)
}

// ErrFinalPage indicates navigation attempted to move past the configured
// final page.
type ErrFinalPage struct {
	Attempted int
	FinalPage int
}

func (e *ErrFinalPage) Error() string {
	return fmt.Sprintf("page %d is past the final page %d", e.Attempted, e.FinalPage)
}

// ErrInvalidPage indicates a page number below the first page.
type ErrInvalidPage struct {
	Page int
}

func (e *ErrInvalidPage) Error() string {
	return fmt.Sprintf("invalid page %d, page numbers start at 1", e.Page)
}

// ErrInvalidCapacity indicates a page capacity that is neither positive nor
// page.Unlimited.
type ErrInvalidCapacity struct {
	Capacity int
}

func (e *ErrInvalidCapacity) Error() string {
	return fmt.Sprintf("invalid page capacity %d", e.Capacity)
}

// ErrPageNotCached indicates an element operation addressed a page that is
// not in the cache.
type ErrPageNotCached struct {
	Page int
}

func (e *ErrPageNotCached) Error() string {
	return fmt.Sprintf("page %d is not cached", e.Page)
}

// ErrIndexOutOfRange indicates an element operation addressed a position
// outside the page's data.
type ErrIndexOutOfRange struct {
	Page   int
	Index  int
	Length int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("index %d out of range for page %d with %d items", e.Index, e.Page, e.Length)
}
