package viewer

import (
	"errors"
	"fmt"
)

var (
	// ErrNoActiveDocument is returned by engine operations that need an open document
	ErrNoActiveDocument = errors.New("no active document")
	// ErrPageOutOfRange is returned when a page index is outside the document
	ErrPageOutOfRange = errors.New("page index out of range")
	// ErrUnknownFormat is returned when a file is not a supported document
	ErrUnknownFormat = errors.New("unknown file format")
	// ErrNothingStaged is returned when a staged operation finds no files
	ErrNothingStaged = errors.New("no staged files")
	// ErrWorkspaceNotFound is returned for an unknown workspace id
	ErrWorkspaceNotFound = errors.New("workspace not found")
	// ErrDocumentNotFound is returned when a route names a missing file or document
	ErrDocumentNotFound = errors.New("document not found")
	// ErrStaleDocument is returned when a render or export names a document
	// that is no longer the open one
	ErrStaleDocument = errors.New("document was replaced")
)

// error codes carry the sentinels across process boundaries
var codes = []struct {
	code string
	err  error
}{
	{"no_active_document", ErrNoActiveDocument},
	{"page_out_of_range", ErrPageOutOfRange},
	{"unknown_format", ErrUnknownFormat},
	{"nothing_staged", ErrNothingStaged},
	{"workspace_not_found", ErrWorkspaceNotFound},
	{"document_not_found", ErrDocumentNotFound},
	{"stale_document", ErrStaleDocument},
}

// ErrorCode returns the wire code of the sentinel wrapped by err, or
// "internal" when there is none
func ErrorCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "internal"
}

// ErrorForCode returns the sentinel for a wire code, or nil
func ErrorForCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}

// EngineError wraps a failed engine call
type EngineError struct {
	Op    string
	Route string
	Index int
	Err   error
}

func (e *EngineError) Error() string {
	switch e.Op {
	case "render":
		return fmt.Sprintf("render page %d: %v", e.Index+1, e.Err)
	case "open":
		return fmt.Sprintf("open %q: %v", e.Route, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func errorNotice(err error) Notice {
	return Notice{Level: LevelError, Message: err.Error(), Err: err}
}
