package backend

import (
	"context"
	"fmt"
	"net/http"
)

// Request carries the constraints for one metadata resolution.
type Request struct {
	MinWidth  int
	MinHeight int
	Keywords  []string // advisory; backends without keyword support ignore it
}

// ImageInfo describes a candidate image resolved by a backend.
// Width and Height are best-effort and may be nil when the source does not
// report dimensions.
type ImageInfo struct {
	URL       string
	Width     *int
	Height    *int
	Source    string            // backend name that produced this info
	ImageID   string            // stable identifier from the source, "" if unknown
	Extension string            // lower-case file extension, e.g. "jpg"
	Extra     map[string]string // source-specific metadata (title, attribution, ...)
}

// Backend defines the interface for an online image source.
// Implementations are stateless singletons; each FetchImageInfo call performs
// exactly one outbound request cycle and never retries internally.
type Backend interface {
	// Name returns the unique backend name used as the registry key.
	Name() string
	// SupportsKeywords reports whether the source can filter by keywords.
	SupportsKeywords() bool
	// BaseURL returns the service base URL, for documentation and logging.
	BaseURL() string
	// FetchImageInfo resolves metadata for a random image meeting the
	// request constraints. It fails with *Error on any source-level problem.
	FetchImageInfo(ctx context.Context, client *http.Client, req Request) (*ImageInfo, error)
}

// Error is returned by a backend when it fails to resolve an image.
type Error struct {
	Backend string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Backend, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errorf builds a backend error with a formatted message.
func Errorf(name, format string, v ...interface{}) *Error {
	return &Error{Backend: name, Message: fmt.Sprintf(format, v...)}
}

// WrapErr builds a backend error carrying an underlying cause.
func WrapErr(name string, err error) *Error {
	return &Error{Backend: name, Message: err.Error(), Err: err}
}

// Int returns a pointer to v, for the optional dimension fields of ImageInfo.
func Int(v int) *int {
	return &v
}
