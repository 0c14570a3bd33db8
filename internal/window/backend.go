// Package window resolves logical window queries (title substring or
// native id) to live window handles through exactly one platform
// backend selected at process start.
package window

import (
	"errors"

	"github.com/deskctl/deskctl/internal/geom"
	"github.com/deskctl/deskctl/internal/logging"
)

var log = logging.New("window")

var (
	// ErrInvalidArgument reports a malformed query.
	ErrInvalidArgument = errors.New("invalid window query")
	// ErrNotFound reports that no live window matched the query.
	ErrNotFound = errors.New("window not found")
	// ErrOperationFailed reports a backend call that did not take
	// effect (activate, close, geometry).
	ErrOperationFailed = errors.New("window operation failed")
	// ErrBackendNotAvailable reports that no window backend works on
	// this system.
	ErrBackendNotAvailable = errors.New("no window backend available")
	// ErrNotSupported reports an operation the active backend lacks.
	ErrNotSupported = errors.New("operation not supported by window backend")
)

// NativeWindow is one window as the backend sees it. The probe methods
// answer false rather than erroring when the window has gone away.
type NativeWindow interface {
	Title() string
	ID() uint64
	Geometry() (geom.BBox, error)
	IsAlive() bool
	IsVisible() bool
	IsActive() bool
	Activate() error
	Close() error
}

// Backend enumerates windows for one platform.
type Backend interface {
	Name() string
	List() ([]NativeWindow, error)
	// CanClose reports whether Close is implemented.
	CanClose() bool
	// CanVerifyActive reports whether IsActive reflects reality. When
	// false, a non-erroring Activate call counts as success.
	CanVerifyActive() bool
}

// NewBackendFunc is set by the platform-specific file's init(). It
// stays nil on unsupported platforms.
var NewBackendFunc func() (Backend, error)

// NewBackend returns the process-wide backend for the current OS.
func NewBackend() (Backend, error) {
	if NewBackendFunc == nil {
		return nil, ErrBackendNotAvailable
	}
	return NewBackendFunc()
}
