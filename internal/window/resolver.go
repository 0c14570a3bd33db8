package window

import (
	"fmt"
	"strings"
)

// Query selects a window by title substring (case-sensitive) or native
// id. A zero ID means "not set".
type Query struct {
	Title string
	ID    uint64
}

// Resolver turns queries into live window handles through the active
// backend.
type Resolver struct {
	backend Backend
}

// NewResolver binds a resolver to the process backend.
func NewResolver() (*Resolver, error) {
	b, err := NewBackend()
	if err != nil {
		return nil, err
	}
	return &Resolver{backend: b}, nil
}

// NewResolverWith binds a resolver to an explicit backend.
func NewResolverWith(b Backend) *Resolver {
	return &Resolver{backend: b}
}

// BackendName names the active backend.
func (r *Resolver) BackendName() string { return r.backend.Name() }

// Get resolves a query to exactly one live window. Candidates are
// ranked 2 for visible and active, 1 for visible, 0 otherwise; ties go
// to enumeration order, which is backend-defined.
func (r *Resolver) Get(q Query) (*Window, error) {
	if q.Title == "" && q.ID == 0 {
		return nil, fmt.Errorf("%w: either a title or a window id is required", ErrInvalidArgument)
	}

	natives, err := r.backend.List()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate: %v", ErrOperationFailed, err)
	}

	var candidates []NativeWindow
	for _, n := range natives {
		if q.ID != 0 {
			if n.ID() == q.ID {
				candidates = append(candidates, n)
				break
			}
			continue
		}
		if strings.Contains(n.Title(), q.Title) {
			candidates = append(candidates, n)
		}
	}

	var alive []NativeWindow
	for _, n := range candidates {
		if n.IsAlive() {
			alive = append(alive, n)
		}
	}
	if len(alive) == 0 {
		if q.ID != 0 {
			return nil, fmt.Errorf("%w: no live window with id %d", ErrNotFound, q.ID)
		}
		return nil, fmt.Errorf("%w: no live window with title containing %q", ErrNotFound, q.Title)
	}

	best := alive[0]
	bestScore := -1
	for _, n := range alive {
		score := 0
		if n.IsVisible() {
			score = 1
			if n.IsActive() {
				score = 2
			}
		}
		if score > bestScore {
			bestScore = score
			best = n
			if score == 2 {
				break
			}
		}
	}
	log.Debug("resolved window", "title", best.Title(), "id", best.ID(), "score", bestScore)
	return wrap(best, r.backend)
}

// List wraps every live window the backend reports. Windows that die
// between enumeration and wrapping are logged and skipped; one broken
// window never aborts the whole listing.
func (r *Resolver) List() ([]*Window, error) {
	natives, err := r.backend.List()
	if err != nil {
		return nil, fmt.Errorf("%w: enumerate: %v", ErrOperationFailed, err)
	}

	var windows []*Window
	for _, n := range natives {
		w, err := wrap(n, r.backend)
		if err != nil {
			log.Debug("skipping window during listing", "id", n.ID(), "err", err)
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}
