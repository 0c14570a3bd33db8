package window

import (
	"errors"
	"testing"

	"github.com/deskctl/deskctl/internal/geom"
)

// fakeWindow is a scriptable NativeWindow.
type fakeWindow struct {
	title       string
	id          uint64
	box         geom.BBox
	alive       bool
	visible     bool
	active      bool
	activateErr error
	closeErr    error

	activateCalls int
	closeCalls    int

	// activateSucceedsAfter flips active to true once Activate has
	// been called this many times.
	activateSucceedsAfter int
}

func (f *fakeWindow) Title() string { return f.title }
func (f *fakeWindow) ID() uint64    { return f.id }
func (f *fakeWindow) Geometry() (geom.BBox, error) {
	return f.box, nil
}
func (f *fakeWindow) IsAlive() bool   { return f.alive }
func (f *fakeWindow) IsVisible() bool { return f.visible }
func (f *fakeWindow) IsActive() bool  { return f.active }
func (f *fakeWindow) Activate() error {
	f.activateCalls++
	if f.activateErr != nil {
		return f.activateErr
	}
	if f.activateSucceedsAfter > 0 && f.activateCalls >= f.activateSucceedsAfter {
		f.active = true
	}
	return nil
}
func (f *fakeWindow) Close() error {
	f.closeCalls++
	if f.closeErr == nil {
		f.alive = false
	}
	return f.closeErr
}

// fakeBackend serves a fixed window list and counts enumerations.
type fakeBackend struct {
	windows   []NativeWindow
	listErr   error
	listCalls int
	noClose   bool
	noVerify  bool
}

func (b *fakeBackend) Name() string { return "fake" }
func (b *fakeBackend) List() ([]NativeWindow, error) {
	b.listCalls++
	return b.windows, b.listErr
}
func (b *fakeBackend) CanClose() bool        { return !b.noClose }
func (b *fakeBackend) CanVerifyActive() bool { return !b.noVerify }

func alive(title string, id uint64) *fakeWindow {
	return &fakeWindow{title: title, id: id, alive: true, visible: true, box: geom.New(0, 0, 100, 100)}
}

func TestGetRejectsEmptyQueryBeforeBackend(t *testing.T) {
	b := &fakeBackend{}
	r := NewResolverWith(b)

	_, err := r.Get(Query{})
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("Get(empty) error = %v, want ErrInvalidArgument", err)
	}
	if b.listCalls != 0 {
		t.Fatalf("backend was enumerated %d times before validation", b.listCalls)
	}
}

func TestGetByTitleSubstring(t *testing.T) {
	b := &fakeBackend{windows: []NativeWindow{
		alive("Text Editor", 1),
		alive("Terminal - vim", 2),
	}}
	r := NewResolverWith(b)

	w, err := r.Get(Query{Title: "Terminal"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.ID() != 2 {
		t.Fatalf("Get resolved id %d, want 2", w.ID())
	}
}

func TestGetTitleIsCaseSensitive(t *testing.T) {
	b := &fakeBackend{windows: []NativeWindow{alive("Terminal", 1)}}
	r := NewResolverWith(b)

	if _, err := r.Get(Query{Title: "terminal"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("lowercase query error = %v, want ErrNotFound", err)
	}
}

func TestGetByID(t *testing.T) {
	b := &fakeBackend{windows: []NativeWindow{
		alive("A", 10),
		alive("B", 20),
	}}
	r := NewResolverWith(b)

	w, err := r.Get(Query{ID: 20})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.Title() != "B" {
		t.Fatalf("Get by id resolved %q, want B", w.Title())
	}
}

func TestGetPrefersVisibleActive(t *testing.T) {
	hidden := alive("App", 1)
	hidden.visible = false
	visible := alive("App", 2)
	focused := alive("App", 3)
	focused.active = true

	b := &fakeBackend{windows: []NativeWindow{hidden, visible, focused}}
	r := NewResolverWith(b)

	w, err := r.Get(Query{Title: "App"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.ID() != 3 {
		t.Fatalf("Get resolved id %d, want the visible+active window 3", w.ID())
	}
}

func TestGetTieBreaksByEnumerationOrder(t *testing.T) {
	first := alive("App", 1)
	second := alive("App", 2)
	b := &fakeBackend{windows: []NativeWindow{first, second}}
	r := NewResolverWith(b)

	w, err := r.Get(Query{Title: "App"})
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if w.ID() != 1 {
		t.Fatalf("equal-score tie resolved id %d, want first-enumerated 1", w.ID())
	}
}

func TestGetDropsDeadCandidates(t *testing.T) {
	dead := alive("App", 1)
	dead.alive = false
	b := &fakeBackend{windows: []NativeWindow{dead}}
	r := NewResolverWith(b)

	if _, err := r.Get(Query{Title: "App"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("all-dead error = %v, want ErrNotFound", err)
	}
}

func TestListSkipsDeadWindows(t *testing.T) {
	dead := alive("Gone", 1)
	dead.alive = false
	b := &fakeBackend{windows: []NativeWindow{dead, alive("Here", 2)}}
	r := NewResolverWith(b)

	windows, err := r.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(windows) != 1 || windows[0].ID() != 2 {
		t.Fatalf("List = %v, want only window 2", windows)
	}
}

func TestWindowTitleFallsBackToUntitled(t *testing.T) {
	n := alive("", 1)
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if got := w.Title(); got != UntitledTitle {
		t.Fatalf("Title = %q, want %q", got, UntitledTitle)
	}
}

func TestWindowBBoxRejectsDegenerate(t *testing.T) {
	n := alive("Minimized", 1)
	n.box = geom.BBox{}
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if _, err := w.BBox(); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("degenerate BBox error = %v, want ErrOperationFailed", err)
	}
}

func TestWindowBBoxRechecksLiveness(t *testing.T) {
	n := alive("App", 1)
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if _, err := w.BBox(); err != nil {
		t.Fatalf("BBox while alive: %v", err)
	}

	n.alive = false // window closed externally
	if _, err := w.BBox(); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("BBox after death error = %v, want ErrOperationFailed", err)
	}
}

func TestActivateVerifiesWithRetries(t *testing.T) {
	n := alive("App", 1)
	n.activateSucceedsAfter = 2
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := w.Activate(); err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if n.activateCalls != 2 {
		t.Fatalf("Activate called backend %d times, want 2", n.activateCalls)
	}
}

func TestActivateExhaustsRetries(t *testing.T) {
	n := alive("Stubborn", 1) // never becomes active
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := w.Activate(); !errors.Is(err, ErrOperationFailed) {
		t.Fatalf("Activate error = %v, want ErrOperationFailed", err)
	}
	if n.activateCalls != activateRetries+1 {
		t.Fatalf("Activate called backend %d times, want %d", n.activateCalls, activateRetries+1)
	}
}

func TestActivateWithoutVerificationTrustsTheCall(t *testing.T) {
	n := alive("App", 1) // IsActive stays false
	w, err := wrap(n, &fakeBackend{noVerify: true})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := w.Activate(); err != nil {
		t.Fatalf("Activate without verification: %v", err)
	}
	if n.activateCalls != 1 {
		t.Fatalf("Activate called backend %d times, want 1", n.activateCalls)
	}
}

func TestCloseUnsupportedBackend(t *testing.T) {
	n := alive("App", 1)
	w, err := wrap(n, &fakeBackend{noClose: true})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := w.Close(); !errors.Is(err, ErrNotSupported) {
		t.Fatalf("Close error = %v, want ErrNotSupported", err)
	}
	if n.closeCalls != 0 {
		t.Fatal("Close should not reach the backend when unsupported")
	}
}

func TestCloseVerifiesBestEffort(t *testing.T) {
	n := alive("App", 1)
	w, err := wrap(n, &fakeBackend{})
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if n.closeCalls != 1 {
		t.Fatalf("Close called backend %d times, want 1", n.closeCalls)
	}
}
