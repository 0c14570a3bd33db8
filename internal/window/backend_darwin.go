//go:build darwin

package window

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework AppKit -framework Foundation
#include <CoreGraphics/CoreGraphics.h>
#import <AppKit/AppKit.h>
#include <string.h>

// Copies info for the window with the given id. Returns 0 on success,
// -1 when the window no longer exists.
static int cg_window_info(uint32_t wid, char *title, int title_len,
                          int *x, int *y, int *w, int *h, int *onscreen, pid_t *pid) {
    CFArrayRef list = CGWindowListCopyWindowInfo(kCGWindowListOptionIncludingWindow, (CGWindowID)wid);
    if (!list || CFArrayGetCount(list) == 0) {
        if (list) CFRelease(list);
        return -1;
    }
    CFDictionaryRef info = (CFDictionaryRef)CFArrayGetValueAtIndex(list, 0);

    title[0] = '\0';
    CFStringRef name = (CFStringRef)CFDictionaryGetValue(info, kCGWindowName);
    if (name) CFStringGetCString(name, title, title_len, kCFStringEncodingUTF8);

    CGRect bounds = CGRectZero;
    CFDictionaryRef boundsDict = (CFDictionaryRef)CFDictionaryGetValue(info, kCGWindowBounds);
    if (boundsDict) CGRectMakeWithDictionaryRepresentation(boundsDict, &bounds);
    *x = (int)bounds.origin.x;
    *y = (int)bounds.origin.y;
    *w = (int)bounds.size.width;
    *h = (int)bounds.size.height;

    *onscreen = 0;
    CFBooleanRef vis = (CFBooleanRef)CFDictionaryGetValue(info, kCGWindowIsOnscreen);
    if (vis && CFBooleanGetValue(vis)) *onscreen = 1;

    *pid = 0;
    CFNumberRef owner = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowOwnerPID);
    if (owner) CFNumberGetValue(owner, kCFNumberIntType, pid);

    CFRelease(list);
    return 0;
}

// Fills ids with up to max layer-0 window ids, front to back.
// Returns the number written.
static int cg_list_windows(uint32_t *ids, int max) {
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionAll | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
    if (!list) return 0;

    int n = 0;
    CFIndex count = CFArrayGetCount(list);
    for (CFIndex i = 0; i < count && n < max; i++) {
        CFDictionaryRef info = (CFDictionaryRef)CFArrayGetValueAtIndex(list, i);
        int layer = -1;
        CFNumberRef layerNum = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowLayer);
        if (layerNum) CFNumberGetValue(layerNum, kCFNumberIntType, &layer);
        if (layer != 0) continue;  // skip docks, menus, overlays

        CFNumberRef widNum = (CFNumberRef)CFDictionaryGetValue(info, kCGWindowNumber);
        uint32_t wid = 0;
        if (widNum) CFNumberGetValue(widNum, kCFNumberSInt32Type, &wid);
        if (wid) ids[n++] = wid;
    }
    CFRelease(list);
    return n;
}

static pid_t ns_frontmost_pid(void) {
    NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    return app ? app.processIdentifier : 0;
}

static int ns_activate_pid(pid_t pid) {
    NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
    if (!app) return -1;
    return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 0 : -1;
}
*/
import "C"
import (
	"fmt"

	"github.com/deskctl/deskctl/internal/geom"
)

func init() {
	NewBackendFunc = newQuartzBackend
}

const maxQuartzWindows = 1024

// quartzBackend enumerates windows through the CoreGraphics window
// list. Quartz has no per-window close primitive, so Close is
// unsupported on this backend.
type quartzBackend struct{}

func newQuartzBackend() (Backend, error) {
	return &quartzBackend{}, nil
}

func (b *quartzBackend) Name() string          { return "quartz" }
func (b *quartzBackend) CanClose() bool        { return false }
func (b *quartzBackend) CanVerifyActive() bool { return true }

func (b *quartzBackend) List() ([]NativeWindow, error) {
	ids := make([]C.uint32_t, maxQuartzWindows)
	n := int(C.cg_list_windows(&ids[0], C.int(maxQuartzWindows)))
	windows := make([]NativeWindow, 0, n)
	for i := 0; i < n; i++ {
		windows = append(windows, &quartzWindow{id: uint32(ids[i])})
	}
	return windows, nil
}

type quartzWindow struct {
	id uint32
}

// info re-reads the window's current state from the window server.
func (w *quartzWindow) info() (title string, box geom.BBox, onscreen bool, pid int, ok bool) {
	var buf [512]C.char
	var x, y, width, height, vis C.int
	var owner C.pid_t
	if C.cg_window_info(C.uint32_t(w.id), &buf[0], 512, &x, &y, &width, &height, &vis, &owner) != 0 {
		return "", geom.BBox{}, false, 0, false
	}
	return C.GoString(&buf[0]), geom.New(int(x), int(y), int(width), int(height)), vis != 0, int(owner), true
}

func (w *quartzWindow) ID() uint64 { return uint64(w.id) }

func (w *quartzWindow) Title() string {
	title, _, _, _, _ := w.info()
	return title
}

func (w *quartzWindow) Geometry() (geom.BBox, error) {
	_, box, _, _, ok := w.info()
	if !ok {
		return geom.BBox{}, fmt.Errorf("window %d is gone", w.id)
	}
	return box, nil
}

func (w *quartzWindow) IsAlive() bool {
	_, _, _, _, ok := w.info()
	return ok
}

func (w *quartzWindow) IsVisible() bool {
	_, _, onscreen, _, ok := w.info()
	return ok && onscreen
}

func (w *quartzWindow) IsActive() bool {
	_, _, onscreen, pid, ok := w.info()
	return ok && onscreen && pid != 0 && pid == int(C.ns_frontmost_pid())
}

func (w *quartzWindow) Activate() error {
	_, _, _, pid, ok := w.info()
	if !ok {
		return fmt.Errorf("window %d is gone", w.id)
	}
	if C.ns_activate_pid(C.pid_t(pid)) != 0 {
		return fmt.Errorf("activate application with pid %d", pid)
	}
	return nil
}

func (w *quartzWindow) Close() error {
	return fmt.Errorf("close is not supported by the quartz backend")
}
