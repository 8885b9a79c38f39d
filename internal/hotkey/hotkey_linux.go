//go:build linux

package hotkey

/*
#cgo pkg-config: x11
#include <X11/Xlib.h>
#include <X11/keysym.h>
#include <stdlib.h>

Display* displayPtr = NULL;

int grabKeysym(const char* keysymName, unsigned int modifiers, int* keycodeOut) {
    if (displayPtr == NULL) {
        displayPtr = XOpenDisplay(NULL);
    }
    if (displayPtr == NULL) return 0;

    KeySym sym = XStringToKeysym(keysymName);
    if (sym == NoSymbol) return 0;

    int keycode = XKeysymToKeycode(displayPtr, sym);
    if (keycode == 0) return 0;

    Window root = DefaultRootWindow(displayPtr);
    XGrabKey(displayPtr, keycode, modifiers, root, False, GrabModeAsync, GrabModeAsync);
    // Grab again with LockMask/Mod2Mask so CapsLock and NumLock do not
    // swallow the shortcut.
    XGrabKey(displayPtr, keycode, modifiers | LockMask, root, False, GrabModeAsync, GrabModeAsync);
    XGrabKey(displayPtr, keycode, modifiers | Mod2Mask, root, False, GrabModeAsync, GrabModeAsync);
    XGrabKey(displayPtr, keycode, modifiers | LockMask | Mod2Mask, root, False, GrabModeAsync, GrabModeAsync);
    XSelectInput(displayPtr, root, KeyPressMask | KeyReleaseMask);
    XSync(displayPtr, False);

    *keycodeOut = keycode;
    return 1;
}

int checkEvent(int* keycode, int* pressed) {
    if (displayPtr == NULL) return 0;

    XEvent event;
    if (XPending(displayPtr) > 0) {
        XNextEvent(displayPtr, &event);
        if (event.type == KeyPress || event.type == KeyRelease) {
            *keycode = event.xkey.keycode;
            *pressed = (event.type == KeyPress) ? 1 : 0;
            return 1;
        }
    }
    return 0;
}
*/
import "C"

import (
	"fmt"
	"strings"
	"time"
	"unsafe"
)

// X11 modifier masks.
const (
	shiftMask = 1 << 0
	ctrlMask  = 1 << 2
	mod1Mask  = 1 << 3 // Alt
	mod4Mask  = 1 << 6 // Super
)

type linuxManager struct {
	callbacks map[int]func(bool)
	stop      chan struct{}
}

// New creates a new Linux hotkey manager using X11
func New() (Manager, error) {
	mgr := &linuxManager{
		callbacks: make(map[int]func(bool)),
		stop:      make(chan struct{}),
	}

	go mgr.eventLoop()

	return mgr, nil
}

func (m *linuxManager) Register(accelStr string, callback func(pressed bool)) error {
	a, err := parseAccel(accelStr)
	if err != nil {
		return err
	}

	var modifiers C.uint
	if a.Ctrl {
		modifiers |= ctrlMask
	}
	if a.Shift {
		modifiers |= shiftMask
	}
	if a.Alt {
		modifiers |= mod1Mask
	}
	if a.Meta {
		modifiers |= mod4Mask
	}

	name := C.CString(xKeysymName(a.Key))
	defer C.free(unsafe.Pointer(name))

	var keycode C.int
	if C.grabKeysym(name, modifiers, &keycode) == 0 {
		return fmt.Errorf("failed to grab %q", accelStr)
	}

	m.callbacks[int(keycode)] = callback
	return nil
}

// xKeysymName maps an accelerator key to its X keysym name. Letters are
// lower-case keysyms; named keys keep their X spelling.
func xKeysymName(key string) string {
	switch key {
	case "SPACE":
		return "space"
	case "RETURN", "ENTER":
		return "Return"
	case "TAB":
		return "Tab"
	case "ESC", "ESCAPE":
		return "Escape"
	}
	if len(key) == 1 {
		return strings.ToLower(key)
	}
	// F1..F12 and other named keysyms match their accelerator spelling.
	return key
}

func (m *linuxManager) eventLoop() {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			var keycode, pressed C.int
			if C.checkEvent(&keycode, &pressed) != 0 {
				if cb, ok := m.callbacks[int(keycode)]; ok {
					cb(pressed == 1)
				}
			}
		}
	}
}

func (m *linuxManager) Close() error {
	close(m.stop)
	return nil
}
