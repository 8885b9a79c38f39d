//go:build darwin

package hotkey

/*
#cgo LDFLAGS: -framework Carbon
#include <Carbon/Carbon.h>

// Forward declaration for Go callback
extern void goHotkeyCallback(int pressed);

static OSStatus hotkeyHandler(EventHandlerCallRef nextHandler, EventRef theEvent, void* userData) {
    EventHotKeyID hkRef;
    GetEventParameter(theEvent, kEventParamDirectObject, typeEventHotKeyID, NULL, sizeof(hkRef), NULL, &hkRef);

    UInt32 eventKind = GetEventKind(theEvent);
    int pressed = (eventKind == kEventHotKeyPressed) ? 1 : 0;

    goHotkeyCallback(pressed);

    return noErr;
}

static int registerHotkey(UInt32 keyCode, UInt32 modifiers) {
    EventTypeSpec eventTypes[2];
    eventTypes[0].eventClass = kEventClassKeyboard;
    eventTypes[0].eventKind = kEventHotKeyPressed;
    eventTypes[1].eventClass = kEventClassKeyboard;
    eventTypes[1].eventKind = kEventHotKeyReleased;

    EventHandlerUPP handlerUPP = NewEventHandlerUPP(hotkeyHandler);
    InstallApplicationEventHandler(handlerUPP, 2, eventTypes, NULL, NULL);

    EventHotKeyRef hotKeyRef;
    EventHotKeyID hotKeyID;
    hotKeyID.signature = 'vxtr';
    hotKeyID.id = 1;

    OSStatus status = RegisterEventHotKey(keyCode, modifiers, hotKeyID, GetApplicationEventTarget(), 0, &hotKeyRef);

    return (status == noErr) ? 1 : 0;
}
*/
import "C"

import (
	"fmt"
)

// Carbon modifier masks.
const (
	cmdKey     = 0x0100
	shiftKey   = 0x0200
	optionKey  = 0x0800
	controlKey = 0x1000
)

// Carbon virtual key codes for the keys an accelerator can name.
var darwinKeyCodes = map[string]uint32{
	"A": 0, "B": 11, "C": 8, "D": 2, "E": 14, "F": 3, "G": 5, "H": 4,
	"I": 34, "J": 38, "K": 40, "L": 37, "M": 46, "N": 45, "O": 31,
	"P": 35, "Q": 12, "R": 15, "S": 1, "T": 17, "U": 32, "V": 9,
	"W": 13, "X": 7, "Y": 16, "Z": 6,
	"0": 29, "1": 18, "2": 19, "3": 20, "4": 21, "5": 23, "6": 22,
	"7": 26, "8": 28, "9": 25,
	"SPACE": 49, "RETURN": 36, "TAB": 48, "ESCAPE": 53,
	"F1": 122, "F2": 120, "F3": 99, "F4": 118, "F5": 96, "F6": 97,
	"F7": 98, "F8": 100, "F9": 101, "F10": 109, "F11": 103, "F12": 111,
}

type darwinManager struct {
	callback func(bool)
}

var globalManager *darwinManager

// New creates a new macOS hotkey manager using Carbon
func New() (Manager, error) {
	return &darwinManager{}, nil
}

//export goHotkeyCallback
func goHotkeyCallback(pressed C.int) {
	if globalManager != nil && globalManager.callback != nil {
		globalManager.callback(pressed == 1)
	}
}

func (m *darwinManager) Register(accelStr string, callback func(pressed bool)) error {
	a, err := parseAccel(accelStr)
	if err != nil {
		return err
	}

	keyCode, ok := darwinKeyCodes[a.Key]
	if !ok {
		return fmt.Errorf("unsupported key %q in accelerator %q", a.Key, accelStr)
	}

	var modifiers uint32
	if a.Ctrl {
		modifiers |= controlKey
	}
	if a.Shift {
		modifiers |= shiftKey
	}
	if a.Alt {
		modifiers |= optionKey
	}
	if a.Meta {
		modifiers |= cmdKey
	}

	m.callback = callback
	globalManager = m

	if C.registerHotkey(C.UInt32(keyCode), C.UInt32(modifiers)) == 0 {
		return fmt.Errorf("failed to register %q", accelStr)
	}
	return nil
}

func (m *darwinManager) Close() error {
	globalManager = nil
	return nil
}
