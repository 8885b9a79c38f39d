//go:build darwin

package permissions

/*
#cgo LDFLAGS: -framework AVFoundation -framework Cocoa
#import <AVFoundation/AVFoundation.h>
#import <Cocoa/Cocoa.h>

int checkMicrophonePermission() {
    AVAuthorizationStatus status = [AVCaptureDevice authorizationStatusForMediaType:AVMediaTypeAudio];
    return (int)status;
}

void requestMicrophonePermission() {
    [AVCaptureDevice requestAccessForMediaType:AVMediaTypeAudio completionHandler:^(BOOL granted) {}];
}

int checkAccessibilityPermission() {
    NSDictionary *options = @{(__bridge id)kAXTrustedCheckOptionPrompt: @YES};
    return AXIsProcessTrustedWithOptions((__bridge CFDictionaryRef)options) ? 1 : 0;
}
*/
import "C"

import (
	"fmt"

	"github.com/rs/zerolog"
)

const permissionAuthorized = 3 // AVAuthorizationStatusAuthorized

// Ensure verifies microphone access (capture) and accessibility access
// (hotkeys + paste keystroke), prompting the system dialogs where possible.
func Ensure(log zerolog.Logger) error {
	if status := int(C.checkMicrophonePermission()); status != permissionAuthorized {
		C.requestMicrophonePermission()
		log.Warn().Int("status", status).Msg("Microphone permission not granted yet")
		return fmt.Errorf("microphone permission not granted")
	}

	if int(C.checkAccessibilityPermission()) != 1 {
		log.Warn().Msg("Accessibility permission required: System Settings > Privacy & Security > Accessibility")
		return fmt.Errorf("accessibility permission not granted")
	}

	return nil
}
