package client

import (
	"log/slog"

	"github.com/atotto/clipboard"
)

// Clipboard receives copied text.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

// Copy implements Clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Feedback is a haptic feedback style.
type Feedback string

// Feedback styles.
const (
	FeedbackLight   Feedback = "light"
	FeedbackSoft    Feedback = "soft"
	FeedbackSuccess Feedback = "success"
	FeedbackError   Feedback = "error"
)

// Haptics plays feedback.
type Haptics interface {
	Generate(f Feedback) error
}

// LogHaptics stands in for a haptic engine on hosts that have none and
// logs each feedback at debug level.
type LogHaptics struct{}

// Generate implements Haptics.
func (LogHaptics) Generate(f Feedback) error {
	slog.Debug("haptic feedback", "style", string(f))
	return nil
}

// NoopClipboard discards text.
type NoopClipboard struct{}

// Copy implements Clipboard.
func (NoopClipboard) Copy(string) error { return nil }
