package testutil

import (
	"sync"

	"github.com/roach88/panda/internal/client"
)

// RecordingClipboard remembers copied text.
type RecordingClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (c *RecordingClipboard) Copy(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = append(c.copied, text)
	return nil
}

// Copied returns every copied string in order.
func (c *RecordingClipboard) Copied() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.copied...)
}

// RecordingHaptics remembers generated feedback.
type RecordingHaptics struct {
	mu       sync.Mutex
	feedback []client.Feedback
}

func (h *RecordingHaptics) Generate(f client.Feedback) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.feedback = append(h.feedback, f)
	return nil
}

// Feedback returns every generated feedback in order.
func (h *RecordingHaptics) Feedback() []client.Feedback {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]client.Feedback(nil), h.feedback...)
}

// Env bundles the fakes into a client.Env.
type Env struct {
	Network   *ScriptedNetwork
	Database  *MemoryDatabase
	Clipboard *RecordingClipboard
	Haptics   *RecordingHaptics
}

// NewEnv creates a fresh set of fakes.
func NewEnv() *Env {
	return &Env{
		Network:   NewScriptedNetwork(),
		Database:  NewMemoryDatabase(),
		Clipboard: &RecordingClipboard{},
		Haptics:   &RecordingHaptics{},
	}
}

// Client returns the client.Env backed by the fakes.
func (e *Env) Client() client.Env {
	return client.Env{
		Network:   e.Network,
		Database:  e.Database,
		Clipboard: e.Clipboard,
		Haptics:   e.Haptics,
	}.WithDefaults()
}
