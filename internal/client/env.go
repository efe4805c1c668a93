package client

import "errors"

// Env bundles the collaborators handed to feature constructors.
type Env struct {
	Network   Network
	Database  Database
	Clipboard Clipboard
	Haptics   Haptics

	// Language selects the tag translation database.
	Language string
}

// ErrMissingCollaborator is returned by Validate.
var ErrMissingCollaborator = errors.New("env: missing collaborator")

// WithDefaults fills unset side channels with harmless implementations.
func (e Env) WithDefaults() Env {
	if e.Clipboard == nil {
		e.Clipboard = NoopClipboard{}
	}
	if e.Haptics == nil {
		e.Haptics = LogHaptics{}
	}
	if e.Language == "" {
		e.Language = "zh-Hans"
	}
	return e
}

// Validate reports whether the required collaborators are set.
func (e Env) Validate() error {
	switch {
	case e.Network == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("network"))
	case e.Database == nil:
		return errors.Join(ErrMissingCollaborator, errors.New("database"))
	}
	return nil
}
