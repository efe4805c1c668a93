package engine

import "github.com/google/uuid"

// FlowTokenGenerator names flows. Send opens a flow with a fresh token;
// dispatched actions and effect continuations carry their cause's token,
// which is what traces group by and the step budget counts against.
type FlowTokenGenerator interface {
	Generate() string
}

// FlowFunc adapts a function to FlowTokenGenerator.
type FlowFunc func() string

// Generate calls f.
func (f FlowFunc) Generate() string { return f() }

// UUIDv7Generator is the default generator. UUIDv7 tokens sort by creation
// time, so flows read in order in a log.
type UUIDv7Generator struct{}

// Generate returns a hyphenated UUIDv7. It panics only if the system
// random source fails.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
