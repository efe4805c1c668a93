package ir

// Phase is the coarse state of a loadable list.
type Phase string

// Loading phases.
const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseFailed  Phase = "failed"
)

// LoadingState is idle, loading or failed(kind). The zero value is idle.
type LoadingState struct {
	Phase Phase     `json:"phase,omitempty"`
	Error ErrorKind `json:"error,omitempty"`
}

// Idle returns the idle state.
func Idle() LoadingState { return LoadingState{Phase: PhaseIdle} }

// Loading returns the loading state.
func Loading() LoadingState { return LoadingState{Phase: PhaseLoading} }

// Failed returns the failed state for kind.
func Failed(kind ErrorKind) LoadingState {
	return LoadingState{Phase: PhaseFailed, Error: kind}
}

// IsLoading reports whether a fetch is in flight.
func (s LoadingState) IsLoading() bool { return s.Phase == PhaseLoading }

// IsIdle reports whether the state is idle. The zero value counts as idle.
func (s LoadingState) IsIdle() bool { return s.Phase == PhaseIdle || s.Phase == "" }

// IsFailed reports whether the last fetch failed.
func (s LoadingState) IsFailed() bool { return s.Phase == PhaseFailed }

// String renders the state for logs and traces.
func (s LoadingState) String() string {
	if s.IsFailed() {
		return "failed(" + string(s.Error) + ")"
	}
	if s.Phase == "" {
		return string(PhaseIdle)
	}
	return string(s.Phase)
}

// FromError returns the state a failed fetch leaves behind.
// Cancellation is never surfaced and yields idle.
func FromError(err error) LoadingState {
	ae := Classify(err)
	if ae == nil || ae.Kind == ErrCancelled {
		return Idle()
	}
	return Failed(ae.Kind)
}
