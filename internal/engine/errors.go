package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error detected by the store while running.
//
// Runtime errors include:
//   - Quota exceeded: a flow reduced more actions than allowed
//   - Store stopped: an action was sent after Stop
//   - Effect failed: an effect returned an error (logged, never surfaced)
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// FlowToken identifies the affected flow.
	FlowToken string

	// Action is the described action or effect involved, if any.
	Action string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeQuotaExceeded indicates the flow exceeded max steps.
	ErrCodeQuotaExceeded RuntimeErrorCode = "QUOTA_EXCEEDED"

	// ErrCodeStoreStopped indicates the store no longer accepts actions.
	ErrCodeStoreStopped RuntimeErrorCode = "STORE_STOPPED"

	// ErrCodeEffectFailed indicates an effect returned an error.
	ErrCodeEffectFailed RuntimeErrorCode = "EFFECT_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.FlowToken != "" && e.Action != "" {
		return fmt.Sprintf("%s: %s (flow=%s, action=%s)", e.Code, msg, e.FlowToken, e.Action)
	}
	if e.FlowToken != "" {
		return fmt.Sprintf("%s: %s (flow=%s)", e.Code, msg, e.FlowToken)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsQuotaError returns true if the error reports an exhausted flow budget.
func IsQuotaError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeQuotaExceeded
}

// IsStoppedError returns true if the error reports a stopped store.
func IsStoppedError(err error) bool {
	var re *RuntimeError
	return errors.As(err, &re) && re.Code == ErrCodeStoreStopped
}

// NewQuotaError creates a RuntimeError for quota exceeded.
func NewQuotaError(flowToken, action string, steps, maxSteps int) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeQuotaExceeded,
		Message:   fmt.Sprintf("flow exceeded max steps (%d > %d)", steps, maxSteps),
		FlowToken: flowToken,
		Action:    action,
		Details: map[string]string{
			"steps":     fmt.Sprintf("%d", steps),
			"max_steps": fmt.Sprintf("%d", maxSteps),
		},
	}
}

// NewEffectError creates a RuntimeError for a failed effect.
func NewEffectError(flowToken, effect string, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeEffectFailed,
		Message:   "effect failed",
		FlowToken: flowToken,
		Action:    effect,
		Err:       err,
	}
}

// ErrStopped is returned by operations on a stopped store.
var ErrStopped = &RuntimeError{
	Code:    ErrCodeStoreStopped,
	Message: "store is stopped",
}
