// Package engine implements the panda store: reducers, effects, feature
// composition and the single-writer run loop that ties them together.
//
// ARCHITECTURE:
//
// Single-Writer Run Loop:
// Store.Run dequeues one action at a time from a FIFO queue, runs the root
// reducer against the state and publishes the result. Only the loop
// goroutine mutates state. This ensures:
// - Actions are reduced in submission order
// - No two reducer invocations overlap
// - Replaying the same actions reproduces the same state
//
// Action Processing Flow:
// 1. Send (UI intent) or an effect continuation enqueues an envelope
// 2. Run dequeues it and drops it if its effect was cancelled meanwhile
// 3. The action is charged to its flow's step budget
// 4. The reducer mutates state and returns effects
// 5. State is published to subscribers
// 6. Effects are applied in the order the reducer returned them
//
// Effects run on worker goroutines. Their results come back through the
// same queue, so reducers never suspend and never see concurrent input.
//
// CRITICAL PATTERNS:
//
// Seq Stamps:
// Every reduced action gets the next value of the store's SeqClock.
// Settle and the step budget both read the same flow ledger, which forgets
// a flow once nothing of it is queued or running.
//
// Discard-on-Arrival Cancellation:
// Cancelling an effect cancels its context and marks its handle. A
// continuation that was already queued is dropped when dequeued, so a
// cancelled effect never delivers.
//
// Scoped Cancel Keys:
// A CancelID is {Scope, Role}. Scope composes child effects under their
// parent's path, so CancelScope("watched/detail") tears down the whole
// detail subtree and nothing else.
package engine
