package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/panda/internal/engine"
	"github.com/roach88/panda/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string              // Assertion type for categorization
	Expected string              // Human-readable expected outcome
	Actual   string              // Human-readable actual outcome
	Trace    []engine.TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, ev := range e.Trace {
			if ev.Kind == engine.TraceReduce {
				fmt.Fprintf(&buf, "  [%d] %s\n", ev.Seq, ev.Action)
			} else {
				fmt.Fprintf(&buf, "  [%s] %s %s\n", ev.Kind, ev.Action, ev.Detail)
			}
		}
	}

	return buf.String()
}

// matchAction reports whether a described action path names want, either
// in full or as a trailing part.
func matchAction(action, want string) bool {
	return action == want || strings.HasSuffix(action, "/"+want)
}

func kindOf(a Assertion) engine.TraceKind {
	if a.Kind == "" {
		return engine.TraceReduce
	}
	return engine.TraceKind(a.Kind)
}

// assertTraceContains checks that the trace holds a matching event.
func assertTraceContains(trace []engine.TraceEvent, a Assertion) error {
	kind := kindOf(a)
	for _, ev := range trace {
		if ev.Kind == kind && matchAction(ev.Action, a.Action) {
			return nil
		}
	}

	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("%s event for %s", kind, a.Action),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that actions appear in the given order.
// Actions don't need to be consecutive (intervening actions are allowed).
func assertTraceOrder(trace []engine.TraceEvent, a Assertion) error {
	kind := kindOf(a)
	next := 0
	for _, ev := range trace {
		if next == len(a.Actions) {
			break
		}
		if ev.Kind == kind && matchAction(ev.Action, a.Actions[next]) {
			next++
		}
	}
	if next == len(a.Actions) {
		return nil
	}

	return &AssertionError{
		Type:     AssertTraceOrder,
		Expected: fmt.Sprintf("actions in order: %v", a.Actions),
		Actual:   fmt.Sprintf("matched %d of %d, missing %s", next, len(a.Actions), a.Actions[next]),
		Trace:    trace,
	}
}

// assertTraceCount checks that the action appears exactly Count times.
func assertTraceCount(trace []engine.TraceEvent, a Assertion) error {
	kind := kindOf(a)
	count := 0
	for _, ev := range trace {
		if ev.Kind == kind && matchAction(ev.Action, a.Action) {
			count++
		}
	}

	if count != *a.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d %s events for %s", *a.Count, kind, a.Action),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertFinalState checks a value in the final state addressed by a
// dotted path. The state is compared in its JSON form, so paths use the
// JSON field names ("watched.list.galleries.0.gid").
func assertFinalState(state any, a Assertion) error {
	tree, err := jsonTree(state)
	if err != nil {
		return err
	}
	actual, found, err := lookupPath(tree, a.Path)
	if err != nil {
		return &AssertionError{Type: AssertFinalState, Expected: "path " + a.Path, Actual: err.Error()}
	}

	switch {
	case a.Absent:
		if found && actual != nil {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s absent", a.Path),
				Actual:   describeValue(actual),
			}
		}
		return nil

	case a.Len != nil:
		n, ok := lengthOf(actual)
		if !found || !ok {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s to be a list or object", a.Path),
				Actual:   describeValue(actual),
			}
		}
		if n != *a.Len {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("len(%s) = %d", a.Path, *a.Len),
				Actual:   fmt.Sprintf("len(%s) = %d", a.Path, n),
			}
		}
		return nil

	default:
		if !found {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %s", a.Path, describeValue(a.Equals)),
				Actual:   "path not found",
			}
		}
		expected, err := jsonTree(a.Equals)
		if err != nil {
			return fmt.Errorf("final_state %s: expected value: %w", a.Path, err)
		}
		want, err := ir.MarshalCanonical(expected)
		if err != nil {
			return fmt.Errorf("final_state %s: expected value: %w", a.Path, err)
		}
		got, err := ir.MarshalCanonical(actual)
		if err != nil {
			return fmt.Errorf("final_state %s: actual value: %w", a.Path, err)
		}
		if !bytes.Equal(want, got) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %s", a.Path, want),
				Actual:   fmt.Sprintf("%s = %s", a.Path, got),
			}
		}
		return nil
	}
}

// assertRequests checks the calls the gallery source received.
func assertRequests(calls []string, a Assertion) error {
	if a.Count != nil && len(calls) != *a.Count {
		return &AssertionError{
			Type:     AssertRequests,
			Expected: fmt.Sprintf("%d requests", *a.Count),
			Actual:   fmt.Sprintf("%d requests: %q", len(calls), calls),
		}
	}
	if a.Actions != nil && !slices.Equal(calls, a.Actions) {
		return &AssertionError{
			Type:     AssertRequests,
			Expected: fmt.Sprintf("requests %q", a.Actions),
			Actual:   fmt.Sprintf("requests %q", calls),
		}
	}
	return nil
}

// assertCached checks the number of cached galleries.
func assertCached(cached int, a Assertion) error {
	if cached != *a.Count {
		return &AssertionError{
			Type:     AssertCached,
			Expected: fmt.Sprintf("%d cached galleries", *a.Count),
			Actual:   fmt.Sprintf("%d cached galleries", cached),
		}
	}
	return nil
}

// jsonTree converts v to its generic JSON form with exact integers.
func jsonTree(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return tree, nil
}

// lookupPath walks a dotted path. Numeric segments index lists.
// Returns found=false when a key is missing or an index is out of range.
func lookupPath(tree any, path string) (any, bool, error) {
	cur := tree
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			next, ok := node[seg]
			if !ok {
				return nil, false, nil
			}
			cur = next
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil {
				return nil, false, fmt.Errorf("segment %q indexes a list", seg)
			}
			if i < 0 || i >= len(node) {
				return nil, false, nil
			}
			cur = node[i]
		case nil:
			return nil, false, nil
		default:
			return nil, false, fmt.Errorf("segment %q of %s descends into a %T", seg, path, cur)
		}
	}
	return cur, true, nil
}

// lengthOf treats null as an empty list; nil slices encode as null.
func lengthOf(v any) (int, bool) {
	switch node := v.(type) {
	case []any:
		return len(node), true
	case map[string]any:
		return len(node), true
	case nil:
		return 0, true
	}
	return 0, false
}

func describeValue(v any) string {
	data, err := ir.MarshalCanonical(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, assertion)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, assertion)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, assertion)
		case AssertFinalState:
			err = assertFinalState(result.State, assertion)
		case AssertRequests:
			err = assertRequests(result.Calls, assertion)
		case AssertCached:
			err = assertCached(result.Cached, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}
