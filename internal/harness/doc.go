// Package harness runs scripted scenarios against the application store.
//
// A scenario scripts the gallery source, seeds the local cache, sends a
// sequence of intents into a fresh app store and asserts on the resulting
// trace and final state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: watched_two_pages
//	description: "Two pages of 25 galleries merge into 50"
//	network:
//	  pages:
//	    - source: watched
//	      cursor: { index: 0, total: 50 }
//	      generate: { from: 0, count: 25 }
//	    - source: watched
//	      last_id: g024
//	      cursor: { index: 1, total: 50 }
//	      generate: { from: 25, count: 25 }
//	database:
//	  history: [ "artist:foo" ]
//	steps:
//	  - send: watched.fetch
//	  - send: watched.fetch_more
//	assertions:
//	  - type: trace_count
//	    action: gallerylist.FetchMoreDone
//	    count: 1
//	  - type: final_state
//	    path: watched.list.galleries
//	    len: 50
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: a value in the final state, addressed by a dotted path
//   - requests: the calls the gallery source received
//   - cached: the number of galleries in the local cache
//
// Trace assertions match an action by its full described path
// ("app.Watched/watched.List/gallerylist.FetchDone") or by any trailing
// part of it ("gallerylist.FetchDone").
//
// # Deterministic Testing
//
// Every scenario runs on a store with synchronous effects, a fresh seq
// counter and a testutil.SequenceFlowGenerator, over an in-memory SQLite
// cache whose cached_at stamps come from a testutil.ManualClock. Identical
// scenarios produce byte-identical traces and state digests. Golden traces live in testdata/golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/watched_two_pages.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
