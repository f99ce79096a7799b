// Package harness runs calculator conformance scenarios.
//
// A scenario is a YAML file listing key presses and the display, outcome
// case, result and pending operator expected after each press. Each run uses
// a fresh in-memory journal, a deterministic clock and a fixed session ID, so
// the recorded trace is byte-for-byte reproducible and can be compared with
// a golden file.
//
// Scenario format:
//
//	name: chaining
//	description: operators resolve left to right
//	division: strict          # optional, "strict" (default) or "ieee"
//	session_id: chain-1       # optional fixed session ID
//	aliases: {plus: "+"}      # optional extra key aliases
//	steps:
//	  - press: "5 + 3 +"
//	    expect: {display: "3", case: Armed, pending: "+"}
//	  - press: "2 ="
//	    expect: {display: "10", case: Resolved, result: "10"}
//	assertions:
//	  - type: trace_count
//	    case: Resolved
//	    count: 1
//
// Assertion types: trace_contains, trace_order, trace_count, final_state.
package harness
