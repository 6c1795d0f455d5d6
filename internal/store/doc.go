// Package store provides SQLite-backed durable storage for memoized
// evaluation results.
//
// A result is identified by (cache_key, node): the Hash of the evaluation
// Context and the name of the node that was evaluated under it. Results
// are write-once; a second write for the same identity is ignored.
//
// # Critical Patterns
//
// Logical time:
//   - Every result carries a seq INTEGER from the writer's logical clock
//   - Listings use ORDER BY seq ASC, cache_key ASC COLLATE BINARY so
//     output is identical across runs
//
// Typed values:
//   - The value column holds the kind-tagged canonical encoding from
//     internal/value, so a stored Float(20) never reads back as Int(20)
//   - The kind column duplicates the tag for SQL-side filtering
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
