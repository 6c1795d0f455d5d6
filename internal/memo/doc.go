// Package memo caches node evaluation results keyed by evaluation Context.
//
// A result is identified by the node name and the Hash of the Context it
// was computed under. Two Contexts that are Equal share results, however
// they were built; any real change to a Context gives it a new key.
//
// # Critical Patterns
//
// Compute-once:
//   - Concurrent misses for the same key run the compute function once;
//     later callers wait for the first one
//   - A compute function that asks for its own key, directly or through
//     other nodes, fails with CYCLE_DETECTED instead of deadlocking
//   - Nested Compute calls deeper than the configured limit fail with
//     DEPTH_EXCEEDED
//
// Scoping:
//   - The compute function runs with its Context entered on the Stack
//     carried by the context.Context, so evalctx.Current sees it
//
// Durability:
//   - WithStore backs the cache with a result store; misses consult the
//     store before computing, and computed values are written through
//   - Writes are stamped with a logical clock seq and the cache's run ID
package memo
