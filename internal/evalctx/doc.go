// Package evalctx implements the evaluation Context: a typed, copyable
// key/value environment threaded through graph evaluation, doubling as the
// cache key for memoized results.
//
// ARCHITECTURE:
//
// Store:
// Each Context owns one Store, an insertion-ordered name -> value.Value
// mapping built on persistent collections. Copying a Context copies two
// root pointers; later writes rebind only the writer's roots, so a copy and
// its source never observe each other's changes.
//
// Values cross the Context boundary by copy in both directions. Set clones
// its argument and Get clones its result, so no caller slice is ever
// aliased by the Store.
//
// Cache key:
// Hash returns a domain-separated SHA-256 of the canonical encoding of the
// (name, value) set. It depends only on contents, never on construction
// history or insertion order, and is recomputed lazily after a change.
//
// Change notification:
// Changed returns the Context's Signal. Handlers run synchronously on the
// writing goroutine after every Set that actually changes a value; writing
// an equal value is a no-op and does not notify.
//
// Scoping:
// Go has no goroutine-local storage, so the "current" Context lives on an
// explicit Stack owned by one goroutine, usually carried in a
// context.Context. Stack.Enter returns a Scope whose Exit restores the
// previous state; defer it. A goroutine that has no Stack sees a default
// Context (frame = 1) as current.
//
// Substitution:
// Substitute expands $name, ${name} and #-run frame tokens against the
// Context. An unterminated ${ makes the whole result "".
//
// CONCURRENCY:
//
// Any number of goroutines may read one Context concurrently (Get, Hash,
// Equal, Substitute). Mutating a Context that another goroutine is reading
// or has entered on its Stack requires external locking.
package evalctx
