package evalctx

import (
	"context"
	"log/slog"
)

// Default returns a new default Context (frame = 1.0). Each call returns a
// distinct object, and all of them are Equal.
func Default() *Context {
	return New()
}

// Stack is the "currently active" Context stack of one goroutine.
//
// A Stack is not safe for concurrent use. Each goroutine that scopes
// Contexts owns its own Stack; a goroutine started from inside a scope
// does not inherit it, and sees the default Context as current until it
// enters one on its own Stack.
//
// INVARIANTS:
//   - Every Enter is matched by exactly one effective Exit
//   - Popped slots are cleared, so a Stack never keeps an exited Context alive
type Stack struct {
	entries []*Scope
}

// NewStack returns an empty Stack.
func NewStack() *Stack {
	return &Stack{}
}

// Scope is the guard returned by Stack.Enter. Exit restores the Stack to
// the state it had before Enter.
type Scope struct {
	stack *Stack
	ctx   *Context
	depth int // stack depth including this scope's entry
}

// Enter makes c current on s until the returned Scope exits. Entering a
// Context that is already current is allowed.
//
// Use it with defer so every exit path restores the previous state:
//
//	defer stack.Enter(c).Exit()
func (s *Stack) Enter(c *Context) *Scope {
	sc := &Scope{stack: s, ctx: c, depth: len(s.entries) + 1}
	s.entries = append(s.entries, sc)
	return sc
}

// Exit pops this scope's entry. Calling Exit again is a no-op.
//
// If inner scopes were never exited (a missing defer), Exit discards them
// too so the Stack is back to its state before Enter; their own Exit
// calls then do nothing.
func (sc *Scope) Exit() {
	s := sc.stack
	if s == nil {
		return
	}

	i := sc.depth - 1
	if i >= len(s.entries) || s.entries[i] != sc {
		slog.Warn("scope exited after its stack was already unwound",
			"depth", sc.depth,
			"stack_depth", len(s.entries),
		)
		sc.release()
		return
	}

	if len(s.entries) > sc.depth {
		slog.Warn("scope exited with inner scopes still active",
			"depth", sc.depth,
			"stack_depth", len(s.entries),
		)
	}
	for _, popped := range s.entries[i:] {
		popped.release()
	}
	clear(s.entries[i:])
	s.entries = s.entries[:i]
}

func (sc *Scope) release() {
	sc.stack = nil
	sc.ctx = nil
}

// Context returns the Context this scope entered, or nil after Exit.
func (sc *Scope) Context() *Context {
	return sc.ctx
}

// Current returns the top of the Stack, or a default Context if the Stack
// is empty or nil.
func (s *Stack) Current() *Context {
	if s == nil || len(s.entries) == 0 {
		return Default()
	}
	return s.entries[len(s.entries)-1].ctx
}

// Depth returns the number of active scopes.
func (s *Stack) Depth() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// With runs fn with c current on s. The previous state is restored when fn
// returns or panics.
func (s *Stack) With(c *Context, fn func(c *Context)) {
	defer s.Enter(c).Exit()
	fn(c)
}

type stackKey struct{}

// WithStack returns a copy of ctx carrying s.
//
// A Stack belongs to one goroutine. When handing ctx to a new goroutine,
// give it its own Stack:
//
//	go work(evalctx.WithStack(ctx, evalctx.NewStack()))
func WithStack(ctx context.Context, s *Stack) context.Context {
	return context.WithValue(ctx, stackKey{}, s)
}

// StackFrom returns the Stack carried by ctx, or nil.
func StackFrom(ctx context.Context) *Stack {
	s, _ := ctx.Value(stackKey{}).(*Stack)
	return s
}

// Current returns the current Context of the Stack carried by ctx, or a
// default Context when ctx carries no Stack or the Stack is empty.
func Current(ctx context.Context) *Context {
	return StackFrom(ctx).Current()
}

// Enter makes c current on the Stack carried by ctx. When ctx carries no
// Stack a fresh one is attached, and the returned context must be used for
// the scope's lifetime:
//
//	ctx, sc := evalctx.Enter(ctx, c)
//	defer sc.Exit()
func Enter(ctx context.Context, c *Context) (context.Context, *Scope) {
	s := StackFrom(ctx)
	if s == nil {
		s = NewStack()
		ctx = WithStack(ctx, s)
	}
	return ctx, s.Enter(c)
}
