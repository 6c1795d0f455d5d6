package testutil

import (
	"sync"

	"github.com/roach88/scenectx/internal/evalctx"
)

// Change is one notification seen by a ChangeRecorder.
type Change struct {
	Context *evalctx.Context
	Name    string
}

// ChangeRecorder records the change notifications of a Context.
//
// Thread-safety: All methods are safe for concurrent use.
type ChangeRecorder struct {
	mu      sync.Mutex
	changes []Change
	conn    *evalctx.Connection
}

// RecordChanges connects a recorder to c. Call Stop to disconnect.
func RecordChanges(c *evalctx.Context) *ChangeRecorder {
	r := &ChangeRecorder{}
	r.conn = c.Changed().Connect(func(c *evalctx.Context, name string) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.changes = append(r.changes, Change{Context: c, Name: name})
	})
	return r
}

// Changes returns a copy of the recorded notifications in arrival order.
func (r *ChangeRecorder) Changes() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.changes))
	copy(out, r.changes)
	return out
}

// Names returns the changed names in arrival order.
func (r *ChangeRecorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, len(r.changes))
	for i, ch := range r.changes {
		names[i] = ch.Name
	}
	return names
}

// Reset discards recorded notifications.
func (r *ChangeRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}

// Stop disconnects the recorder. Recorded notifications are kept.
func (r *ChangeRecorder) Stop() {
	r.conn.Disconnect()
}
