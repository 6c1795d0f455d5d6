package evalctx

import (
	"slices"
	"sync"
	"sync/atomic"
)

// Handler receives change notifications: the Context that changed and the
// name of the entry that changed. Handlers that need the new value call Get.
type Handler func(c *Context, name string)

// Signal is a synchronous change-notification channel.
//
// Handlers run on the goroutine that performed the write, in connection
// order, before Set returns. A Signal with no connections costs one atomic
// load per emission.
type Signal struct {
	mu    sync.Mutex
	conns []*Connection
	count atomic.Int32
}

// Connection is the handle returned by Connect. Disconnect it to stop
// receiving notifications.
type Connection struct {
	signal    *Signal
	handler   Handler
	connected atomic.Bool
}

// Connect registers h and returns its Connection.
func (s *Signal) Connect(h Handler) *Connection {
	conn := &Connection{signal: s, handler: h}
	conn.connected.Store(true)

	s.mu.Lock()
	s.conns = append(s.conns, conn)
	s.count.Store(int32(len(s.conns)))
	s.mu.Unlock()

	return conn
}

// NumConnections returns the number of connected handlers.
func (s *Signal) NumConnections() int {
	return int(s.count.Load())
}

// Disconnect removes the handler. It is safe to call more than once and
// from inside a handler; a handler disconnected during an emission is not
// called for the remainder of that emission.
func (c *Connection) Disconnect() {
	if !c.connected.CompareAndSwap(true, false) {
		return
	}

	s := c.signal
	s.mu.Lock()
	s.conns = slices.DeleteFunc(s.conns, func(other *Connection) bool { return other == c })
	s.count.Store(int32(len(s.conns)))
	s.mu.Unlock()
}

// Connected reports whether the handler is still registered.
func (c *Connection) Connected() bool {
	return c.connected.Load()
}

// emit calls every connected handler. The connection list is snapshotted
// first, so handlers connected during emission wait for the next one.
func (s *Signal) emit(ctx *Context, name string) {
	if s.count.Load() == 0 {
		return
	}

	s.mu.Lock()
	snapshot := slices.Clone(s.conns)
	s.mu.Unlock()

	for _, conn := range snapshot {
		if conn.connected.Load() {
			conn.handler(ctx, name)
		}
	}
}
