package evalctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scenectx/internal/value"
)

type change struct {
	name  string
	value value.Value
}

func TestChangedSignal(t *testing.T) {
	c := New()

	var changes []change
	conn := c.Changed().Connect(func(ctx *Context, name string) {
		assert.True(t, ctx.IsSame(c))
		changes = append(changes, change{name, ctx.MustGet(name)})
	})
	require.True(t, conn.Connected())

	c.MustSet("a", 2)
	assert.Equal(t, []change{{"a", value.Int(2)}}, changes)

	c.MustSet("a", 3)
	assert.Equal(t, []change{{"a", value.Int(2)}, {"a", value.Int(3)}}, changes)

	c.MustSet("b", 1)
	assert.Equal(t, []change{{"a", value.Int(2)}, {"a", value.Int(3)}, {"b", value.Int(1)}}, changes)

	// An assignment that makes no actual change must not notify again
	c.MustSet("b", 1)
	assert.Len(t, changes, 3)
}

func TestChangedSignalFiresForFrame(t *testing.T) {
	c := New()
	var names []string
	c.Changed().Connect(func(_ *Context, name string) { names = append(names, name) })

	c.SetFrame(1) // already 1
	c.SetFrame(2)
	c.SetFrame(2)

	assert.Equal(t, []string{"frame"}, names)
}

func TestChangedSignalArrayNoOp(t *testing.T) {
	c := New()
	count := 0
	c.Changed().Connect(func(*Context, string) { count++ })

	c.MustSet("v", []string{"a", "b"})
	c.MustSet("v", []string{"a", "b"})
	assert.Equal(t, 1, count)

	c.MustSet("v", []string{"a", "c"})
	assert.Equal(t, 2, count)
}

func TestChangedSignalKindChangeNotifies(t *testing.T) {
	c := New()
	count := 0
	c.Changed().Connect(func(*Context, string) { count++ })

	c.MustSet("n", 1)
	c.MustSet("n", 1.0)
	assert.Equal(t, 2, count, "Int(1) and Float(1) are different values")
}

func TestDisconnect(t *testing.T) {
	c := New()
	count := 0
	conn := c.Changed().Connect(func(*Context, string) { count++ })

	c.MustSet("a", 1)
	conn.Disconnect()
	assert.False(t, conn.Connected())
	assert.Equal(t, 0, c.Changed().NumConnections())

	c.MustSet("a", 2)
	assert.Equal(t, 1, count)

	// Idempotent
	conn.Disconnect()
	assert.Equal(t, 0, c.Changed().NumConnections())
}

func TestHandlersRunInConnectionOrder(t *testing.T) {
	c := New()
	var order []int
	c.Changed().Connect(func(*Context, string) { order = append(order, 1) })
	c.Changed().Connect(func(*Context, string) { order = append(order, 2) })
	c.Changed().Connect(func(*Context, string) { order = append(order, 3) })

	c.MustSet("x", true)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestDisconnectDuringEmission(t *testing.T) {
	c := New()
	var calls []string

	var second *Connection
	c.Changed().Connect(func(*Context, string) {
		calls = append(calls, "first")
		second.Disconnect()
	})
	second = c.Changed().Connect(func(*Context, string) {
		calls = append(calls, "second")
	})

	c.MustSet("x", 1)
	assert.Equal(t, []string{"first"}, calls)
}

func TestConnectDuringEmissionWaitsForNextChange(t *testing.T) {
	c := New()
	lateCalls := 0
	connected := false
	c.Changed().Connect(func(ctx *Context, _ string) {
		if !connected {
			connected = true
			ctx.Changed().Connect(func(*Context, string) { lateCalls++ })
		}
	})

	c.MustSet("x", 1)
	assert.Equal(t, 0, lateCalls)

	c.MustSet("x", 2)
	assert.Equal(t, 1, lateCalls)
}

func TestReentrantWriteFromHandler(t *testing.T) {
	c := New()
	var seen []string
	c.Changed().Connect(func(ctx *Context, name string) {
		seen = append(seen, name)
		if name == "a" {
			ctx.MustSet("derived", ctx.Substitute("$a-copy"))
		}
	})

	c.MustSet("a", "x")

	assert.Equal(t, []string{"a", "derived"}, seen)
	assert.Equal(t, value.String("x-copy"), c.MustGet("derived"))
}
