package evalctx

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/roach88/scenectx/internal/value"
)

// Context is a typed key/value environment used to parameterize
// evaluation and to key memoized results.
//
// A Context is always used by pointer; pointer identity is object identity
// (see IsSame). Derive a variant by copying and overriding:
//
//	child := parent.Copy()
//	child.MustSet("variant", "hero")
//
// Thread-safety model:
//   - Get, GetOr, Hash, Equal, Names, Substitute: safe from any number of
//     goroutines at once
//   - Set, SetFrame: the caller must ensure no other goroutine is reading
//     the same Context
type Context struct {
	store   Store
	hash    atomic.Pointer[string] // nil until computed, reset on change
	changed Signal
}

// New returns a default Context containing only frame = 1.0.
func New() *Context {
	return &Context{store: NewStore()}
}

// Copy returns a new Context with the same entries as c. The two evolve
// independently afterwards. Observers are not copied.
func Copy(c *Context) *Context {
	cp := &Context{store: c.store}
	if h := c.hash.Load(); h != nil {
		cp.hash.Store(h)
	}
	return cp
}

// Copy is shorthand for Copy(c).
func (c *Context) Copy() *Context {
	return Copy(c)
}

// Get returns a copy of the value stored for name, or *NotFoundError.
func (c *Context) Get(name string) (value.Value, error) {
	v, ok := c.store.Get(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return value.Clone(v), nil
}

// MustGet is like Get but panics on error.
// Use only in tests or when the entry is known to exist.
func (c *Context) MustGet(name string) value.Value {
	v, err := c.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

// GetOr returns a copy of the value stored for name, or def converted with
// value.FromGo when name is absent. GetOr never fails: a default that has
// no Value representation yields nil.
func (c *Context) GetOr(name string, def any) value.Value {
	if v, ok := c.store.Get(name); ok {
		return value.Clone(v)
	}
	dv, err := value.FromGo(def)
	if err != nil {
		return nil
	}
	return dv
}

// Has reports whether name has an entry.
func (c *Context) Has(name string) bool {
	return c.store.Has(name)
}

// Set stores v under name. v may be any Go value accepted by value.FromGo;
// it is copied, so later changes to caller storage are not observed.
//
// Writing a value equal to the current one is a no-op. Otherwise the
// entry is inserted or replaced (its kind may change) and the Changed
// signal fires before Set returns.
//
// The reserved frame entry only accepts numbers; integers are stored as
// floats and other kinds fail with *TypeError. A failed Set leaves the
// Context unchanged.
func (c *Context) Set(name string, v any) error {
	val, err := value.FromGo(v)
	if err != nil {
		return fmt.Errorf("set %q: %w", name, err)
	}

	if name == FrameName {
		val, err = frameValue(val)
		if err != nil {
			return err
		}
	}

	if old, ok := c.store.Get(name); ok && value.Equal(old, val) {
		return nil
	}

	c.store = c.store.With(name, val)
	c.hash.Store(nil)
	c.changed.emit(c, name)
	return nil
}

// MustSet is like Set but panics on error.
// Use only in tests or when the value is known to be valid.
func (c *Context) MustSet(name string, v any) {
	if err := c.Set(name, v); err != nil {
		panic(err)
	}
}

func frameValue(v value.Value) (value.Value, error) {
	switch val := v.(type) {
	case value.Float:
		return val, nil
	case value.Int:
		return value.Float(val), nil
	default:
		return nil, &TypeError{Name: FrameName, Want: value.KindFloat, Got: v.Kind()}
	}
}

// Frame returns the frame entry. It is always present.
func (c *Context) Frame() float64 {
	v, ok := c.store.Get(FrameName)
	if !ok {
		return DefaultFrame
	}
	return float64(v.(value.Float))
}

// SetFrame sets the frame entry.
func (c *Context) SetFrame(frame float64) {
	// A float can always be stored in the frame entry
	_ = c.Set(FrameName, frame)
}

// GetString returns the string stored for name.
func (c *Context) GetString(name string) (string, error) {
	v, err := c.typed(name, value.KindString)
	if err != nil {
		return "", err
	}
	return string(v.(value.String)), nil
}

// GetInt returns the integer stored for name.
func (c *Context) GetInt(name string) (int64, error) {
	v, err := c.typed(name, value.KindInt)
	if err != nil {
		return 0, err
	}
	return int64(v.(value.Int)), nil
}

// GetFloat returns the float stored for name.
func (c *Context) GetFloat(name string) (float64, error) {
	v, err := c.typed(name, value.KindFloat)
	if err != nil {
		return 0, err
	}
	return float64(v.(value.Float)), nil
}

// GetBool returns the boolean stored for name.
func (c *Context) GetBool(name string) (bool, error) {
	v, err := c.typed(name, value.KindBool)
	if err != nil {
		return false, err
	}
	return bool(v.(value.Bool)), nil
}

func (c *Context) typed(name string, want value.Kind) (value.Value, error) {
	v, ok := c.store.Get(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	if v.Kind() != want {
		return nil, &TypeError{Name: name, Want: want, Got: v.Kind()}
	}
	return v, nil
}

// Names returns every entry name in insertion order.
func (c *Context) Names() []string {
	return c.store.Names()
}

// Keys is an alias for Names.
func (c *Context) Keys() []string {
	return c.store.Names()
}

// Len returns the number of entries.
func (c *Context) Len() int {
	return c.store.Len()
}

// Pairs returns copies of every entry in insertion order.
func (c *Context) Pairs() []value.Pair {
	pairs := c.store.Pairs()
	for i := range pairs {
		pairs[i].Value = value.Clone(pairs[i].Value)
	}
	return pairs
}

// IsSame reports whether c and other are the same Context object.
func (c *Context) IsSame(other *Context) bool {
	return c == other
}

// Equal reports whether c and other hold the same set of (name, value)
// pairs. Insertion order is ignored.
func (c *Context) Equal(other *Context) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	if c.store.Len() != other.store.Len() {
		return false
	}
	for _, p := range c.store.Pairs() {
		ov, ok := other.store.Get(p.Name)
		if !ok || !value.Equal(p.Value, ov) {
			return false
		}
	}
	return true
}

// Hash returns the cache key for c: a hex SHA-256 over the canonical
// encoding of its entries. Contexts that are Equal have the same Hash.
func (c *Context) Hash() string {
	if h := c.hash.Load(); h != nil {
		return *h
	}
	h := value.MustHashPairs(value.DomainContext, c.store.Pairs())
	c.hash.Store(&h)
	return h
}

// Changed returns the signal fired after each real change to c.
func (c *Context) Changed() *Signal {
	return &c.changed
}

// String renders the entries in insertion order, e.g. {frame=1 a=apple}.
func (c *Context) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, p := range c.store.Pairs() {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p.Name)
		b.WriteByte('=')
		b.WriteString(value.Format(p.Value))
	}
	b.WriteByte('}')
	return b.String()
}
