package evalctx

import (
	"src.elv.sh/pkg/persistent/hash"
	"src.elv.sh/pkg/persistent/hashmap"
	"src.elv.sh/pkg/persistent/vector"

	"github.com/roach88/scenectx/internal/value"
)

// FrameName is the reserved entry holding the current frame.
const FrameName = "frame"

// DefaultFrame is the frame of a freshly constructed Store.
const DefaultFrame = 1.0

// entry is one slot of the insertion-order vector.
type entry struct {
	name  string
	value value.Value
}

// Store is an insertion-ordered mapping from name to value.Value.
//
// Store is an immutable value: With returns a new Store and leaves the
// receiver untouched. Copying a Store is an assignment, and the copy and
// the original share structure without ever observing each other's
// writes.
//
// Values held by a Store are never mutated. Callers that hand values in or
// out across an API boundary must clone them (Context does).
//
// The zero Store is not usable; start from NewStore.
type Store struct {
	index hashmap.Map   // name -> position in order
	order vector.Vector // position -> entry
}

var emptyIndex = hashmap.New(equalNames, hashName)

func equalNames(a, b any) bool { return a.(string) == b.(string) }

func hashName(k any) uint32 { return hash.String(k.(string)) }

// defaultStore holds only the frame entry. It is shared by every new
// Context; sharing is safe because Stores are immutable.
var defaultStore = Store{index: emptyIndex, order: vector.Empty}.With(FrameName, value.Float(DefaultFrame))

// NewStore returns a Store containing exactly frame = 1.0.
func NewStore() Store {
	return defaultStore
}

// Len returns the number of entries.
func (s Store) Len() int {
	return s.order.Len()
}

// Get returns the value stored for name.
func (s Store) Get(name string) (value.Value, bool) {
	pos, ok := s.index.Index(name)
	if !ok {
		return nil, false
	}
	e, _ := s.order.Index(pos.(int))
	return e.(entry).value, true
}

// Has reports whether name has an entry.
func (s Store) Has(name string) bool {
	_, ok := s.index.Index(name)
	return ok
}

// With returns a Store where name maps to v. An existing name keeps its
// position; a new name is appended.
func (s Store) With(name string, v value.Value) Store {
	e := entry{name: name, value: v}
	if pos, ok := s.index.Index(name); ok {
		return Store{index: s.index, order: s.order.Assoc(pos.(int), e)}
	}
	return Store{
		index: s.index.Assoc(name, s.order.Len()),
		order: s.order.Conj(e),
	}
}

// Names returns all names in insertion order.
func (s Store) Names() []string {
	names := make([]string, 0, s.order.Len())
	for it := s.order.Iterator(); it.HasElem(); it.Next() {
		names = append(names, it.Elem().(entry).name)
	}
	return names
}

// Pairs returns all entries in insertion order. The values are the
// Store's own; clone before handing them to callers.
func (s Store) Pairs() []value.Pair {
	pairs := make([]value.Pair, 0, s.order.Len())
	for it := s.order.Iterator(); it.HasElem(); it.Next() {
		e := it.Elem().(entry)
		pairs = append(pairs, value.Pair{Name: e.name, Value: e.value})
	}
	return pairs
}
