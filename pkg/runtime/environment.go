package runtime

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/raviqqe/hamt"
)

// hashKey indexes the trie by the FNV-1a hash of a name. Names that share a
// hash live together in one hashSlot, so the trie never sees two distinct keys
// with equal hashes.
type hashKey uint32

func hashName(name string) hashKey {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return hashKey(h.Sum32())
}

func (k hashKey) Hash() uint32 {
	return uint32(k)
}

func (k hashKey) Equal(other hamt.Entry) bool {
	o, ok := other.(hashKey)
	if !ok {
		// hamt compares against its own key/value wrapper, which unwraps to the key.
		return other != nil && other.Equal(k)
	}
	return o == k
}

type binding struct {
	name  string
	value Value
}

// hashSlot holds every binding whose name hashes to the same key. Slots are
// never modified after insertion; with returns a fresh copy.
type hashSlot []binding

func (s hashSlot) find(name string) (Value, bool) {
	for _, b := range s {
		if b.name == name {
			return b.value, true
		}
	}
	return nil, false
}

func (s hashSlot) with(name string, value Value) (hashSlot, bool) {
	out := make(hashSlot, len(s), len(s)+1)
	copy(out, s)
	for i := range out {
		if out[i].name == name {
			out[i].value = value
			return out, false
		}
	}
	return append(out, binding{name: name, value: value}), true
}

// Environment provides lexical scoping for runtime values. It is persistent:
// Extend returns a new environment and never modifies the receiver, so
// closures holding an older environment keep seeing exactly what they
// captured. A nil *Environment is the empty environment.
type Environment struct {
	slots hamt.Map
	size  int
}

// NewEnvironment returns an empty environment.
func NewEnvironment() *Environment {
	return &Environment{slots: hamt.NewMap()}
}

// EnvironmentFrom builds an environment holding the given bindings.
func EnvironmentFrom(bindings map[string]Value) *Environment {
	env := NewEnvironment()
	for _, name := range sortedNames(bindings) {
		env = env.Extend(name, bindings[name])
	}
	return env
}

func (e *Environment) table() hamt.Map {
	if e == nil {
		return hamt.NewMap()
	}
	return e.slots
}

func (e *Environment) slot(key hashKey) hashSlot {
	if e == nil {
		return nil
	}
	found := e.slots.Find(key)
	if found == nil {
		return nil
	}
	slot, _ := found.(hashSlot)
	return slot
}

// Extend returns a child environment where name is bound to value. Any
// previous binding of name is shadowed in the child only.
func (e *Environment) Extend(name string, value Value) *Environment {
	key := hashName(name)
	slot, added := e.slot(key).with(name, value)
	size := e.Len()
	if added {
		size++
	}
	return &Environment{slots: e.table().Insert(key, slot), size: size}
}

// Lookup retrieves the innermost binding for name.
func (e *Environment) Lookup(name string) (Value, bool) {
	return e.slot(hashName(name)).find(name)
}

// Get retrieves a binding, reporting an error when it is absent.
func (e *Environment) Get(name string) (Value, error) {
	if val, ok := e.Lookup(name); ok {
		return val, nil
	}
	return nil, fmt.Errorf("Undefined variable '%s'", name)
}

// Has reports whether name is bound.
func (e *Environment) Has(name string) bool {
	_, ok := e.Lookup(name)
	return ok
}

// Len returns the number of visible bindings.
func (e *Environment) Len() int {
	if e == nil {
		return 0
	}
	return e.size
}

// Snapshot returns a copy of the visible bindings.
func (e *Environment) Snapshot() map[string]Value {
	out := make(map[string]Value, e.Len())
	rest := e.table()
	for {
		key, val, next := rest.FirstRest()
		if key == nil {
			break
		}
		if slot, ok := val.(hashSlot); ok {
			for _, b := range slot {
				out[b.name] = b.value
			}
		}
		rest = next
	}
	return out
}

// Keys returns the bindings in sorted order (useful for determinism in tests).
func (e *Environment) Keys() []string {
	return sortedNames(e.Snapshot())
}

func sortedNames(bindings map[string]Value) []string {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
