package internal

import (
	"iter"
	"strconv"
)

// OrderedMap is an insertion-ordered map keyed by Values. Int and integral
// float keys address the same slot.
type OrderedMap struct {
	keys   []Value
	values []Value
	index  map[string]int
}

// NewOrderedMap creates an empty map with room for capacity entries
func NewOrderedMap(capacity int) *OrderedMap {
	return &OrderedMap{
		keys:   make([]Value, 0, capacity),
		values: make([]Value, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

// Set inserts or replaces an entry. Replacing keeps the original position.
func (m *OrderedMap) Set(key, value Value) {
	k := hashKey(key)
	if idx, ok := m.index[k]; ok {
		m.values[idx] = value
		return
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, key)
	m.values = append(m.values, value)
}

// SetStr inserts or replaces an entry under a string key
func (m *OrderedMap) SetStr(key string, value Value) {
	m.Set(FromString(key), value)
}

// Get looks up an entry
func (m *OrderedMap) Get(key Value) (Value, bool) {
	if m == nil {
		return Undefined(), false
	}
	idx, ok := m.index[hashKey(key)]
	if !ok {
		return Undefined(), false
	}
	return m.values[idx], true
}

// GetStr looks up an entry under a string key
func (m *OrderedMap) GetStr(key string) (Value, bool) {
	return m.Get(FromString(key))
}

// Has reports whether the key is present
func (m *OrderedMap) Has(key Value) bool {
	_, ok := m.Get(key)
	return ok
}

// Len returns the number of entries
func (m *OrderedMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in insertion order
func (m *OrderedMap) Keys() []Value {
	if m == nil {
		return nil
	}
	out := make([]Value, len(m.keys))
	copy(out, m.keys)
	return out
}

// All iterates entries in insertion order
func (m *OrderedMap) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		if m == nil {
			return
		}
		for i, k := range m.keys {
			if !yield(k, m.values[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy that can be modified independently
func (m *OrderedMap) Clone() *OrderedMap {
	out := NewOrderedMap(m.Len())
	for k, v := range m.All() {
		out.Set(k, v)
	}
	return out
}

// hashKey produces the lookup key for a Value. Numbers that compare equal
// share a key.
func hashKey(v Value) string {
	switch v.typ {
	case TypeString:
		return "s" + v.s
	case TypeInt:
		return "i" + strconv.FormatInt(v.i, 10)
	case TypeFloat:
		if v.f == float64(int64(v.f)) {
			return "i" + strconv.FormatInt(int64(v.f), 10)
		}
		return "f" + strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBool:
		if v.b {
			return "b1"
		}
		return "b0"
	case TypeNone:
		return "n"
	case TypeUndefined:
		return "u"
	default:
		return "r" + v.Repr()
	}
}
