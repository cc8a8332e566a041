package internal

// Object is the protocol for host values exposed to templates. Attribute
// lookups call GetAttribute; a false return means the attribute is undefined.
// Implementations must be safe for concurrent reads.
type Object interface {
	GetAttribute(key Value) (Value, bool)
	EnumerateAttributes() []string
}

// ObjectTruth lets an object decide its own truthiness. Objects without it
// are always true.
type ObjectTruth interface {
	IsTrue() bool
}

// MapObject is an Object backed by a fixed set of named values
type MapObject struct {
	names  []string
	values map[string]Value
}

// NewMapObject creates an object from name/value pairs, keeping their order
func NewMapObject(names []string, values []Value) *MapObject {
	obj := &MapObject{values: make(map[string]Value, len(names))}
	for i, name := range names {
		if i >= len(values) {
			break
		}
		if _, ok := obj.values[name]; !ok {
			obj.names = append(obj.names, name)
		}
		obj.values[name] = values[i]
	}
	return obj
}

// GetAttribute implements Object
func (o *MapObject) GetAttribute(key Value) (Value, bool) {
	name, ok := key.AsString()
	if !ok {
		return Undefined(), false
	}
	v, ok := o.values[name]
	return v, ok
}

// EnumerateAttributes implements Object
func (o *MapObject) EnumerateAttributes() []string {
	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}
