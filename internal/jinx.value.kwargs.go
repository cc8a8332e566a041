package internal

import "sync"

// Kwargs is a keyword-argument collector handed to callables that accept
// extra keyword arguments. It records which keys the callable has read so
// that unread keys can be reported after the call.
type Kwargs struct {
	names  []string
	values map[string]Value

	mu   sync.Mutex
	used map[string]bool
}

// NewKwargs creates an empty collector
func NewKwargs() *Kwargs {
	return &Kwargs{
		values: make(map[string]Value),
		used:   make(map[string]bool),
	}
}

// set adds an entry while the collector is being built by the binder
func (k *Kwargs) set(name string, value Value) {
	if _, ok := k.values[name]; !ok {
		k.names = append(k.names, name)
	}
	k.values[name] = value
}

// Get returns the value for name and marks it as used
func (k *Kwargs) Get(name string) (Value, bool) {
	v, ok := k.values[name]
	if ok {
		k.mu.Lock()
		k.used[name] = true
		k.mu.Unlock()
	}
	return v, ok
}

// Peek returns the value for name without marking it as used
func (k *Kwargs) Peek(name string) (Value, bool) {
	v, ok := k.values[name]
	return v, ok
}

// Has reports whether name was passed
func (k *Kwargs) Has(name string) bool {
	_, ok := k.values[name]
	return ok
}

// Keys returns the keyword names in call-site order
func (k *Kwargs) Keys() []string {
	out := make([]string, len(k.names))
	copy(out, k.names)
	return out
}

// Len returns the number of keyword arguments
func (k *Kwargs) Len() int {
	return len(k.names)
}

// MarkAllUsed marks every key as read
func (k *Kwargs) MarkAllUsed() {
	k.mu.Lock()
	defer k.mu.Unlock()
	for _, name := range k.names {
		k.used[name] = true
	}
}

// Unused returns the keys never read, in call-site order
func (k *Kwargs) Unused() []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	var out []string
	for _, name := range k.names {
		if !k.used[name] {
			out = append(out, name)
		}
	}
	return out
}

// AssertAllUsed fails with an unused-keyword-argument error naming the first
// key that was never read
func (k *Kwargs) AssertAllUsed() error {
	unused := k.Unused()
	if len(unused) == 0 {
		return nil
	}
	return NewEngineError(KindUnusedKeywordArgument, ErrMsgUnusedKeywordArgument).WithName(unused[0])
}
