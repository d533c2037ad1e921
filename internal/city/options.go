package city

import "sync"

// DefaultOptions is the initial selectable city list.
var DefaultOptions = []string{"北京", "上海", "广州", "深圳", "杭州", "成都"}

// Options is the ordered list of selectable cities plus the current selection.
type Options struct {
	mu       sync.RWMutex
	names    []string
	selected string
}

// NewOptions builds a list from names, normalizing and dropping blanks and duplicates.
func NewOptions(names ...string) *Options {
	o := &Options{}
	for _, n := range names {
		o.Ensure(n)
	}
	return o
}

// Ensure appends name (normalized) if it is not selectable yet and reports whether it did.
func (o *Options) Ensure(name string) bool {
	name = Normalize(name)
	if name == "" {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	for _, n := range o.names {
		if n == name {
			return false
		}
	}
	o.names = append(o.names, name)
	return true
}

// Select ensures name is selectable and marks it selected.
func (o *Options) Select(name string) {
	name = Normalize(name)
	if name == "" {
		return
	}
	o.Ensure(name)

	o.mu.Lock()
	o.selected = name
	o.mu.Unlock()
}

// Selected returns the current selection, empty when nothing was selected yet.
func (o *Options) Selected() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.selected
}

// Contains reports whether name (normalized) is selectable.
func (o *Options) Contains(name string) bool {
	name = Normalize(name)

	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, n := range o.names {
		if n == name {
			return true
		}
	}
	return false
}

// List returns a copy of the selectable names in insertion order.
func (o *Options) List() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]string, len(o.names))
	copy(out, o.names)
	return out
}
