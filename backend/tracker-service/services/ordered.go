package services

import "slices"

// ordered is a string-keyed map that iterates in insertion order.
// Overwriting a key keeps its original position.
type ordered[V any] struct {
	keys  []string
	items map[string]V
}

func newOrdered[V any]() *ordered[V] {
	return &ordered[V]{items: make(map[string]V)}
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.items[key]
	return v, ok
}

func (o *ordered[V]) has(key string) bool {
	_, ok := o.items[key]
	return ok
}

func (o *ordered[V]) set(key string, v V) {
	if _, ok := o.items[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.items[key] = v
}

func (o *ordered[V]) delete(key string) bool {
	if _, ok := o.items[key]; !ok {
		return false
	}
	delete(o.items, key)
	o.keys = slices.DeleteFunc(o.keys, func(k string) bool { return k == key })
	return true
}

func (o *ordered[V]) len() int {
	return len(o.keys)
}

func (o *ordered[V]) values() []V {
	out := make([]V, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.items[k])
	}
	return out
}
