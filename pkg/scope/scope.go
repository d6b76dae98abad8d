// Package scope provides the lambda-parameter symbol table shared by the
// textual parser and the expression-tree converter.
//
// Bindings are pushed for the duration of a body parse and released by the
// function returned from Push, which callers defer so every exit path,
// including failure, removes exactly the entries it added.
//
//	release, err := table.Push(entries...)
//	if err != nil {
//	    return nil
//	}
//	defer release()
package scope

import (
	"errors"
	"fmt"
)

// ErrDuplicate is returned when a key is already bound, either earlier in
// the same Push call or by an enclosing scope.
var ErrDuplicate = errors.New("scope: duplicate binding")

// Entry is a key/value pair to bind.
type Entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Table is a stack of scoped bindings. The zero value is ready to use.
// A Table belongs to a single parse or conversion and is not safe for
// concurrent use.
type Table[K comparable, V any] struct {
	values map[K]V
	depth  int
}

// Lookup returns the value bound to key.
func (t *Table[K, V]) Lookup(key K) (V, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Len returns the number of live bindings.
func (t *Table[K, V]) Len() int {
	return len(t.values)
}

// Depth returns the number of scopes currently pushed.
func (t *Table[K, V]) Depth() int {
	return t.depth
}

// Push binds all entries in a new scope. If any key is already bound,
// nothing is bound and an error wrapping ErrDuplicate is returned.
// Otherwise the returned release function removes the bindings; it is
// idempotent.
func (t *Table[K, V]) Push(entries ...Entry[K, V]) (func(), error) {
	seen := make(map[K]struct{}, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.Key]; ok {
			return nil, fmt.Errorf("%w: %v", ErrDuplicate, e.Key)
		}
		if _, ok := t.values[e.Key]; ok {
			return nil, fmt.Errorf("%w: %v shadows an enclosing binding", ErrDuplicate, e.Key)
		}
		seen[e.Key] = struct{}{}
	}

	if t.values == nil {
		t.values = make(map[K]V, len(entries))
	}
	for _, e := range entries {
		t.values[e.Key] = e.Value
	}
	t.depth++

	released := false
	return func() {
		if released {
			return
		}
		released = true
		for _, e := range entries {
			delete(t.values, e.Key)
		}
		t.depth--
	}, nil
}
