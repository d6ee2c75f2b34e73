// Package varlist implements the kernel's VariableList: a fixed-capacity,
// insertion-ordered map from string keys to string values (§4.B), used for
// device attributes, process environments, and configuration files.
//
// The shape here -- typed accessors over an ordered collection, guarded by
// a single lock -- follows pkg/jsonconfig's Obj accessor style, adapted
// from an arbitrary-JSON blob to the insertion-ordered, mutation-tracked
// structure the spec requires (get/set/unset with tail-append and
// tail-of-buffer shift semantics).
package varlist

import (
	"errors"
	"fmt"

	"visopsys.dev/kernel/kernel/lock"
)

var (
	// ErrNoSuchEntry is returned by Get/Unset when the key is not present.
	ErrNoSuchEntry = errors.New("varlist: no such entry")
	// ErrFull is returned by Set when the list is already at max capacity
	// and the key being set is new.
	ErrFull = errors.New("varlist: list full")
)

// entry is one packed key/value pair. The spec's C original packs
// NUL-terminated key/value bytes into one shared buffer with two parallel
// pointer arrays; in Go the natural equivalent is a single ordered slice of
// (key, value) pairs plus an index -- the buffer-shift invariant becomes a
// slice-delete, which is the same operation at a higher level of
// abstraction.
type entry struct {
	key   string
	value string
}

// List is an ordered, fixed-capacity string->string map. The zero value is
// not usable; create one with New.
type List struct {
	l lock.Lock

	maxEntries int
	maxBytes   int
	usedBytes  int

	entries []entry
	index   map[string]int // key -> position in entries
}

// New creates a List with the given capacity limits. maxEntries <= 0 means
// unlimited entries; maxBytes <= 0 means unlimited packed key/value bytes.
func New(maxEntries, maxBytes int) *List {
	return &List{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		index:      make(map[string]int),
	}
}

func entrySize(key, value string) int {
	// +2 for the NUL terminators the original packs after each string.
	return len(key) + 1 + len(value) + 1
}

// Get returns the value stored under key, or ErrNoSuchEntry.
func (v *List) Get(key string) (string, error) {
	if err := v.l.Acquire(); err != nil {
		return "", err
	}
	defer v.l.Release()

	i, ok := v.index[key]
	if !ok {
		return "", ErrNoSuchEntry
	}
	return v.entries[i].value, nil
}

// Set stores value under key. Per §4.B, setting an existing key first
// unsets it and then appends at the tail -- so Set always moves (or adds)
// the key to the end of iteration order (§8 invariant 3).
func (v *List) Set(key, value string) error {
	if err := v.l.Acquire(); err != nil {
		return err
	}
	defer v.l.Release()

	if i, ok := v.index[key]; ok {
		v.removeAt(i)
	} else if v.maxEntries > 0 && len(v.entries) >= v.maxEntries {
		return ErrFull
	}

	size := entrySize(key, value)
	if v.maxBytes > 0 && v.usedBytes+size > v.maxBytes {
		return ErrFull
	}

	v.index[key] = len(v.entries)
	v.entries = append(v.entries, entry{key: key, value: value})
	v.usedBytes += size
	return nil
}

// Unset removes key. It is a no-op error (ErrNoSuchEntry) if the key is
// not present.
func (v *List) Unset(key string) error {
	if err := v.l.Acquire(); err != nil {
		return err
	}
	defer v.l.Release()

	i, ok := v.index[key]
	if !ok {
		return ErrNoSuchEntry
	}
	v.removeAt(i)
	return nil
}

// removeAt deletes entries[i], shifting the tail down by one slot and
// rebasing the index -- the Go analogue of the original's memmove of the
// packed buffer's suffix and the parallel pointer arrays' suffix. Must be
// called with v.l held.
func (v *List) removeAt(i int) {
	e := v.entries[i]
	v.usedBytes -= entrySize(e.key, e.value)
	v.entries = append(v.entries[:i], v.entries[i+1:]...)
	delete(v.index, e.key)
	for k, pos := range v.index {
		if pos > i {
			v.index[k] = pos - 1
		}
	}
}

// Len returns the number of entries currently stored.
func (v *List) Len() int {
	if err := v.l.Acquire(); err != nil {
		return 0
	}
	defer v.l.Release()
	return len(v.entries)
}

// Keys returns the keys in insertion order (tail-appended on Set of an
// existing key, per §8 invariant 3).
func (v *List) Keys() []string {
	if err := v.l.Acquire(); err != nil {
		return nil
	}
	defer v.l.Release()
	out := make([]string, len(v.entries))
	for i, e := range v.entries {
		out[i] = e.key
	}
	return out
}

// Each calls fn for every (key, value) pair in insertion order. fn must not
// call back into the same List.
func (v *List) Each(fn func(key, value string)) {
	if err := v.l.Acquire(); err != nil {
		return
	}
	defer v.l.Release()
	for _, e := range v.entries {
		fn(e.key, e.value)
	}
}

// String renders the list for debugging, e.g. in panic/log output.
func (v *List) String() string {
	var keys []string
	v.Each(func(k, _ string) { keys = append(keys, k) })
	return fmt.Sprintf("varlist(%d entries: %v)", len(keys), keys)
}
