// Package pkgdb implements the installation database (§3's "Installation
// database": an ordered list of installed packages, each
// (name, version, architecture, description, file-list, checksum)),
// backed by a pluggable sorted key-value store.
//
// The KeyValue/BatchMutation/Iterator shapes and the registry pattern below
// are grounded on pkg/sorted's own interface and pkg/sorted/sqlkv's
// *sql.DB-backed implementation; pkgdb registers one constructor per
// storage engine the same way pkg/sorted/{sqlite,mysql,postgres,leveldb,
// kvfile} each call sorted.RegisterKeyValue.
package pkgdb

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotFound   = errors.New("pkgdb: key not found")
	errWrongBatch = errors.New("pkgdb: wrong BatchMutation type")
)

// KeyValue is a sorted, enumerable key-value store supporting batched
// mutations, the same shape pkg/sorted.KeyValue exposes.
type KeyValue interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error

	BeginBatch() BatchMutation
	CommitBatch(b BatchMutation) error

	// Find returns an iterator positioned before the first key >= key.
	Find(key string) Iterator

	Close() error
}

// BatchMutation accumulates Set/Delete calls for one CommitBatch.
type BatchMutation interface {
	Set(key, value string)
	Delete(key string)
}

// Iterator walks a KeyValue's pairs in key order.
type Iterator interface {
	Next() bool
	Key() string
	Value() string
	Close() error
}

// Opener is a storage engine's constructor, keyed by name in the registry
// below (mirrors sorted.RegisterKeyValue/NewKeyValue).
type Opener func(dsn string) (KeyValue, error)

var (
	registryMu sync.Mutex
	registry   = make(map[string]Opener)
)

// Register installs an Opener under name; concrete backend files call this
// from an init() the way each pkg/sorted/* package does.
func Register(name string, open Opener) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = open
}

// Open resolves name through the registry and opens dsn against it.
func Open(name, dsn string) (KeyValue, error) {
	registryMu.Lock()
	open, ok := registry[name]
	registryMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("pkgdb: unknown storage engine %q", name)
	}
	return open(dsn)
}

// MemKV is an in-memory reference KeyValue, used by tests and by any build
// with no persistent backend configured.
type MemKV struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string]string)}
}

func init() {
	Register("mem", func(string) (KeyValue, error) { return NewMemKV(), nil })
}

func (m *MemKV) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

type memBatch struct {
	sets    map[string]string
	deletes map[string]bool
}

func (m *MemKV) BeginBatch() BatchMutation {
	return &memBatch{sets: make(map[string]string), deletes: make(map[string]bool)}
}

func (b *memBatch) Set(key, value string) { delete(b.deletes, key); b.sets[key] = value }
func (b *memBatch) Delete(key string)     { delete(b.sets, key); b.deletes[key] = true }

func (m *MemKV) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*memBatch)
	if !ok {
		return errors.New("pkgdb: wrong BatchMutation type")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range b.sets {
		m.data[k] = v
	}
	for k := range b.deletes {
		delete(m.data, k)
	}
	return nil
}

type memIterator struct {
	keys []string
	vals map[string]string
	pos  int
}

func (m *MemKV) Find(key string) Iterator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if k >= key {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return &memIterator{keys: keys, vals: m.data, pos: -1}
}

func (it *memIterator) Next() bool {
	it.pos++
	return it.pos < len(it.keys)
}
func (it *memIterator) Key() string   { return it.keys[it.pos] }
func (it *memIterator) Value() string { return it.vals[it.keys[it.pos]] }
func (it *memIterator) Close() error  { return nil }

func (m *MemKV) Close() error { return nil }
