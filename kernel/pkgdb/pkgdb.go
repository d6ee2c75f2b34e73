package pkgdb

import (
	"encoding/json"
	"fmt"
)

// keyPrefix namespaces pkgdb rows within a KeyValue store that may be
// shared with other subsystems.
const keyPrefix = "pkg:"

// Entry records one installed package: its identity, the files it placed
// on disk, and a checksum covering those files' contents.
type Entry struct {
	Name        string
	Version     string
	Arch        string
	Description string
	Files       []string
	Checksum    Checksum
}

// DB is the installation database: an ordered list of Entry records backed
// by a pluggable KeyValue store.
type DB struct {
	kv KeyValue
}

// NewDB wraps an already-opened KeyValue store as a DB.
func NewDB(kv KeyValue) *DB {
	return &DB{kv: kv}
}

func entryKey(name string) string { return keyPrefix + name }

// Add inserts or replaces the Entry for e.Name.
func (db *DB) Add(e Entry) error {
	if e.Name == "" {
		return fmt.Errorf("pkgdb: entry has empty name")
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return db.kv.Set(entryKey(e.Name), string(raw))
}

// Remove deletes the Entry named name, if present.
func (db *DB) Remove(name string) error {
	return db.kv.Delete(entryKey(name))
}

// Get returns the Entry named name.
func (db *DB) Get(name string) (Entry, error) {
	raw, err := db.kv.Get(entryKey(name))
	if err != nil {
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// List returns every installed Entry in name order.
func (db *DB) List() ([]Entry, error) {
	var entries []Entry
	it := db.kv.Find(keyPrefix)
	defer it.Close()
	for it.Next() {
		key := it.Key()
		if len(key) < len(keyPrefix) || key[:len(keyPrefix)] != keyPrefix {
			break
		}
		var e Entry
		if err := json.Unmarshal([]byte(it.Value()), &e); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Verify recomputes name's checksum from the supplied file contents and
// reports whether it matches the recorded one.
func (db *DB) Verify(name string, files map[string][]byte) (bool, error) {
	e, err := db.Get(name)
	if err != nil {
		return false, err
	}
	return ChecksumFiles(files) == e.Checksum, nil
}
