package pkgdb

import (
	"modernc.org/kv"
)

// kvfileKV implements KeyValue over a single modernc.org/kv file, grounded
// on pkg/sorted/kvfile's identical use of the same package for a
// dependency-light, pure-Go embedded store alongside sqlite/leveldb.
type kvfileKV struct {
	db *kv.DB
}

func init() {
	Register("kvfile", func(path string) (KeyValue, error) {
		opts := &kv.Options{}
		db, err := kv.Open(path, opts)
		if err != nil {
			db, err = kv.Create(path, opts)
			if err != nil {
				return nil, err
			}
		}
		return &kvfileKV{db: db}, nil
	})
}

func (kv *kvfileKV) Get(key string) (string, error) {
	v, err := kv.db.Get(nil, []byte(key))
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", ErrNotFound
	}
	return string(v), nil
}

func (kv *kvfileKV) Set(key, value string) error {
	return kv.db.Set([]byte(key), []byte(value))
}

func (kv *kvfileKV) Delete(key string) error {
	return kv.db.Delete([]byte(key))
}

type kvfileBatch struct {
	sets    map[string]string
	deletes map[string]bool
}

func (kv *kvfileKV) BeginBatch() BatchMutation {
	return &kvfileBatch{sets: make(map[string]string), deletes: make(map[string]bool)}
}

func (b *kvfileBatch) Set(key, value string) { delete(b.deletes, key); b.sets[key] = value }
func (b *kvfileBatch) Delete(key string)     { delete(b.sets, key); b.deletes[key] = true }

func (kv *kvfileKV) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*kvfileBatch)
	if !ok {
		return errWrongBatch
	}
	for k, v := range b.sets {
		if err := kv.db.Set([]byte(k), []byte(v)); err != nil {
			return err
		}
	}
	for k := range b.deletes {
		if err := kv.db.Delete([]byte(k)); err != nil {
			return err
		}
	}
	return nil
}

type kvfileIterator struct {
	enum *kv.Enumerator
	k, v []byte
}

func (kv *kvfileKV) Find(key string) Iterator {
	enum, _, err := kv.db.Seek([]byte(key))
	if err != nil {
		return &kvfileIterator{}
	}
	return &kvfileIterator{enum: enum}
}

func (it *kvfileIterator) Next() bool {
	if it.enum == nil {
		return false
	}
	k, v, err := it.enum.Next()
	if err != nil {
		return false
	}
	it.k, it.v = k, v
	return true
}

func (it *kvfileIterator) Key() string   { return string(it.k) }
func (it *kvfileIterator) Value() string { return string(it.v) }
func (it *kvfileIterator) Close() error  { return nil }

func (kv *kvfileKV) Close() error { return kv.db.Close() }
