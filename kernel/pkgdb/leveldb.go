package pkgdb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// levelKV implements KeyValue over a single github.com/syndtr/goleveldb
// database file, grounded on pkg/sorted/leveldb's identical use of the
// same package.
type levelKV struct {
	db *leveldb.DB
}

func init() {
	Register("leveldb", func(path string) (KeyValue, error) {
		db, err := leveldb.OpenFile(path, nil)
		if err != nil {
			return nil, err
		}
		return &levelKV{db: db}, nil
	})
}

func (kv *levelKV) Get(key string) (string, error) {
	v, err := kv.db.Get([]byte(key), nil)
	if err == leveldb.ErrNotFound {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return string(v), nil
}

func (kv *levelKV) Set(key, value string) error {
	return kv.db.Put([]byte(key), []byte(value), nil)
}

func (kv *levelKV) Delete(key string) error {
	return kv.db.Delete([]byte(key), nil)
}

type levelBatch struct {
	batch *leveldb.Batch
}

func (kv *levelKV) BeginBatch() BatchMutation {
	return &levelBatch{batch: new(leveldb.Batch)}
}

func (b *levelBatch) Set(key, value string) { b.batch.Put([]byte(key), []byte(value)) }
func (b *levelBatch) Delete(key string)     { b.batch.Delete([]byte(key)) }

func (kv *levelKV) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*levelBatch)
	if !ok {
		return errWrongBatch
	}
	return kv.db.Write(b.batch, nil)
}

type levelIterator struct {
	it iterator.Iterator
}

func (kv *levelKV) Find(key string) Iterator {
	it := kv.db.NewIterator(&util.Range{Start: []byte(key)}, nil)
	return &levelIterator{it: it}
}

func (it *levelIterator) Next() bool      { return it.it.Next() }
func (it *levelIterator) Key() string     { return string(it.it.Key()) }
func (it *levelIterator) Value() string   { return string(it.it.Value()) }
func (it *levelIterator) Close() error    { it.it.Release(); return it.it.Error() }

func (kv *levelKV) Close() error { return kv.db.Close() }
