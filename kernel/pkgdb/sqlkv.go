package pkgdb

import (
	"database/sql"
	"fmt"
)

// sqlKV implements KeyValue over an *sql.DB holding a single (k, v) rows
// table, the same design pkg/sorted/sqlkv.KeyValue uses for every SQL
// backend (sqlite/mysql/postgres all share one query set, differing only
// in the driver name, placeholder style and upsert statement).
type sqlKV struct {
	db              *sql.DB
	placeholderFunc func(n int) string // e.g. "?" for mysql/sqlite, "$1" for postgres
	upsertSQL       string             // dialect-specific upsert, "?"/"$n" placeholders per placeholderFunc
}

func openSQLKV(driverName, dsn string, placeholderFunc func(n int) string, upsertSQL string) (*sqlKV, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	kv := &sqlKV{db: db, placeholderFunc: placeholderFunc, upsertSQL: upsertSQL}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS pkgdb_rows (k TEXT PRIMARY KEY, v TEXT)`); err != nil {
		return nil, fmt.Errorf("pkgdb: create table: %w", err)
	}
	return kv, nil
}

func (kv *sqlKV) ph(n int) string {
	if kv.placeholderFunc != nil {
		return kv.placeholderFunc(n)
	}
	return "?"
}

func (kv *sqlKV) Get(key string) (string, error) {
	row := kv.db.QueryRow(fmt.Sprintf("SELECT v FROM pkgdb_rows WHERE k = %s", kv.ph(1)), key)
	var v string
	if err := row.Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return "", ErrNotFound
		}
		return "", err
	}
	return v, nil
}

func (kv *sqlKV) Set(key, value string) error {
	_, err := kv.db.Exec(kv.upsertSQL, key, value)
	return err
}

func (kv *sqlKV) Delete(key string) error {
	_, err := kv.db.Exec(fmt.Sprintf("DELETE FROM pkgdb_rows WHERE k = %s", kv.ph(1)), key)
	return err
}

type sqlBatch struct {
	tx  *sql.Tx
	kv  *sqlKV
	err error
}

func (kv *sqlKV) BeginBatch() BatchMutation {
	tx, err := kv.db.Begin()
	return &sqlBatch{tx: tx, kv: kv, err: err}
}

func (b *sqlBatch) Set(key, value string) {
	if b.err != nil {
		return
	}
	_, b.err = b.tx.Exec(b.kv.upsertSQL, key, value)
}

func (b *sqlBatch) Delete(key string) {
	if b.err != nil {
		return
	}
	_, b.err = b.tx.Exec(fmt.Sprintf("DELETE FROM pkgdb_rows WHERE k = %s", b.kv.ph(1)), key)
}

func (kv *sqlKV) CommitBatch(bm BatchMutation) error {
	b, ok := bm.(*sqlBatch)
	if !ok {
		return fmt.Errorf("pkgdb: wrong BatchMutation type %T", bm)
	}
	if b.err != nil {
		return b.err
	}
	return b.tx.Commit()
}

type sqlIterator struct {
	rows *sql.Rows
	k, v string
	err  error
}

func (kv *sqlKV) Find(key string) Iterator {
	rows, err := kv.db.Query(fmt.Sprintf(
		"SELECT k, v FROM pkgdb_rows WHERE k >= %s ORDER BY k ASC", kv.ph(1)), key)
	return &sqlIterator{rows: rows, err: err}
}

func (it *sqlIterator) Next() bool {
	if it.err != nil || it.rows == nil {
		return false
	}
	if !it.rows.Next() {
		return false
	}
	it.err = it.rows.Scan(&it.k, &it.v)
	return it.err == nil
}
func (it *sqlIterator) Key() string   { return it.k }
func (it *sqlIterator) Value() string { return it.v }
func (it *sqlIterator) Close() error {
	if it.rows == nil {
		return it.err
	}
	return it.rows.Close()
}

func (kv *sqlKV) Close() error { return kv.db.Close() }
