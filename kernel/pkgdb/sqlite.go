package pkgdb

import (
	// modernc.org/sqlite registers the "sqlite" database/sql driver; the
	// teacher's own go.mod already pulls this in for embedded storage.
	_ "modernc.org/sqlite"
)

func init() {
	Register("sqlite", func(dsn string) (KeyValue, error) {
		return openSQLKV("sqlite", dsn, nil,
			"INSERT INTO pkgdb_rows (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v")
	})
}
