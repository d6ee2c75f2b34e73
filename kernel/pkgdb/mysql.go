package pkgdb

import (
	_ "github.com/go-sql-driver/mysql"
)

func init() {
	Register("mysql", func(dsn string) (KeyValue, error) {
		// MySQL has no ON CONFLICT; REPLACE INTO is its idiomatic
		// last-write-wins upsert.
		return openSQLKV("mysql", dsn, nil,
			"REPLACE INTO pkgdb_rows (k, v) VALUES (?, ?)")
	})
}
