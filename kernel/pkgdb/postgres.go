package pkgdb

import (
	"fmt"

	_ "github.com/lib/pq"
)

func init() {
	Register("postgres", func(dsn string) (KeyValue, error) {
		return openSQLKV("postgres", dsn, func(n int) string { return fmt.Sprintf("$%d", n) },
			"INSERT INTO pkgdb_rows (k, v) VALUES ($1, $2) ON CONFLICT(k) DO UPDATE SET v = excluded.v")
	})
}
