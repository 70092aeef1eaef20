package rpmdb_test

import "database/sql"

func openForWrite(path string) (*sql.DB, error) {
	return sql.Open("sqlite", path)
}
