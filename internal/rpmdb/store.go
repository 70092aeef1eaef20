package rpmdb

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/ralt/rpmaudit/internal/models"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// Locate returns the path of the SQLite file inside dir, failing with
// ErrDatabaseMissing when the directory or file does not exist
func Locate(dir, file string) (string, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		if err == nil {
			err = fmt.Errorf("not a directory")
		}
		return "", &models.AuditError{
			Type: models.ErrDatabaseMissing,
			Path: dir,
			Err:  err,
		}
	}

	path := filepath.Join(dir, file)
	info, err = os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		if err == nil {
			err = fmt.Errorf("not a regular file")
		}
		return "", &models.AuditError{
			Type: models.ErrDatabaseMissing,
			Path: path,
			Err:  fmt.Errorf("%s not found in %s: %w", file, dir, err),
		}
	}

	return path, nil
}

// openReadOnly opens a single-connection read-only handle on path
func openReadOnly(ctx context.Context, path string) (*sql.DB, error) {
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Store reads package headers from the Packages table of an rpmdb.sqlite file
type Store struct {
	db   *sql.DB
	path string
}

// OpenStore opens the header store at path
func OpenStore(ctx context.Context, path string) (*Store, error) {
	db, err := openReadOnly(ctx, path)
	if err != nil {
		return nil, &models.AuditError{
			Type: models.ErrStoreUnreadable,
			Path: path,
			Err:  fmt.Errorf("failed to open header store: %w", err),
		}
	}

	logrus.Debugf("Opened header store %s", path)
	return &Store{db: db, path: path}, nil
}

// Headers reads every header blob in hnum order. Blobs are parsed lazily so a
// single malformed entry surfaces through Header.Get rather than here.
func (s *Store) Headers(ctx context.Context) ([]Header, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT hnum, blob FROM Packages ORDER BY hnum")
	if err != nil {
		return nil, s.unreadable(err)
	}
	defer rows.Close()

	var headers []Header
	for rows.Next() {
		var (
			hnum int
			blob []byte
		)
		if err := rows.Scan(&hnum, &blob); err != nil {
			return nil, s.unreadable(err)
		}
		headers = append(headers, newBlobHeader(hnum, blob))
	}
	if err := rows.Err(); err != nil {
		return nil, s.unreadable(err)
	}

	logrus.Debugf("Read %d headers from %s", len(headers), s.path)
	return headers, nil
}

func (s *Store) unreadable(err error) error {
	return &models.AuditError{
		Type: models.ErrStoreUnreadable,
		Path: s.path,
		Err:  fmt.Errorf("failed to read headers: %w", err),
	}
}

// Close releases the store connection
func (s *Store) Close() error {
	return s.db.Close()
}
