package rpmdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ralt/rpmaudit/internal/models"
)

// Index is the relational side of an rpmdb.sqlite file
type Index struct {
	db   *sql.DB
	path string
}

// OpenIndex opens the index at path
func OpenIndex(ctx context.Context, path string) (*Index, error) {
	db, err := openReadOnly(ctx, path)
	if err != nil {
		return nil, &models.AuditError{
			Type: models.ErrIndexAccess,
			Path: path,
			Err:  err,
		}
	}
	return &Index{db: db, path: path}, nil
}

// IntegrityCheck runs PRAGMA integrity_check and returns its first row
func (i *Index) IntegrityCheck(ctx context.Context) (string, error) {
	var status string
	if err := i.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&status); err != nil {
		return "", fmt.Errorf("integrity_check: %w", err)
	}
	return status, nil
}

// NameCount counts the rows of the Name index table
func (i *Index) NameCount(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM Name").Scan(&n); err != nil {
		return 0, fmt.Errorf("count Name rows: %w", err)
	}
	return n, nil
}

// Close releases the index connection
func (i *Index) Close() error {
	return i.db.Close()
}

// UnavailableIndex is an IndexOracle that could not be opened. Every query
// returns the error from opening it.
type UnavailableIndex struct {
	Err error
}

// IntegrityCheck returns the open error
func (u UnavailableIndex) IntegrityCheck(ctx context.Context) (string, error) {
	return "", u.Err
}

// NameCount returns the open error
func (u UnavailableIndex) NameCount(ctx context.Context) (int, error) {
	return 0, u.Err
}
