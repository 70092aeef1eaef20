package rpmdb

import (
	"context"
	"errors"
)

// DefaultPath is the librpm database directory
const DefaultPath = "/var/lib/rpm"

// DefaultFile is the SQLite backend file name inside the database directory
const DefaultFile = "rpmdb.sqlite"

// TagInstallTime is RPMTAG_INSTALLTIME, only carried by installed headers
const TagInstallTime = 1008

// ErrTagNotFound is returned by Header.Get when the header does not carry the tag
var ErrTagNotFound = errors.New("tag not present in header")

// Header is one installed-package header from the store
type Header interface {
	// ID returns the header number (hnum) within the store
	ID() int

	// Get looks up a tag. Absent tags yield ErrTagNotFound; any other error
	// means the header itself is malformed.
	Get(tag int) (interface{}, error)
}

// HeaderSource yields every installed-package header
type HeaderSource interface {
	// Headers returns all headers, or an error if the store is unreadable
	Headers(ctx context.Context) ([]Header, error)
}

// IndexOracle answers questions about the relational index
type IndexOracle interface {
	// IntegrityCheck returns the engine's integrity status, "ok" when sound
	IntegrityCheck(ctx context.Context) (string, error)

	// NameCount returns the number of rows in the Name index table
	NameCount(ctx context.Context) (int, error)
}
