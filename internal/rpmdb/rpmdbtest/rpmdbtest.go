// Package rpmdbtest provides fake header sources and on-disk rpmdb fixtures.
package rpmdbtest

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"testing"

	"github.com/ralt/rpmaudit/internal/rpmdb"
	"github.com/sassoftware/go-rpmutils"
)

// Header is an in-memory rpmdb.Header
type Header struct {
	Num  int
	Tags map[int]interface{}

	// Err, when set, is returned by every lookup
	Err error
}

// ID returns the header number
func (h *Header) ID() int {
	return h.Num
}

// Get returns the tag value, Err, or rpmdb.ErrTagNotFound
func (h *Header) Get(tag int) (interface{}, error) {
	if h.Err != nil {
		return nil, h.Err
	}
	v, ok := h.Tags[tag]
	if !ok {
		return nil, rpmdb.ErrTagNotFound
	}
	return v, nil
}

// PackageHeader builds a header shaped like a decoded installed package.
// An empty vendor leaves the vendor tag out.
func PackageHeader(num int, name, version, release, arch, vendor string) *Header {
	tags := map[int]interface{}{
		rpmutils.NAME:        []string{name},
		rpmutils.VERSION:     []string{version},
		rpmutils.RELEASE:     []string{release},
		rpmutils.ARCH:        []string{arch},
		rpmdb.TagInstallTime: []int{1700000000 + num},
	}
	if vendor != "" {
		tags[rpmutils.VENDOR] = []string{vendor}
	}
	return &Header{Num: num, Tags: tags}
}

// BrokenHeader builds a header whose every lookup fails with err
func BrokenHeader(num int, err error) *Header {
	return &Header{Num: num, Err: err}
}

// Source is an in-memory rpmdb.HeaderSource
type Source struct {
	List []rpmdb.Header
	Err  error
}

// Headers returns List, or Err when set
func (s *Source) Headers(ctx context.Context) ([]rpmdb.Header, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.List, nil
}

// Oracle is an in-memory rpmdb.IndexOracle
type Oracle struct {
	Integrity    string
	IntegrityErr error
	Names        int
	NamesErr     error
}

// IntegrityCheck returns the configured status
func (o *Oracle) IntegrityCheck(ctx context.Context) (string, error) {
	return o.Integrity, o.IntegrityErr
}

// NameCount returns the configured row count
func (o *Oracle) NameCount(ctx context.Context) (int, error) {
	return o.Names, o.NamesErr
}

// Entry is one tag of a header blob; Value is a string or an int32
type Entry struct {
	Tag   int
	Value interface{}
}

const (
	typeInt32  = 4
	typeString = 6
)

// BuildBlob encodes entries as an exported header blob: index count, data
// length, index entries, then the data store
func BuildBlob(entries []Entry) []byte {
	var index, data bytes.Buffer

	for _, e := range entries {
		switch v := e.Value.(type) {
		case string:
			writeEntry(&index, e.Tag, typeString, data.Len())
			data.WriteString(v)
			data.WriteByte(0)
		case int32:
			for data.Len()%4 != 0 {
				data.WriteByte(0)
			}
			writeEntry(&index, e.Tag, typeInt32, data.Len())
			binary.Write(&data, binary.BigEndian, v)
		}
	}

	var blob bytes.Buffer
	binary.Write(&blob, binary.BigEndian, uint32(len(entries)))
	binary.Write(&blob, binary.BigEndian, uint32(data.Len()))
	blob.Write(index.Bytes())
	blob.Write(data.Bytes())
	return blob.Bytes()
}

func writeEntry(w *bytes.Buffer, tag, dataType, offset int) {
	binary.Write(w, binary.BigEndian, uint32(tag))
	binary.Write(w, binary.BigEndian, uint32(dataType))
	binary.Write(w, binary.BigEndian, uint32(offset))
	binary.Write(w, binary.BigEndian, uint32(1))
}

// WithEntryOffset returns a copy of blob whose index entry i points at offset
func WithEntryOffset(blob []byte, i int, offset uint32) []byte {
	out := append([]byte(nil), blob...)
	binary.BigEndian.PutUint32(out[8+16*i+8:], offset)
	return out
}

// WithEntryCount returns a copy of blob whose index entry i holds count values
func WithEntryCount(blob []byte, i int, count uint32) []byte {
	out := append([]byte(nil), blob...)
	binary.BigEndian.PutUint32(out[8+16*i+12:], count)
	return out
}

// PackageBlob builds the blob of an installed package. An empty vendor
// leaves the vendor tag out.
func PackageBlob(name, version, release, arch, vendor string) []byte {
	entries := []Entry{
		{Tag: rpmutils.NAME, Value: name},
		{Tag: rpmutils.VERSION, Value: version},
		{Tag: rpmutils.RELEASE, Value: release},
		{Tag: rpmdb.TagInstallTime, Value: int32(1700000000)},
		{Tag: rpmutils.ARCH, Value: arch},
	}
	if vendor != "" {
		entries = append(entries, Entry{Tag: rpmutils.VENDOR, Value: vendor})
	}
	return BuildBlob(entries)
}

// WriteDatabase creates an rpmdb.sqlite file at path holding blobs in the
// Packages table and one Name row per entry of names
func WriteDatabase(t testing.TB, path string, blobs [][]byte, names []string) {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	stmts := []string{
		"CREATE TABLE Packages (hnum INTEGER PRIMARY KEY AUTOINCREMENT, blob BLOB NOT NULL)",
		"CREATE TABLE Name (key TEXT NOT NULL, hnum INTEGER NOT NULL, idx INTEGER NOT NULL)",
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to create schema: %v", err)
		}
	}

	for _, blob := range blobs {
		if _, err := db.Exec("INSERT INTO Packages (blob) VALUES (?)", blob); err != nil {
			t.Fatalf("Failed to insert header: %v", err)
		}
	}
	for i, name := range names {
		if _, err := db.Exec("INSERT INTO Name (key, hnum, idx) VALUES (?, ?, 0)", name, i+1); err != nil {
			t.Fatalf("Failed to insert name: %v", err)
		}
	}
}
