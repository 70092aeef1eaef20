package rpmdb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/sassoftware/go-rpmutils"
)

var (
	// RPM packages start with 0xED 0xAB 0xEE 0xDB
	leadMagic = []byte{0xED, 0xAB, 0xEE, 0xDB}

	// Header structures start with 0x8E 0xAD 0xE8, version 1, 4 reserved bytes
	headerMagic = []byte{0x8E, 0xAD, 0xE8, 0x01, 0x00, 0x00, 0x00, 0x00}
)

const (
	leadSize          = 96
	sigTypeHeaderSig  = 5
	leadOffsetSigType = 78
	indexEntrySize    = 16
)

// Header data types
const (
	typeNull        = 0
	typeChar        = 1
	typeInt8        = 2
	typeInt16       = 3
	typeInt32       = 4
	typeInt64       = 5
	typeString      = 6
	typeBin         = 7
	typeStringArray = 8
	typeI18NString  = 9
)

// typeSizes holds the element size of fixed-width types
var typeSizes = map[uint32]uint64{
	typeNull:  0,
	typeChar:  1,
	typeInt8:  1,
	typeInt16: 2,
	typeInt32: 4,
	typeInt64: 8,
	typeBin:   1,
}

// blobHeader is a header stored as an exported blob in the Packages table.
// The blob is parsed on first lookup.
type blobHeader struct {
	hnum int
	blob []byte

	once   sync.Once
	parsed *rpmutils.RpmHeader
	err    error
}

func newBlobHeader(hnum int, blob []byte) *blobHeader {
	return &blobHeader{hnum: hnum, blob: blob}
}

// ID returns the header number
func (h *blobHeader) ID() int {
	return h.hnum
}

// Get looks up tag in the parsed header
func (h *blobHeader) Get(tag int) (interface{}, error) {
	h.once.Do(func() {
		h.parsed, h.err = ParseBlob(h.blob)
	})
	if h.err != nil {
		return nil, h.err
	}
	if !h.parsed.HasTag(tag) {
		return nil, ErrTagNotFound
	}
	return h.parsed.Get(tag)
}

// ParseBlob decodes an exported header blob (index count, data length, entries,
// data) as stored by the sqlite backend. The blob is framed as a package
// stream with an empty signature header, so no digest or signature is checked.
func ParseBlob(blob []byte) (hdr *rpmutils.RpmHeader, err error) {
	if len(blob) < 8 {
		return nil, fmt.Errorf("header blob too short: %d bytes", len(blob))
	}

	// Reject impossible lengths before the reader allocates for them
	il := uint64(binary.BigEndian.Uint32(blob[0:4]))
	dl := uint64(binary.BigEndian.Uint32(blob[4:8]))
	if want := 8 + il*indexEntrySize + dl; want > uint64(len(blob)) {
		return nil, fmt.Errorf("header blob truncated: %d index entries and %d data bytes need %d bytes, have %d",
			il, dl, want, len(blob))
	}

	dataStart := 8 + il*indexEntrySize
	if err = checkEntries(blob[8:dataStart], blob[dataStart:dataStart+dl]); err != nil {
		return nil, err
	}

	// The reader slices the data store without bounds checks
	defer func() {
		if r := recover(); r != nil {
			hdr, err = nil, fmt.Errorf("failed to decode header: %v", r)
		}
	}()

	hdr, err = rpmutils.ReadHeader(bytes.NewReader(frameBlob(blob)))
	if err != nil {
		return nil, fmt.Errorf("failed to decode header: %w", err)
	}
	return hdr, nil
}

// checkEntries rejects index entries whose values do not lie inside data
func checkEntries(index, data []byte) error {
	dl := uint64(len(data))

	for i := 0; i+indexEntrySize <= len(index); i += indexEntrySize {
		tag := binary.BigEndian.Uint32(index[i:])
		typ := binary.BigEndian.Uint32(index[i+4:])
		offset := uint64(binary.BigEndian.Uint32(index[i+8:]))
		count := uint64(binary.BigEndian.Uint32(index[i+12:]))

		switch typ {
		case typeString, typeStringArray, typeI18NString:
			if offset >= dl {
				return fmt.Errorf("tag %d: offset %d outside data store of %d bytes", tag, offset, dl)
			}
			if n := uint64(bytes.Count(data[offset:], []byte{0})); n < count {
				return fmt.Errorf("tag %d: %d strings expected, %d terminated", tag, count, n)
			}
		default:
			size, ok := typeSizes[typ]
			if !ok {
				return fmt.Errorf("tag %d: unknown data type %d", tag, typ)
			}
			if offset > dl || offset+size*count > dl {
				return fmt.Errorf("tag %d: %d values at offset %d exceed data store of %d bytes", tag, count, offset, dl)
			}
		}
	}
	return nil
}

// frameBlob prepends a binary lead and an empty signature header to blob
func frameBlob(blob []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(leadSize + 2*len(headerMagic) + 8 + len(blob))

	// Lead: magic, major 3, binary type, archnum 1, name, osnum 1, sigtype
	lead := make([]byte, leadSize)
	copy(lead, leadMagic)
	lead[4] = 3
	binary.BigEndian.PutUint16(lead[8:], 1)
	copy(lead[10:], "rpmdb-header")
	binary.BigEndian.PutUint16(lead[76:], 1)
	binary.BigEndian.PutUint16(lead[leadOffsetSigType:], sigTypeHeaderSig)
	buf.Write(lead)

	// Signature header with no entries
	buf.Write(headerMagic)
	buf.Write(make([]byte, 8))

	buf.Write(headerMagic)
	buf.Write(blob)
	return buf.Bytes()
}
