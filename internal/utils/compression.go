package utils

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Compression is an artifact compression format
type Compression string

const (
	CompressNone Compression = "none"
	CompressGzip Compression = "gzip"
	CompressXz   Compression = "xz"
	CompressZstd Compression = "zstd"
)

// ParseCompression validates a compression name; empty means none
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "", CompressNone:
		return CompressNone, nil
	case CompressGzip, CompressXz, CompressZstd:
		return c, nil
	default:
		return "", fmt.Errorf("unknown compression %q (want none, gzip, xz or zstd)", s)
	}
}

// Extension returns the file suffix for the format
func (c Compression) Extension() string {
	switch c {
	case CompressGzip:
		return ".gz"
	case CompressXz:
		return ".xz"
	case CompressZstd:
		return ".zst"
	default:
		return ""
	}
}

// Compress encodes data in format c
func Compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case "", CompressNone:
		return data, nil
	case CompressGzip:
		return GzipCompress(data)
	case CompressXz:
		return XzCompress(data)
	case CompressZstd:
		return ZstdCompress(data)
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// Decompress decodes data in format c
func Decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case "", CompressNone:
		return data, nil
	case CompressGzip:
		return GzipDecompress(data)
	case CompressXz:
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return io.ReadAll(xr)
	case CompressZstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		return io.ReadAll(zr)
	default:
		return nil, fmt.Errorf("unknown compression %q", c)
	}
}

// GzipCompress compresses data using gzip
func GzipCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GzipDecompress decompresses gzip data
func GzipDecompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}

// XzCompress compresses data using xz
func XzCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ZstdCompress compresses data using zstd
func ZstdCompress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
