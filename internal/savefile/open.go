package savefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var ErrUnknownCompression = errors.New("savefile: unknown compression")

// Compression names accepted by Open.
const (
	CompressionAuto = "auto"
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
)

// Open opens path and returns a reader over its decompressed content.
func Open(path, compression string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	rc, err := NewReader(f, compression)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("savefile: open %s: %w", path, err)
	}
	return &closeBoth{ReadCloser: rc, under: f}, nil
}

// NewReader wraps r with the decompressor named by compression. With
// CompressionAuto the format is sniffed from the leading magic bytes.
// Closing the result does not close r.
func NewReader(r io.Reader, compression string) (io.ReadCloser, error) {
	br := bufio.NewReader(r)
	if compression == "" || compression == CompressionAuto {
		compression = sniff(br)
	}

	switch compression {
	case CompressionNone:
		return io.NopCloser(br), nil
	case CompressionGzip:
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("savefile: gzip: %w", err)
		}
		return zr, nil
	case CompressionZstd:
		zr, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, fmt.Errorf("savefile: zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCompression, compression)
}

func sniff(br *bufio.Reader) string {
	head, _ := br.Peek(len(zstdMagic))
	switch {
	case bytes.HasPrefix(head, zstdMagic):
		return CompressionZstd
	case bytes.HasPrefix(head, gzipMagic):
		return CompressionGzip
	}
	return CompressionNone
}

type closeBoth struct {
	io.ReadCloser
	under io.Closer
}

func (c *closeBoth) Close() error {
	return errors.Join(c.ReadCloser.Close(), c.under.Close())
}
