package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/tuannm99/savereader/internal/alias/bx"
)

// MaxStringLen limits memory usage on malformed input.
const MaxStringLen = 1 << 20 // 1 MiB

var (
	ErrUnexpectedEndOfStream = errors.New("stream: unexpected end of stream")
	ErrStringTooLong         = errors.New("stream: string length exceeds limit")
	ErrBadWidth              = errors.New("stream: integer width must be 1, 2, 4 or 8")
)

// Source is the positioned byte stream consumed by the decoders.
// All multi-byte integers are big-endian.
type Source interface {
	io.ByteReader
	// ReadUint reads an unsigned integer of width bytes.
	ReadUint(width int) (uint64, error)
	// ReadInt reads a two's complement integer of width bytes.
	ReadInt(width int) (int64, error)
	// ReadGamma reads one gamma-coded unsigned integer.
	ReadGamma() (uint64, error)
	// ReadString reads a gamma length followed by that many bytes.
	ReadString() (string, error)
	// Offset is the number of bytes consumed so far.
	Offset() int64
}

var _ Source = (*Reader)(nil)

// Reader implements Source over any io.Reader.
// It is not safe for concurrent use.
type Reader struct {
	r   *bufio.Reader
	off int64
	buf [8]byte
}

func NewReader(r io.Reader) *Reader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Reader{r: br}
}

// NewReaderAt creates a Reader whose offsets start at base, for streams
// that were partly consumed before being handed over.
func NewReaderAt(r io.Reader, base int64) *Reader {
	sr := NewReader(r)
	sr.off = base
	return sr
}

func (r *Reader) Offset() int64 { return r.off }

func (r *Reader) eos(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w at offset %d", ErrUnexpectedEndOfStream, r.off)
	}
	return fmt.Errorf("stream: read at offset %d: %w", r.off, err)
}

func (r *Reader) ReadByte() (byte, error) {
	c, err := r.r.ReadByte()
	if err != nil {
		return 0, r.eos(err)
	}
	r.off++
	return c, nil
}

func (r *Reader) readFull(p []byte) error {
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if err != nil {
		return r.eos(err)
	}
	return nil
}

func (r *Reader) ReadUint(width int) (uint64, error) {
	switch width {
	case 1, 2, 4, 8:
	default:
		return 0, fmt.Errorf("%w: got %d", ErrBadWidth, width)
	}
	b := r.buf[:width]
	if err := r.readFull(b); err != nil {
		return 0, err
	}
	switch width {
	case 2:
		return uint64(bx.U16(b)), nil
	case 4:
		return uint64(bx.U32(b)), nil
	case 8:
		return bx.U64(b), nil
	}
	return uint64(b[0]), nil
}

func (r *Reader) ReadInt(width int) (int64, error) {
	u, err := r.ReadUint(width)
	if err != nil {
		return 0, err
	}
	return bx.SignExtend(u, width), nil
}

func (r *Reader) ReadGamma() (uint64, error) {
	first, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	n := bx.GammaExtra(first)
	v := bx.GammaHead(first)
	if n == 0 {
		return v, nil
	}
	b := r.buf[:n]
	if err := r.readFull(b); err != nil {
		return 0, err
	}
	if n == 8 {
		return bx.UN(b), nil
	}
	return v<<(uint(n)*8) | bx.UN(b), nil
}

func (r *Reader) ReadString() (string, error) {
	start := r.off
	n, err := r.ReadGamma()
	if err != nil {
		return "", err
	}
	if n > MaxStringLen {
		return "", fmt.Errorf("%w: %d > %d at offset %d", ErrStringTooLong, n, MaxStringLen, start)
	}
	b := make([]byte, n)
	if err := r.readFull(b); err != nil {
		return "", err
	}
	return string(b), nil
}
