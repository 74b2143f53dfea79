package stream

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/savereader/internal/alias/bx"
)

func newTestReader(b ...byte) *Reader {
	return NewReader(bytes.NewReader(b))
}

func TestReader_FixedWidth(t *testing.T) {
	r := newTestReader(
		0xfb,       // int8 -5
		0xff, 0xfe, // int16 -2
		0x00, 0x00, 0x01, 0x00, // uint32 256
		0x80, 0, 0, 0, 0, 0, 0, 0x01, // uint64
	)

	i8, err := r.ReadInt(1)
	require.NoError(t, err)
	require.Equal(t, int64(-5), i8)

	i16, err := r.ReadInt(2)
	require.NoError(t, err)
	require.Equal(t, int64(-2), i16)

	u32, err := r.ReadUint(4)
	require.NoError(t, err)
	require.Equal(t, uint64(256), u32)

	u64, err := r.ReadUint(8)
	require.NoError(t, err)
	require.Equal(t, uint64(0x8000000000000001), u64)

	require.Equal(t, int64(15), r.Offset())
}

func TestReader_BadWidth(t *testing.T) {
	r := newTestReader(0, 0, 0)
	_, err := r.ReadUint(3)
	require.ErrorIs(t, err, ErrBadWidth)
	require.Equal(t, int64(0), r.Offset())
}

func TestReader_Gamma(t *testing.T) {
	var buf []byte
	values := []uint64{0, 1, 127, 128, 70000, 1 << 40, ^uint64(0)}
	for _, v := range values {
		buf = bx.AppendGamma(buf, v)
	}

	r := NewReader(bytes.NewReader(buf))
	for _, v := range values {
		got, err := r.ReadGamma()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
	require.Equal(t, int64(len(buf)), r.Offset())
}

func TestReader_String(t *testing.T) {
	buf := bx.AppendGamma(nil, 5)
	buf = append(buf, "hello"...)
	buf = bx.AppendGamma(buf, 0)

	r := NewReader(bytes.NewReader(buf))
	s, err := r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	s, err = r.ReadString()
	require.NoError(t, err)
	require.Equal(t, "", s)
}

func TestReader_StringTooLong(t *testing.T) {
	buf := bx.AppendGamma(nil, MaxStringLen+1)
	r := NewReader(bytes.NewReader(buf))
	_, err := r.ReadString()
	require.ErrorIs(t, err, ErrStringTooLong)
}

func TestReader_Truncated(t *testing.T) {
	cases := map[string]func(r *Reader) error{
		"byte": func(r *Reader) error { _, err := r.ReadByte(); return err },
		"int32": func(r *Reader) error {
			_, err := r.ReadInt(4)
			return err
		},
		"gamma continuation": func(r *Reader) error {
			_, err := r.ReadGamma()
			return err
		},
		"string body": func(r *Reader) error {
			_, err := r.ReadString()
			return err
		},
	}
	inputs := map[string][]byte{
		"byte":               nil,
		"int32":              {0x01, 0x02},
		"gamma continuation": {0xc0, 0x01},
		"string body":        {0x04, 'a', 'b'},
	}

	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			err := fn(newTestReader(inputs[name]...))
			require.Error(t, err)
			require.True(t, errors.Is(err, ErrUnexpectedEndOfStream), "got %v", err)
		})
	}
}

func TestNewReaderAt(t *testing.T) {
	r := NewReaderAt(bytes.NewReader([]byte{0x01}), 100)
	_, err := r.ReadByte()
	require.NoError(t, err)
	require.Equal(t, int64(101), r.Offset())
}
