package schema

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/savereader/internal/alias/bx"
	"github.com/tuannm99/savereader/internal/stream"
)

// field appends one tag byte and its gamma-prefixed name.
func field(dst []byte, tag byte, name string) []byte {
	dst = append(dst, tag)
	dst = bx.AppendGamma(dst, uint64(len(name)))
	return append(dst, name...)
}

func parse(t *testing.T, b []byte) (Header, *stream.Reader) {
	t.Helper()
	r := stream.NewReader(bytes.NewReader(b))
	h, err := ParseHeader(r)
	require.NoError(t, err)
	return h, r
}

func TestParseHeader_Flat(t *testing.T) {
	var b []byte
	b = field(b, 0x05, "a") // Int32
	b = field(b, 0x12, "b") // List of UInt8
	b = append(b, 0)

	h, r := parse(t, b)
	require.Equal(t, Header{
		{Key: "a", Cardinality: Scalar, Kind: KindInt32},
		{Key: "b", Cardinality: List, Kind: KindUInt8},
	}, h)
	require.Equal(t, int64(len(b)), r.Offset())
}

// TestParseHeader_SiblingsBeforeChildren lays out two struct siblings whose
// child levels follow the parent terminator in sibling order.
func TestParseHeader_SiblingsBeforeChildren(t *testing.T) {
	var b []byte
	b = field(b, 0x0b, "s1")
	b = field(b, 0x03, "x")
	b = field(b, 0x1b, "s2")
	b = append(b, 0)
	// s1 level
	b = field(b, 0x01, "p")
	b = append(b, 0)
	// s2 level
	b = field(b, 0x08, "q")
	b = field(b, 0x02, "r")
	b = append(b, 0)
	// trailing byte belongs to data
	b = append(b, 0xaa)

	h, r := parse(t, b)
	require.Equal(t, Header{
		{Key: "s1", Kind: KindStruct, Children: []Node{
			{Key: "p", Kind: KindInt8},
		}},
		{Key: "x", Kind: KindInt16},
		{Key: "s2", Cardinality: List, Kind: KindStruct, Children: []Node{
			{Key: "q", Kind: KindUInt64},
			{Key: "r", Kind: KindUInt8},
		}},
	}, h)
	require.Equal(t, int64(len(b)-1), r.Offset())
}

func TestParseHeader_NestedStructInStruct(t *testing.T) {
	var b []byte
	b = field(b, 0x0b, "outer")
	b = append(b, 0)
	// outer level
	b = field(b, 0x05, "o1")
	b = field(b, 0x0b, "inner")
	b = field(b, 0x05, "o2")
	b = append(b, 0)
	// inner level
	b = field(b, 0x03, "i1")
	b = field(b, 0x03, "i2")
	b = append(b, 0)

	h, _ := parse(t, b)
	require.Len(t, h, 1)
	outer := h[0]
	require.Equal(t, []string{"o1", "inner", "o2"}, keys(outer.Children))
	require.Equal(t, []string{"i1", "i2"}, keys(outer.Children[1].Children))
	require.Nil(t, outer.Children[0].Children)
}

func TestParseHeader_EmptyStruct(t *testing.T) {
	var b []byte
	b = field(b, 0x0b, "empty")
	b = append(b, 0, 0)

	h, _ := parse(t, b)
	require.NotNil(t, h[0].Children)
	require.Empty(t, h[0].Children)
}

func TestParseHeader_Errors(t *testing.T) {
	t.Run("eof before tag", func(t *testing.T) {
		b := field(nil, 0x05, "a")
		_, err := ParseHeader(stream.NewReader(bytes.NewReader(b)))
		require.ErrorIs(t, err, stream.ErrUnexpectedEndOfStream)
	})

	t.Run("eof in name", func(t *testing.T) {
		b := []byte{0x05, 0x04, 'a', 'b'}
		_, err := ParseHeader(stream.NewReader(bytes.NewReader(b)))
		require.ErrorIs(t, err, stream.ErrUnexpectedEndOfStream)
	})

	t.Run("eof in child level", func(t *testing.T) {
		b := field(nil, 0x0b, "s")
		b = append(b, 0)
		b = field(b, 0x05, "x")
		h, err := ParseHeader(stream.NewReader(bytes.NewReader(b)))
		require.ErrorIs(t, err, stream.ErrUnexpectedEndOfStream)
		require.Nil(t, h)
	})

	t.Run("invalid nibble", func(t *testing.T) {
		b := field(nil, 0x0c, "bad")
		_, err := ParseHeader(stream.NewReader(bytes.NewReader(b)))
		require.ErrorIs(t, err, ErrInvalidPrimitiveKind)
	})
}

func TestHeader_AppendBinaryRoundTrip(t *testing.T) {
	h := Header{
		{Key: "a", Kind: KindInt32},
		{Key: "c", Kind: KindStruct, Children: []Node{
			{Key: "d", Kind: KindInt16},
			{Key: "e", Cardinality: List, Kind: KindStruct, Children: []Node{
				{Key: "f", Kind: KindUInt8},
			}},
		}},
		{Key: "b", Cardinality: List, Kind: KindUInt8},
	}
	got, _ := parse(t, h.AppendBinary(nil))
	require.Equal(t, h, got)
}

func TestHeader_Fingerprint(t *testing.T) {
	a := Header{{Key: "a", Kind: KindInt32}}
	b := Header{{Key: "a", Kind: KindInt64}}
	require.Len(t, a.Fingerprint(), 32)
	require.Equal(t, a.Fingerprint(), Header{{Key: "a", Kind: KindInt32}}.Fingerprint())
	require.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestHeader_StringAndFind(t *testing.T) {
	h := Header{
		{Key: "a", Kind: KindInt32},
		{Key: "c", Cardinality: List, Kind: KindStruct, Children: []Node{
			{Key: "d", Kind: KindInt16},
		}},
	}
	require.Equal(t, "a: Int32\nc: []Struct\n  d: Int16\n", h.String())

	n, ok := h.Find("c")
	require.True(t, ok)
	require.Equal(t, List, n.Cardinality)
	_, ok = h.Find("zzz")
	require.False(t, ok)
}

func keys(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key
	}
	return out
}
