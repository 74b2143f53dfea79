package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecodeTag_AllBytes checks every possible tag byte against the nibble
// and list-bit rules.
func TestDecodeTag_AllBytes(t *testing.T) {
	for i := 0; i < 256; i++ {
		b := byte(i)
		tag, ok, err := DecodeTag(b)

		if b == 0 {
			require.NoError(t, err)
			require.False(t, ok, "0 is the terminator")
			continue
		}

		nibble := b & 0x0f
		if nibble >= 12 {
			require.ErrorIs(t, err, ErrInvalidPrimitiveKind, "byte 0x%02x", b)
			require.False(t, ok)
			continue
		}

		require.NoError(t, err, "byte 0x%02x", b)
		require.True(t, ok)
		require.Equal(t, Kind(nibble), tag.Kind)

		wantCard := Scalar
		if (b>>4)&1 == 1 {
			wantCard = List
		}
		require.Equal(t, wantCard, tag.Cardinality, "byte 0x%02x", b)
	}
}

func TestDecodeTag_ReservedBitsIgnored(t *testing.T) {
	plain, ok, err := DecodeTag(0x05)
	require.NoError(t, err)
	require.True(t, ok)

	noisy, ok, err := DecodeTag(0xe5)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, plain, noisy)

	list, _, err := DecodeTag(0xf5)
	require.NoError(t, err)
	require.Equal(t, Tag{Cardinality: List, Kind: KindInt32}, list)
}

func TestKindFromNibble(t *testing.T) {
	k, err := KindFromNibble(11)
	require.NoError(t, err)
	require.Equal(t, KindStruct, k)

	for n := uint8(12); n < 16; n++ {
		_, err := KindFromNibble(n)
		require.ErrorIs(t, err, ErrInvalidPrimitiveKind)
	}
}

func TestKind_Width(t *testing.T) {
	cases := []struct {
		k      Kind
		width  int
		signed bool
	}{
		{KindInt8, 1, true},
		{KindUInt8, 1, false},
		{KindInt16, 2, true},
		{KindUInt16, 2, false},
		{KindInt32, 4, true},
		{KindUInt32, 4, false},
		{KindInt64, 8, true},
		{KindUInt64, 8, false},
	}
	for _, c := range cases {
		w, s, ok := c.k.Width()
		require.True(t, ok, c.k.String())
		require.Equal(t, c.width, w, c.k.String())
		require.Equal(t, c.signed, s, c.k.String())
	}

	for _, k := range []Kind{KindFileEnd, KindStringID, KindString, KindStruct} {
		_, _, ok := k.Width()
		require.False(t, ok, k.String())
	}
}

func TestTag_ByteRoundTrip(t *testing.T) {
	for k := KindInt8; k < numKinds; k++ {
		for _, c := range []Cardinality{Scalar, List} {
			tag := Tag{Cardinality: c, Kind: k}
			got, ok, err := DecodeTag(tag.Byte())
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, tag, got)
		}
	}
}

func TestKind_String(t *testing.T) {
	require.Equal(t, "StringId", KindStringID.String())
	require.Equal(t, "Kind(14)", Kind(14).String())
	require.Equal(t, "List", List.String())
}
