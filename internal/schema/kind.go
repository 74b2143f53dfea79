package schema

import (
	"errors"
	"fmt"

	"github.com/tuannm99/savereader/internal/alias/bx"
)

var ErrInvalidPrimitiveKind = errors.New("schema: invalid primitive kind")

// Kind is the primitive kind carried in the low nibble of a tag byte.
type Kind uint8

const (
	KindFileEnd Kind = iota // header terminator, never a field kind
	KindInt8
	KindUInt8
	KindInt16
	KindUInt16
	KindInt32
	KindUInt32
	KindInt64
	KindUInt64
	KindStringID
	KindString
	KindStruct

	numKinds
)

var kindNames = [numKinds]string{
	KindFileEnd:  "FileEnd",
	KindInt8:     "Int8",
	KindUInt8:    "UInt8",
	KindInt16:    "Int16",
	KindUInt16:   "UInt16",
	KindInt32:    "Int32",
	KindUInt32:   "UInt32",
	KindInt64:    "Int64",
	KindUInt64:   "UInt64",
	KindStringID: "StringId",
	KindString:   "String",
	KindStruct:   "Struct",
}

func (k Kind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindFromNibble maps a tag nibble to its Kind.
func KindFromNibble(n uint8) (Kind, error) {
	if n >= uint8(numKinds) {
		return 0, fmt.Errorf("%w: nibble %d", ErrInvalidPrimitiveKind, n)
	}
	return Kind(n), nil
}

// Width returns the fixed byte width of an integer kind and whether the
// kind is signed. ok is false for every non-integer kind.
func (k Kind) Width() (width int, signed bool, ok bool) {
	switch k {
	case KindInt8:
		return 1, true, true
	case KindUInt8:
		return 1, false, true
	case KindInt16:
		return 2, true, true
	case KindUInt16:
		return 2, false, true
	case KindInt32:
		return 4, true, true
	case KindUInt32:
		return 4, false, true
	case KindInt64:
		return 8, true, true
	case KindUInt64:
		return 8, false, true
	case KindFileEnd, KindStringID, KindString, KindStruct:
		return 0, false, false
	}
	return 0, false, false
}

// Cardinality says whether a field holds one value or a counted list.
type Cardinality uint8

const (
	Scalar Cardinality = iota
	List
)

func (c Cardinality) String() string {
	if c == List {
		return "List"
	}
	return "Scalar"
}

// listBit marks list cardinality in a tag byte. Bits 5-7 are ignored.
const listBit = 4

// Tag is a decoded, non-terminator schema tag byte.
type Tag struct {
	Cardinality Cardinality
	Kind        Kind
}

// DecodeTag interprets one schema byte. ok is false for the 0 terminator.
func DecodeTag(b byte) (tag Tag, ok bool, err error) {
	if b == 0 {
		return Tag{}, false, nil
	}
	kind, err := KindFromNibble(b & 0x0f)
	if err != nil {
		return Tag{}, false, fmt.Errorf("tag 0x%02x: %w", b, err)
	}
	card := Scalar
	if bx.HasBit(uint64(b), listBit) {
		card = List
	}
	return Tag{Cardinality: card, Kind: kind}, true, nil
}

// Byte is the canonical encoding of t (reserved bits cleared).
func (t Tag) Byte() byte {
	b := byte(t.Kind) & 0x0f
	if t.Cardinality == List {
		b |= 1 << listBit
	}
	return b
}
