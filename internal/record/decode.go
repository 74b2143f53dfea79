package record

import (
	"errors"
	"fmt"

	"github.com/tuannm99/savereader/internal/schema"
)

var (
	ErrUnimplementedPrimitiveKind = errors.New("record: unimplemented primitive kind")
	ErrInternalInvariant          = errors.New("record: internal invariant violation")
	ErrListTooLong                = errors.New("record: list count exceeds limit")
)

const (
	// MaxListLen bounds every list count.
	MaxListLen = 1 << 24
	// maxEmptyListLen bounds lists whose elements occupy no bytes; their
	// count is never checked against the stream.
	maxEmptyListLen = 1024
	// maxPrealloc bounds list preallocation so a corrupt count fails on
	// the stream instead of on allocation.
	maxPrealloc = 1024
)

// Source is the part of the stream the record decoder needs.
type Source interface {
	ReadUint(width int) (uint64, error)
	ReadInt(width int) (int64, error)
	ReadGamma() (uint64, error)
}

// DecodeRecord decodes one record shaped by nodes, in node order.
func DecodeRecord(src Source, nodes []schema.Node) (*Tree, error) {
	t := &Tree{Fields: make([]Field, 0, len(nodes))}
	for _, n := range nodes {
		f, err := DecodeField(src, n)
		if err != nil {
			return nil, err
		}
		t.Fields = append(t.Fields, f)
	}
	return t, nil
}

// DecodeField decodes the value(s) of a single field and leaves src
// positioned right after them, nested content included.
func DecodeField(src Source, n schema.Node) (Field, error) {
	f := Field{Key: n.Key, Cardinality: n.Cardinality}

	if n.Children == nil {
		if err := checkPrimitive(n.Kind); err != nil {
			return Field{}, fmt.Errorf("field %q: %w", n.Key, err)
		}
	}

	switch n.Cardinality {
	case schema.List:
		count, err := src.ReadGamma()
		if err != nil {
			return Field{}, fmt.Errorf("field %q: read count: %w", n.Key, err)
		}
		if limit := listLimit(n); count > limit {
			return Field{}, fmt.Errorf("field %q: %w: %d > %d", n.Key, ErrListTooLong, count, limit)
		}
		f.Values = make([]Value, 0, min(count, maxPrealloc))
		for i := uint64(0); i < count; i++ {
			v, err := decodeValue(src, n)
			if err != nil {
				return Field{}, fmt.Errorf("field %q[%d]: %w", n.Key, i, err)
			}
			f.Values = append(f.Values, v)
		}

	case schema.Scalar:
		v, err := decodeValue(src, n)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", n.Key, err)
		}
		f.Values = []Value{v}

	default:
		return Field{}, fmt.Errorf("field %q: %w: cardinality %d", n.Key, ErrInternalInvariant, n.Cardinality)
	}
	return f, nil
}

func listLimit(n schema.Node) uint64 {
	if n.Children != nil && zeroWidth(n.Children) {
		return maxEmptyListLen
	}
	return MaxListLen
}

// zeroWidth reports whether a record shaped by nodes decodes from no
// bytes at all: only scalar structs, recursively.
func zeroWidth(nodes []schema.Node) bool {
	for _, c := range nodes {
		if c.Cardinality != schema.Scalar || c.Children == nil || !zeroWidth(c.Children) {
			return false
		}
	}
	return true
}

func decodeValue(src Source, n schema.Node) (Value, error) {
	if n.Children != nil {
		return DecodeRecord(src, n.Children)
	}
	return readPrimitive(src, n.Kind)
}

// checkPrimitive fails for every kind that has no fixed-width read.
func checkPrimitive(k schema.Kind) error {
	if _, _, ok := k.Width(); ok {
		return nil
	}
	switch k {
	case schema.KindStringID, schema.KindString:
		// the byte width of these is unknown, continuing would desync
		return fmt.Errorf("%w: %s", ErrUnimplementedPrimitiveKind, k)
	case schema.KindFileEnd:
		return fmt.Errorf("%w: %s used as a field kind", ErrInternalInvariant, k)
	case schema.KindStruct:
		return fmt.Errorf("%w: struct field without child schema", ErrInternalInvariant)
	}
	return fmt.Errorf("%w: %s", schema.ErrInvalidPrimitiveKind, k)
}

func readPrimitive(src Source, k schema.Kind) (Value, error) {
	width, signed, ok := k.Width()
	if !ok {
		return nil, checkPrimitive(k)
	}
	if signed {
		v, err := src.ReadInt(width)
		if err != nil {
			return nil, err
		}
		return signedValue(k, v)
	}
	v, err := src.ReadUint(width)
	if err != nil {
		return nil, err
	}
	return unsignedValue(k, v)
}

func signedValue(k schema.Kind, v int64) (Value, error) {
	switch k {
	case schema.KindInt8:
		return Int8(v), nil
	case schema.KindInt16:
		return Int16(v), nil
	case schema.KindInt32:
		return Int32(v), nil
	case schema.KindInt64:
		return Int64(v), nil
	}
	return nil, fmt.Errorf("%w: %s is not a signed integer kind", ErrInternalInvariant, k)
}

func unsignedValue(k schema.Kind, v uint64) (Value, error) {
	switch k {
	case schema.KindUInt8:
		return UInt8(v), nil
	case schema.KindUInt16:
		return UInt16(v), nil
	case schema.KindUInt32:
		return UInt32(v), nil
	case schema.KindUInt64:
		return UInt64(v), nil
	}
	return nil, fmt.Errorf("%w: %s is not an unsigned integer kind", ErrInternalInvariant, k)
}
