package record

import (
	"fmt"

	"github.com/tuannm99/savereader/internal/schema"
)

// Visitor receives a record as a stream of structural events: an object
// per Tree (keys in schema order), an array per List field and a leaf per
// integer value.
type Visitor interface {
	BeginObject(n int) error
	Key(k string) error
	EndObject() error
	BeginArray(n int) error
	EndArray() error
	Int(v int64) error
	Uint(v uint64) error
}

// Emit walks t and feeds it to v.
func Emit(t *Tree, v Visitor) error {
	if err := v.BeginObject(len(t.Fields)); err != nil {
		return err
	}
	for _, f := range t.Fields {
		if err := v.Key(f.Key); err != nil {
			return err
		}
		if err := EmitField(f, v); err != nil {
			return fmt.Errorf("field %q: %w", f.Key, err)
		}
	}
	return v.EndObject()
}

// EmitField emits the value of f: the bare value for Scalar, an array for List.
func EmitField(f Field, v Visitor) error {
	switch f.Cardinality {
	case schema.Scalar:
		if len(f.Values) != 1 {
			return fmt.Errorf("%w: scalar field with %d values", ErrInternalInvariant, len(f.Values))
		}
		return EmitValue(f.Values[0], v)
	case schema.List:
		if err := v.BeginArray(len(f.Values)); err != nil {
			return err
		}
		for _, x := range f.Values {
			if err := EmitValue(x, v); err != nil {
				return err
			}
		}
		return v.EndArray()
	}
	return fmt.Errorf("%w: cardinality %d", ErrInternalInvariant, f.Cardinality)
}

// EmitValue emits a single value. StringID and String have no decoded
// payload and fail with ErrUnimplementedPrimitiveKind.
func EmitValue(x Value, v Visitor) error {
	switch x := x.(type) {
	case Int8:
		return v.Int(int64(x))
	case Int16:
		return v.Int(int64(x))
	case Int32:
		return v.Int(int64(x))
	case Int64:
		return v.Int(int64(x))
	case UInt8:
		return v.Uint(uint64(x))
	case UInt16:
		return v.Uint(uint64(x))
	case UInt32:
		return v.Uint(uint64(x))
	case UInt64:
		return v.Uint(uint64(x))
	case StringID, String:
		return fmt.Errorf("%w: %s", ErrUnimplementedPrimitiveKind, x.Kind())
	case *Tree:
		if x == nil {
			return fmt.Errorf("%w: nil struct value", ErrInternalInvariant)
		}
		return Emit(x, v)
	case nil:
		return fmt.Errorf("%w: nil value", ErrInternalInvariant)
	}
	return fmt.Errorf("%w: unknown value type %T", ErrInternalInvariant, x)
}
