package record

import (
	"github.com/tuannm99/savereader/internal/schema"
)

// Value is one decoded primitive or nested record. The set of
// implementations is closed: Int8 .. UInt64, StringID, String and *Tree.
type Value interface {
	Kind() schema.Kind
	isValue()
}

type (
	Int8   int8
	UInt8  uint8
	Int16  int16
	UInt16 uint16
	Int32  int32
	UInt32 uint32
	Int64  int64
	UInt64 uint64

	// StringID is an interned string reference. Its payload is not decoded.
	StringID struct{}
	// String is an inline string. Its payload is not decoded.
	String struct{}
)

func (Int8) Kind() schema.Kind     { return schema.KindInt8 }
func (UInt8) Kind() schema.Kind    { return schema.KindUInt8 }
func (Int16) Kind() schema.Kind    { return schema.KindInt16 }
func (UInt16) Kind() schema.Kind   { return schema.KindUInt16 }
func (Int32) Kind() schema.Kind    { return schema.KindInt32 }
func (UInt32) Kind() schema.Kind   { return schema.KindUInt32 }
func (Int64) Kind() schema.Kind    { return schema.KindInt64 }
func (UInt64) Kind() schema.Kind   { return schema.KindUInt64 }
func (StringID) Kind() schema.Kind { return schema.KindStringID }
func (String) Kind() schema.Kind   { return schema.KindString }
func (*Tree) Kind() schema.Kind    { return schema.KindStruct }

func (Int8) isValue()     {}
func (UInt8) isValue()    {}
func (Int16) isValue()    {}
func (UInt16) isValue()   {}
func (Int32) isValue()    {}
func (UInt32) isValue()   {}
func (Int64) isValue()    {}
func (UInt64) isValue()   {}
func (StringID) isValue() {}
func (String) isValue()   {}
func (*Tree) isValue()    {}

// Field is one keyed field of a record. A Scalar field holds exactly one
// value; a List field holds the values announced by its count prefix.
type Field struct {
	Key         string
	Cardinality schema.Cardinality
	Values      []Value
}

// Value returns the single value of a Scalar field, or nil for lists.
func (f Field) Value() Value {
	if f.Cardinality != schema.Scalar || len(f.Values) != 1 {
		return nil
	}
	return f.Values[0]
}

// Tree is one decoded record: a field per schema node, in schema order.
type Tree struct {
	Fields []Field
}

// Get returns the field with the given key.
func (t *Tree) Get(key string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Len is the number of fields.
func (t *Tree) Len() int { return len(t.Fields) }
