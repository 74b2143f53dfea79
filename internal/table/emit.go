package table

import (
	"fmt"

	"github.com/tuannm99/savereader/internal/record"
)

// Emit feeds the table to v as an array of records. With withIndex set,
// sparse records are wrapped as {"index": n, "record": {...}}.
func (t *Table) Emit(v record.Visitor, withIndex bool) error {
	wrap := withIndex && t.Layout == Sparse
	if wrap && len(t.Indices) != len(t.Records) {
		return fmt.Errorf("%w: %d indices for %d records", record.ErrInternalInvariant, len(t.Indices), len(t.Records))
	}

	if err := v.BeginArray(len(t.Records)); err != nil {
		return err
	}
	for i, rec := range t.Records {
		if !wrap {
			if err := record.Emit(rec, v); err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			continue
		}
		if err := emitIndexed(v, t.Indices[i], rec); err != nil {
			return fmt.Errorf("record %d (index %d): %w", i, t.Indices[i], err)
		}
	}
	return v.EndArray()
}

func emitIndexed(v record.Visitor, index uint64, rec *record.Tree) error {
	if err := v.BeginObject(2); err != nil {
		return err
	}
	if err := v.Key("index"); err != nil {
		return err
	}
	if err := v.Uint(index); err != nil {
		return err
	}
	if err := v.Key("record"); err != nil {
		return err
	}
	if err := record.Emit(rec, v); err != nil {
		return err
	}
	return v.EndObject()
}

// MarshalJSON renders the table as a JSON array of records.
func (t *Table) MarshalJSON() ([]byte, error) {
	var w record.JSONWriter
	if err := t.Emit(&w, false); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
