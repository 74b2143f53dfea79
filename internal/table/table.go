package table

import (
	"errors"
	"fmt"

	"github.com/tuannm99/savereader/internal/record"
	"github.com/tuannm99/savereader/internal/schema"
	"github.com/tuannm99/savereader/internal/stream"
)

var ErrUnknownLayout = errors.New("table: unknown layout")

// Layout selects the record framing of a table.
type Layout uint8

const (
	// Dense records are indexed by position.
	Dense Layout = iota
	// Sparse records carry an explicit index after the size prefix.
	Sparse
)

func (l Layout) String() string {
	switch l {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// ParseLayout maps "dense" / "sparse" to a Layout.
func ParseLayout(s string) (Layout, error) {
	switch s {
	case "dense":
		return Dense, nil
	case "sparse":
		return Sparse, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
}

// Table is the decoded record sequence of one table, in read order.
type Table struct {
	Layout  Layout
	Records []*record.Tree
	// Indices[i] is the explicit index of Records[i]; nil for dense tables.
	Indices []uint64
}

func (t *Table) Len() int { return len(t.Records) }

// Reader iterates tables over a shared stream. The zero value is usable.
type Reader struct {
	Observer Observer
}

func (r *Reader) observer() Observer {
	if r.Observer == nil {
		return NopObserver{}
	}
	return r.Observer
}

// ReadDense reads a dense table with the default Reader.
func ReadDense(src stream.Source, h schema.Header) (*Table, error) {
	var r Reader
	return r.Read(src, h, Dense)
}

// ReadSparse reads a sparse table with the default Reader.
func ReadSparse(src stream.Source, h schema.Header) (*Table, error) {
	var r Reader
	return r.Read(src, h, Sparse)
}

// Read decodes records until the zero size sentinel. Each record is
//
//	gamma(size+1) [gamma(index), sparse only] <record shaped by h>
//
// The declared size is reported to the observer but never used to skip
// or bound the record. Any failure discards the whole table.
func (r *Reader) Read(src stream.Source, h schema.Header, layout Layout) (*Table, error) {
	if layout != Dense && layout != Sparse {
		return nil, fmt.Errorf("%w: %s", ErrUnknownLayout, layout)
	}
	obs := r.observer()
	t := &Table{Layout: layout}
	if layout == Sparse {
		t.Indices = []uint64{}
	}

	for {
		start := src.Offset()
		sizePlusOne, err := src.ReadGamma()
		if err != nil {
			return nil, fmt.Errorf("table: %s record %d: read size: %w", layout, len(t.Records), err)
		}
		if sizePlusOne == 0 {
			break
		}

		ev := RecordEvent{
			Layout:       layout,
			Position:     len(t.Records),
			DeclaredSize: sizePlusOne - 1,
			Offset:       start,
		}
		if layout == Sparse {
			ev.Index, err = src.ReadGamma()
			if err != nil {
				return nil, fmt.Errorf("table: sparse record %d: read index: %w", ev.Position, err)
			}
		}

		body := src.Offset()
		rec, err := record.DecodeRecord(src, h)
		if err != nil {
			return nil, fmt.Errorf("table: %s record %d at offset %d: %w", layout, ev.Position, start, err)
		}
		ev.Consumed = src.Offset() - body
		obs.OnRecord(ev)

		t.Records = append(t.Records, rec)
		if layout == Sparse {
			t.Indices = append(t.Indices, ev.Index)
		}
	}

	obs.OnEnd(layout, len(t.Records), src.Offset())
	return t, nil
}
