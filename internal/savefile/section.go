package savefile

import (
	"fmt"
	"log/slog"

	"github.com/tuannm99/savereader/internal/schema"
	"github.com/tuannm99/savereader/internal/stream"
	"github.com/tuannm99/savereader/internal/table"
)

// SectionSpec names one section of a save file and its table layout.
type SectionSpec struct {
	Name   string
	Layout table.Layout
}

// Section is one schema header followed by the table it describes.
type Section struct {
	Name   string
	Header schema.Header
	Table  *table.Table
}

// Decoder reads the sections of a save file in order.
type Decoder struct {
	Logger *slog.Logger
}

func (d *Decoder) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

// ReadSections reads one header + table pair per spec, in spec order.
// Any failure aborts the whole read.
func (d *Decoder) ReadSections(src stream.Source, specs []SectionSpec) ([]Section, error) {
	log := d.logger()
	tr := table.Reader{Observer: table.SlogObserver{Logger: log}}

	out := make([]Section, 0, len(specs))
	for _, spec := range specs {
		start := src.Offset()
		h, err := schema.ParseHeader(src)
		if err != nil {
			return nil, fmt.Errorf("savefile: section %q header: %w", spec.Name, err)
		}
		log.Debug("section header", "section", spec.Name, "fields", len(h), "fingerprint", h.Fingerprint(), "offset", start)

		tbl, err := tr.Read(src, h, spec.Layout)
		if err != nil {
			return nil, fmt.Errorf("savefile: section %q: %w", spec.Name, err)
		}
		log.Info("section decoded",
			"section", spec.Name,
			"layout", spec.Layout.String(),
			"records", tbl.Len(),
			"bytes", src.Offset()-start,
		)
		out = append(out, Section{Name: spec.Name, Header: h, Table: tbl})
	}
	return out, nil
}
