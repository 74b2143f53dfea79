package savefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"sigs.k8s.io/yaml"

	"github.com/tuannm99/savereader/internal/record"
)

var ErrUnknownFormat = errors.New("savefile: unknown output format")

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

type ExportOptions struct {
	Format string
	// Indent pretty-prints JSON output with this many spaces.
	Indent int
	// SparseIndex wraps sparse records with their explicit index.
	SparseIndex bool
}

// Export writes sections as one document keyed by section name:
//
//	{"<name>": {"fingerprint": "...", "layout": "dense", "records": [...]}, ...}
//
// JSON keeps section and field order. YAML output is converted from that
// JSON and has its mapping keys sorted.
func Export(w io.Writer, sections []Section, opts ExportOptions) error {
	var jw record.JSONWriter
	if err := emitDocument(&jw, sections, opts.SparseIndex); err != nil {
		return err
	}
	doc := jw.Bytes()

	switch opts.Format {
	case "", FormatJSON:
		if opts.Indent > 0 {
			var buf bytes.Buffer
			if err := json.Indent(&buf, doc, "", strings.Repeat(" ", opts.Indent)); err != nil {
				return fmt.Errorf("savefile: indent: %w", err)
			}
			doc = buf.Bytes()
		}
		doc = append(doc, '\n')
	case FormatYAML:
		y, err := yaml.JSONToYAML(doc)
		if err != nil {
			return fmt.Errorf("savefile: yaml: %w", err)
		}
		doc = y
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}

	_, err := w.Write(doc)
	return err
}

func emitDocument(jw *record.JSONWriter, sections []Section, sparseIndex bool) error {
	if err := jw.BeginObject(len(sections)); err != nil {
		return err
	}
	for _, s := range sections {
		if err := jw.Key(s.Name); err != nil {
			return err
		}
		if err := jw.BeginObject(3); err != nil {
			return err
		}
		if err := jw.Key("fingerprint"); err != nil {
			return err
		}
		if err := jw.Str(s.Header.Fingerprint()); err != nil {
			return err
		}
		if err := jw.Key("layout"); err != nil {
			return err
		}
		if err := jw.Str(s.Table.Layout.String()); err != nil {
			return err
		}
		if err := jw.Key("records"); err != nil {
			return err
		}
		if err := s.Table.Emit(jw, sparseIndex); err != nil {
			return fmt.Errorf("savefile: section %q: %w", s.Name, err)
		}
		if err := jw.EndObject(); err != nil {
			return err
		}
	}
	return jw.EndObject()
}
