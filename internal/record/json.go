package record

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// JSONWriter is a Visitor that renders compact JSON, keeping field order.
type JSONWriter struct {
	buf bytes.Buffer
	// first[i] is true while the i-th open container has no element yet
	first []bool
	// afterKey is set between Key and the value it names
	afterKey bool
}

func (w *JSONWriter) Bytes() []byte { return w.buf.Bytes() }

func (w *JSONWriter) Reset() {
	w.buf.Reset()
	w.first = w.first[:0]
	w.afterKey = false
}

func (w *JSONWriter) sep() {
	if w.afterKey {
		w.afterKey = false
		return
	}
	if n := len(w.first); n > 0 {
		if !w.first[n-1] {
			w.buf.WriteByte(',')
		}
		w.first[n-1] = false
	}
}

func (w *JSONWriter) open(c byte) {
	w.sep()
	w.buf.WriteByte(c)
	w.first = append(w.first, true)
}

func (w *JSONWriter) close(c byte) {
	w.first = w.first[:len(w.first)-1]
	w.buf.WriteByte(c)
}

func (w *JSONWriter) BeginObject(int) error { w.open('{'); return nil }
func (w *JSONWriter) EndObject() error      { w.close('}'); return nil }
func (w *JSONWriter) BeginArray(int) error  { w.open('['); return nil }
func (w *JSONWriter) EndArray() error       { w.close(']'); return nil }

func (w *JSONWriter) Key(k string) error {
	w.sep()
	b, err := json.Marshal(k)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	w.buf.WriteByte(':')
	w.afterKey = true
	return nil
}

// Str writes a JSON string value. It is not part of Visitor; records
// never carry decoded strings.
func (w *JSONWriter) Str(s string) error {
	w.sep()
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

func (w *JSONWriter) Int(v int64) error {
	w.sep()
	w.buf.Write(strconv.AppendInt(w.buf.AvailableBuffer(), v, 10))
	return nil
}

func (w *JSONWriter) Uint(v uint64) error {
	w.sep()
	w.buf.Write(strconv.AppendUint(w.buf.AvailableBuffer(), v, 10))
	return nil
}

var _ json.Marshaler = (*Tree)(nil)

// MarshalJSON renders the record as a JSON object in schema order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var w JSONWriter
	if err := Emit(t, &w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}
