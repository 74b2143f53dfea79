package table

import (
	"context"
	"log/slog"
)

// RecordEvent describes one record as the iterator saw it. Events are
// informational only and never feed back into decoding.
type RecordEvent struct {
	Layout   Layout
	Position int
	// Index is the explicit record index; sparse tables only.
	Index uint64
	// DeclaredSize is the size prefix minus one. It is advisory and often
	// disagrees with Consumed.
	DeclaredSize uint64
	// Offset is the stream offset of the size prefix.
	Offset int64
	// Consumed is the number of record bytes actually decoded.
	Consumed int64
}

// Observer receives table iteration events.
type Observer interface {
	OnRecord(ev RecordEvent)
	OnEnd(layout Layout, records int, offset int64)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) OnRecord(RecordEvent)     {}
func (NopObserver) OnEnd(Layout, int, int64) {}

// SlogObserver logs iteration events at debug level.
type SlogObserver struct {
	Logger *slog.Logger
}

func (o SlogObserver) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o SlogObserver) OnRecord(ev RecordEvent) {
	l := o.logger()
	mismatch := ev.Consumed < 0 || ev.DeclaredSize != uint64(ev.Consumed)
	if !mismatch && !l.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	attrs := []any{
		"layout", ev.Layout.String(),
		"position", ev.Position,
		"declared_size", ev.DeclaredSize,
		"consumed", ev.Consumed,
		"offset", ev.Offset,
	}
	if ev.Layout == Sparse {
		attrs = append(attrs, "index", ev.Index)
	}
	if mismatch {
		l.Warn("declared size mismatch", attrs...)
	}
	l.Debug("table record", attrs...)
}

func (o SlogObserver) OnEnd(layout Layout, records int, offset int64) {
	o.logger().Debug("table end", "layout", layout.String(), "records", records, "offset", offset)
}
