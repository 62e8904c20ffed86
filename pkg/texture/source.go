// Package texture caches the transfer function's lookup table on the GPU.
// Uploads are expensive next to binds, so the cache keeps a deep copy of
// whatever it uploaded last and skips the upload whenever the incoming
// state is value-equal to that baseline.
package texture

import (
	"bytes"

	"volshade/pkg/scalar"
	"volshade/pkg/transfer"
)

// Source supplies the RGBA samples for one upload. The two variants mirror
// the two places the samples can come from: an already rasterized lookup
// table, or the control points themselves rasterized on demand.
type Source interface {
	// TableBytes returns the samples to upload, at most maxEntries RGBA
	// entries. The slice may alias internal state; callers only read it.
	TableBytes(maxEntries int) []byte
	// Equal reports value equality with another source. Sources of
	// different variants are never equal.
	Equal(Source) bool
	// Clone returns a deep copy that later mutations of the original
	// cannot reach.
	Clone() Source
}

// LookupTableSource uploads a pre-rasterized lookup table as-is.
type LookupTableSource struct {
	Table *transfer.LookupTable
}

// TableBytes returns the table's samples, truncated to maxEntries.
func (s *LookupTableSource) TableBytes(maxEntries int) []byte {
	data := s.Table.Bytes()
	if limit := maxEntries * transfer.BytesPerSample; len(data) > limit {
		data = data[:limit]
	}
	return data
}

// Equal reports whether o is a lookup table source with identical samples.
func (s *LookupTableSource) Equal(o Source) bool {
	other, ok := o.(*LookupTableSource)
	if !ok {
		return false
	}
	return bytes.Equal(s.Table.Bytes(), other.Table.Bytes())
}

// Clone deep-copies the table.
func (s *LookupTableSource) Clone() Source {
	return &LookupTableSource{Table: s.Table.Copy()}
}

// ControlPointSource rasterizes a control point store over a window at
// upload time.
type ControlPointSource struct {
	Points *transfer.SortedControlPoints
	Window scalar.Interval
	Size   int
}

// TableBytes rasterizes the points into a fresh table of at most maxEntries
// entries.
func (s *ControlPointSource) TableBytes(maxEntries int) []byte {
	size := s.Size
	if size > maxEntries {
		size = maxEntries
	}
	table := transfer.NewLookupTable(size)
	table.UpdateFromControlPoints(s.Points, s.Window)
	return table.Bytes()
}

// Equal reports whether o is a control point source with the same points,
// data type, window and table size.
func (s *ControlPointSource) Equal(o Source) bool {
	other, ok := o.(*ControlPointSource)
	if !ok {
		return false
	}
	return s.Size == other.Size &&
		s.Window == other.Window &&
		s.Points.Equal(other.Points)
}

// Clone deep-copies the store so drags after the upload cannot alias the
// baseline.
func (s *ControlPointSource) Clone() Source {
	return &ControlPointSource{Points: s.Points.Copy(), Window: s.Window, Size: s.Size}
}
