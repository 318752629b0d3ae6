package render

// AttributeStream is a dynamically-typed, append-only column store of
// per-vertex attribute locations. A draw call keeps four of these alive at
// once (V1, V2, V3 holding one vertex shader's output each, and OUT holding
// the per-fragment interpolated result); all four must agree on location
// count and per-location width once shaded, or interpolation is undefined.
type AttributeStream struct {
	widths []int
	raw    []float32
}

// NewAttributeStream returns an empty stream ready for Bind calls.
func NewAttributeStream() *AttributeStream {
	return &AttributeStream{}
}

// Bind appends a location of the given scalar width. If src is non-nil, the
// first width scalars of src seed the location's values; otherwise the
// location is zero-initialised.
func (s *AttributeStream) Bind(width int, src []float32) {
	s.widths = append(s.widths, width)
	start := len(s.raw)
	s.raw = append(s.raw, make([]float32, width)...)
	if src != nil {
		n := width
		if len(src) < n {
			n = len(src)
		}
		copy(s.raw[start:start+n], src[:n])
	}
}

// Clear drops all locations but keeps the underlying slices' capacity so
// repeated per-vertex clears across a draw call don't reallocate.
func (s *AttributeStream) Clear() {
	s.widths = s.widths[:0]
	s.raw = s.raw[:0]
}

// GetTotalCount returns the number of bound locations.
func (s *AttributeStream) GetTotalCount() int {
	return len(s.widths)
}

// GetLocationSize returns the scalar width of location i.
func (s *AttributeStream) GetLocationSize(i int) int {
	return s.widths[i]
}

// TotalWidth returns the sum of all location widths, i.e. the number of
// scalars addressable via GetRawValue/SetRawValue.
func (s *AttributeStream) TotalWidth() int {
	return len(s.raw)
}

// GetRawValue returns the flatIndex-th scalar across the concatenation of
// all bound locations.
func (s *AttributeStream) GetRawValue(flatIndex int) float32 {
	return s.raw[flatIndex]
}

// SetRawValue sets the flatIndex-th scalar across the concatenation of all
// bound locations.
func (s *AttributeStream) SetRawValue(flatIndex int, v float32) {
	s.raw[flatIndex] = v
}

// SameSchema reports whether s and other agree on location count and every
// location's width — the precondition for perspective-correct
// interpolation across V1/V2/V3.
func (s *AttributeStream) SameSchema(other *AttributeStream) bool {
	if len(s.widths) != len(other.widths) {
		return false
	}
	for i, w := range s.widths {
		if other.widths[i] != w {
			return false
		}
	}
	return true
}
