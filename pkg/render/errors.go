package render

import "errors"

// Sentinel errors describing the failure taxonomy of the rasterization
// pipeline. Per-triangle anomalies (DegenerateTriangle, Backface,
// OutOfViewport) are not returned as errors at all — they are silent skips
// reported only through CullingStats — because they are expected, routine
// outcomes of submitting arbitrary geometry, not failures.
var (
	// ErrResourceExhaustion is returned by FrameBuffer.Recreate when the
	// requested dimensions cannot be allocated.
	ErrResourceExhaustion = errors.New("render: resource exhaustion")

	// ErrSchemaMismatch is returned by a draw call when the three
	// per-vertex attribute streams disagree on location count or widths
	// after vertex shading. The triangle that triggered it is skipped.
	ErrSchemaMismatch = errors.New("render: attribute stream schema mismatch")
)
