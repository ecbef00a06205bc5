package curbreg

import "math"

// infinity stands for the still-open chain end, resolved to road_length
// only once the geometry cut actually happens.
const infinity = math.MaxFloat64

// chainPanel is one entry of the ordered sequence a segment chain walks:
// its abscissa along the (already direction-normalised) road, its arrow,
// and an opaque index back into the caller's panel list.
type chainPanel struct {
	LinearRef float64
	Arrow     Arrow
	Index     int
}

// buildSegments runs the arrow-chain state machine of §4.9 over an ordered
// sequence of panels sharing one (street, side, regulation) triplet.
// Panels must already be sorted by LinearRef in increasing order by the
// caller. It returns the `[s_start, s_end]` intervals the chain opens, and
// the indices of panels whose arrow transition was invalid (logged as
// chain-order violations).
func buildSegments(panels []chainPanel) (intervals [][2]float64, problemIndices []int) {
	open := false
	var openAt float64

	for _, pan := range panels {
		switch pan.Arrow {
		case ArrowStart:
			if !open {
				open = true
				openAt = pan.LinearRef
			} else {
				Logger.Printf("%v: regulation already open at panel index %d", ErrChainOrderViolation, pan.Index)
				problemIndices = append(problemIndices, pan.Index)
			}
		case ArrowEnd:
			if open {
				intervals = append(intervals, [2]float64{openAt, pan.LinearRef})
				open = false
			} else {
				Logger.Printf("%v: regulation closed without open at panel index %d", ErrChainOrderViolation, pan.Index)
				problemIndices = append(problemIndices, pan.Index)
			}
		case ArrowNoArrow:
			if !open {
				open = true
				openAt = pan.LinearRef
			} else {
				intervals = append(intervals, [2]float64{openAt, pan.LinearRef})
				openAt = pan.LinearRef
			}
		}
	}

	if open {
		intervals = append(intervals, [2]float64{openAt, infinity})
	}

	return intervals, problemIndices
}

// reverseArrow swaps ArrowStart and ArrowEnd, leaving ArrowNoArrow as-is: a
// chain walked backwards opens where it used to close and vice versa.
func reverseArrow(a Arrow) Arrow {
	switch a {
	case ArrowStart:
		return ArrowEnd
	case ArrowEnd:
		return ArrowStart
	default:
		return a
	}
}

// normalizeChainDirection reverses panel order, reflects every abscissa
// s → road_length - s, and swaps ArrowStart/ArrowEnd when the road's traffic
// direction calls for it (§4.9 direction normalisation). It returns a new
// slice; the input is untouched.
func normalizeChainDirection(panels []chainPanel, dir TrafficDir, side SideOfStreet, roadLength float64) []chainPanel {
	if !NeedsDirectionReversal(dir, side) {
		return panels
	}

	out := make([]chainPanel, len(panels))
	for i, p := range panels {
		out[len(panels)-1-i] = chainPanel{
			LinearRef: roadLength - p.LinearRef,
			Arrow:     reverseArrow(p.Arrow),
			Index:     p.Index,
		}
	}
	return out
}

// denormalizeInterval inverts the direction transform on an already-built
// [s_start, s_end] interval so CurbLR receives abscissas in the road's own
// digitalisation direction. +∞ resolves to roadLength first.
func denormalizeInterval(interval [2]float64, dir TrafficDir, side SideOfStreet, roadLength float64) [2]float64 {
	start, end := interval[0], interval[1]
	if end == infinity {
		end = roadLength
	}
	if !NeedsDirectionReversal(dir, side) {
		return [2]float64{start, end}
	}
	return [2]float64{roadLength - end, roadLength - start}
}
