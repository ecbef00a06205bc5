package curbreg

import "math"

// Point is a planar coordinate in the EPSG:32188 projection (metres), not
// latitude/longitude degrees, so distance here is plain Euclidean rather
// than Haversine.
type Point struct {
	X float64
	Y float64
}

func (p Point) distanceTo(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// LineString is an ordered polyline in the EPSG:32188 projection.
type LineString struct {
	Points []Point
}

// Length returns the total length of the polyline.
func (l LineString) Length() float64 {
	total := 0.0
	for i := 1; i < len(l.Points); i++ {
		total += l.Points[i-1].distanceTo(l.Points[i])
	}
	return total
}

// segmentProjection projects point p orthogonally onto the segment (a, b),
// returning the curvilinear abscissa (distance from a along the segment,
// clamped to [0, |ab|]) and the perpendicular distance from p to that
// projection. Adapted from the point-to-line-segment distance formula the
// teacher uses for stop sightings, rewritten for planar Euclidean distance.
func segmentProjection(p, a, b Point) (along, dist float64) {
	abx := b.X - a.X
	aby := b.Y - a.Y
	segLenSquare := abx*abx + aby*aby
	if segLenSquare == 0 {
		return 0, p.distanceTo(a)
	}

	apx := p.X - a.X
	apy := p.Y - a.Y
	t := (apx*abx + apy*aby) / segLenSquare
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	proj := Point{X: a.X + t*abx, Y: a.Y + t*aby}
	segLen := math.Sqrt(segLenSquare)
	return t * segLen, p.distanceTo(proj)
}

// Project computes the curvilinear abscissa s ∈ [0, line.Length()] of the
// orthogonal projection of p onto the polyline: the vertex-to-vertex
// segment whose projection is closest to p wins.
func Project(p Point, line LineString) float64 {
	if len(line.Points) < 2 {
		if len(line.Points) == 1 {
			return 0
		}
		return 0
	}

	bestDist := math.Inf(1)
	bestAbscissa := 0.0
	cumulative := 0.0

	for i := 1; i < len(line.Points); i++ {
		a := line.Points[i-1]
		b := line.Points[i]
		along, dist := segmentProjection(p, a, b)
		if dist < bestDist {
			bestDist = dist
			bestAbscissa = cumulative + along
		}
		cumulative += a.distanceTo(b)
	}

	return bestAbscissa
}

// DistanceToLine returns the minimum perpendicular distance from p to any
// segment of line, used by the nearest-road fallback when a panel's street
// id is absent from the road table.
func DistanceToLine(p Point, line LineString) float64 {
	if len(line.Points) < 2 {
		if len(line.Points) == 1 {
			return p.distanceTo(line.Points[0])
		}
		return math.Inf(1)
	}

	best := math.Inf(1)
	for i := 1; i < len(line.Points); i++ {
		_, dist := segmentProjection(p, line.Points[i-1], line.Points[i])
		if dist < best {
			best = dist
		}
	}
	return best
}

// Cut returns the sub-linestring of line between curvilinear abscissas s0
// and s1 (s0 < s1), inserting interpolated vertices at both endpoints. A
// degenerate request (s1 <= s0, after clamping to [0, length]) yields an
// empty LineString.
func Cut(line LineString, s0, s1 float64) LineString {
	length := line.Length()
	if s0 < 0 {
		s0 = 0
	}
	if s1 > length {
		s1 = length
	}
	if s1 <= s0 || len(line.Points) < 2 {
		return LineString{}
	}

	var out []Point
	cumulative := 0.0
	for i := 1; i < len(line.Points); i++ {
		a := line.Points[i-1]
		b := line.Points[i]
		segLen := a.distanceTo(b)
		segStart := cumulative
		segEnd := cumulative + segLen
		cumulative = segEnd

		if segEnd <= s0 {
			continue
		}
		if segStart >= s1 {
			break
		}

		interpolate := func(s float64) Point {
			if segLen == 0 {
				return a
			}
			t := (s - segStart) / segLen
			return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
		}

		lo := math.Max(segStart, s0)
		hi := math.Min(segEnd, s1)

		if len(out) == 0 {
			out = append(out, interpolate(lo))
		}
		if hi > lo {
			out = append(out, interpolate(hi))
		}
	}

	return LineString{Points: out}
}
