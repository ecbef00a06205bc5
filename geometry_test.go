package curbreg

import (
	"math"
	"testing"
)

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func straightLine() LineString {
	return LineString{Points: []Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 200, Y: 0}}}
}

func TestLineStringLength(t *testing.T) {
	line := straightLine()
	if got := line.Length(); !approxEqual(got, 200, 1e-9) {
		t.Errorf("Length() = %v, want 200", got)
	}
}

func TestProjectOnStraightLine(t *testing.T) {
	line := straightLine()
	cases := []struct {
		name string
		p    Point
		want float64
	}{
		{"at start", Point{0, 0}, 0},
		{"mid first segment", Point{50, 5}, 50},
		{"on second segment", Point{150, -3}, 150},
		{"beyond end clamps", Point{250, 0}, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Project(tc.p, line)
			if !approxEqual(got, tc.want, 1e-6) {
				t.Errorf("Project(%v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestCutReturnsSubLine(t *testing.T) {
	line := straightLine()
	sub := Cut(line, 50, 150)
	if len(sub.Points) < 2 {
		t.Fatalf("expected at least two points, got %v", sub.Points)
	}
	if !approxEqual(sub.Length(), 100, 1e-6) {
		t.Errorf("cut length = %v, want 100", sub.Length())
	}
	if sub.Points[0].X != 50 || sub.Points[len(sub.Points)-1].X != 150 {
		t.Errorf("unexpected endpoints: %v", sub.Points)
	}
}

func TestCutDegenerateIntervalIsEmpty(t *testing.T) {
	line := straightLine()
	sub := Cut(line, 100, 100)
	if len(sub.Points) != 0 {
		t.Errorf("expected empty line for degenerate interval, got %v", sub.Points)
	}
}

func TestCutClampsOutOfBoundRequests(t *testing.T) {
	line := straightLine()
	sub := Cut(line, -50, 500)
	if !approxEqual(sub.Length(), 200, 1e-6) {
		t.Errorf("expected full-length clamp, got %v", sub.Length())
	}
}

func TestDistanceToLine(t *testing.T) {
	line := straightLine()
	got := DistanceToLine(Point{50, 10}, line)
	if !approxEqual(got, 10, 1e-6) {
		t.Errorf("DistanceToLine = %v, want 10", got)
	}
}
