package curbreg

import "testing"

func TestBuildSegmentsStartEnd(t *testing.T) {
	panels := []chainPanel{
		{LinearRef: 10, Arrow: ArrowStart, Index: 0},
		{LinearRef: 50, Arrow: ArrowEnd, Index: 1},
	}
	intervals, problems := buildSegments(panels)
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
	if len(intervals) != 1 || intervals[0] != [2]float64{10, 50} {
		t.Fatalf("unexpected intervals: %v", intervals)
	}
}

func TestBuildSegmentsDoubleOpenWarns(t *testing.T) {
	panels := []chainPanel{
		{LinearRef: 10, Arrow: ArrowStart, Index: 0},
		{LinearRef: 20, Arrow: ArrowStart, Index: 1},
		{LinearRef: 50, Arrow: ArrowEnd, Index: 2},
	}
	intervals, problems := buildSegments(panels)
	if len(problems) != 1 || problems[0] != 1 {
		t.Fatalf("expected panel index 1 to be marked problematic, got %v", problems)
	}
	if len(intervals) != 1 || intervals[0] != [2]float64{10, 50} {
		t.Fatalf("expected the original open abscissa to survive, got %v", intervals)
	}
}

func TestBuildSegmentsOrphanCloseWarns(t *testing.T) {
	panels := []chainPanel{{LinearRef: 10, Arrow: ArrowEnd, Index: 0}}
	intervals, problems := buildSegments(panels)
	if len(intervals) != 0 {
		t.Fatalf("expected no interval from an orphan close, got %v", intervals)
	}
	if len(problems) != 1 || problems[0] != 0 {
		t.Fatalf("expected panel index 0 to be marked problematic, got %v", problems)
	}
}

func TestBuildSegmentsNoArrowChaining(t *testing.T) {
	panels := []chainPanel{
		{LinearRef: 10, Arrow: ArrowNoArrow, Index: 0},
		{LinearRef: 30, Arrow: ArrowNoArrow, Index: 1},
		{LinearRef: 60, Arrow: ArrowEnd, Index: 2},
	}
	intervals, problems := buildSegments(panels)
	if len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
	want := [][2]float64{{10, 30}, {30, 60}}
	if len(intervals) != len(want) || intervals[0] != want[0] || intervals[1] != want[1] {
		t.Fatalf("unexpected intervals: %v", intervals)
	}
}

func TestBuildSegmentsOpenChainResolvesToInfinity(t *testing.T) {
	panels := []chainPanel{{LinearRef: 10, Arrow: ArrowStart, Index: 0}}
	intervals, _ := buildSegments(panels)
	if len(intervals) != 1 || intervals[0][1] != infinity {
		t.Fatalf("expected the chain to stay open through +inf, got %v", intervals)
	}
}

func TestNormalizeChainDirectionReversesReverseDir(t *testing.T) {
	panels := []chainPanel{
		{LinearRef: 10, Arrow: ArrowStart, Index: 0},
		{LinearRef: 90, Arrow: ArrowEnd, Index: 1},
	}
	normalized := normalizeChainDirection(panels, TrafficReverseDir, SideRight, 100)
	if len(normalized) != 2 {
		t.Fatalf("expected two panels, got %d", len(normalized))
	}
	if normalized[0].LinearRef != 10 || normalized[0].Index != 1 || normalized[0].Arrow != ArrowStart {
		t.Errorf("expected reversed order with reflected abscissa and swapped arrow, got %+v", normalized[0])
	}
	if normalized[1].LinearRef != 90 || normalized[1].Index != 0 || normalized[1].Arrow != ArrowEnd {
		t.Errorf("expected reversed order with reflected abscissa and swapped arrow, got %+v", normalized[1])
	}
}

// TestNormalizeChainDirectionThenBuildSegmentsMatchesWorkedExample runs
// spec's worked example S6 end to end: a REVERSE_DIR road of length 100 with
// signs at abscissas 30(START)/70(END) must still resolve to the clean
// interval [30,70], not an orphan close followed by an unclosed open.
func TestNormalizeChainDirectionThenBuildSegmentsMatchesWorkedExample(t *testing.T) {
	panels := []chainPanel{
		{LinearRef: 30, Arrow: ArrowStart, Index: 0},
		{LinearRef: 70, Arrow: ArrowEnd, Index: 1},
	}
	normalized := normalizeChainDirection(panels, TrafficReverseDir, SideRight, 100)
	intervals, problems := buildSegments(normalized)
	if len(problems) != 0 {
		t.Fatalf("expected no chain-order violations, got %v", problems)
	}
	if len(intervals) != 1 {
		t.Fatalf("expected exactly one interval, got %v", intervals)
	}
	real := denormalizeInterval(intervals[0], TrafficReverseDir, SideRight, 100)
	if real != [2]float64{30, 70} {
		t.Fatalf("expected the denormalized interval to match the worked example [30 70], got %v", real)
	}
}

func TestNormalizeChainDirectionLeavesDigitalizationDirUntouched(t *testing.T) {
	panels := []chainPanel{{LinearRef: 10, Arrow: ArrowStart, Index: 0}}
	normalized := normalizeChainDirection(panels, TrafficDigitalizationDir, SideRight, 100)
	if normalized[0].LinearRef != 10 {
		t.Errorf("expected no transform, got %+v", normalized[0])
	}
}

func TestDenormalizeIntervalRoundTrips(t *testing.T) {
	interval := [2]float64{10, 50}
	real := denormalizeInterval(interval, TrafficReverseDir, SideRight, 100)
	if real != [2]float64{50, 90} {
		t.Fatalf("denormalizeInterval = %v, want [50 90]", real)
	}
}

func TestDenormalizeIntervalResolvesInfinity(t *testing.T) {
	interval := [2]float64{10, infinity}
	real := denormalizeInterval(interval, TrafficDigitalizationDir, SideRight, 100)
	if real != [2]float64{10, 100} {
		t.Fatalf("denormalizeInterval = %v, want [10 100]", real)
	}
}
