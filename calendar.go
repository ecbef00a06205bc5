package curbreg

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// dayNames holds the French day-interval vocabulary used by the inventory,
// Monday=0..Sunday=6, mirroring the source's DAYS list.
var dayNames = [7]string{
	"lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi", "dimanche",
}

// frenchMonths maps a French month name to its 0-indexed month number.
var frenchMonths = map[string]int{
	"janvier":   0,
	"février":   1,
	"mars":      2,
	"avril":     3,
	"mai":       4,
	"juin":      5,
	"juillet":   6,
	"août":      7,
	"septembre": 8,
	"octobre":   9,
	"novembre":  10,
	"décembre":  11,
}

func dayIndex(name string) (int, bool) {
	name = strings.TrimSpace(name)
	for i, d := range dayNames {
		if d == name {
			return i, true
		}
	}
	return 0, false
}

// parseDays maps a French day-interval string to a sorted list of weekday
// indices (Monday=0..Sunday=6). See §4.1 for the accepted grammar.
func parseDays(day string) ([]int, error) {
	day = strings.TrimSpace(day)
	if day == "dim-sam" {
		return []int{0, 1, 2, 3, 4, 5, 6}, nil
	}

	if idx, ok := dayIndex(day); ok {
		return []int{idx}, nil
	}

	if strings.Contains(day, "-") {
		parts := strings.SplitN(day, "-", 2)
		first, okFirst := dayIndex(parts[0])
		last, okLast := dayIndex(parts[1])
		if !okFirst || !okLast {
			return nil, fmt.Errorf("%w: %q", ErrInvalidDayExpression, day)
		}
		if first > last {
			return nil, fmt.Errorf("%w: range start after end in %q", ErrInvalidDayExpression, day)
		}
		days := make([]int, 0, last-first+1)
		for i := first; i <= last; i++ {
			days = append(days, i)
		}
		return days, nil
	}

	if strings.Contains(day, "+") {
		tokens := strings.Split(day, "+")
		days := make([]int, 0, len(tokens))
		for _, tok := range tokens {
			idx, ok := dayIndex(tok)
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrInvalidDayExpression, day)
			}
			days = append(days, idx)
		}
		sort.Ints(days)
		return days, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidDayExpression, day)
}

// referenceYear anchors every Period date: only the month/day survive to
// CurbLR output (MM-DD), but a concrete, non-leap year is needed to build
// and compare time.Time values.
const referenceYear = 1970

// safeEndOfMonth returns the last calendar day of the given 1-indexed month
// in referenceYear. The day-28-plus-4-days trick works for every month
// since day 28 exists everywhere and four days later always lands in the
// next month.
func safeEndOfMonth(month int) time.Time {
	safe := time.Date(referenceYear, time.Month(month), 28, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 4)
	return safe.AddDate(0, 0, -safe.Day())
}

// monthsToDateRanges groups months (0-indexed) into runs of consecutive
// month indices and emits, for each run, a pair (from = startDay of the
// run's first month, to = endDay of the run's last month), clamping both
// bounds symmetrically when the requested day exceeds the month's length.
// See DESIGN.md for why this clamps both bounds, unlike the source.
func monthsToDateRanges(startDay, endDay int, months []int) (from, to []time.Time) {
	if len(months) == 0 {
		return nil, nil
	}

	runStart := 0
	flushRun := func(runEnd int) {
		firstMonth := months[runStart] + 1
		lastMonth := months[runEnd] + 1

		fromDate, err := safeDate(firstMonth, startDay)
		if err != nil {
			fromDate = safeEndOfMonth(firstMonth)
		}
		toDate, err := safeDate(lastMonth, endDay)
		if err != nil {
			toDate = safeEndOfMonth(lastMonth)
		}
		from = append(from, fromDate)
		to = append(to, toDate)
	}

	for i := 1; i < len(months); i++ {
		if months[i]-months[i-1] != 1 {
			flushRun(i - 1)
			runStart = i
		}
	}
	flushRun(len(months) - 1)

	return from, to
}

func safeDate(month, day int) (time.Time, error) {
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("day %d out of range", day)
	}
	candidate := time.Date(referenceYear, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if candidate.Month() != time.Month(month) {
		return time.Time{}, fmt.Errorf("day %d does not exist in month %d", day, month)
	}
	return candidate, nil
}
