package curbreg

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Period is the temporal applicability of a Regulation: an hour window, a
// weekday set, and a date range, each independently optional. See §3/§4.2.
type Period struct {
	StartHour *time.Time
	EndHour   *time.Time
	Days      []int
	StartDate *time.Time
	EndDate   *time.Time
}

func (p Period) hourEmpty() bool  { return p.StartHour == nil || p.EndHour == nil }
func (p Period) daysEmpty() bool  { return len(p.Days) == 0 }
func (p Period) datesEmpty() bool { return p.StartDate == nil || p.EndDate == nil }

// Empty reports whether every one of hours, days and dates is unset.
func (p Period) Empty() bool {
	return p.hourEmpty() && p.daysEmpty() && p.datesEmpty()
}

func timeEqual(a, b *time.Time) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	if a == nil {
		return true
	}
	return a.Equal(*b)
}

func intSliceEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Equal is structural equality over all five fields.
func (p Period) Equal(other Period) bool {
	return timeEqual(p.StartHour, other.StartHour) &&
		timeEqual(p.EndHour, other.EndHour) &&
		intSliceEqual(p.Days, other.Days) &&
		timeEqual(p.StartDate, other.StartDate) &&
		timeEqual(p.EndDate, other.EndDate)
}

func timeKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

// Key is a total-order-safe string encoding used for hashing/dedup, mirroring
// the source's structural __hash__.
func (p Period) Key() string {
	days := make([]string, len(p.Days))
	for i, d := range p.Days {
		days[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("%s|%s|[%s]|%s|%s", timeKey(p.StartHour), timeKey(p.EndHour), strings.Join(days, ","), timeKey(p.StartDate), timeKey(p.EndDate))
}

func daysKey(days []int) string {
	parts := make([]string, len(days))
	for i, d := range days {
		parts[i] = strconv.Itoa(d)
	}
	return "[" + strings.Join(parts, " ") + "]"
}

var (
	schoolPeriod1Start = time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	schoolPeriod1End   = time.Date(referenceYear, time.June, 30, 0, 0, 0, 0, time.UTC)
	schoolPeriod2Start = time.Date(referenceYear, time.September, 1, 0, 0, 0, 0, time.UTC)
	schoolPeriod2End   = time.Date(referenceYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	schoolDays         = []int{0, 1, 2, 3, 4}
)

func parseTimeOfDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			anchored := time.Date(referenceYear, time.January, 1, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
			return &anchored, nil
		}
	}
	return nil, fmt.Errorf("%w: unparsable hour %q", ErrMalformedRow, s)
}

func checkHours(startStr, endStr string) (start, end *time.Time, err error) {
	start, err = parseTimeOfDay(startStr)
	if err != nil {
		return nil, nil, err
	}
	end, err = parseTimeOfDay(endStr)
	if err != nil {
		return nil, nil, err
	}
	if (start == nil) != (end == nil) {
		return nil, nil, fmt.Errorf("%w: start and end hour must both be set or both unset", ErrMalformedRow)
	}
	if start != nil && start.Hour() == 0 && start.Minute() == 0 && end.Hour() == 0 && end.Minute() == 0 {
		return nil, nil, fmt.Errorf("%w: start and end hour cannot both be 00:00", ErrMalformedRow)
	}
	return start, end, nil
}

func checkDays(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	days, err := parseDays(strings.ReplaceAll(s, ",", "-"))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	return days, nil
}

func checkDates(months string, startDay, endDay int) (from, to []*time.Time, err error) {
	months = strings.TrimSpace(months)
	var monthIndexes []int
	if months != "" {
		for _, tok := range strings.Split(months, ",") {
			name := strings.TrimSpace(tok)
			idx, ok := frenchMonths[name]
			if !ok {
				return nil, nil, fmt.Errorf("%w: unknown month %q", ErrMalformedRow, name)
			}
			monthIndexes = append(monthIndexes, idx)
		}
	}

	hasMonths := len(monthIndexes) > 0
	hasDayBounds := startDay != 0 || endDay != 0
	if hasMonths && !hasDayBounds {
		return nil, nil, fmt.Errorf("%w: months referenced without start/end day", ErrMalformedRow)
	}
	if hasDayBounds && !hasMonths {
		return nil, nil, fmt.Errorf("%w: start/end day referenced without months", ErrMalformedRow)
	}
	if !hasMonths {
		return []*time.Time{nil}, []*time.Time{nil}, nil
	}

	sort.Ints(monthIndexes)
	fromDates, toDates := monthsToDateRanges(startDay, endDay, monthIndexes)
	from = make([]*time.Time, len(fromDates))
	to = make([]*time.Time, len(toDates))
	for i := range fromDates {
		f, t := fromDates[i], toDates[i]
		from[i] = &f
		to[i] = &t
	}
	return from, to, nil
}

func isSchoolFlag(s string) bool {
	return strings.TrimSpace(s) != ""
}

// PeriodsFromInventory builds the list of Periods described by one
// inventory row: hours, days, and month/day-of-month bounds are parsed and
// expanded into one Period per date-range pair, the school calendar
// override is applied when the row's school flag is set, and the whole
// list is exemption-inverted when the row marks itself as an exception.
func PeriodsFromInventory(row Row) ([]Period, error) {
	startHour, endHour, err := checkHours(row.RegTmpHeureDebut, row.RegTmpHeureFin)
	if err != nil {
		return nil, err
	}

	days, err := checkDays(row.RegTmpJours)
	if err != nil {
		return nil, err
	}

	datesFrom, datesTo, err := checkDates(row.PanneauMois, row.PanneauAnJourDebut, row.PanneauAnJourFin)
	if err != nil {
		return nil, err
	}

	if isSchoolFlag(row.RegTmpEcole) {
		if datesFrom[0] != nil || datesTo[0] != nil {
			Logger.Printf("period on sign %s specifies dates and a school period", row.GlobalIDPanneau)
		}
		s1, e1, s2, e2 := schoolPeriod1Start, schoolPeriod1End, schoolPeriod2Start, schoolPeriod2End
		datesFrom = []*time.Time{&s1, &s2}
		datesTo = []*time.Time{&e1, &e2}
		if len(days) > 0 {
			Logger.Printf("period on sign %s specifies days and a school period", row.GlobalIDPanneau)
		} else {
			days = append([]int(nil), schoolDays...)
		}
	}

	periods := make([]Period, 0, len(datesFrom))
	for i := range datesFrom {
		periods = append(periods, Period{
			StartHour: startHour,
			EndHour:   endHour,
			Days:      append([]int(nil), days...),
			StartDate: datesFrom[i],
			EndDate:   datesTo[i],
		})
	}

	if row.RegTmpExcept == "oui" {
		inverted := make([]Period, 0, len(periods)*2)
		for _, p := range periods {
			inverted = append(inverted, reverseExempt(p)...)
		}
		periods = inverted
	}

	return periods, nil
}

func complementDays(days []int) []int {
	in := make(map[int]bool, len(days))
	for _, d := range days {
		in[d] = true
	}
	var out []int
	for d := 0; d < 7; d++ {
		if !in[d] {
			out = append(out, d)
		}
	}
	return out
}

func atTimeOfDay(hour, minute int) time.Time {
	return time.Date(referenceYear, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// reverseExempt builds the up-to-two complement Periods for an exemption
// inversion: one for (00:00 → start_hour), one for (end_hour → 23:59), both
// on the weekdays the original Period did *not* cover.
func reverseExempt(p Period) []Period {
	complement := complementDays(p.Days)

	var p1StartHour *time.Time
	if p.StartHour != nil {
		t := atTimeOfDay(0, 0)
		p1StartHour = &t
	}
	var p1StartDate *time.Time
	if p.StartDate != nil {
		d := time.Date(referenceYear, time.January, 1, 0, 0, 0, 0, time.UTC)
		p1StartDate = &d
	}
	p1 := Period{
		StartHour: p1StartHour,
		EndHour:   p.StartHour,
		Days:      complement,
		StartDate: p1StartDate,
		EndDate:   p.StartDate,
	}

	var p2EndHour *time.Time
	if p.EndHour != nil {
		t := atTimeOfDay(23, 59)
		p2EndHour = &t
	}
	var p2EndDate *time.Time
	if p.EndDate != nil {
		d := time.Date(referenceYear, time.December, 31, 0, 0, 0, 0, time.UTC)
		p2EndDate = &d
	}
	p2 := Period{
		StartHour: p.EndHour,
		EndHour:   p2EndHour,
		Days:      complement,
		StartDate: p.EndDate,
		EndDate:   p2EndDate,
	}

	if p1.Equal(p2) {
		return []Period{p1}
	}
	return []Period{p1, p2}
}

// Update merges other into p in place: an empty p absorbs other wholesale;
// otherwise each field independently adopts other's value only if p lacked
// one, warning (and keeping p's value) when both sides disagree.
func (p *Period) Update(other Period) {
	if p.Empty() {
		*p = other
		return
	}

	if p.StartHour == nil {
		p.StartHour = other.StartHour
	} else if other.StartHour != nil && !p.StartHour.Equal(*other.StartHour) {
		Logger.Printf("period update: conflicting start_hour, keeping existing value")
	}

	if p.EndHour == nil {
		p.EndHour = other.EndHour
	} else if other.EndHour != nil && !p.EndHour.Equal(*other.EndHour) {
		Logger.Printf("period update: conflicting end_hour, keeping existing value")
	}

	if len(p.Days) == 0 {
		p.Days = other.Days
	} else if len(other.Days) > 0 && !intSliceEqual(p.Days, other.Days) {
		Logger.Printf("period update: conflicting days, keeping existing value")
	}

	if p.StartDate == nil {
		p.StartDate = other.StartDate
	} else if other.StartDate != nil && !p.StartDate.Equal(*other.StartDate) {
		Logger.Printf("period update: conflicting start_date, keeping existing value")
	}

	if p.EndDate == nil {
		p.EndDate = other.EndDate
	} else if other.EndDate != nil && !p.EndDate.Equal(*other.EndDate) {
		Logger.Printf("period update: conflicting end_date, keeping existing value")
	}
}

// ToCurbLR renders a non-empty Period to its CurbLR fragment; empty groups
// (dates, days, hours) are omitted, and an empty Period renders to nothing.
func (p Period) ToCurbLR() map[string]any {
	if p.Empty() {
		return map[string]any{}
	}

	out := map[string]any{}
	if !p.datesEmpty() {
		out["effectiveDates"] = []map[string]string{{
			"from": p.StartDate.Format("01-02"),
			"to":   p.EndDate.Format("01-02"),
		}}
	}
	if !p.daysEmpty() {
		names := make([]string, len(p.Days))
		for i, d := range p.Days {
			names[i] = CurbLRDays[d]
		}
		out["daysOfWeek"] = map[string]any{"days": names}
	}
	if !p.hourEmpty() {
		out["timesOfDay"] = []map[string]string{{
			"from": p.StartHour.Format("15:04"),
			"to":   p.EndHour.Format("15:04"),
		}}
	}
	return out
}

func dedupDictList(existing, incoming any) any {
	a, aok := existing.([]map[string]string)
	b, bok := incoming.([]map[string]string)
	if !aok || !bok {
		return existing
	}
	seen := map[string]bool{}
	var out []map[string]string
	for _, m := range append(append([]map[string]string{}, a...), b...) {
		key := m["from"] + "|" + m["to"]
		if !seen[key] {
			seen[key] = true
			out = append(out, m)
		}
	}
	return out
}

// period2curblr groups periods sharing the same weekday set and unions
// their effectiveDates/timesOfDay within each group, deduplicating exact
// duplicates, per §4.5's timeSpans emission rule.
func period2curblr(periods []Period) []map[string]any {
	if len(periods) == 0 {
		return nil
	}

	sorted := append([]Period(nil), periods...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return daysKey(sorted[i].Days) < daysKey(sorted[j].Days)
	})

	type group struct {
		key     string
		periods []Period
	}
	var groups []group
	for _, p := range sorted {
		k := daysKey(p.Days)
		if len(groups) > 0 && groups[len(groups)-1].key == k {
			g := &groups[len(groups)-1]
			g.periods = append(g.periods, p)
		} else {
			groups = append(groups, group{key: k, periods: []Period{p}})
		}
	}

	out := make([]map[string]any, 0, len(groups))
	for _, g := range groups {
		merged := g.periods[0].ToCurbLR()
		for _, p := range g.periods[1:] {
			for k, v := range p.ToCurbLR() {
				if k == "daysOfWeek" {
					continue
				}
				if existing, ok := merged[k]; ok {
					merged[k] = dedupDictList(existing, v)
				} else {
					merged[k] = v
				}
			}
		}
		out = append(out, merged)
	}
	return out
}
