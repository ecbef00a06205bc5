package curbreg

import (
	"fmt"
	"sort"
	"strings"
)

// Regulation pairs a Rule with the UserClasses and Periods it applies to,
// per §3/§4.5.
type Regulation struct {
	Rule      Rule
	UserClass []UserClass
	Periods   []Period
	OtherText string
}

// RegulationsFromInventory builds the Regulation(s) described by one
// inventory row. When the row's user classes are all exceptions, the rule
// is split via Rule.Exempt and one Regulation is produced per resulting
// rule, each sharing the same user-class/period lists.
func RegulationsFromInventory(row Row) ([]Regulation, error) {
	rule := RuleFromInventory(row)
	classes := UserClassesFromInventory(row)
	if err := CheckExceptionHomogeneity(classes); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
	}
	periods, err := PeriodsFromInventory(row)
	if err != nil {
		return nil, err
	}

	except := len(classes) > 0 && classes[0].IsExcept

	if !except {
		return []Regulation{{
			Rule:      rule,
			UserClass: classes,
			Periods:   periods,
			OtherText: row.AutreTexte,
		}}, nil
	}

	rules := rule.Exempt()
	regs := make([]Regulation, 0, len(rules))
	for _, r := range rules {
		regs = append(regs, Regulation{
			Rule:      r,
			UserClass: classes,
			Periods:   periods,
			OtherText: row.AutreTexte,
		})
	}
	return regs, nil
}

// Equal is structural equality over rule, user classes, and periods.
func (r Regulation) Equal(other Regulation) bool {
	if !r.Rule.Equal(other.Rule) {
		return false
	}
	if !userClassesEqual(r.UserClass, other.UserClass) {
		return false
	}
	if len(r.Periods) != len(other.Periods) {
		return false
	}
	for i := range r.Periods {
		if !r.Periods[i].Equal(other.Periods[i]) {
			return false
		}
	}
	return true
}

// Key is a stable string encoding of the rule/user-class/period triple,
// used for grouping and dedup.
func (r Regulation) Key() string {
	userKeys := make([]string, len(r.UserClass))
	for i, u := range r.UserClass {
		userKeys[i] = u.Key()
	}
	sort.Strings(userKeys)

	periodKeys := make([]string, len(r.Periods))
	for i, p := range r.Periods {
		periodKeys[i] = p.Key()
	}
	sort.Strings(periodKeys)

	return r.Rule.Key() + "||" + strings.Join(userKeys, ",") + "||" + strings.Join(periodKeys, ",")
}

// Merge folds other into r in place. It fails with ErrConflictingRules when
// the two rules differ, and with ErrDuplicateRegulationMerge when the two
// regulations are already structurally equal; otherwise it extends the
// period and user-class lists.
func (r *Regulation) Merge(other Regulation) error {
	if !r.Rule.Equal(other.Rule) {
		return fmt.Errorf("%w: %s vs %s", ErrConflictingRules, r.Rule.Key(), other.Rule.Key())
	}
	if r.Equal(other) {
		return fmt.Errorf("%w", ErrDuplicateRegulationMerge)
	}

	r.Periods = append(r.Periods, other.Periods...)
	r.UserClass = append(r.UserClass, other.UserClass...)
	if other.OtherText != "" && !strings.Contains(r.OtherText, other.OtherText) {
		if r.OtherText == "" {
			r.OtherText = other.OtherText
		} else {
			r.OtherText = r.OtherText + " ; " + other.OtherText
		}
	}
	return nil
}

// ToCurbLR renders the regulation's rule key, and includes userClasses /
// timeSpans only when at least one entry carries information.
func (r Regulation) ToCurbLR() map[string]any {
	reverse := len(r.UserClass) > 0 && allExcept(r.UserClass)

	curblr := map[string]any{
		"rule": r.Rule.ToCurbLR(reverse),
	}

	if !allUserClassesEmpty(r.UserClass) {
		classes := make([]map[string]any, 0, len(r.UserClass))
		for _, u := range r.UserClass {
			if !u.Empty() {
				classes = append(classes, u.ToCurbLR())
			}
		}
		if len(classes) > 0 {
			curblr["userClasses"] = classes
		}
	}

	if !allPeriodsEmpty(r.Periods) {
		spans := period2curblr(r.Periods)
		if len(spans) > 0 {
			curblr["timeSpans"] = spans
		}
	}

	return curblr
}

func allExcept(classes []UserClass) bool {
	for _, c := range classes {
		if !c.IsExcept {
			return false
		}
	}
	return true
}

func allPeriodsEmpty(periods []Period) bool {
	for _, p := range periods {
		if !p.Empty() {
			return false
		}
	}
	return true
}
