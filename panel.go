package curbreg

import (
	"errors"
	"sort"
	"strings"
)

// Panel is one physical sign (or folded-in sub-placard): a position along
// its support, an arrow direction, and the regulation(s) it carries, per
// §3/§4.6.
type Panel struct {
	Position   int
	Arrow      Arrow
	Regulation []Regulation
	Location   Location
	UniqueID   string
	Meta       map[string]any
}

func arrowFromInventory(regFleche string) Arrow {
	switch regFleche {
	case "vers rue":
		return ArrowStart
	case "vers trottoir":
		return ArrowEnd
	default:
		return ArrowNoArrow
	}
}

// PanelFromInventory builds a Panel from one inventory row.
func PanelFromInventory(row Row) (*Panel, error) {
	regs, err := RegulationsFromInventory(row)
	if err != nil {
		return nil, err
	}

	loc := NewLocation(row.Point(), SideOfStreetFromCode(row.CoteRueID), row.StreetID(), row.ObjetType)

	return &Panel{
		Position:   row.ObjetPositionSeq,
		Arrow:      arrowFromInventory(row.RegFleche),
		Regulation: regs,
		Location:   loc,
		UniqueID:   row.GlobalIDPanneau,
		Meta: map[string]any{
			"nb_period": row.PanneauNbPeriodes,
		},
	}, nil
}

// ExtendPeriod folds a sub-placard's periods into every existing regulation:
// a regulation with no periods yet adopts the incoming list wholesale,
// otherwise each existing period is updated against each incoming period.
func (p *Panel) ExtendPeriod(reg Regulation) {
	for i := range p.Regulation {
		existing := &p.Regulation[i]
		if len(existing.Periods) == 0 {
			existing.Periods = append([]Period(nil), reg.Periods...)
			continue
		}
		for j := range existing.Periods {
			for _, additional := range reg.Periods {
				existing.Periods[j].Update(additional)
			}
		}
	}
}

// ExtendUserClass folds a sub-placard's user classes into every existing
// regulation. When the incoming class is an exception, the existing
// regulation keeps its rule untouched (it still governs everyone outside the
// exception), and a new Regulation is spun off pairing the exception's user
// class with Exempt's unrestricted twin (rules[0]). Otherwise the incoming
// classes are simply appended.
func (p *Panel) ExtendUserClass(reg Regulation) {
	if len(reg.UserClass) == 0 {
		return
	}

	var additions []Regulation
	for i := range p.Regulation {
		existing := &p.Regulation[i]
		if reg.UserClass[0].IsExcept {
			rules := existing.Rule.Exempt()
			additions = append(additions, Regulation{
				Rule:      rules[0],
				UserClass: append([]UserClass(nil), reg.UserClass...),
				Periods:   append([]Period(nil), existing.Periods...),
			})
		} else {
			existing.UserClass = append(existing.UserClass, reg.UserClass...)
		}
	}
	p.Regulation = append(p.Regulation, additions...)
}

// ExtendRegulation folds a sub-placard's regulation into the panel's
// existing regulations: periods first, then user classes.
func (p *Panel) ExtendRegulation(reg Regulation) {
	p.ExtendPeriod(reg)
	p.ExtendUserClass(reg)
}

// selfMerge groups the panel's regulations by rule equality, flattening
// periods and user classes within each group and joining other_text with
// " ; ". This corrects the source's self_merge, whose groupby/sort call was
// missing its key function and which wrapped the group iterator itself
// rather than the regulations' own period/user-class lists; see DESIGN.md.
func (p *Panel) selfMerge() {
	if len(p.Regulation) == 0 {
		return
	}

	order := make([]string, 0)
	groups := map[string][]Regulation{}
	for _, reg := range p.Regulation {
		k := reg.Rule.Key()
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], reg)
	}

	merged := make([]Regulation, 0, len(order))
	for _, k := range order {
		members := groups[k]
		out := Regulation{Rule: members[0].Rule}
		var otherTexts []string
		for _, m := range members {
			out.Periods = append(out.Periods, m.Periods...)
			out.UserClass = append(out.UserClass, m.UserClass...)
			if m.OtherText != "" {
				otherTexts = append(otherTexts, m.OtherText)
			}
		}
		out.OtherText = strings.Join(otherTexts, " ; ")
		merged = append(merged, out)
	}
	p.Regulation = merged
}

// Merge folds other into p: both panels are self-merged first, then
// regulations sharing a rule are merged pairwise via Regulation.Merge;
// regulations with no counterpart on p are appended unchanged.
func (p *Panel) Merge(other *Panel) {
	p.selfMerge()
	other.selfMerge()

	used := make([]bool, len(other.Regulation))
	for i := range p.Regulation {
		for j := range other.Regulation {
			if used[j] {
				continue
			}
			if p.Regulation[i].Rule.Key() == other.Regulation[j].Rule.Key() {
				err := p.Regulation[i].Merge(other.Regulation[j])
				if err == nil || errors.Is(err, ErrDuplicateRegulationMerge) {
					used[j] = true
					break
				}
			}
		}
	}
	for j, reg := range other.Regulation {
		if !used[j] {
			p.Regulation = append(p.Regulation, reg)
		}
	}
}

// LinearReferenceFromGeom projects the panel's point onto line and records
// the resulting curvilinear abscissa on its Location.
func (p *Panel) LinearReferenceFromGeom(line LineString) {
	p.Location.LinearReference = Project(p.Location.Point, line)
}

// Equal compares identity fields: location, arrow, unique ID, and the
// regulation lists, compared position by position.
func (p *Panel) Equal(other *Panel) bool {
	if !p.Location.Equal(other.Location) || p.Arrow != other.Arrow || p.UniqueID != other.UniqueID {
		return false
	}
	if len(p.Regulation) != len(other.Regulation) {
		return false
	}
	for i := range p.Regulation {
		if !p.Regulation[i].Equal(other.Regulation[i]) {
			return false
		}
	}
	return true
}

// Key is a stable string encoding used for duplicate-panel detection.
func (p *Panel) Key() string {
	regKeys := make([]string, len(p.Regulation))
	for i, r := range p.Regulation {
		regKeys[i] = r.Key()
	}
	sort.Strings(regKeys)
	return strings.Join([]string{
		p.UniqueID,
		p.Arrow.String(),
		strings.Join(regKeys, ","),
	}, "|")
}
