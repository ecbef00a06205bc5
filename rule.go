package curbreg

import "fmt"

// Rule is a Regulation's activity, type, and maximum-stay/payment terms.
// See §3/§4.4.
type Rule struct {
	Activity  Nature
	Type      string
	Reason    string
	Priority  int
	HasPriority bool
	MaxStay   int
	HasMaxStay  bool
	Payment   bool
	Authority map[string]string
}

// IsEmpty reports whether the rule carries no information at all.
func (r Rule) IsEmpty() bool {
	return r.Activity == NatureUnknown &&
		r.Type == "" &&
		r.Reason == "" &&
		!r.HasPriority &&
		!r.HasMaxStay
}

func normalizeRuleType(regTypeImmo string) string {
	switch regTypeImmo {
	case "", "stationnement":
		return "parking"
	case "arrêt":
		return "standing"
	default:
		return regTypeImmo
	}
}

// RuleFromInventory builds a Rule from one inventory row. type is
// normalised ("stationnement"/missing → "parking", "arrêt" → "standing");
// reason defaults to type unless panneau_type is set.
func RuleFromInventory(row Row) Rule {
	activity := NatureInterdiction
	switch row.RegNature {
	case "permission":
		activity = NaturePermission
	case "":
		activity = NatureUnknown
	}

	typ := normalizeRuleType(row.RegTypeImmo)

	reason := typ
	if row.PanneauType != "" {
		reason = row.PanneauType
	}

	rule := Rule{
		Activity: activity,
		Type:     typ,
		Reason:   reason,
		Authority: map[string]string{
			"name": row.Arrondissement,
		},
	}
	if row.ObjetPositionSeq != 0 {
		rule.Priority = row.ObjetPositionSeq
		rule.HasPriority = true
	}
	if row.RegTmpDuree != 0 {
		rule.MaxStay = row.RegTmpDuree
		rule.HasMaxStay = true
	}
	return rule
}

// Exempt applies the "except class" exemption logic: a permission being
// exempted splits into the original plus a twin with max_stay cleared and
// payment toggled; an interdiction being exempted flips to permission;
// anything else returns unchanged.
func (r Rule) Exempt() []Rule {
	if r.Activity == NaturePermission {
		twin := r
		twin.HasMaxStay = false
		twin.MaxStay = 0
		twin.Payment = !r.Payment
		return []Rule{twin, r}
	}

	if r.Activity == NatureInterdiction {
		r.Activity = NaturePermission
		return []Rule{r}
	}

	return []Rule{r}
}

// Update yields self when either side is empty; fails with
// ErrConflictingRules when activity or type differ; otherwise adopts
// other's max_stay only if self lacks one.
func (r Rule) Update(other Rule) (Rule, error) {
	if r.IsEmpty() {
		return other, nil
	}
	if other.IsEmpty() {
		return r, nil
	}

	if r.Activity != other.Activity || r.Type != other.Type {
		return Rule{}, fmt.Errorf("%w: %s/%s vs %s/%s", ErrConflictingRules, r.Activity, r.Type, other.Activity, other.Type)
	}

	if other.HasMaxStay && !r.HasMaxStay {
		r.MaxStay = other.MaxStay
		r.HasMaxStay = true
	}
	return r, nil
}

func (n Nature) String() string {
	switch n {
	case NatureInterdiction:
		return "interdiction"
	case NaturePermission:
		return "permission"
	default:
		return "unknown"
	}
}

// ToCurbLR renders the rule. reverse flips the no/not prefix, used when a
// Regulation's user classes are all exceptions.
func (r Rule) ToCurbLR(reverse bool) map[string]any {
	interdiction := r.Activity == NatureInterdiction
	if reverse {
		interdiction = !interdiction
	}
	activity := r.Type
	if interdiction {
		activity = "no " + activity
	}

	priorityCategory := r.Reason
	if priorityCategory == "" {
		priorityCategory = activity
	}

	curblr := map[string]any{
		"activity":         activity,
		"priorityCategory": priorityCategory,
	}
	if r.HasMaxStay {
		curblr["maxStay"] = r.MaxStay
	}
	if r.Authority != nil && r.Authority["name"] != "" {
		curblr["authority"] = r.Authority
	}
	return curblr
}

// Equal follows the source's wildcard rule: an empty rule on either side is
// considered equal to anything. Otherwise a wildcard (unknown) activity on
// either side matches any activity, while type, reason, priority and
// max-stay must still agree.
func (r Rule) Equal(other Rule) bool {
	if r.IsEmpty() || other.IsEmpty() {
		return true
	}
	activityOK := r.Activity == other.Activity || r.Activity == NatureUnknown || other.Activity == NatureUnknown
	return activityOK &&
		r.Type == other.Type &&
		r.Reason == other.Reason &&
		r.Priority == other.Priority &&
		r.HasPriority == other.HasPriority &&
		r.MaxStay == other.MaxStay &&
		r.HasMaxStay == other.HasMaxStay
}

// Key is a stable string encoding used for hashing/grouping.
func (r Rule) Key() string {
	return fmt.Sprintf("%d|%s|%d|%d|%d|%d", r.Activity, r.Type, r.Priority, boolToInt(r.HasPriority), r.MaxStay, boolToInt(r.HasMaxStay))
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
