package curbreg

import (
	"fmt"
	"strings"
)

// UserClass is the vehicle category / permit set a Regulation applies to
// (or excepts), per §3/§4.3.
type UserClass struct {
	IsExcept bool
	Category []string
	Permit   []string
}

// Empty reports whether both the category and permit sets are empty.
func (u UserClass) Empty() bool {
	return len(u.Category) == 0 && len(u.Permit) == 0
}

func splitNonEmpty(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UserClassesFromInventory builds the primary UserClass from a row, plus a
// second is_except=true "handicap" class when the row's handicap flag is
// set.
func UserClassesFromInventory(row Row) []UserClass {
	classes := []UserClass{{
		IsExcept: row.RegVehExcept == "oui",
		Category: splitNonEmpty(row.RegVehType),
		Permit:   splitNonEmpty(row.RegVehSRRR),
	}}

	if row.RegHandicap == "oui" {
		classes = append(classes, UserClass{
			IsExcept: true,
			Category: []string{"handicap"},
		})
	}

	return classes
}

// CheckExceptionHomogeneity returns ErrInvalidUserClassMix unless all
// UserClass entries agree on IsExcept.
func CheckExceptionHomogeneity(classes []UserClass) error {
	if len(classes) == 0 {
		return nil
	}
	want := classes[0].IsExcept
	for _, c := range classes[1:] {
		if c.IsExcept != want {
			return fmt.Errorf("%w", ErrInvalidUserClassMix)
		}
	}
	return nil
}

func stringSliceEqual(a, b []string) bool {
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

// Equal is structural equality.
func (u UserClass) Equal(other UserClass) bool {
	return u.IsExcept == other.IsExcept &&
		stringSliceEqual(u.Category, other.Category) &&
		stringSliceEqual(u.Permit, other.Permit)
}

// Key is a stable string encoding used for hashing/dedup.
func (u UserClass) Key() string {
	return fmt.Sprintf("%v|%s|%s", u.IsExcept, strings.Join(u.Category, ","), strings.Join(u.Permit, ","))
}

// ToCurbLR renders a non-empty UserClass to its CurbLR fragment.
func (u UserClass) ToCurbLR() map[string]any {
	if u.Empty() {
		return map[string]any{}
	}
	return map[string]any{
		"classes":    u.Category,
		"subclasses": u.Permit,
	}
}

// Update merges other into u when both share the same IsExcept, appending
// category/permit lists. When they disagree, the two classes are not
// conciliable: it returns a zero UserClass and ok=false, and neither input
// is modified.
func (u UserClass) Update(other UserClass) (merged UserClass, ok bool) {
	if u.IsExcept != other.IsExcept {
		return UserClass{}, false
	}
	return UserClass{
		IsExcept: u.IsExcept,
		Category: append(append([]string(nil), u.Category...), other.Category...),
		Permit:   append(append([]string(nil), u.Permit...), other.Permit...),
	}, true
}

func userClassesEqual(a, b []UserClass) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func allUserClassesEmpty(classes []UserClass) bool {
	for _, c := range classes {
		if !c.Empty() {
			return false
		}
	}
	return true
}
