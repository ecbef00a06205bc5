package curbreg

import (
	"errors"
	"testing"
)

func TestRegulationsFromInventoryNoException(t *testing.T) {
	row := Row{RegNature: "interdiction", RegTypeImmo: "stationnement"}
	regs, err := RegulationsFromInventory(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regs) != 1 {
		t.Fatalf("expected one regulation, got %d", len(regs))
	}
}

func TestRegulationsFromInventoryExceptionSplitsPermission(t *testing.T) {
	row := Row{
		RegNature:   "permission",
		RegTypeImmo: "stationnement",
		RegTmpDuree: 60,
		RegVehExcept: "oui",
		RegVehType:   "auto",
	}
	regs, err := RegulationsFromInventory(row)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(regs) != 2 {
		t.Fatalf("expected the permission exemption to split into two regulations, got %d", len(regs))
	}
}

func TestRegulationMergeConflictingRules(t *testing.T) {
	a := Regulation{Rule: Rule{Activity: NatureInterdiction, Type: "parking"}}
	b := Regulation{Rule: Rule{Activity: NaturePermission, Type: "parking"}}
	if err := a.Merge(b); !errors.Is(err, ErrConflictingRules) {
		t.Fatalf("expected ErrConflictingRules, got %v", err)
	}
}

func TestRegulationMergeDuplicateDetection(t *testing.T) {
	a := Regulation{Rule: Rule{Activity: NatureInterdiction, Type: "parking"}}
	b := Regulation{Rule: Rule{Activity: NatureInterdiction, Type: "parking"}}
	if err := a.Merge(b); !errors.Is(err, ErrDuplicateRegulationMerge) {
		t.Fatalf("expected ErrDuplicateRegulationMerge, got %v", err)
	}
}

func TestRegulationMergeExtendsPeriodsAndClasses(t *testing.T) {
	p1 := Period{Days: []int{0}}
	p2 := Period{Days: []int{1}}
	a := Regulation{
		Rule:      Rule{Activity: NatureInterdiction, Type: "parking"},
		Periods:   []Period{p1},
		UserClass: []UserClass{{Category: []string{"auto"}}},
	}
	b := Regulation{
		Rule:      Rule{Activity: NatureInterdiction, Type: "parking"},
		Periods:   []Period{p2},
		UserClass: []UserClass{{Category: []string{"camion"}}},
	}
	if err := a.Merge(b); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Periods) != 2 || len(a.UserClass) != 2 {
		t.Fatalf("expected periods and user classes to be extended, got %+v", a)
	}
}

func TestRegulationToCurbLROmitsEmptyUserClassesAndTimeSpans(t *testing.T) {
	reg := Regulation{Rule: Rule{Activity: NatureInterdiction, Type: "parking"}}
	out := reg.ToCurbLR()
	if _, ok := out["userClasses"]; ok {
		t.Error("userClasses should be omitted when all classes are empty")
	}
	if _, ok := out["timeSpans"]; ok {
		t.Error("timeSpans should be omitted when all periods are empty")
	}
}
