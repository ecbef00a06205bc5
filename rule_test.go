package curbreg

import (
	"errors"
	"testing"
)

func TestRuleFromInventoryTypeNormalization(t *testing.T) {
	cases := []struct {
		name        string
		regTypeImmo string
		want        string
	}{
		{"blank defaults to parking", "", "parking"},
		{"stationnement maps to parking", "stationnement", "parking"},
		{"arret maps to standing", "arrêt", "standing"},
		{"other passes through", "livraison", "livraison"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := Row{RegTypeImmo: tc.regTypeImmo}
			rule := RuleFromInventory(row)
			if rule.Type != tc.want {
				t.Errorf("Type = %q, want %q", rule.Type, tc.want)
			}
		})
	}
}

func TestRuleExemptPermissionSplits(t *testing.T) {
	rule := Rule{Activity: NaturePermission, Type: "parking", HasMaxStay: true, MaxStay: 120}
	split := rule.Exempt()
	if len(split) != 2 {
		t.Fatalf("expected permission exemption to split into two rules, got %d", len(split))
	}
	if split[0].HasMaxStay {
		t.Errorf("exemption twin should have max_stay cleared, got %+v", split[0])
	}
	if !split[1].HasMaxStay || split[1].MaxStay != 120 {
		t.Errorf("original rule's max_stay should be preserved, got %+v", split[1])
	}
}

func TestRuleExemptInterdictionFlips(t *testing.T) {
	rule := Rule{Activity: NatureInterdiction, Type: "parking"}
	split := rule.Exempt()
	if len(split) != 1 || split[0].Activity != NaturePermission {
		t.Fatalf("expected interdiction exemption to flip to permission, got %+v", split)
	}
}

func TestRuleUpdateConflictingTypeFails(t *testing.T) {
	a := Rule{Activity: NatureInterdiction, Type: "parking"}
	b := Rule{Activity: NatureInterdiction, Type: "standing"}
	_, err := a.Update(b)
	if !errors.Is(err, ErrConflictingRules) {
		t.Fatalf("expected ErrConflictingRules, got %v", err)
	}
}

func TestRuleUpdateAdoptsMaxStayWhenMissing(t *testing.T) {
	a := Rule{Activity: NatureInterdiction, Type: "parking"}
	b := Rule{Activity: NatureInterdiction, Type: "parking", HasMaxStay: true, MaxStay: 60}
	merged, err := a.Update(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !merged.HasMaxStay || merged.MaxStay != 60 {
		t.Errorf("expected max_stay to be adopted from other, got %+v", merged)
	}
}

func TestRuleToCurbLRActivityPrefix(t *testing.T) {
	rule := Rule{Activity: NatureInterdiction, Type: "parking", Reason: "parking"}
	out := rule.ToCurbLR(false)
	if out["activity"] != "no parking" {
		t.Errorf("activity = %v, want %q", out["activity"], "no parking")
	}

	reversed := rule.ToCurbLR(true)
	if reversed["activity"] != "parking" {
		t.Errorf("reversed activity = %v, want %q", reversed["activity"], "parking")
	}
}
