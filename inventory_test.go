package curbreg

import "testing"

type fakeRoadNetwork struct {
	roads map[int]RoadRow
}

func (f fakeRoadNetwork) ByStreetID(id int) (RoadRow, bool) {
	r, ok := f.roads[id]
	return r, ok
}

func (f fakeRoadNetwork) Nearest(p Point) RoadRow {
	for _, r := range f.roads {
		return r
	}
	return RoadRow{}
}

func straightRoad(id int) RoadRow {
	return RoadRow{
		IDTRC:   id,
		SensCir: TrafficDigitalizationDir,
		Line:    LineString{Points: []Point{{X: 0, Y: 0}, {X: 100, Y: 0}}},
	}
}

func TestFromInventoryFoldsSubPlacardIntoPrimary(t *testing.T) {
	rows := []Row{
		{
			GlobalID:        "support-1",
			GlobalIDPanneau: "sign-1",
			IDRPPanneau:     "rp-1",
			ObjetType:       "panneau",
			RegNature:       "interdiction",
			RegTypeImmo:     "stationnement",
			CoteRueID:       1,
			IDTroncon:       42,
			GeometryX:       10,
			GeometryY:       0,
		},
		{
			GlobalID:        "support-1",
			GlobalIDPanneau: "placard-1",
			IDObjetRefExt:   "rp-1",
			ObjetType:       "panonceau",
			RegVehType:      "camion",
		},
	}

	engine, err := FromInventory(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(engine.panels) != 1 {
		t.Fatalf("expected the sub-placard folded into the primary sign, got %d panels", len(engine.panels))
	}
	panel := engine.panels[0]
	if panel.UniqueID != "sign-1" {
		t.Errorf("unexpected unique id: %s", panel.UniqueID)
	}
	if len(panel.Regulation[0].UserClass) == 0 {
		t.Fatal("expected the sub-placard's user class to be folded in")
	}
}

func TestFromInventoryDeduplicatesIdenticalRows(t *testing.T) {
	row := Row{
		GlobalID:        "support-1",
		GlobalIDPanneau: "sign-1",
		ObjetType:       "panneau",
		RegNature:       "interdiction",
		RegTypeImmo:     "stationnement",
		CoteRueID:       1,
		IDTroncon:       42,
	}
	engine, err := FromInventory([]Row{row, row})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(engine.panels) != 1 {
		t.Fatalf("expected duplicate identical rows to dedupe to one panel, got %d", len(engine.panels))
	}
}

func TestEngineEnrichSetsLinearReferenceAndRoad(t *testing.T) {
	rows := []Row{{
		GlobalID:        "support-1",
		GlobalIDPanneau: "sign-1",
		ObjetType:       "panneau",
		RegNature:       "interdiction",
		RegTypeImmo:     "stationnement",
		CoteRueID:       1,
		IDTroncon:       42,
		GeometryX:       25,
		GeometryY:       0,
	}}
	engine, err := FromInventory(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.Enrich(fakeRoadNetwork{roads: map[int]RoadRow{42: straightRoad(42)}})

	panel := engine.panels[0]
	if panel.Location.LinearReference != 25 {
		t.Errorf("LinearReference = %v, want 25", panel.Location.LinearReference)
	}
	if panel.Location.RoadLength != 100 {
		t.Errorf("RoadLength = %v, want 100", panel.Location.RoadLength)
	}
}

func TestEngineEnrichFallsBackToNearestRoad(t *testing.T) {
	rows := []Row{{
		GlobalID:        "support-1",
		GlobalIDPanneau: "sign-1",
		ObjetType:       "panneau",
		RegNature:       "interdiction",
		RegTypeImmo:     "stationnement",
		CoteRueID:       1,
		IDTroncon:       999, // unknown street id
		GeometryX:       25,
		GeometryY:       0,
	}}
	engine, err := FromInventory(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.Enrich(fakeRoadNetwork{roads: map[int]RoadRow{42: straightRoad(42)}})

	panel := engine.panels[0]
	if panel.Location.StreetID != 42 {
		t.Errorf("expected fallback to infer street 42, got %d", panel.Location.StreetID)
	}
}

func TestEngineToCurbLRBuildsOneFeaturePerClosedChain(t *testing.T) {
	rows := []Row{
		{
			GlobalID:        "support-1",
			GlobalIDPanneau: "sign-start",
			ObjetType:       "panneau",
			RegNature:       "interdiction",
			RegTypeImmo:     "stationnement",
			RegFleche:       "vers rue",
			CoteRueID:       1,
			IDTroncon:       42,
			GeometryX:       10,
			GeometryY:       0,
		},
		{
			GlobalID:        "support-2",
			GlobalIDPanneau: "sign-end",
			ObjetType:       "panneau",
			RegNature:       "interdiction",
			RegTypeImmo:     "stationnement",
			RegFleche:       "vers trottoir",
			CoteRueID:       1,
			IDTroncon:       42,
			GeometryX:       80,
			GeometryY:       0,
		},
	}
	engine, err := FromInventory(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.Enrich(fakeRoadNetwork{roads: map[int]RoadRow{42: straightRoad(42)}})

	doc, err := engine.ToCurbLR()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Features) != 1 {
		t.Fatalf("expected one feature for the closed chain, got %d", len(doc.Features))
	}
	loc := doc.Features[0].Properties.Location
	if loc["shstLocationStart"] != 10.0 || loc["shstLocationEnd"] != 80.0 {
		t.Errorf("unexpected location bounds: %v", loc)
	}
	if len(doc.Manifest.PriorityHierarchy) == 0 {
		t.Error("expected a non-empty dynamic priority hierarchy")
	}
}

func TestCheckChainsReportsOrphanClose(t *testing.T) {
	rows := []Row{{
		GlobalID:        "support-1",
		GlobalIDPanneau: "sign-1",
		ObjetType:       "panneau",
		RegNature:       "interdiction",
		RegTypeImmo:     "stationnement",
		RegFleche:       "vers trottoir",
		CoteRueID:       1,
		IDTroncon:       42,
		GeometryX:       10,
		GeometryY:       0,
	}}
	engine, err := FromInventory(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	engine.Enrich(fakeRoadNetwork{roads: map[int]RoadRow{42: straightRoad(42)}})

	problems := engine.CheckChains()
	if len(problems) != 1 || problems[0] != "sign-1" {
		t.Fatalf("expected sign-1 flagged as an orphan close, got %v", problems)
	}
}
