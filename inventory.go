package curbreg

import (
	"sort"
	"time"
)

// RoadNetwork is the enrichment collaborator: a road-segment table indexed
// by street id, with a nearest-neighbour fallback for panels whose
// IdTroncon doesn't resolve. Implemented by internal/roadnet.
type RoadNetwork interface {
	ByStreetID(id int) (RoadRow, bool)
	Nearest(p Point) RoadRow
}

// Engine owns the panel store for one ingestion run. It is not safe for
// concurrent use; see §5.
type Engine struct {
	panels []*Panel
}

// FromInventory groups rows by support id, folds each support's
// sub-placards into its primary sign(s), then merges and deduplicates
// every sign sharing a unique_id. See §4.10 Ingestion.
func FromInventory(rows []Row) (*Engine, error) {
	bySupport := map[string][]Row{}
	var supportOrder []string
	for _, r := range rows {
		if _, ok := bySupport[r.GlobalID]; !ok {
			supportOrder = append(supportOrder, r.GlobalID)
		}
		bySupport[r.GlobalID] = append(bySupport[r.GlobalID], r)
	}

	store := map[string][]*Panel{}
	var storeOrder []string

	for _, supportID := range supportOrder {
		group := bySupport[supportID]

		var primaries []Row
		placardsByParent := map[string][]Row{}
		for _, r := range group {
			if r.ObjetType == "panonceau" {
				placardsByParent[r.IDObjetRefExt] = append(placardsByParent[r.IDObjetRefExt], r)
			} else {
				primaries = append(primaries, r)
			}
		}

		for _, primaryRow := range primaries {
			panel, err := PanelFromInventory(primaryRow)
			if err != nil {
				Logger.Printf("skipping malformed row for sign %s: %v", primaryRow.GlobalIDPanneau, err)
				continue
			}

			for _, placardRow := range placardsByParent[primaryRow.IDRPPanneau] {
				placardPanel, err := PanelFromInventory(placardRow)
				if err != nil {
					Logger.Printf("skipping malformed placard for sign %s: %v", primaryRow.GlobalIDPanneau, err)
					continue
				}
				for _, reg := range placardPanel.Regulation {
					panel.ExtendRegulation(reg)
				}
			}

			if _, ok := store[panel.UniqueID]; !ok {
				storeOrder = append(storeOrder, panel.UniqueID)
			}
			store[panel.UniqueID] = append(store[panel.UniqueID], panel)
		}
	}

	var merged []*Panel
	for _, id := range storeOrder {
		list := store[id]
		combined := list[0]
		for _, p := range list[1:] {
			combined.Merge(p)
		}
		merged = append(merged, combined)
	}

	merged = dedupePanels(merged)

	return &Engine{panels: merged}, nil
}

func dedupePanels(panels []*Panel) []*Panel {
	seen := map[string]bool{}
	out := make([]*Panel, 0, len(panels))
	for _, p := range panels {
		k := p.Key()
		if seen[k] {
			Logger.Printf("panel %s is duplicated, removing", p.UniqueID)
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

// Enrich resolves each panel's street against roads, falling back to the
// nearest road when the id is absent or unknown, then records the panel's
// linear reference, traffic direction, road geometry, and road length.
func (e *Engine) Enrich(roads RoadNetwork) {
	for _, p := range e.panels {
		road, ok := roads.ByStreetID(p.Location.StreetID)
		if !ok {
			road = roads.Nearest(p.Location.Point)
			Logger.Printf("%v: wrong road id %d for sign %s; inferred %d via nearest lookup", ErrUnknownStreet, p.Location.StreetID, p.UniqueID, road.IDTRC)
			p.Location.StreetID = road.IDTRC
		}
		p.LinearReferenceFromGeom(road.Line)
		p.Location.TrafficDir = road.SensCir
		p.Location.RoadGeometry = road.Line
		p.Location.RoadLength = road.Line.Length()
	}
}

type groupKey struct {
	streetID int
	side     SideOfStreet
}

type panelRegPair struct {
	panel *Panel
	reg   Regulation
}

// regulationChain is one (street, side, regulation) triplet's computed
// segments, ready either for geometry materialisation or for the
// chain-only self-test.
type regulationChain struct {
	key           groupKey
	regulation    Regulation
	pairs         []panelRegPair
	dir           TrafficDir
	roadGeom      LineString
	roadLength    float64
	realIntervals [][2]float64
	problemIDs    []string
}

// computeChains groups panels by (street, side), then within each group by
// distinct regulation, building and direction-normalising the arrow chain
// for each. See §4.10 Segmenting.
func (e *Engine) computeChains() []regulationChain {
	groups := map[groupKey][]*Panel{}
	for _, p := range e.panels {
		k := groupKey{p.Location.StreetID, p.Location.SideOfStreet}
		groups[k] = append(groups[k], p)
	}

	var keys []groupKey
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].streetID != keys[j].streetID {
			return keys[i].streetID < keys[j].streetID
		}
		return keys[i].side < keys[j].side
	})

	var chains []regulationChain

	for _, k := range keys {
		groupPanels := groups[k]

		regGroups := map[string][]panelRegPair{}
		var regOrder []string
		for _, p := range groupPanels {
			for _, reg := range p.Regulation {
				rk := reg.Key()
				if _, ok := regGroups[rk]; !ok {
					regOrder = append(regOrder, rk)
				}
				regGroups[rk] = append(regGroups[rk], panelRegPair{panel: p, reg: reg})
			}
		}
		sort.Strings(regOrder)

		for _, rk := range regOrder {
			pairs := regGroups[rk]
			sort.SliceStable(pairs, func(i, j int) bool {
				return pairs[i].panel.Location.LinearReference < pairs[j].panel.Location.LinearReference
			})

			first := pairs[0].panel
			dir := first.Location.TrafficDir
			side := first.Location.SideOfStreet
			roadGeom := first.Location.RoadGeometry
			roadLength := first.Location.RoadLength

			chainPanels := make([]chainPanel, len(pairs))
			for i, pr := range pairs {
				chainPanels[i] = chainPanel{
					LinearRef: pr.panel.Location.LinearReference,
					Arrow:     pr.panel.Arrow,
					Index:     i,
				}
			}

			normalized := normalizeChainDirection(chainPanels, dir, side, roadLength)
			intervals, problems := buildSegments(normalized)

			var problemIDs []string
			for _, idx := range problems {
				problemIDs = append(problemIDs, pairs[idx].panel.UniqueID)
			}

			realIntervals := make([][2]float64, len(intervals))
			for i, interval := range intervals {
				realIntervals[i] = denormalizeInterval(interval, dir, side, roadLength)
			}
			sort.Slice(realIntervals, func(i, j int) bool {
				return realIntervals[i][0] < realIntervals[j][0]
			})

			chains = append(chains, regulationChain{
				key:           k,
				regulation:    pairs[0].reg,
				pairs:         pairs,
				dir:           dir,
				roadGeom:      roadGeom,
				roadLength:    roadLength,
				realIntervals: realIntervals,
				problemIDs:    problemIDs,
			})
		}
	}

	return chains
}

// CheckChains returns the panel ids whose arrow chain triggered a
// chain-order violation, without building any geometry. See §4.10 Chain
// self-test.
func (e *Engine) CheckChains() []string {
	var ids []string
	for _, chain := range e.computeChains() {
		ids = append(ids, chain.problemIDs...)
	}
	return ids
}

func currentISO8601() string {
	return time.Now().Format(time.RFC3339)
}

// ToCurbLR materialises the engine's panels into a CurbLR document: each
// regulation chain's intervals are cut against the road geometry, filtered
// for their contributing signs, and rendered as a Feature. See §4.10
// Feature materialisation and Manifest.
func (e *Engine) ToCurbLR() (*Document, error) {
	chains := e.computeChains()

	var features []Feature
	var activities, priorities []string
	objectID := 0

	for _, chain := range chains {
		for _, interval := range chain.realIntervals {
			cutLine := Cut(chain.roadGeom, interval[0], interval[1])
			if len(cutLine.Points) == 0 {
				Logger.Printf("segment [%v,%v] on street %d side %s cuts to zero length; skipping",
					interval[0], interval[1], chain.key.streetID, chain.key.side)
				continue
			}

			var derivedFrom []string
			for _, pr := range chain.pairs {
				lr := pr.panel.Location.LinearReference
				if lr >= interval[0] && lr <= interval[1] {
					derivedFrom = append(derivedFrom, pr.panel.UniqueID)
				}
			}

			loc := chain.pairs[0].panel.Location.ToCurbLR()
			loc["shstLocationStart"] = interval[0]
			loc["shstLocationEnd"] = interval[1]
			loc["objectId"] = objectID
			loc["derivedFrom"] = derivedFrom
			objectID++

			curblrReg := chain.regulation.ToCurbLR()
			if rule, ok := curblrReg["rule"].(map[string]any); ok {
				if act, ok := rule["activity"].(string); ok {
					activities = append(activities, act)
				}
				if pc, ok := rule["priorityCategory"].(string); ok {
					priorities = append(priorities, pc)
				}
			}

			features = append(features, Feature{
				Type: "Feature",
				Properties: FeatureProps{
					Location:    loc,
					Regulations: []map[string]any{curblrReg},
				},
				Geometry: lineStringToGeoJSON(cutLine),
			})
		}
	}

	manifest := buildManifest(currentISO8601(), activities, priorities)

	return &Document{
		Manifest: manifest,
		Type:     "FeatureCollection",
		CRS:      crs,
		Features: features,
	}, nil
}
