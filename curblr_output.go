package curbreg

import "sort"

// crs is the OGC URN for the EPSG:32188 projection every coordinate in
// this package is expressed in.
var crs = map[string]any{
	"type": "name",
	"properties": map[string]string{
		"name": "urn:ogc:def:crs:EPSG::32188",
	},
}

// Manifest carries the CurbLR document's fixed metadata plus the
// priorityHierarchy, which is computed dynamically from the regulations
// actually emitted (see DESIGN.md's Open Question #3 decision) rather than
// the static list the source hard-coded.
type Manifest struct {
	CurbLRVersion     string   `json:"curblrVersion"`
	CreatedDate       string   `json:"createdDate"`
	LastUpdatedDate   string   `json:"lastUpdatedDate"`
	PriorityHierarchy []string `json:"priorityHierarchy"`
	TimeZone          string   `json:"timeZone"`
	Currency          string   `json:"currency"`
	Authority         map[string]string `json:"authority"`
}

const (
	manifestCreatedDate = "2024-08-20T13:54:24-04:00"
	manifestTimeZone    = "America/Montréal"
	manifestCurrency    = "CAD"
)

var manifestAuthority = map[string]string{
	"name": "Agence de mobilité durable",
	"url":  "https://www.agencemobilitedurable.ca/",
}

// buildManifest assembles a Manifest whose priorityHierarchy is the
// deduplicated concatenation of every activity and priority-category
// string observed across the emitted regulations, in place of the
// source's static, pre-enumerated list.
func buildManifest(lastUpdatedDate string, observedActivities, observedPriorities []string) Manifest {
	seen := map[string]bool{}
	var hierarchy []string
	for _, values := range [][]string{observedActivities, observedPriorities} {
		sorted := append([]string(nil), values...)
		sort.Strings(sorted)
		for _, v := range sorted {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			hierarchy = append(hierarchy, v)
		}
	}

	return Manifest{
		CurbLRVersion:     "1.1.0",
		CreatedDate:       manifestCreatedDate,
		LastUpdatedDate:   lastUpdatedDate,
		PriorityHierarchy: hierarchy,
		TimeZone:          manifestTimeZone,
		Currency:          manifestCurrency,
		Authority:         manifestAuthority,
	}
}

// Feature is one CurbLR feature: a cut road segment with its location and
// the regulations that apply to it.
type Feature struct {
	Type       string         `json:"type"`
	Properties FeatureProps   `json:"properties"`
	Geometry   map[string]any `json:"geometry"`
}

// FeatureProps is a Feature's properties object.
type FeatureProps struct {
	Location     map[string]any   `json:"location"`
	Regulations  []map[string]any `json:"regulations"`
}

// Document is the top-level CurbLR document emitted by the engine.
type Document struct {
	Manifest Manifest       `json:"manifest"`
	Type     string         `json:"type"`
	CRS      map[string]any `json:"crs"`
	Features []Feature      `json:"features"`
}

func lineStringToGeoJSON(line LineString) map[string]any {
	coords := make([][2]float64, len(line.Points))
	for i, p := range line.Points {
		coords[i] = [2]float64{p.X, p.Y}
	}
	return map[string]any{
		"type":        "LineString",
		"coordinates": coords,
	}
}
