package curbreg

// Location is where a Panel sits: a point, the side of the street it
// regulates, and the street it belongs to. The linear reference, traffic
// direction, and road geometry are filled in later by the enrichment step
// (§4.7) once the road network is known, so they live as separate mutable
// fields rather than constructor arguments.
type Location struct {
	Point        Point
	SideOfStreet SideOfStreet
	StreetID     int
	AssetType    string

	LinearReference float64
	TrafficDir      TrafficDir
	RoadGeometry    LineString
	RoadLength      float64
}

// NewLocation builds a Location with its mutable fields unset.
func NewLocation(point Point, side SideOfStreet, streetID int, assetType string) Location {
	return Location{
		Point:        point,
		SideOfStreet: side,
		StreetID:     streetID,
		AssetType:    assetType,
		TrafficDir:   TrafficUnset,
		LinearReference: -1,
		RoadLength:      -1,
	}
}

// Equal compares only the identity-defining fields: point, side, and
// street ID. The enrichment fields are deliberately excluded, matching the
// source's equality contract.
func (l Location) Equal(other Location) bool {
	return l.Point == other.Point &&
		l.SideOfStreet == other.SideOfStreet &&
		l.StreetID == other.StreetID
}

// ToCurbLR renders the location's static fields. shstLocationStart/End,
// objectId and derivedFrom are sentinel/empty here; the segment-builder
// step (§4.9/§4.10) overwrites them once the curb's break points are known.
func (l Location) ToCurbLR() map[string]any {
	return map[string]any{
		"shstRefId":         l.StreetID,
		"shstLocationStart": -1,
		"shstLocationEnd":   -1,
		"sideOfStreet":      l.SideOfStreet.String(),
		"objectId":          -1,
		"derivedFrom":       []string{},
		"assetType":         l.AssetType,
	}
}
