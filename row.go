package curbreg

// Row is one flat line of the denormalised inventory table: a sign (or
// sub-placard) joined to its support, its single regulation row, and its
// temporal period row. Field names and csv tags mirror the source table
// exactly (see §6) so internal/ingest can decode it with csvutil without
// any renaming layer.
type Row struct {
	GlobalID        string `csv:"globalid"`
	GlobalIDPanneau string `csv:"globalid_panneau"`
	IDRPPanneau     string `csv:"id_rp_panneau"`
	IDObjetRefExt   string `csv:"IdObjetRefExt"`
	ObjetType       string `csv:"ObjetType"`
	ObjetPositionSeq int   `csv:"ObjetPositionSeq"`

	RegNature   string `csv:"RegNature"`
	RegTypeImmo string `csv:"RegTypeImmo"`
	RegFleche   string `csv:"RegFleche"`

	RegTmpExcept      string `csv:"RegTmpExcept"`
	RegTmpEcole       string `csv:"RegTmpEcole"`
	RegTmpHeureDebut  string `csv:"RegTmpHeureDebut"`
	RegTmpHeureFin    string `csv:"RegTmpHeureFin"`
	RegTmpJours       string `csv:"RegTmpJours"`
	RegTmpDuree       int    `csv:"RegTmpDuree"`
	RegVehExcept      string `csv:"RegVehExcept"`
	RegVehType        string `csv:"RegVehType"`
	RegVehSRRR        string `csv:"RegVehSRRR"`
	RegHandicap       string `csv:"RegHandicap"`

	PanneauMois          string `csv:"panneau_mois"`
	PanneauAnJourDebut   int    `csv:"panneau_an_jour_debut"`
	PanneauAnJourFin     int    `csv:"panneau_an_jour_fin"`
	PanneauType          string `csv:"panneau_type"`
	PanneauNbPeriodes    int    `csv:"panneau_nb_periodes"`

	CoteRueID     int     `csv:"cote_rue_id"`
	IDTroncon     int     `csv:"IdTroncon"`
	IDTronconNull bool    `csv:"-"` // set by the ingest layer when IdTroncon was absent in the source row
	GeometryX     float64 `csv:"geometry_x"`
	GeometryY     float64 `csv:"geometry_y"`
	Arrondissement string `csv:"arrondissement"`
	AutreTexte     string `csv:"AutreTexte"`
}

// Point returns the sign's location as a planar EPSG:32188 point.
func (r Row) Point() Point {
	return Point{X: r.GeometryX, Y: r.GeometryY}
}

// StreetID returns the row's IdTroncon, or -1 when the source value was
// absent, per §6's "may be null/-1" contract.
func (r Row) StreetID() int {
	if r.IDTronconNull {
		return -1
	}
	return r.IDTroncon
}

// RoadRow is one entry of the road table: ID_TRC → (polyline, traffic
// direction). Geometry coordinates arrive as a flat, ingest-decoded
// polyline: internal/ingest's ReadRoads parses the CSV's "x1 y1;x2 y2;..."
// geometry column into this shape before it reaches the core.
type RoadRow struct {
	IDTRC   int          `csv:"ID_TRC"`
	SensCir TrafficDir   `csv:"-"`
	Line    LineString   `csv:"-"`
}
