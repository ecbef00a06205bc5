// Package roadnet is the road-network enrichment collaborator: a
// gorm-backed sqlite table of street polylines, loaded into an in-memory
// index that implements curbreg.RoadNetwork. A syncCompatibleDB wrapper
// guards SQLite's single-writer limitation during bulk loads, while
// lookups run against the in-memory index.
package roadnet

import (
	"encoding/json"
	"fmt"
	"math"
	"sync"

	"gorm.io/gorm"

	curbreg "github.com/mtl-mobilite/curblr-engine"
)

// Segment is the gorm-persisted row for one road polyline, keyed by its
// street id (ID_TRC). Geometry travels as a JSON-encoded coordinate list
// since no spatial column type is wired into this stack; see DESIGN.md.
type Segment struct {
	StreetID     int    `gorm:"primaryKey;column:id_trc"`
	SensCir      int    `gorm:"column:sens_cir"`
	GeometryJSON string `gorm:"column:geometry_json"`
}

// TableName overrides gorm's pluralisation default.
func (Segment) TableName() string { return "road_segments" }

// syncCompatibleDB picks a mutexed or unmutexed path to the DB: this is
// terrible, but SQLite had us do some abominations (no concurrent writers).
type syncCompatibleDB interface {
	getDB() *gorm.DB
	takeMutex()
	freeMutex()
}

type mutexedDB struct {
	db    *gorm.DB
	mutex sync.Mutex
}

func (m *mutexedDB) getDB() *gorm.DB { return m.db }
func (m *mutexedDB) takeMutex()      { m.mutex.Lock() }
func (m *mutexedDB) freeMutex()      { m.mutex.Unlock() }

type unmutexedDB struct{ db *gorm.DB }

func (u *unmutexedDB) getDB() *gorm.DB { return u.db }
func (u *unmutexedDB) takeMutex()      {}
func (u *unmutexedDB) freeMutex()      {}

// Store implements curbreg.RoadNetwork against a gorm/sqlite-backed table
// of road segments.
type Store struct {
	scdb     syncCompatibleDB
	byStreet map[int]curbreg.RoadRow
}

// Open connects to dial (modernc.org/sqlite's pure-Go driver by default;
// mattn/go-sqlite3 via gorm.io/driver/sqlite under the cgo build tag),
// migrates the schema, and loads every segment into memory. useMutex picks
// the concurrency wrapper: true when other goroutines may also be writing
// to this *gorm.DB.
func Open(dial gorm.Dialector, useMutex bool) (*Store, error) {
	db, err := gorm.Open(dial, &gorm.Config{CreateBatchSize: 1000})
	if err != nil {
		return nil, fmt.Errorf("opening road network database: %w", err)
	}
	if err := db.AutoMigrate(&Segment{}); err != nil {
		return nil, fmt.Errorf("migrating road network schema: %w", err)
	}

	var scdb syncCompatibleDB
	if useMutex {
		scdb = &mutexedDB{db: db}
	} else {
		scdb = &unmutexedDB{db: db}
	}

	store := &Store{scdb: scdb, byStreet: map[int]curbreg.RoadRow{}}
	if err := store.reload(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *Store) reload() error {
	s.scdb.takeMutex()
	defer s.scdb.freeMutex()

	var segments []Segment
	if err := s.scdb.getDB().Find(&segments).Error; err != nil {
		return fmt.Errorf("loading road segments: %w", err)
	}

	byStreet := make(map[int]curbreg.RoadRow, len(segments))
	for _, seg := range segments {
		line, err := decodeGeometry(seg.GeometryJSON)
		if err != nil {
			return fmt.Errorf("decoding geometry for street %d: %w", seg.StreetID, err)
		}
		byStreet[seg.StreetID] = curbreg.RoadRow{
			IDTRC:   seg.StreetID,
			SensCir: curbreg.TrafficDir(seg.SensCir),
			Line:    line,
		}
	}
	s.byStreet = byStreet
	return nil
}

func decodeGeometry(raw string) (curbreg.LineString, error) {
	var coords [][2]float64
	if raw == "" {
		return curbreg.LineString{}, nil
	}
	if err := json.Unmarshal([]byte(raw), &coords); err != nil {
		return curbreg.LineString{}, err
	}
	points := make([]curbreg.Point, len(coords))
	for i, c := range coords {
		points[i] = curbreg.Point{X: c[0], Y: c[1]}
	}
	return curbreg.LineString{Points: points}, nil
}

func encodeGeometry(line curbreg.LineString) (string, error) {
	coords := make([][2]float64, len(line.Points))
	for i, p := range line.Points {
		coords[i] = [2]float64{p.X, p.Y}
	}
	encoded, err := json.Marshal(coords)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Load persists road rows into the store's backing database and refreshes
// the in-memory index.
func (s *Store) Load(rows []curbreg.RoadRow) error {
	segments := make([]Segment, len(rows))
	for i, r := range rows {
		encoded, err := encodeGeometry(r.Line)
		if err != nil {
			return fmt.Errorf("encoding geometry for street %d: %w", r.IDTRC, err)
		}
		segments[i] = Segment{StreetID: r.IDTRC, SensCir: int(r.SensCir), GeometryJSON: encoded}
	}

	s.scdb.takeMutex()
	err := s.scdb.getDB().Create(segments).Error
	s.scdb.freeMutex()
	if err != nil {
		return fmt.Errorf("writing road segments: %w", err)
	}
	return s.reload()
}

// ByStreetID implements curbreg.RoadNetwork.
func (s *Store) ByStreetID(id int) (curbreg.RoadRow, bool) {
	row, ok := s.byStreet[id]
	return row, ok
}

// Nearest implements curbreg.RoadNetwork's fallback lookup: a brute-force
// scan over every loaded segment, since no spatial index library is wired
// into this stack (see DESIGN.md).
func (s *Store) Nearest(p curbreg.Point) curbreg.RoadRow {
	var best curbreg.RoadRow
	bestDist := math.Inf(1)
	for _, row := range s.byStreet {
		dist := curbreg.DistanceToLine(p, row.Line)
		if dist < bestDist {
			bestDist = dist
			best = row
		}
	}
	return best
}
