// Package ingest reads the denormalised inventory and road CSVs into the
// core's Row/RoadRow shapes: the same trimming csvutil.Reader wrapper and
// byte-budget gate as a GTFS loader, applied to a single flat table instead
// of a zip of tables.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/jszwec/csvutil"

	curbreg "github.com/mtl-mobilite/curblr-engine"
)

// trimReader strips leading/trailing whitespace from every field, matching
// the source data's habit of padding columns.
type trimReader struct{ csvutil.Reader }

func (tr *trimReader) Read() ([]string, error) {
	record, err := tr.Reader.Read()
	if err != nil {
		return nil, err
	}
	for i, v := range record {
		record[i] = strings.TrimSpace(v)
	}
	return record, nil
}

var (
	maxCSVBytes  int
	usedCSVBytes int
	csvBytesMu   sync.Mutex
)

// SetMaxBytes sets the largest inventory CSV payload, in bytes, that
// ReadRows will decode; a larger payload is rejected with an error. The
// limit applies to each payload on its own, and ReadRoads is not gated.
// 0 disables the gate.
func SetMaxBytes(n int) {
	csvBytesMu.Lock()
	defer csvBytesMu.Unlock()
	maxCSVBytes = n
}

func withByteBudget(content []byte, fn func() error) error {
	csvBytesMu.Lock()
	size := len(content)
	if maxCSVBytes > 0 && size > maxCSVBytes {
		csvBytesMu.Unlock()
		return fmt.Errorf("csv payload of %s exceeds configured budget of %s", humanize.Bytes(uint64(size)), humanize.Bytes(uint64(maxCSVBytes)))
	}
	usedCSVBytes += size
	csvBytesMu.Unlock()
	defer func() {
		csvBytesMu.Lock()
		usedCSVBytes -= size
		csvBytesMu.Unlock()
	}()
	return fn()
}

func decodeRows[T any](content []byte) ([]T, error) {
	var out []T
	err := withByteBudget(content, func() error {
		tr := &trimReader{csv.NewReader(bytes.NewReader(content))}
		dec, err := csvutil.NewDecoder(tr)
		if err != nil {
			return err
		}
		return dec.Decode(&out)
	})
	return out, err
}

// ReadRows decodes the inventory CSV from r into Rows. IdTroncon is left
// at its zero value (and StreetID()'s null flag set) when the source
// column is blank, matching §6's "may be null/-1" contract.
func ReadRows(r io.Reader) ([]curbreg.Row, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading inventory csv: %w", err)
	}

	// csvutil decodes IdTroncon through a raw pass first so that a blank
	// column can be told apart from a present "0".
	raw, err := decodeRawRecords(content)
	if err != nil {
		return nil, fmt.Errorf("parsing inventory csv: %w", err)
	}

	rows, err := decodeRows[curbreg.Row](content)
	if err != nil {
		return nil, fmt.Errorf("decoding inventory csv: %w", err)
	}

	idTronconCol := findColumn(raw.header, "IdTroncon")
	if idTronconCol >= 0 {
		for i, rec := range raw.records {
			if i >= len(rows) {
				break
			}
			rows[i].IDTronconNull = idTronconCol >= len(rec) || strings.TrimSpace(rec[idTronconCol]) == ""
		}
	}

	return rows, nil
}

// ReadRoads decodes the road table CSV from r into RoadRows. Geometry
// arrives pre-flattened as a "x1 y1;x2 y2;..." column (roadnet's own
// source format is free to differ; this is the shape internal/ingest
// expects at its boundary).
func ReadRoads(r io.Reader) ([]curbreg.RoadRow, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading road csv: %w", err)
	}

	raw, err := decodeRawRecords(content)
	if err != nil {
		return nil, fmt.Errorf("parsing road csv: %w", err)
	}

	idCol := findColumn(raw.header, "ID_TRC")
	sensCol := findColumn(raw.header, "SENS_CIR")
	geomCol := findColumn(raw.header, "geometry")
	if idCol < 0 || sensCol < 0 || geomCol < 0 {
		return nil, fmt.Errorf("road csv missing one of ID_TRC/SENS_CIR/geometry columns")
	}

	roads := make([]curbreg.RoadRow, 0, len(raw.records))
	for _, rec := range raw.records {
		id, err := strconv.Atoi(strings.TrimSpace(rec[idCol]))
		if err != nil {
			return nil, fmt.Errorf("road csv: invalid ID_TRC %q: %w", rec[idCol], err)
		}
		sens, err := strconv.Atoi(strings.TrimSpace(rec[sensCol]))
		if err != nil {
			return nil, fmt.Errorf("road csv: invalid SENS_CIR %q: %w", rec[sensCol], err)
		}
		line, err := parsePolyline(rec[geomCol])
		if err != nil {
			return nil, fmt.Errorf("road csv: invalid geometry for street %d: %w", id, err)
		}
		roads = append(roads, curbreg.RoadRow{
			IDTRC:   id,
			SensCir: curbreg.TrafficDir(sens),
			Line:    line,
		})
	}
	return roads, nil
}

func parsePolyline(s string) (curbreg.LineString, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return curbreg.LineString{}, nil
	}
	var points []curbreg.Point
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		coords := strings.Fields(pair)
		if len(coords) != 2 {
			return curbreg.LineString{}, fmt.Errorf("malformed coordinate pair %q", pair)
		}
		x, err := strconv.ParseFloat(coords[0], 64)
		if err != nil {
			return curbreg.LineString{}, err
		}
		y, err := strconv.ParseFloat(coords[1], 64)
		if err != nil {
			return curbreg.LineString{}, err
		}
		points = append(points, curbreg.Point{X: x, Y: y})
	}
	return curbreg.LineString{Points: points}, nil
}

type rawTable struct {
	header  []string
	records [][]string
}

func decodeRawRecords(content []byte) (rawTable, error) {
	tr := &trimReader{csv.NewReader(bytes.NewReader(content))}
	header, err := tr.Read()
	if err != nil {
		return rawTable{}, err
	}
	var records [][]string
	for {
		rec, err := tr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rawTable{}, err
		}
		records = append(records, rec)
	}
	return rawTable{header: header, records: records}, nil
}

func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
