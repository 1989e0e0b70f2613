// Package records provides record source adapters.
// Clean Architecture: Adapter implementing ports.RecordSource.
package records

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

// Required header columns, as named in the source catalog file.
const (
	colName      = "Company Name"
	colIndustry  = "Industry"
	colSector    = "Sector"
	colHQState   = "HQ State"
	colRevenue   = "Annual Revenue 2022-2023 (USD in Billions)"
	colEmployees = "Employee Size"
)

// CSVSource reads company records from a CSV file with a header row.
type CSVSource struct {
	path string
}

// NewCSVSource creates a record source over the given file path.
func NewCSVSource(path string) *CSVSource {
	if path == "" {
		path = "data.csv"
	}
	return &CSVSource{path: path}
}

// Path returns the file this source reads from.
func (s *CSVSource) Path() string { return s.path }

// Read parses the catalog file. A missing file or unusable header is fatal
// for the run (ErrDataSource); a bad row is skipped and counted.
func (s *CSVSource) Read(ctx context.Context) ([]entities.Record, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: opening %s: %v", entities.ErrDataSource, s.path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // row width checked against the header below

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("%w: parsing %s: %v", entities.ErrDataSource, s.path, err)
	}
	if len(rows) == 0 {
		return nil, 0, fmt.Errorf("%w: %s is empty", entities.ErrDataSource, s.path)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %s: %v", entities.ErrDataSource, s.path, err)
	}

	var records []entities.Record
	skipped := 0
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}
		rec, ok := rowToRecord(row, index)
		if !ok {
			log.Printf("[WARN] skipping row %d of %s: too few columns", i+2, s.path)
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}

// headerIndex maps required column names to their positions.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	for _, col := range []string{colName, colIndustry, colSector, colHQState, colRevenue, colEmployees} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
	}
	return index, nil
}

func rowToRecord(row []string, index map[string]int) (entities.Record, bool) {
	field := func(col string) (string, bool) {
		i := index[col]
		if i >= len(row) {
			return "", false
		}
		return strings.TrimSpace(row[i]), true
	}

	var rec entities.Record
	var ok bool
	if rec.Name, ok = field(colName); !ok {
		return entities.Record{}, false
	}
	if rec.Industry, ok = field(colIndustry); !ok {
		return entities.Record{}, false
	}
	if rec.Sector, ok = field(colSector); !ok {
		return entities.Record{}, false
	}
	if rec.HQState, ok = field(colHQState); !ok {
		return entities.Record{}, false
	}
	if rec.Revenue, ok = field(colRevenue); !ok {
		return entities.Record{}, false
	}
	if rec.Employees, ok = field(colEmployees); !ok {
		return entities.Record{}, false
	}
	return rec, true
}
