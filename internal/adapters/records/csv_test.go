package records

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/0xcro3dile/companyqa/internal/domain/entities"
)

const header = "Company Name,Industry,Sector,HQ State,Annual Revenue 2022-2023 (USD in Billions),Employee Size\n"

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestCSVSource_ReadsRecords(t *testing.T) {
	path := writeCSV(t, header+
		"Acme,Tech,Software,CA,10,500\n"+
		"Globex,Energy,Oil & Gas,TX,387.5,164000\n")

	source := NewCSVSource(path)
	records, skipped, err := source.Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if skipped != 0 {
		t.Errorf("expected 0 skipped, got %d", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	want := entities.Record{
		Name: "Acme", Industry: "Tech", Sector: "Software",
		HQState: "CA", Revenue: "10", Employees: "500",
	}
	if records[0] != want {
		t.Errorf("record = %+v, want %+v", records[0], want)
	}
}

func TestCSVSource_ColumnsFoundByHeaderNotPosition(t *testing.T) {
	path := writeCSV(t, "HQ State,Company Name,Employee Size,Industry,Sector,Annual Revenue 2022-2023 (USD in Billions)\n"+
		"CA,Acme,500,Tech,Software,10\n")

	records, _, err := NewCSVSource(path).Read(context.Background())
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if records[0].Name != "Acme" || records[0].HQState != "CA" {
		t.Errorf("columns mapped by position instead of header: %+v", records[0])
	}
}

func TestCSVSource_SkipsShortRows(t *testing.T) {
	path := writeCSV(t, header+
		"Acme,Tech,Software,CA,10,500\n"+
		"Globex,Energy\n")

	records, skipped, err := NewCSVSource(path).Read(context.Background())
	if err != nil {
		t.Fatalf("a short row must not abort the read: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
	if skipped != 1 {
		t.Errorf("expected 1 skipped, got %d", skipped)
	}
}

func TestCSVSource_MissingFileIsDataSourceError(t *testing.T) {
	source := NewCSVSource(filepath.Join(t.TempDir(), "nope.csv"))
	_, _, err := source.Read(context.Background())
	if !errors.Is(err, entities.ErrDataSource) {
		t.Fatalf("expected data source error, got %v", err)
	}
}

func TestCSVSource_MissingColumnIsDataSourceError(t *testing.T) {
	path := writeCSV(t, "Company Name,Industry\nAcme,Tech\n")
	_, _, err := NewCSVSource(path).Read(context.Background())
	if !errors.Is(err, entities.ErrDataSource) {
		t.Fatalf("expected data source error for missing columns, got %v", err)
	}
}

func TestCSVSource_EmptyFileIsDataSourceError(t *testing.T) {
	path := writeCSV(t, "")
	_, _, err := NewCSVSource(path).Read(context.Background())
	if !errors.Is(err, entities.ErrDataSource) {
		t.Fatalf("expected data source error for empty file, got %v", err)
	}
}

func TestCSVSource_DefaultPath(t *testing.T) {
	if NewCSVSource("").Path() != "data.csv" {
		t.Error("should default to data.csv")
	}
}
