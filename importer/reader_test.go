package importer

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

type fakeDoer struct {
	fn func(r *http.Request) (*http.Response, error)
}

func (d fakeDoer) Do(r *http.Request) (*http.Response, error) {
	return d.fn(r)
}

func textResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestCSVReader_KeepsHeaderRowsAndRaggedRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campaign.csv")
	content := "\ufeff,,NCR,\nCategory,Campaign Name,PID1,PID2\nGrocery,Diwali,101\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	table, err := ReadTable(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	want := Table{
		{"", "", "NCR", ""},
		{"Category", "Campaign Name", "PID1", "PID2"},
		{"Grocery", "Diwali", "101"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("want %q, got %q", want, table)
	}
}

func TestReadTable_SplitsTSVOnTabs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "campaign.tsv")
	content := "\t\tNCR\nCampaign Name\tAsset Detail\tPID1\nDiwali, Big Sale\tBanner\t101\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write tsv: %v", err)
	}

	table, err := ReadTable(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("read tsv: %v", err)
	}
	want := Table{
		{"", "", "NCR"},
		{"Campaign Name", "Asset Detail", "PID1"},
		{"Diwali, Big Sale", "Banner", "101"},
	}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("want %q, got %q", want, table)
	}
}

func TestParseCSV_DecodesUTF16WithBOM(t *testing.T) {
	t.Parallel()

	// "MB_id,image_src\n5,a.jpg\n" encoded as UTF-16LE with BOM.
	text := "MB_id,image_src\n5,a.jpg\n"
	encoded := []byte{0xFF, 0xFE}
	for _, r := range text {
		encoded = append(encoded, byte(r), 0x00)
	}

	table, err := parseCSV(strings.NewReader(string(encoded)), 0)
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(table) != 2 || table[0][0] != "MB_id" || table[1][1] != "a.jpg" {
		t.Fatalf("unexpected table: %q", table)
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	t.Parallel()

	_, err := parseCSV(strings.NewReader(""), 0)
	if !errors.Is(err, ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable, got %v", err)
	}
}

func TestExcelReader_ReadsFirstSheetRaw(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dump.xlsx")
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	if err := file.SetSheetRow(sheet, "A1", &[]any{"MB_id", "image_src"}); err != nil {
		t.Fatalf("set header: %v", err)
	}
	if err := file.SetSheetRow(sheet, "A2", &[]any{1234567, "milk.jpg"}); err != nil {
		t.Fatalf("set row: %v", err)
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = file.Close()

	table, err := ReadTable(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("read excel: %v", err)
	}
	want := Table{{"MB_id", "image_src"}, {"1234567", "milk.jpg"}}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("want %q, got %q", want, table)
	}
}

func TestSQLiteReader_ReadsNamedTable(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "dump.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
		`CREATE TABLE catalog (MB_id INTEGER, image_src TEXT);`,
		`INSERT INTO catalog VALUES (7, 'seven.jpg'), (8, NULL);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	_ = db.Close()

	table, err := ReadTable(context.Background(), path, Options{SQLiteTable: "catalog"})
	if err != nil {
		t.Fatalf("read sqlite: %v", err)
	}
	want := Table{{"MB_id", "image_src"}, {"7", "seven.jpg"}, {"8", ""}}
	if !reflect.DeepEqual(table, want) {
		t.Fatalf("want %q, got %q", want, table)
	}
}

func TestSQLiteReader_MissingFileDoesNotCreateDatabase(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.db")
	if _, err := (&SQLiteReader{}).Read(path); err == nil {
		t.Fatalf("expected error for missing database")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected database file to stay absent, stat err=%v", err)
	}
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		format  string
		want    string
		wantErr bool
	}{
		{path: "a.csv", want: "csv"},
		{path: "a.TSV", want: "tsv"},
		{path: "a.XLSX", want: "excel"},
		{path: "dump.db", want: "sqlite"},
		{path: "a.out", format: "excel", want: "excel"},
		{path: "a.json", wantErr: true},
	}
	for _, tc := range tests {
		got, err := inferFormat(tc.path, tc.format)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("expected error for %s", tc.path)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("inferFormat(%q, %q): want %q, got %q (err %v)", tc.path, tc.format, tc.want, got, err)
		}
	}
}

func TestSheetExportURL(t *testing.T) {
	t.Parallel()

	got, err := SheetExportURL("https://docs.google.com/spreadsheets/d/1AbC-d_9/edit#gid=0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "https://docs.google.com/spreadsheets/d/1AbC-d_9/export?format=csv" {
		t.Fatalf("unexpected export url %q", got)
	}

	if _, err := SheetExportURL("https://docs.google.com/spreadsheets/u/0/"); err == nil {
		t.Fatalf("expected error for link without sheet id")
	}
}

func TestReadTable_FetchesGoogleSheetExport(t *testing.T) {
	t.Parallel()

	var seenURL, seenAgent string
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		seenURL = r.URL.String()
		seenAgent = r.Header.Get("User-Agent")
		return textResponse(http.StatusOK, ",NCR\nCampaign Name,PID1\nDiwali,5\n"), nil
	}}

	table, err := ReadTable(context.Background(), "https://docs.google.com/spreadsheets/d/sheet123/edit", Options{
		Fetcher: NewFetcher(doer, "test-agent", 0),
	})
	if err != nil {
		t.Fatalf("read remote: %v", err)
	}
	if seenURL != "https://docs.google.com/spreadsheets/d/sheet123/export?format=csv" {
		t.Fatalf("unexpected request url %q", seenURL)
	}
	if seenAgent != "test-agent" {
		t.Fatalf("unexpected user agent %q", seenAgent)
	}
	if len(table) != 3 || table[2][1] != "5" {
		t.Fatalf("unexpected table %q", table)
	}
}

func TestFetchCSV_RejectsNonOKStatus(t *testing.T) {
	t.Parallel()

	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		return textResponse(http.StatusForbidden, "denied"), nil
	}}

	_, err := NewFetcher(doer, "", 0).FetchCSV(context.Background(), "https://example.com/data.csv")
	if err == nil || !strings.Contains(err.Error(), "status 403") {
		t.Fatalf("expected status error, got %v", err)
	}
}
