package tableio

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// ----------------------------------------------------------------------------
// CSV Tests
// ----------------------------------------------------------------------------

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  *table.Table
	}{
		{
			name:  "basic with type inference",
			input: []byte("id,name,amount\n1,ana,1500.00\n2,bia,\n"),
			want: &table.Table{
				Columns: []string{"id", "name", "amount"},
				Rows: [][]table.Value{
					{1.0, "ana", 1500.0},
					{2.0, "bia", nil},
				},
			},
		},
		{
			name:  "utf-8 bom skipped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("col\nx\n")...),
			want: &table.Table{
				Columns: []string{"col"},
				Rows:    [][]table.Value{{"x"}},
			},
		},
		{
			name:  "windows-1252 decoded",
			input: []byte("cidade\nS\xe3o Paulo\n"),
			want: &table.Table{
				Columns: []string{"cidade"},
				Rows:    [][]table.Value{{"São Paulo"}},
			},
		},
		{
			name:  "semicolon delimiter with decimal comma",
			input: []byte("nome;valor\nx;1234,50\ny;2\n"),
			want: &table.Table{
				Columns: []string{"nome", "valor"},
				Rows: [][]table.Value{
					{"x", 1234.5},
					{"y", 2.0},
				},
			},
		},
		{
			name:  "grouped decimal comma stays text",
			input: []byte("nome;valor\nx;1.234\ny;1.234,5\n"),
			want: &table.Table{
				Columns: []string{"nome", "valor"},
				Rows:    [][]table.Value{{"x", "1.234"}, {"y", "1.234,5"}},
			},
		},
		{
			name:  "formatted numbers stay text",
			input: []byte("id,price,code\n1,\"1,5\",$5\n2,\"2,5\",(3)\n"),
			want: &table.Table{
				Columns: []string{"id", "price", "code"},
				Rows: [][]table.Value{
					{1.0, "1,5", "$5"},
					{2.0, "2,5", "(3)"},
				},
			},
		},
		{
			name:  "blank and duplicate headers",
			input: []byte("a,,a\n1,2,3\n"),
			want: &table.Table{
				Columns: []string{"a", "Unnamed: 1", "a.1"},
				Rows:    [][]table.Value{{1.0, 2.0, 3.0}},
			},
		},
		{
			name:  "short rows padded",
			input: []byte("a,b\nx\n"),
			want: &table.Table{
				Columns: []string{"a", "b"},
				Rows:    [][]table.Value{{"x", nil}},
			},
		},
		{
			name:  "mixed column stays text",
			input: []byte("v\n1\nabc\n"),
			want: &table.Table{
				Columns: []string{"v"},
				Rows:    [][]table.Value{{"1"}, {"abc"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ReadCSV(bytes.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ReadCSV() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ReadCSV() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadCSV_PreservesFormattedValues(t *testing.T) {
	in := "id,price,code\n1,\"1,5\",$5\n2,\"2,5\",(3)\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	if diff := cmp.Diff(in, buf.String()); diff != "" {
		t.Errorf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestReadCSV_Errors(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("   \n")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty input error = %v, want ErrEmptyFile", err)
	}
	if _, err := ReadCSV(strings.NewReader("a\n1,2\n")); !errors.Is(err, ErrMalformedCSV) {
		t.Errorf("long row error = %v, want ErrMalformedCSV", err)
	}
}

func TestWriteCSV(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"a", "b"},
		Rows: [][]table.Value{
			{1.0, "x,y"},
			{nil, math.Inf(1)},
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}
	want := "a,b\n1,\"x,y\"\n,inf\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteCSV() = %q, want %q", got, want)
	}
}

// ----------------------------------------------------------------------------
// Workbook Tests
// ----------------------------------------------------------------------------

func buildWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue("Sheet1", "A1", "code")
	f.SetCellValue("Sheet1", "B1", "qty")
	f.SetCellValue("Sheet1", "A2", "p1")
	f.SetCellValue("Sheet1", "B2", 10)
	f.SetCellValue("Sheet1", "A3", "p2")
	f.SetCellValue("Sheet1", "B3", 2.5)

	if _, err := f.NewSheet("Other"); err != nil {
		t.Fatalf("NewSheet() error = %v", err)
	}
	f.SetCellValue("Other", "A1", "only")
	f.SetCellValue("Other", "A2", "row")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	return buf.Bytes()
}

func TestRead_Workbook(t *testing.T) {
	data := buildWorkbook(t)

	src, err := Read("stock.xlsx", data, "")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if diff := cmp.Diff([]string{"Sheet1", "Other"}, src.Sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}
	if src.Sheet != "Sheet1" {
		t.Errorf("Sheet = %q, want Sheet1", src.Sheet)
	}
	want := &table.Table{
		Columns: []string{"code", "qty"},
		Rows:    [][]table.Value{{"p1", 10.0}, {"p2", 2.5}},
	}
	if diff := cmp.Diff(want, src.Table); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	other, err := ReadSheet(data, "Other")
	if err != nil {
		t.Fatalf("ReadSheet() error = %v", err)
	}
	if diff := cmp.Diff([][]table.Value{{"row"}}, other.Rows); diff != "" {
		t.Errorf("other sheet mismatch (-want +got):\n%s", diff)
	}

	if _, err := ReadSheet(data, "Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("missing sheet error = %v, want ErrSheetNotFound", err)
	}
}

func TestWriteXLSX_RoundTrip(t *testing.T) {
	tbl := &table.Table{
		Columns: []string{"name", "value"},
		Rows: [][]table.Value{
			{"a", 1.0},
			{"b", nil},
			{"c", 3.5},
		},
	}
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, tbl, ""); err != nil {
		t.Fatalf("WriteXLSX() error = %v", err)
	}

	sheets, err := SheetNames(buf.Bytes())
	if err != nil {
		t.Fatalf("SheetNames() error = %v", err)
	}
	if diff := cmp.Diff([]string{DefaultSheet}, sheets); diff != "" {
		t.Errorf("sheets mismatch (-want +got):\n%s", diff)
	}

	got, err := ReadSheet(buf.Bytes(), DefaultSheet)
	if err != nil {
		t.Fatalf("ReadSheet() error = %v", err)
	}
	if diff := cmp.Diff(tbl, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"data.csv", FormatCSV, false},
		{"DATA.XLSX", FormatXLSX, false},
		{"macro.xlsm", FormatXLSX, false},
		{"legacy.xls", "", true},
		{"notes.pdf", "", true},
	}
	for _, tt := range tests {
		got, err := DetectFormat(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("DetectFormat(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("DetectFormat(%q) error = %v, want ErrUnsupportedFormat", tt.filename, err)
		}
		if got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
