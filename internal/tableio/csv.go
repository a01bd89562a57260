// Package tableio reads and writes tables as CSV and Excel workbooks.
package tableio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/JonMunkholm/toolbox/internal/table"
)

var (
	ErrEmptyFile    = errors.New("file is empty")
	ErrMalformedCSV = errors.New("malformed csv")
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the UTF-8 BOM, if one is present.
// Excel on Windows writes the BOM on "CSV UTF-8" exports.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// decodeText returns data as UTF-8. Input that is not valid UTF-8 is
// assumed to be Windows-1252, the default of Excel's plain "CSV" export in
// Latin locales.
func decodeText(data []byte) ([]byte, error) {
	if utf8.Valid(data) {
		return data, nil
	}
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), charmap.Windows1252.NewDecoder()))
	if err != nil {
		return nil, fmt.Errorf("decode windows-1252: %w", err)
	}
	return out, nil
}

// sniffDelimiter picks ';' when the header line has more semicolons than commas.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte(";")) > bytes.Count(line, []byte(",")) {
		return ';'
	}
	return ','
}

// ReadCSV parses a CSV stream whose first record is the header.
// Columns whose non-empty cells are all plain numerals become numeric;
// "1,5", "$5" and "(3)" stay text. Empty cells become missing values.
func ReadCSV(r io.Reader) (*table.Table, error) {
	raw, err := io.ReadAll(skipBOM(r))
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data, err := decodeText(raw)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffDelimiter(data)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}
	parse := table.ParseNumeral
	if cr.Comma == ';' {
		parse = parseDecimalComma
	}
	return buildTable(records[0], records[1:], parse)
}

// numberParser reports whether a cell is numeric and its value.
type numberParser func(string) (float64, bool)

// buildTable normalises the header, pads short rows and infers column types
// with parse.
func buildTable(header []string, records [][]string, parse numberParser) (*table.Table, error) {
	columns := normalizeHeader(header)
	rows := make([][]table.Value, 0, len(records))
	for i, rec := range records {
		if len(rec) > len(columns) {
			if !trailingBlank(rec[len(columns):]) {
				return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
					ErrMalformedCSV, i+2, len(rec), len(columns))
			}
			rec = rec[:len(columns)]
		}
		row := make([]table.Value, len(columns))
		for j, cell := range rec {
			row[j] = cell
		}
		rows = append(rows, row)
	}
	inferTypes(columns, rows, parse)
	return &table.Table{Columns: columns, Rows: rows}, nil
}

func trailingBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// normalizeHeader names blank headers "Unnamed: i" and suffixes repeats
// with ".1", ".2" so every column name is unique.
func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for n := 1; used[name]; n++ {
			name = fmt.Sprintf("%s.%d", h, n)
		}
		used[name] = true
		out[i] = name
	}
	return out
}

// inferTypes converts string cells in place. A column becomes numeric when
// every non-empty cell parses.
func inferTypes(columns []string, rows [][]table.Value, parse numberParser) {
	for j := range columns {
		numeric := true
		for _, r := range rows {
			s, _ := r[j].(string)
			if strings.TrimSpace(s) == "" {
				continue
			}
			if _, ok := parse(s); !ok {
				numeric = false
				break
			}
		}
		for _, r := range rows {
			s, isString := r[j].(string)
			if !isString {
				continue
			}
			if strings.TrimSpace(s) == "" {
				r[j] = nil
				continue
			}
			if numeric {
				f, _ := parse(s)
				r[j] = f
			}
		}
	}
}

// parseDecimalComma parses a numeral whose decimal mark is a comma, as in
// "1234,5", the convention of semicolon-separated exports. A period is not
// accepted in either role.
func parseDecimalComma(s string) (float64, bool) {
	if strings.Contains(s, ".") || strings.Count(s, ",") > 1 {
		return 0, false
	}
	return table.ParseNumeral(strings.Replace(s, ",", ".", 1))
}

// WriteCSV writes the header and every row using Format for cells.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Strings()); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
