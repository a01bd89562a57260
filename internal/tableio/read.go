package tableio

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// Format identifies a supported file type.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var ErrUnsupportedFormat = errors.New("unsupported file type")

// DetectFormat picks the format from the file extension.
// Legacy .xls workbooks are not supported.
func DetectFormat(filename string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Source is a parsed upload.
type Source struct {
	Table  *table.Table
	Format Format
	Sheets []string // workbook sheets in tab order; nil for CSV
	Sheet  string   // sheet the table was read from
}

// Read parses an uploaded file. For workbooks, sheet selects the sheet to
// read; empty means the first one.
func Read(filename string, data []byte, sheet string) (*Source, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	switch format {
	case FormatCSV:
		t, err := ReadCSV(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		return &Source{Table: t, Format: format}, nil
	default:
		f, err := openWorkbook(data)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if sheet == "" && len(sheets) > 0 {
			sheet = sheets[0]
		}
		t, err := readSheet(f, sheet)
		if err != nil {
			return nil, err
		}
		return &Source{Table: t, Format: format, Sheets: sheets, Sheet: sheet}, nil
	}
}
