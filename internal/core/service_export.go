package core

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/tableio"
)

var ErrNoLyrics = errors.New("no lyrics to download")

// Content types of downloads.
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Download is a file served as an attachment.
type Download struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export renders a dataset's current table as CSV or XLSX. The file is
// named after the uploaded file, or the dataset when it was not uploaded.
func (s *Service) Export(sess *session.Session, name string, format tableio.Format) (*Download, error) {
	d, err := sess.Get(name)
	if err != nil {
		return nil, err
	}

	base := d.Name
	if d.Filename != "" {
		base = DatasetName(d.Filename)
	}

	var buf bytes.Buffer
	dl := &Download{}
	switch format {
	case tableio.FormatCSV:
		err = tableio.WriteCSV(&buf, d.Data)
		dl.Filename, dl.ContentType = base+".csv", ContentTypeCSV
	case tableio.FormatXLSX:
		err = tableio.WriteXLSX(&buf, d.Data, tableio.DefaultSheet)
		dl.Filename, dl.ContentType = base+".xlsx", ContentTypeXLSX
	default:
		return nil, fmt.Errorf("%w: %q", tableio.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", name, err)
	}
	dl.Data = buf.Bytes()
	return dl, nil
}

// ParseExportFormat accepts "csv" and "xlsx" (also "excel").
func ParseExportFormat(s string) (tableio.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return tableio.FormatCSV, nil
	case "xlsx", "excel":
		return tableio.FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", tableio.ErrUnsupportedFormat, s)
	}
}
