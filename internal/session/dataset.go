package session

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// Actions recorded in dataset history.
const (
	ActionUpload     = "upload"
	ActionCreate     = "create"
	ActionSheet      = "select_sheet"
	ActionAddColumn  = "add_column"
	ActionDropColumn = "drop_column"
	ActionEditCell   = "edit_cell"
	ActionAddRow     = "add_row"
	ActionDeleteRow  = "delete_row"
	ActionRestore    = "restore"
	ActionJoin       = "join"
	ActionLookup     = "lookup"
	ActionRemap      = "remap"
	ActionArithmetic = "arithmetic"
	ActionDescribe   = "describe"
)

// HistoryEntry is one change applied to a dataset.
type HistoryEntry struct {
	At     time.Time
	Action string
	Detail string
	IP     string
}

// Dataset is a named table with its origin and edit history.
type Dataset struct {
	Name          string
	Data          *table.Table
	Original      *table.Table
	Filename      string
	Sheets        []string
	SelectedSheet string
	Size          int64
	Created       time.Time
	History       []HistoryEntry

	source []byte // lz4 frame of the uploaded file
}

// NewDataset snapshots t as the dataset's original.
func NewDataset(name string, t *table.Table, filename string, size int64) *Dataset {
	return &Dataset{
		Name:     name,
		Data:     t,
		Original: t.Clone(),
		Filename: filename,
		Size:     size,
		Created:  time.Now(),
	}
}

// Record appends a history entry.
func (d *Dataset) Record(action, detail, ip string) {
	d.History = append(d.History, HistoryEntry{
		At:     time.Now(),
		Action: action,
		Detail: detail,
		IP:     ip,
	})
}

// Restore replaces the current table with a copy of the original.
func (d *Dataset) Restore() {
	d.Data = d.Original.Clone()
}

// SetSource stores the uploaded file compressed, so other sheets of the
// workbook can be read later.
func (d *Dataset) SetSource(data []byte) error {
	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return fmt.Errorf("compress source: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("compress source: %w", err)
	}
	d.source = buf.Bytes()
	return nil
}

// HasSource reports whether the uploaded file was kept.
func (d *Dataset) HasSource() bool { return d.source != nil }

// Source returns the uploaded file bytes.
func (d *Dataset) Source() ([]byte, error) {
	if d.source == nil {
		return nil, ErrNoSource
	}
	out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(d.source)))
	if err != nil {
		return nil, fmt.Errorf("decompress source: %w", err)
	}
	return out, nil
}

// StoredSize is the compressed size kept in memory for the source file.
func (d *Dataset) StoredSize() int { return len(d.source) }
