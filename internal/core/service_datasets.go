package core

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/table"
	"github.com/JonMunkholm/toolbox/internal/tableio"
)

// MaxCreateSize bounds the rows and columns of a table created from scratch.
const MaxCreateSize = 10000

var ErrInvalidSize = errors.New("invalid table size")

// DatasetName derives a dataset name from an uploaded file name.
func DatasetName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// UploadDataset parses an uploaded CSV or workbook and adds it to the
// session under name (the file name without extension when empty). For
// workbooks the first sheet is loaded and the file is kept compressed so
// other sheets can be selected later.
func (s *Service) UploadDataset(ctx context.Context, sess *session.Session, name, filename string, data []byte) (*session.Dataset, error) {
	if err := s.checkFile(data); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		name = DatasetName(filename)
	}
	if _, err := sess.Get(strings.TrimSpace(name)); err == nil {
		return nil, fmt.Errorf("%w: %q", session.ErrDatasetExists, strings.TrimSpace(name))
	}

	var src *tableio.Source
	err := s.uploadLimiter.Run(ctx, func() error {
		var err error
		src, err = tableio.Read(filename, data, "")
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}

	d := session.NewDataset(name, src.Table, filepath.Base(filename), int64(len(data)))
	d.Sheets = src.Sheets
	d.SelectedSheet = src.Sheet
	if src.Format == tableio.FormatXLSX {
		if err := d.SetSource(data); err != nil {
			return nil, err
		}
	}

	if err := sess.Add(d); err != nil {
		return nil, err
	}
	sess.Current = d.Name

	s.record(ctx, d, session.ActionUpload, fmt.Sprintf("%s (%d rows, %d columns)",
		d.Filename, src.Table.Len(), len(src.Table.Columns)))
	return d, nil
}

// CreateDataset adds an empty table of rows × len(columns) cells. Blank
// column names are filled as "Column N"; cols adds unnamed columns when
// columns is shorter.
func (s *Service) CreateDataset(ctx context.Context, sess *session.Session, name string, rows, cols int, columns []string) (*session.Dataset, error) {
	if cols < len(columns) {
		cols = len(columns)
	}
	if rows < 0 || cols < 1 || rows > MaxCreateSize || cols > MaxCreateSize {
		return nil, fmt.Errorf("%w: %d rows x %d columns", ErrInvalidSize, rows, cols)
	}

	t := table.NewEmpty(rows, cols, columns)
	if _, err := table.New(t.Columns, t.Rows); err != nil {
		return nil, err
	}

	d := session.NewDataset(name, t, "", 0)
	if err := sess.Add(d); err != nil {
		return nil, err
	}
	sess.Current = d.Name

	s.record(ctx, d, session.ActionCreate, fmt.Sprintf("%d rows, %d columns", rows, cols))
	return d, nil
}

// RemoveDataset deletes a dataset from the session.
func (s *Service) RemoveDataset(ctx context.Context, sess *session.Session, name string) error {
	if err := sess.Remove(name); err != nil {
		return err
	}
	logging.WithFields(ctx, "dataset", name).Info("dataset removed")
	return nil
}

// SelectDataset makes name the dataset shown by the editor.
func (s *Service) SelectDataset(sess *session.Session, name string) error {
	if _, err := sess.Get(name); err != nil {
		return err
	}
	sess.Current = name
	return nil
}

// SelectSheet reloads a workbook dataset from another sheet. The sheet
// becomes the new original, discarding edits made to the previous one.
func (s *Service) SelectSheet(ctx context.Context, sess *session.Session, name, sheet string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	if sheet == d.SelectedSheet {
		return nil
	}

	data, err := d.Source()
	if err != nil {
		return err
	}
	var t *table.Table
	err = s.uploadLimiter.Run(ctx, func() error {
		var err error
		t, err = tableio.ReadSheet(data, sheet)
		return err
	})
	if err != nil {
		return err
	}

	d.Data = t
	d.Original = t.Clone()
	d.SelectedSheet = sheet
	s.record(ctx, d, session.ActionSheet, sheet)
	return nil
}

// AddColumn appends an empty column.
func (s *Service) AddColumn(ctx context.Context, sess *session.Session, name, column string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	column = strings.TrimSpace(column)
	if err := d.Data.AddColumn(column, nil); err != nil {
		return err
	}
	s.record(ctx, d, session.ActionAddColumn, column)
	return nil
}

// DropColumn removes a column.
func (s *Service) DropColumn(ctx context.Context, sess *session.Session, name, column string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	if err := d.Data.DropColumn(column); err != nil {
		return err
	}
	s.record(ctx, d, session.ActionDropColumn, column)
	return nil
}

// EditCell replaces one cell. Values in numeric columns must parse as numbers.
func (s *Service) EditCell(ctx context.Context, sess *session.Session, name string, row int, column, value string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	if err := d.Data.SetCell(row, column, value); err != nil {
		return err
	}
	s.record(ctx, d, session.ActionEditCell, fmt.Sprintf("row %d, %s = %q", row+1, column, value))
	return nil
}

// AddRow appends an empty row.
func (s *Service) AddRow(ctx context.Context, sess *session.Session, name string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	d.Data.AppendRow()
	s.record(ctx, d, session.ActionAddRow, fmt.Sprintf("row %d", d.Data.Len()))
	return nil
}

// DeleteRow removes the row at index row.
func (s *Service) DeleteRow(ctx context.Context, sess *session.Session, name string, row int) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	if err := d.Data.DeleteRow(row); err != nil {
		return err
	}
	s.record(ctx, d, session.ActionDeleteRow, fmt.Sprintf("row %d", row+1))
	return nil
}

// RestoreOriginal discards every edit made since upload or creation.
func (s *Service) RestoreOriginal(ctx context.Context, sess *session.Session, name string) error {
	d, err := sess.Get(name)
	if err != nil {
		return err
	}
	d.Restore()
	s.record(ctx, d, session.ActionRestore, "")
	return nil
}
