package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/table"
	"github.com/JonMunkholm/toolbox/internal/tableio"
)

var (
	ErrRemapFromRequired = errors.New("remap source value is required")
	ErrEmptyRemap        = errors.New("remap dictionary is required")
	ErrRemapColumns      = errors.New("remap file needs at least two columns")
)

// JoinRequest describes a join between two datasets saved as a new one.
type JoinRequest struct {
	Left     string `json:"left"`
	Right    string `json:"right"`
	LeftKey  string `json:"left_key"`
	RightKey string `json:"right_key"`
	Kind     string `json:"kind"`
	Result   string `json:"result"`
}

// Join merges two datasets and stores the result as a new dataset.
func (s *Service) Join(ctx context.Context, sess *session.Session, req JoinRequest) (*session.Dataset, error) {
	kind, err := table.ParseJoinKind(req.Kind)
	if err != nil {
		return nil, err
	}
	left, err := sess.Get(req.Left)
	if err != nil {
		return nil, err
	}
	right, err := sess.Get(req.Right)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Result)
	if name == "" {
		name = fmt.Sprintf("%s_%s_%s", left.Name, right.Name, kind)
	}
	if _, err := sess.Get(name); err == nil {
		return nil, fmt.Errorf("%w: %q", session.ErrDatasetExists, name)
	}

	out, err := table.Join(left.Data, right.Data, req.LeftKey, req.RightKey, kind)
	if err != nil {
		return nil, fmt.Errorf("join: %w", err)
	}

	d := session.NewDataset(name, out, "", 0)
	if err := sess.Add(d); err != nil {
		return nil, err
	}
	s.record(ctx, d, session.ActionJoin, fmt.Sprintf("%s %s join %s on %s = %s (%d rows)",
		left.Name, kind, right.Name, req.LeftKey, req.RightKey, out.Len()))
	return d, nil
}

// LookupRequest describes a PROCV: a column of Source filled from Reference.
type LookupRequest struct {
	Source    string `json:"source"`
	SourceKey string `json:"source_key"`
	Reference string `json:"reference"`
	RefKey    string `json:"ref_key"`
	RefValue  string `json:"ref_value"`
	NewColumn string `json:"new_column"`
}

// Lookup adds a column to the source dataset with values looked up by key
// in the reference dataset. It returns how many rows found a match.
func (s *Service) Lookup(ctx context.Context, sess *session.Session, req LookupRequest) (int, error) {
	src, err := sess.Get(req.Source)
	if err != nil {
		return 0, err
	}
	ref, err := sess.Get(req.Reference)
	if err != nil {
		return 0, err
	}
	column := strings.TrimSpace(req.NewColumn)
	if column == "" {
		column = req.RefValue
	}

	out, err := table.Lookup(src.Data, req.SourceKey, ref.Data, req.RefKey, req.RefValue, column)
	if err != nil {
		return 0, fmt.Errorf("lookup: %w", err)
	}

	values, _ := out.Column(column)
	matched := 0
	for _, v := range values {
		if v != nil {
			matched++
		}
	}

	src.Data = out
	s.record(ctx, src, session.ActionLookup, fmt.Sprintf("%s from %s.%s by %s = %s (%d of %d matched)",
		column, ref.Name, req.RefValue, req.SourceKey, req.RefKey, matched, out.Len()))
	return matched, nil
}

// RemapFileRequest describes a DE/PARA driven by an uploaded two-column file.
// Empty From and To select the file's first and second columns.
type RemapFileRequest struct {
	Dataset  string
	Column   string
	Filename string
	Data     []byte
	From     string
	To       string
}

// RemapFromFile replaces values of a column using a dictionary read from a
// CSV or workbook. It returns the number of changed cells.
func (s *Service) RemapFromFile(ctx context.Context, sess *session.Session, req RemapFileRequest) (int, error) {
	d, err := sess.Get(req.Dataset)
	if err != nil {
		return 0, err
	}
	if err := s.checkFile(req.Data); err != nil {
		return 0, err
	}

	var src *tableio.Source
	err = s.uploadLimiter.Run(ctx, func() error {
		var err error
		src, err = tableio.Read(req.Filename, req.Data, "")
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", req.Filename, err)
	}
	if len(src.Table.Columns) < 2 {
		return 0, ErrRemapColumns
	}

	from, to := req.From, req.To
	if from == "" {
		from = src.Table.Columns[0]
	}
	if to == "" {
		to = src.Table.Columns[1]
	}
	dict, err := table.DictionaryFromTable(src.Table, from, to)
	if err != nil {
		return 0, fmt.Errorf("remap file: %w", err)
	}

	return s.remap(ctx, d, req.Column, dict, "file "+req.Filename)
}

// AddRemapEntry appends a manual from/to pair to the session dictionary.
func (s *Service) AddRemapEntry(ctx context.Context, sess *session.Session, from, to string) error {
	if strings.TrimSpace(from) == "" {
		return ErrRemapFromRequired
	}
	sess.Remap = append(sess.Remap, session.RemapEntry{From: from, To: to})
	logging.FromContext(ctx).Debug("remap entry added", "from", from, "to", to)
	return nil
}

// ClearRemap empties the manual dictionary.
func (s *Service) ClearRemap(ctx context.Context, sess *session.Session) {
	sess.Remap = nil
	logging.FromContext(ctx).Debug("remap dictionary cleared")
}

// ApplyManualRemap replaces values of a column using the session's manual
// dictionary. Replacements are stored as numbers when the column is numeric
// and the value parses.
func (s *Service) ApplyManualRemap(ctx context.Context, sess *session.Session, name, column string) (int, error) {
	d, err := sess.Get(name)
	if err != nil {
		return 0, err
	}
	if len(sess.Remap) == 0 {
		return 0, ErrEmptyRemap
	}

	dict := sess.RemapDictionary()
	if d.Data.IsNumeric(column) {
		for k, v := range dict {
			if f, ok := table.ParseNumber(table.Format(v)); ok {
				dict[k] = f
			}
		}
	}
	return s.remap(ctx, d, column, dict, fmt.Sprintf("%d manual pairs", len(sess.Remap)))
}

func (s *Service) remap(ctx context.Context, d *session.Dataset, column string, dict table.Dictionary, origin string) (int, error) {
	changed, err := table.Remap(d.Data, column, dict)
	if err != nil {
		return 0, fmt.Errorf("remap: %w", err)
	}
	s.record(ctx, d, session.ActionRemap, fmt.Sprintf("%s via %s (%d changed)", column, origin, changed))
	return changed, nil
}

// ArithmeticRequest describes NewColumn = A <Op> B on one dataset.
type ArithmeticRequest struct {
	Dataset   string `json:"dataset"`
	A         string `json:"a"`
	B         string `json:"b"`
	Op        string `json:"op"`
	NewColumn string `json:"new_column"`
}

// Arithmetic computes a column from two numeric columns. An existing
// column with the result name is overwritten.
func (s *Service) Arithmetic(ctx context.Context, sess *session.Session, req ArithmeticRequest) (string, error) {
	d, err := sess.Get(req.Dataset)
	if err != nil {
		return "", err
	}
	op, err := table.ParseOperator(req.Op)
	if err != nil {
		return "", err
	}
	column := strings.TrimSpace(req.NewColumn)
	if column == "" {
		column = fmt.Sprintf("%s %s %s", req.A, op.Symbol(), req.B)
	}

	if err := table.Arithmetic(d.Data, req.A, req.B, op, column); err != nil {
		return "", fmt.Errorf("arithmetic: %w", err)
	}
	s.record(ctx, d, session.ActionArithmetic, fmt.Sprintf("%s = %s %s %s", column, req.A, op.Symbol(), req.B))
	return column, nil
}

// StatsName is the dataset name under which statistics of name are saved.
func StatsName(name string) string { return name + "_stats" }

// Describe computes descriptive statistics of numeric columns (all of them
// when columns is empty). With save, the result is also stored as the
// dataset StatsName(name).
func (s *Service) Describe(ctx context.Context, sess *session.Session, name string, columns []string, save bool) (*table.Table, error) {
	d, err := sess.Get(name)
	if err != nil {
		return nil, err
	}
	stats, err := table.Describe(d.Data, columns)
	if err != nil {
		return nil, fmt.Errorf("describe: %w", err)
	}
	if !save {
		return stats, nil
	}

	out := session.NewDataset(StatsName(name), stats, "", 0)
	if err := sess.Add(out); err != nil {
		return nil, err
	}
	s.record(ctx, out, session.ActionDescribe, fmt.Sprintf("statistics of %s (%s)",
		name, strings.Join(stats.Columns[1:], ", ")))
	return stats, nil
}

// Analysis is the overview shown by the analysis tab.
type Analysis struct {
	Dataset  string
	Summary  table.Summary
	Numeric  []string
	Column   string
	Counts   []table.ValueCount
	Describe *table.Table // statistics of Column when it is numeric
}

// TopValues is how many distinct values Analyze reports for a column.
const TopValues = 10

// Analyze summarises a dataset and, when column is set, its most frequent
// values and (for numeric columns) its statistics.
func (s *Service) Analyze(ctx context.Context, sess *session.Session, name, column string) (*Analysis, error) {
	d, err := sess.Get(name)
	if err != nil {
		return nil, err
	}
	a := &Analysis{
		Dataset: d.Name,
		Summary: table.Analyze(d.Data),
		Numeric: d.Data.NumericColumns(),
		Column:  column,
	}
	if column == "" {
		return a, nil
	}

	if a.Counts, err = table.ValueCounts(d.Data, column, TopValues); err != nil {
		return nil, err
	}
	if d.Data.IsNumeric(column) {
		if a.Describe, err = table.Describe(d.Data, []string{column}); err != nil {
			return nil, err
		}
	}
	logging.WithFields(ctx, "dataset", name).Debug("dataset analyzed", "column", column)
	return a, nil
}
