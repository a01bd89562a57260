package table

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNew_Validation(t *testing.T) {
	if _, err := New([]string{"a", "a"}, nil); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("duplicate columns error = %v", err)
	}
	if _, err := New([]string{"a", " "}, nil); !errors.Is(err, ErrEmptyColumnName) {
		t.Errorf("blank column error = %v", err)
	}
	if _, err := New([]string{"a"}, [][]Value{{1.0, 2.0}}); !errors.Is(err, ErrRaggedRow) {
		t.Errorf("ragged row error = %v", err)
	}
}

func TestNewEmpty(t *testing.T) {
	tbl := NewEmpty(2, 3, []string{"name"})
	if diff := cmp.Diff([]string{"name", "Column 2", "Column 3"}, tbl.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
	if tbl.Len() != 2 || len(tbl.Rows[1]) != 3 {
		t.Errorf("shape = %d×%d, want 2×3", tbl.Len(), len(tbl.Rows[1]))
	}
}

func TestClone_IsIndependent(t *testing.T) {
	orig := mustTable(t, []string{"a"}, []Value{"x"})
	cp := orig.Clone()
	cp.Rows[0][0] = "y"
	cp.Columns[0] = "b"

	if orig.Rows[0][0] != "x" || orig.Columns[0] != "a" {
		t.Error("Clone shares storage with the original")
	}
}

func TestColumnEditing(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"},
		[]Value{1.0, "x"},
		[]Value{2.0, "y"},
	)

	if err := tbl.AddColumn("c", nil); err != nil {
		t.Fatalf("AddColumn() error = %v", err)
	}
	if err := tbl.AddColumn("c", nil); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("AddColumn duplicate error = %v", err)
	}
	if err := tbl.DropColumn("b"); err != nil {
		t.Fatalf("DropColumn() error = %v", err)
	}
	want := &Table{
		Columns: []string{"a", "c"},
		Rows:    [][]Value{{1.0, ""}, {2.0, ""}},
	}
	if diff := cmp.Diff(want, tbl); diff != "" {
		t.Errorf("table mismatch (-want +got):\n%s", diff)
	}

	var ce *ColumnError
	if err := tbl.DropColumn("zzz"); !errors.As(err, &ce) {
		t.Errorf("DropColumn missing error = %v", err)
	}
}

func TestSetCell(t *testing.T) {
	tbl := mustTable(t, []string{"n", "s"},
		[]Value{1.0, "x"},
	)

	if err := tbl.SetCell(0, "n", "1,500"); err != nil {
		t.Fatalf("SetCell numeric error = %v", err)
	}
	if tbl.Rows[0][0] != 1500.0 {
		t.Errorf("numeric cell = %v, want 1500", tbl.Rows[0][0])
	}
	if err := tbl.SetCell(0, "n", "abc"); err == nil {
		t.Error("SetCell should reject text in a numeric column")
	}
	if err := tbl.SetCell(0, "s", ""); err != nil || tbl.Rows[0][1] != nil {
		t.Errorf("SetCell empty = %v, cell %v", err, tbl.Rows[0][1])
	}
	if err := tbl.SetCell(5, "s", "z"); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("SetCell out of range error = %v", err)
	}
}

func TestRows_AppendDelete(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []Value{"1"}, []Value{"2"})
	tbl.AppendRow()
	if tbl.Len() != 3 || tbl.Rows[2][0] != nil {
		t.Fatalf("AppendRow produced %v", tbl.Rows)
	}
	if err := tbl.DeleteRow(0); err != nil {
		t.Fatalf("DeleteRow() error = %v", err)
	}
	if diff := cmp.Diff([][]Value{{"2"}, {nil}}, tbl.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if err := tbl.DeleteRow(-1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("DeleteRow(-1) error = %v", err)
	}
}

func TestNumericColumns(t *testing.T) {
	tbl := mustTable(t, []string{"n", "mixed", "empty"},
		[]Value{1.0, 1.0, nil},
		[]Value{nil, "a", nil},
	)
	if diff := cmp.Diff([]string{"n"}, tbl.NumericColumns()); diff != "" {
		t.Errorf("NumericColumns mismatch (-want +got):\n%s", diff)
	}
}

func TestHead(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []Value{"1"}, []Value{"2"}, []Value{"3"})
	if got := tbl.Head(2).Len(); got != 2 {
		t.Errorf("Head(2).Len() = %d", got)
	}
	if got := tbl.Head(10).Len(); got != 3 {
		t.Errorf("Head(10).Len() = %d", got)
	}
}

// ----------------------------------------------------------------------------
// Statistics Tests
// ----------------------------------------------------------------------------

func TestDescribe(t *testing.T) {
	tbl := mustTable(t, []string{"v", "label"},
		[]Value{1.0, "a"},
		[]Value{2.0, "b"},
		[]Value{3.0, "c"},
		[]Value{4.0, "d"},
		[]Value{nil, "e"},
	)

	got, err := Describe(tbl, nil)
	if err != nil {
		t.Fatalf("Describe() error = %v", err)
	}
	if diff := cmp.Diff([]string{"statistic", "v"}, got.Columns); diff != "" {
		t.Fatalf("columns mismatch (-want +got):\n%s", diff)
	}

	want := map[string]float64{
		"count": 4,
		"mean":  2.5,
		"std":   math.Sqrt(5.0 / 3.0),
		"min":   1,
		"25%":   1.75,
		"50%":   2.5,
		"75%":   3.25,
		"max":   4,
	}
	for _, row := range got.Rows {
		label := row[0].(string)
		v := row[1].(float64)
		if math.Abs(v-want[label]) > 1e-9 {
			t.Errorf("%s = %v, want %v", label, v, want[label])
		}
	}

	if _, err := Describe(tbl, []string{"label"}); err == nil {
		t.Error("Describe should reject a text column")
	}

	repeated, err := Describe(tbl, []string{"v", "v"})
	if err != nil {
		t.Fatalf("Describe(v, v) error = %v", err)
	}
	if diff := cmp.Diff([]string{"statistic", "v"}, repeated.Columns); diff != "" {
		t.Errorf("repeated columns mismatch (-want +got):\n%s", diff)
	}

	clash := mustTable(t, []string{"statistic"}, []Value{1.0})
	if _, err := Describe(clash, nil); !errors.Is(err, ErrDuplicateColumn) {
		t.Errorf("Describe(statistic) error = %v, want ErrDuplicateColumn", err)
	}
}

func TestAnalyze(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"},
		[]Value{1.0, nil},
		[]Value{"", "x"},
	)
	want := Summary{Rows: 2, Columns: 2, NullCells: 2, FilledCells: 2}
	if diff := cmp.Diff(want, Analyze(tbl)); diff != "" {
		t.Errorf("Analyze mismatch (-want +got):\n%s", diff)
	}
}

func TestValueCounts(t *testing.T) {
	tbl := mustTable(t, []string{"c"},
		[]Value{"b"}, []Value{"a"}, []Value{"a"}, []Value{"b"}, []Value{"c"}, []Value{nil},
	)
	got, err := ValueCounts(tbl, "c", 2)
	if err != nil {
		t.Fatalf("ValueCounts() error = %v", err)
	}
	want := []ValueCount{{"b", 2}, {"a", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValueCounts mismatch (-want +got):\n%s", diff)
	}
}
