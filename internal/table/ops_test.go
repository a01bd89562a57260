package table

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustTable(t *testing.T, cols []string, rows ...[]Value) *Table {
	t.Helper()
	tbl, err := New(cols, rows)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tbl
}

// ----------------------------------------------------------------------------
// Join Tests
// ----------------------------------------------------------------------------

func TestJoin_InnerKeepsMatchingRows(t *testing.T) {
	a := mustTable(t, []string{"id", "name"},
		[]Value{1.0, "ana"},
		[]Value{2.0, "bia"},
		[]Value{3.0, "caio"},
	)
	b := mustTable(t, []string{"id", "city"},
		[]Value{3.0, "Recife"},
		[]Value{1.0, "Natal"},
	)

	got, err := Join(a, b, "id", "id", JoinInner)
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	want := &Table{
		Columns: []string{"id", "name", "city"},
		Rows: [][]Value{
			{1.0, "ana", "Natal"},
			{3.0, "caio", "Recife"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Join() mismatch (-want +got):\n%s", diff)
	}
}

func TestJoin_Kinds(t *testing.T) {
	a := mustTable(t, []string{"k", "v"},
		[]Value{"a", 1.0},
		[]Value{"b", 2.0},
		[]Value{nil, 9.0},
	)
	b := mustTable(t, []string{"k", "v"},
		[]Value{"c", 30.0},
		[]Value{"a", 10.0},
	)

	tests := []struct {
		kind JoinKind
		want [][]Value
	}{
		{JoinInner, [][]Value{{"a", 1.0, 10.0}}},
		{JoinLeft, [][]Value{{"a", 1.0, 10.0}, {"b", 2.0, nil}, {nil, 9.0, nil}}},
		{JoinRight, [][]Value{{"c", nil, 30.0}, {"a", 1.0, 10.0}}},
		{JoinOuter, [][]Value{{"a", 1.0, 10.0}, {"b", 2.0, nil}, {nil, 9.0, nil}, {"c", nil, 30.0}}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			got, err := Join(a, b, "k", "k", tt.kind)
			if err != nil {
				t.Fatalf("Join() error = %v", err)
			}
			if diff := cmp.Diff([]string{"k", "v_x", "v_y"}, got.Columns); diff != "" {
				t.Errorf("columns mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.want, got.Rows); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJoin_DifferentKeyNames(t *testing.T) {
	a := mustTable(t, []string{"cod", "x"}, []Value{1.0, "p"})
	b := mustTable(t, []string{"code", "x"}, []Value{1.0, "q"})

	got, err := Join(a, b, "cod", "code", JoinInner)
	if err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	want := &Table{
		Columns: []string{"cod", "x_x", "code", "x_y"},
		Rows:    [][]Value{{1.0, "p", 1.0, "q"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Join() mismatch (-want +got):\n%s", diff)
	}
}

func TestJoin_MissingColumn(t *testing.T) {
	a := mustTable(t, []string{"id"})
	b := mustTable(t, []string{"id"})

	_, err := Join(a, b, "nope", "id", JoinInner)
	var ce *ColumnError
	if !errors.As(err, &ce) || ce.Column != "nope" {
		t.Fatalf("Join() error = %v, want ColumnError for nope", err)
	}

	if _, err := Join(a, b, "id", "id", JoinKind("cross")); !errors.Is(err, ErrUnknownJoinKind) {
		t.Fatalf("Join() error = %v, want ErrUnknownJoinKind", err)
	}
}

// ----------------------------------------------------------------------------
// Lookup Tests
// ----------------------------------------------------------------------------

func TestLookup(t *testing.T) {
	src := mustTable(t, []string{"code"},
		[]Value{"A"},
		[]Value{"B"},
		[]Value{"Z"},
		[]Value{nil},
	)
	ref := mustTable(t, []string{"key", "label"},
		[]Value{"A", "first"},
		[]Value{"B", "second"},
		[]Value{"A", "last wins"},
	)

	got, err := Lookup(src, "code", ref, "key", "label", "label")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	want := [][]Value{
		{"A", "last wins"},
		{"B", "second"},
		{"Z", nil},
		{nil, nil},
	}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}
	if len(src.Columns) != 1 {
		t.Errorf("source table was modified: %v", src.Columns)
	}
}

func TestLookup_OverwritesExistingColumn(t *testing.T) {
	src := mustTable(t, []string{"code", "label"},
		[]Value{"A", "old"},
		[]Value{"B", "old"},
	)
	ref := mustTable(t, []string{"key", "label"}, []Value{"A", "x"})

	got, err := Lookup(src, "code", ref, "key", "label", "label")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	again, err := Lookup(got, "code", ref, "key", "label", "label")
	if err != nil {
		t.Fatalf("second Lookup() error = %v", err)
	}
	want := [][]Value{{"A", "x"}, {"B", nil}}
	if diff := cmp.Diff(want, again.Rows); diff != "" {
		t.Errorf("Lookup() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Value{"old", "old"}, []Value{src.Rows[0][1], src.Rows[1][1]}); diff != "" {
		t.Errorf("source table was modified (-want +got):\n%s", diff)
	}
}

// ----------------------------------------------------------------------------
// Remap Tests
// ----------------------------------------------------------------------------

func TestRemap_CountsChangedCells(t *testing.T) {
	tbl := mustTable(t, []string{"c"},
		[]Value{"X"},
		[]Value{"Z"},
		[]Value{"X"},
	)

	changed, err := Remap(tbl, "c", Dictionary{"X": "Y"})
	if err != nil {
		t.Fatalf("Remap() error = %v", err)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
	got, _ := tbl.Column("c")
	if diff := cmp.Diff([]Value{"Y", "Z", "Y"}, got); diff != "" {
		t.Errorf("column mismatch (-want +got):\n%s", diff)
	}
}

func TestRemap_SinglePass(t *testing.T) {
	tbl := mustTable(t, []string{"c"}, []Value{"A"}, []Value{"B"})

	changed, err := Remap(tbl, "c", Dictionary{"A": "B", "B": "C"})
	if err != nil {
		t.Fatalf("Remap() error = %v", err)
	}
	got, _ := tbl.Column("c")
	if diff := cmp.Diff([]Value{"B", "C"}, got); diff != "" {
		t.Errorf("column mismatch (-want +got):\n%s", diff)
	}
	if changed != 2 {
		t.Errorf("changed = %d, want 2", changed)
	}
}

func TestDictionaryFromTable(t *testing.T) {
	ref := mustTable(t, []string{"de", "para"},
		[]Value{"SP", "São Paulo"},
		[]Value{1.0, "one"},
		[]Value{nil, "skipped"},
	)
	dict, err := DictionaryFromTable(ref, "de", "para")
	if err != nil {
		t.Fatalf("DictionaryFromTable() error = %v", err)
	}
	want := Dictionary{"SP": "São Paulo", "1": "one"}
	if diff := cmp.Diff(want, dict); diff != "" {
		t.Errorf("dictionary mismatch (-want +got):\n%s", diff)
	}
}

// ----------------------------------------------------------------------------
// Arithmetic Tests
// ----------------------------------------------------------------------------

func TestArithmetic(t *testing.T) {
	tests := []struct {
		op   Operator
		want []Value
	}{
		{OpAdd, []Value{12.0, 2.0, nil, 0.0}},
		{OpSub, []Value{8.0, 2.0, nil, 0.0}},
		{OpMul, []Value{20.0, 0.0, nil, 0.0}},
		{OpDiv, []Value{5.0, math.Inf(1), nil, nil}},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			tbl := mustTable(t, []string{"a", "b"},
				[]Value{10.0, 2.0},
				[]Value{2.0, 0.0},
				[]Value{nil, 1.0},
				[]Value{0.0, 0.0},
			)
			if err := Arithmetic(tbl, "a", "b", tt.op, "r"); err != nil {
				t.Fatalf("Arithmetic() error = %v", err)
			}
			got, _ := tbl.Column("r")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArithmetic_RejectsTextColumn(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"}, []Value{1.0, "x"})

	err := Arithmetic(tbl, "a", "b", OpAdd, "r")
	if !errors.Is(err, ErrNotNumeric) {
		t.Fatalf("Arithmetic() error = %v, want ErrNotNumeric", err)
	}
	if tbl.ColumnIndex("r") >= 0 {
		t.Error("result column should not be created on error")
	}
}

func TestParseOperator(t *testing.T) {
	for in, want := range map[string]Operator{"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "DIV": OpDiv} {
		got, err := ParseOperator(in)
		if err != nil || got != want {
			t.Errorf("ParseOperator(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseOperator("%"); !errors.Is(err, ErrUnknownOperator) {
		t.Errorf("ParseOperator(%%) error = %v", err)
	}
}
