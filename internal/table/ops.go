package table

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// JoinKind selects which unmatched rows a join keeps.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinRight JoinKind = "right"
	JoinOuter JoinKind = "outer"
)

var ErrUnknownJoinKind = errors.New("unknown join kind")

// ParseJoinKind validates a join kind name.
func ParseJoinKind(s string) (JoinKind, error) {
	switch k := JoinKind(strings.ToLower(strings.TrimSpace(s))); k {
	case JoinInner, JoinLeft, JoinRight, JoinOuter:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownJoinKind, s)
	}
}

// Join combines two tables on one key column each.
//
// Non-key columns present in both tables are suffixed _x (left) and _y
// (right). When both key columns share a name they collapse into a single
// key column. Missing keys never match.
func Join(left, right *Table, leftKey, rightKey string, kind JoinKind) (*Table, error) {
	if _, err := ParseJoinKind(string(kind)); err != nil {
		return nil, err
	}
	lk, err := left.mustColumn(leftKey)
	if err != nil {
		return nil, err
	}
	rk, err := right.mustColumn(rightKey)
	if err != nil {
		return nil, err
	}
	shared := leftKey == rightKey

	rightNames := make(map[string]bool, len(right.Columns))
	for i, c := range right.Columns {
		if shared && i == rk {
			continue
		}
		rightNames[c] = true
	}
	leftNames := make(map[string]bool, len(left.Columns))
	for i, c := range left.Columns {
		if shared && i == lk {
			continue
		}
		leftNames[c] = true
	}

	var columns []string
	for i, c := range left.Columns {
		if !(shared && i == lk) && rightNames[c] {
			c += "_x"
		}
		columns = append(columns, c)
	}
	var rightCols []int
	for i, c := range right.Columns {
		if shared && i == rk {
			continue
		}
		if leftNames[c] {
			c += "_y"
		}
		columns = append(columns, c)
		rightCols = append(rightCols, i)
	}

	combine := func(l, r []Value) []Value {
		row := make([]Value, 0, len(columns))
		if l != nil {
			row = append(row, l...)
		} else {
			row = append(row, make([]Value, len(left.Columns))...)
			if shared {
				row[lk] = r[rk]
			}
		}
		for _, i := range rightCols {
			if r != nil {
				row = append(row, r[i])
			} else {
				row = append(row, nil)
			}
		}
		return row
	}

	rightIndex := indexRows(right, rk)
	out := &Table{Columns: columns}

	if kind == JoinRight {
		leftIndex := indexRows(left, lk)
		for _, r := range right.Rows {
			key, ok := Key(r[rk])
			matches := leftIndex[key]
			if !ok || len(matches) == 0 {
				out.Rows = append(out.Rows, combine(nil, r))
				continue
			}
			for _, li := range matches {
				out.Rows = append(out.Rows, combine(left.Rows[li], r))
			}
		}
		return out, nil
	}

	matchedRight := make([]bool, len(right.Rows))
	for _, l := range left.Rows {
		key, ok := Key(l[lk])
		matches := rightIndex[key]
		if !ok || len(matches) == 0 {
			if kind == JoinLeft || kind == JoinOuter {
				out.Rows = append(out.Rows, combine(l, nil))
			}
			continue
		}
		for _, ri := range matches {
			matchedRight[ri] = true
			out.Rows = append(out.Rows, combine(l, right.Rows[ri]))
		}
	}
	if kind == JoinOuter {
		for i, r := range right.Rows {
			if !matchedRight[i] {
				out.Rows = append(out.Rows, combine(nil, r))
			}
		}
	}
	return out, nil
}

func indexRows(t *Table, col int) map[string][]int {
	idx := make(map[string][]int, len(t.Rows))
	for i, r := range t.Rows {
		if key, ok := Key(r[col]); ok {
			idx[key] = append(idx[key], i)
		}
	}
	return idx
}

// Lookup returns a copy of source with a new column whose values come from
// ref[refValue] where ref[refKey] equals source[sourceKey]. When the
// reference key repeats, the last row wins. Unmatched rows get nil.
func Lookup(source *Table, sourceKey string, ref *Table, refKey, refValue, newColumn string) (*Table, error) {
	sk, err := source.mustColumn(sourceKey)
	if err != nil {
		return nil, err
	}
	rk, err := ref.mustColumn(refKey)
	if err != nil {
		return nil, err
	}
	rv, err := ref.mustColumn(refValue)
	if err != nil {
		return nil, err
	}

	dict := make(map[string]Value, len(ref.Rows))
	for _, r := range ref.Rows {
		if key, ok := Key(r[rk]); ok {
			dict[key] = r[rv]
		}
	}

	values := make([]Value, len(source.Rows))
	for i, r := range source.Rows {
		if key, ok := Key(r[sk]); ok {
			values[i] = dict[key]
		}
	}

	out := source.Clone()
	if err := out.SetColumn(newColumn, values); err != nil {
		return nil, err
	}
	return out, nil
}

// Dictionary maps a cell's display string to its replacement.
type Dictionary map[string]Value

// DictionaryFromTable builds a dictionary from two columns of t.
// Rows with a missing source value are skipped; later rows win.
func DictionaryFromTable(t *Table, from, to string) (Dictionary, error) {
	fi, err := t.mustColumn(from)
	if err != nil {
		return nil, err
	}
	ti, err := t.mustColumn(to)
	if err != nil {
		return nil, err
	}
	dict := make(Dictionary, len(t.Rows))
	for _, r := range t.Rows {
		if r[fi] == nil {
			continue
		}
		dict[Format(r[fi])] = r[ti]
	}
	return dict, nil
}

// Remap substitutes cells of column in a single pass and returns how many
// cells changed. Replacement values are never remapped again.
func Remap(t *Table, column string, dict Dictionary) (int, error) {
	idx, err := t.mustColumn(column)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, r := range t.Rows {
		if r[idx] == nil {
			continue
		}
		repl, ok := dict[Format(r[idx])]
		if !ok {
			continue
		}
		if !Equal(r[idx], repl) {
			changed++
		}
		r[idx] = repl
	}
	return changed, nil
}

// Operator is an elementwise arithmetic operation.
type Operator string

const (
	OpAdd Operator = "add"
	OpSub Operator = "sub"
	OpMul Operator = "mul"
	OpDiv Operator = "div"
)

var (
	ErrUnknownOperator = errors.New("unknown operator")
	ErrNotNumeric      = errors.New("column is not numeric")
)

// ParseOperator accepts the operator names and their symbols.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "add", "+":
		return OpAdd, nil
	case "sub", "-":
		return OpSub, nil
	case "mul", "*", "x":
		return OpMul, nil
	case "div", "/":
		return OpDiv, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOperator, s)
	}
}

// Symbol returns the operator's arithmetic symbol.
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	}
	return "?"
}

// Arithmetic appends newColumn = a <op> b computed row by row.
// Missing operands give a missing result. Division follows IEEE-754:
// x/0 is ±Inf and 0/0 is missing.
func Arithmetic(t *Table, a, b string, op Operator, newColumn string) error {
	ai, err := t.mustColumn(a)
	if err != nil {
		return err
	}
	bi, err := t.mustColumn(b)
	if err != nil {
		return err
	}
	for _, c := range []string{a, b} {
		if !t.IsNumeric(c) {
			return fmt.Errorf("%w: %q", ErrNotNumeric, c)
		}
	}
	if _, err := ParseOperator(string(op)); err != nil {
		return err
	}

	values := make([]Value, len(t.Rows))
	for i, r := range t.Rows {
		x, okX := r[ai].(float64)
		y, okY := r[bi].(float64)
		if !okX || !okY {
			continue
		}
		var res float64
		switch op {
		case OpAdd:
			res = x + y
		case OpSub:
			res = x - y
		case OpMul:
			res = x * y
		case OpDiv:
			res = x / y
		}
		if math.IsNaN(res) {
			continue
		}
		values[i] = res
	}
	return t.SetColumn(newColumn, values)
}
