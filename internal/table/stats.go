package table

import (
	"math"
	"sort"
)

// StatLabels are the row labels of a Describe result.
var StatLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Describe summarises numeric columns. The result has a "statistic" column
// followed by one column per described column. Non-numeric columns are
// rejected; an empty list describes every numeric column. Repeated names
// are described once.
func Describe(t *Table, columns []string) (*Table, error) {
	if len(columns) == 0 {
		columns = t.NumericColumns()
	}
	columns = dedupe(columns)
	if len(columns) == 0 {
		return nil, ErrNotNumeric
	}

	rows := make([][]Value, len(StatLabels))
	for i, l := range StatLabels {
		rows[i] = make([]Value, len(columns)+1)
		rows[i][0] = l
	}
	out, err := New(append([]string{"statistic"}, columns...), rows)
	if err != nil {
		return nil, err
	}

	for c, name := range columns {
		idx, err := t.mustColumn(name)
		if err != nil {
			return nil, err
		}
		if !t.IsNumeric(name) {
			return nil, &ValueError{Value: name, Reason: ErrNotNumeric.Error()}
		}
		var xs []float64
		for _, r := range t.Rows {
			if f, ok := r[idx].(float64); ok {
				xs = append(xs, f)
			}
		}
		for i, v := range summarize(xs) {
			out.Rows[i][c+1] = v
		}
	}
	return out, nil
}

func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func summarize(xs []float64) []Value {
	res := make([]Value, len(StatLabels))
	n := len(xs)
	res[0] = float64(n)
	if n == 0 {
		return res
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / float64(n)
	res[1] = mean

	if n > 1 {
		var ss float64
		for _, x := range xs {
			ss += (x - mean) * (x - mean)
		}
		res[2] = math.Sqrt(ss / float64(n-1))
	}
	res[3] = sorted[0]
	res[4] = quantile(sorted, 0.25)
	res[5] = quantile(sorted, 0.50)
	res[6] = quantile(sorted, 0.75)
	res[7] = sorted[n-1]
	return res
}

// quantile uses linear interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Summary counts rows, columns and missing cells.
type Summary struct {
	Rows        int `json:"rows"`
	Columns     int `json:"columns"`
	NullCells   int `json:"null_cells"`
	FilledCells int `json:"filled_cells"`
}

// Analyze summarises the table shape. Empty strings count as missing.
func Analyze(t *Table) Summary {
	s := Summary{Rows: len(t.Rows), Columns: len(t.Columns)}
	for _, r := range t.Rows {
		for _, v := range r {
			if v == nil || v == "" {
				s.NullCells++
			} else {
				s.FilledCells++
			}
		}
	}
	return s
}

// ValueCount is one distinct value and its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts returns the n most frequent non-missing values of a column,
// most frequent first. Ties keep first-appearance order. n <= 0 means all.
func ValueCounts(t *Table, column string, n int) ([]ValueCount, error) {
	idx, err := t.mustColumn(column)
	if err != nil {
		return nil, err
	}
	pos := map[string]int{}
	var counts []ValueCount
	for _, r := range t.Rows {
		if r[idx] == nil {
			continue
		}
		s := Format(r[idx])
		if i, ok := pos[s]; ok {
			counts[i].Count++
			continue
		}
		pos[s] = len(counts)
		counts = append(counts, ValueCount{Value: s, Count: 1})
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if n > 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts, nil
}
