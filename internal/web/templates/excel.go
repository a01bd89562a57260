package templates

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/table"
)

// ExcelData is everything the table editor page shows.
type ExcelData struct {
	Datasets []*session.Dataset
	Current  *session.Dataset
	Preview  int // rows of the current dataset to show
	Remap    []session.RemapEntry
	Stats    *table.Table
	Analysis *core.Analysis
	MaxMB    int64
}

func (d ExcelData) names() []string {
	out := make([]string, len(d.Datasets))
	for i, ds := range d.Datasets {
		out[i] = ds.Name
	}
	return out
}

// allColumns lists the column names of every dataset, first-seen order.
func (d ExcelData) allColumns() []string {
	var out []string
	for _, ds := range d.Datasets {
		for _, c := range ds.Data.Columns {
			if !slices.Contains(out, c) {
				out = append(out, c)
			}
		}
	}
	return out
}

var (
	joinKinds = []string{"inner", "left", "right", "outer"}
	operators = []string{"add", "sub", "mul", "div"}
)

// ExcelPage renders the table editor.
func ExcelPage(d ExcelData) templ.Component {
	return component(func(h *html) {
		h.raw(`<datalist id="columns">`)
		for _, c := range d.allColumns() {
			h.rawf(`<option value="%s">`, c)
		}
		h.raw(`</datalist>`)

		h.raw(`<section class="card row">`)
		h.raw(`<form method="post" action="/m/excel/upload" enctype="multipart/form-data"><h3>Upload</h3>`)
		h.rawf(`<label>File (.csv, .xlsx, .xlsm, up to %d MB)<input type="file" name="file" accept=".csv,.xlsx,.xlsm"></label>`, d.MaxMB)
		h.input("Dataset name", "name", "", "defaults to the file name")
		h.raw(`<button type="submit">Upload</button></form>`)

		h.raw(`<form method="post" action="/m/excel/create"><h3>New table</h3>`)
		h.input("Dataset name", "name", "", "budget")
		h.raw(`<label>Rows<input type="number" name="rows" min="1" value="10"></label>`)
		h.raw(`<label>Columns<input type="number" name="cols" min="1" value="3"></label>`)
		h.input("Column names", "columns", "", "comma separated")
		h.raw(`<button type="submit">Create</button></form></section>`)

		if len(d.Datasets) == 0 {
			h.raw(`<p class="muted">No datasets yet. Upload a file or create a table to start.</p>`)
			return
		}

		h.render(datasetList(d))
		if d.Current != nil {
			h.render(currentDataset(d))
		}
		h.render(operationForms(d))

		if d.Stats != nil {
			h.raw(`<section class="card"><h3>Descriptive statistics</h3>`)
			h.render(TableGrid(d.Stats, 0))
			h.raw(`</section>`)
		}
		if d.Analysis != nil {
			h.render(analysisPanel(d.Analysis))
		}
	})
}

func datasetList(d ExcelData) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="card"><h3>Datasets</h3><table class="list"><thead><tr>`)
		h.raw(`<th>Name</th><th>Rows</th><th>Columns</th><th>File</th><th></th></tr></thead><tbody>`)
		for _, ds := range d.Datasets {
			class := ""
			if d.Current != nil && ds.Name == d.Current.Name {
				class = "active"
			}
			h.rawf(`<tr class="%s"><td>%s</td><td>%d</td><td>%d</td><td>%s</td><td class="actions">`,
				class, ds.Name, ds.Data.Len(), len(ds.Data.Columns), ds.Filename)
			h.raw(`<form method="post" action="/m/excel/select" class="inline">`)
			h.hidden("dataset", ds.Name)
			h.raw(`<button type="submit" class="secondary">Open</button></form>`)
			h.raw(`<form method="post" action="/m/excel/remove" class="inline">`)
			h.hidden("dataset", ds.Name)
			h.raw(`<button type="submit" class="danger">Remove</button></form></td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

func currentDataset(d ExcelData) templ.Component {
	ds := d.Current
	return component(func(h *html) {
		h.rawf(`<section class="card"><h3>%s</h3>`, ds.Name)
		if len(ds.Sheets) > 1 {
			h.raw(`<form method="post" action="/m/excel/sheet" class="row">`)
			h.hidden("dataset", ds.Name)
			h.selectField("Sheet", "sheet", ds.Sheets, ds.SelectedSheet)
			h.raw(`<button type="submit" class="secondary">Load sheet</button></form>`)
		}

		h.render(TableGrid(ds.Data, d.Preview))

		h.raw(`<div class="row">`)
		h.raw(`<form method="post" action="/m/excel/cell">`)
		h.hidden("dataset", ds.Name)
		h.raw(`<label>Row<input type="number" name="row" min="0" value="0"></label>`)
		h.selectField("Column", "column", ds.Data.Columns, "")
		h.input("Value", "value", "", "leave empty for missing")
		h.raw(`<button type="submit">Edit cell</button></form>`)

		h.raw(`<form method="post" action="/m/excel/column/add">`)
		h.hidden("dataset", ds.Name)
		h.input("New column", "column", "", "name")
		h.raw(`<button type="submit">Add column</button></form>`)

		h.raw(`<form method="post" action="/m/excel/column/drop">`)
		h.hidden("dataset", ds.Name)
		h.selectField("Column", "column", ds.Data.Columns, "")
		h.raw(`<button type="submit" class="danger">Drop column</button></form>`)

		h.raw(`<form method="post" action="/m/excel/row/add">`)
		h.hidden("dataset", ds.Name)
		h.raw(`<button type="submit">Add row</button></form>`)

		h.raw(`<form method="post" action="/m/excel/row/delete">`)
		h.hidden("dataset", ds.Name)
		h.raw(`<label>Row<input type="number" name="row" min="0" value="0"></label>`)
		h.raw(`<button type="submit" class="danger">Delete row</button></form>`)
		h.raw(`</div>`)

		h.raw(`<div class="row">`)
		h.raw(`<form method="post" action="/m/excel/restore">`)
		h.hidden("dataset", ds.Name)
		h.raw(`<button type="submit" class="secondary">Restore original</button></form>`)
		h.rawf(`<a class="button" href="/m/excel/export?dataset=%s&amp;format=csv">Export CSV</a>`, url.QueryEscape(ds.Name))
		h.rawf(`<a class="button" href="/m/excel/export?dataset=%s&amp;format=xlsx">Export Excel</a>`, url.QueryEscape(ds.Name))
		h.raw(`</div>`)

		if len(ds.History) > 0 {
			h.raw(`<details><summary>History</summary><ol>`)
			for _, e := range ds.History {
				h.rawf(`<li><time>%s</time> %s: %s</li>`, e.At.Format("15:04:05"), e.Action, e.Detail)
			}
			h.raw(`</ol></details>`)
		}
		h.raw(`</section>`)
	})
}

func operationForms(d ExcelData) templ.Component {
	names := d.names()
	current := ""
	if d.Current != nil {
		current = d.Current.Name
	}
	return component(func(h *html) {
		h.raw(`<section class="card"><h3>Join</h3><form method="post" action="/m/excel/join" class="row">`)
		h.selectField("Left", "left", names, current)
		h.selectField("Right", "right", names, "")
		h.raw(`<label>Left key<input type="text" name="left_key" list="columns"></label>`)
		h.raw(`<label>Right key<input type="text" name="right_key" list="columns"></label>`)
		h.selectField("Kind", "kind", joinKinds, "inner")
		h.input("Result name", "result", "", "left_right_kind")
		h.raw(`<button type="submit">Join</button></form></section>`)

		h.raw(`<section class="card"><h3>Lookup (PROCV)</h3><form method="post" action="/m/excel/lookup" class="row">`)
		h.selectField("Source", "source", names, current)
		h.raw(`<label>Source key<input type="text" name="source_key" list="columns"></label>`)
		h.selectField("Reference", "reference", names, "")
		h.raw(`<label>Reference key<input type="text" name="ref_key" list="columns"></label>`)
		h.raw(`<label>Value column<input type="text" name="ref_value" list="columns"></label>`)
		h.input("New column", "new_column", "", "defaults to value column")
		h.raw(`<button type="submit">Lookup</button></form></section>`)

		h.raw(`<section class="card"><h3>Remap (DE/PARA)</h3>`)
		h.raw(`<form method="post" action="/m/excel/remap/file" enctype="multipart/form-data" class="row">`)
		h.selectField("Dataset", "dataset", names, current)
		h.raw(`<label>Column<input type="text" name="column" list="columns"></label>`)
		h.raw(`<label>Mapping file<input type="file" name="file" accept=".csv,.xlsx,.xlsm"></label>`)
		h.input("From column", "from", "", "first column")
		h.input("To column", "to", "", "second column")
		h.raw(`<button type="submit">Apply file</button></form>`)

		h.raw(`<form method="post" action="/m/excel/remap/entry" class="row">`)
		h.input("From", "from", "", "old value")
		h.input("To", "to", "", "new value")
		h.raw(`<button type="submit" class="secondary">Add pair</button></form>`)
		if len(d.Remap) > 0 {
			h.raw(`<table class="list"><thead><tr><th>From</th><th>To</th></tr></thead><tbody>`)
			for _, e := range d.Remap {
				h.rawf(`<tr><td>%s</td><td>%s</td></tr>`, e.From, e.To)
			}
			h.raw(`</tbody></table>`)
			h.raw(`<form method="post" action="/m/excel/remap/apply" class="row">`)
			h.selectField("Dataset", "dataset", names, current)
			h.raw(`<label>Column<input type="text" name="column" list="columns"></label>`)
			h.raw(`<button type="submit">Apply pairs</button></form>`)
			h.raw(`<form method="post" action="/m/excel/remap/clear" class="inline">`)
			h.raw(`<button type="submit" class="danger">Clear pairs</button></form>`)
		}
		h.raw(`</section>`)

		h.raw(`<section class="card"><h3>Arithmetic</h3><form method="post" action="/m/excel/arithmetic" class="row">`)
		h.selectField("Dataset", "dataset", names, current)
		h.raw(`<label>Column A<input type="text" name="a" list="columns"></label>`)
		h.selectField("Operation", "op", operators, "add")
		h.raw(`<label>Column B<input type="text" name="b" list="columns"></label>`)
		h.input("New column", "new_column", "", "A + B")
		h.raw(`<button type="submit">Calculate</button></form></section>`)

		h.raw(`<section class="card row"><form method="post" action="/m/excel/describe"><h3>Statistics</h3>`)
		h.selectField("Dataset", "dataset", names, current)
		h.input("Columns", "columns", "", "all numeric columns")
		h.raw(`<label class="check"><input type="checkbox" name="save" value="1"> Save as dataset</label>`)
		h.raw(`<button type="submit">Describe</button></form>`)
		h.raw(`<form method="post" action="/m/excel/analyze"><h3>Analysis</h3>`)
		h.selectField("Dataset", "dataset", names, current)
		h.raw(`<label>Column<input type="text" name="column" list="columns"></label>`)
		h.raw(`<button type="submit">Analyze</button></form></section>`)
	})
}

func analysisPanel(a *core.Analysis) templ.Component {
	return component(func(h *html) {
		h.rawf(`<section class="card"><h3>Analysis of %s</h3><dl class="stats">`, a.Dataset)
		for _, kv := range []struct {
			label string
			value int
		}{
			{"Rows", a.Summary.Rows},
			{"Columns", a.Summary.Columns},
			{"Empty cells", a.Summary.NullCells},
			{"Filled cells", a.Summary.FilledCells},
		} {
			h.rawf(`<dt>%s</dt><dd>%d</dd>`, kv.label, kv.value)
		}
		h.raw(`</dl>`)
		if len(a.Numeric) > 0 {
			h.raw(`<p>Numeric columns: `)
			for i, c := range a.Numeric {
				if i > 0 {
					h.raw(`, `)
				}
				h.text(c)
			}
			h.raw(`</p>`)
		}
		if a.Column != "" {
			h.rawf(`<h4>Top values of %s</h4><table class="list"><tbody>`, a.Column)
			for _, vc := range a.Counts {
				h.rawf(`<tr><td>%s</td><td>%s</td></tr>`, vc.Value, fmt.Sprint(vc.Count))
			}
			h.raw(`</tbody></table>`)
			if a.Describe != nil {
				h.render(TableGrid(a.Describe, 0))
			}
		}
		h.raw(`</section>`)
	})
}
