package templates

import (
	"fmt"
	"slices"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/table"
)

// TableGrid renders up to limit rows of t. limit <= 0 shows every row.
func TableGrid(t *table.Table, limit int) templ.Component {
	return component(func(h *html) {
		if t == nil {
			return
		}
		shown := t
		if limit > 0 && t.Len() > limit {
			shown = t.Head(limit)
		}

		h.raw(`<div class="grid"><table><thead><tr><th>#</th>`)
		for _, c := range t.Columns {
			h.rawf(`<th>%s</th>`, c)
		}
		h.raw(`</tr></thead><tbody>`)
		for i, row := range shown.Rows {
			h.rawf(`<tr><td class="index">%d</td>`, i)
			for _, v := range row {
				if v == nil {
					h.raw(`<td class="missing"></td>`)
					continue
				}
				h.rawf(`<td>%s</td>`, table.Format(v))
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
		if shown.Len() < t.Len() {
			h.rawf(`<p class="muted">Showing %d of %d rows.</p>`, shown.Len(), t.Len())
		}
	})
}

// EditableGrid renders t as form inputs named "<prefix>-<row>-<col>", with
// the column names in "<prefix>-col-<col>" and the counts in "<prefix>-rows"
// and "<prefix>-cols". Columns in readonly are sent as hidden inputs. With
// blankRow an empty row is appended for additions.
func EditableGrid(prefix string, t *table.Table, readonly []string, blankRow bool) templ.Component {
	return component(func(h *html) {
		if t == nil {
			return
		}
		rows := t.Len()
		if blankRow {
			rows++
		}
		h.hidden(prefix+"-rows", fmt.Sprint(rows))
		h.hidden(prefix+"-cols", fmt.Sprint(len(t.Columns)))
		for j, c := range t.Columns {
			h.hidden(fmt.Sprintf("%s-col-%d", prefix, j), c)
		}

		h.raw(`<div class="grid"><table><thead><tr>`)
		for _, c := range t.Columns {
			h.rawf(`<th>%s</th>`, c)
		}
		h.raw(`</tr></thead><tbody>`)
		for i := 0; i < rows; i++ {
			h.raw(`<tr>`)
			for j, c := range t.Columns {
				value := ""
				if i < t.Len() {
					value = table.Format(t.Rows[i][j])
				}
				name := fmt.Sprintf("%s-%d-%d", prefix, i, j)
				if slices.Contains(readonly, c) {
					h.rawf(`<td class="label">%s`, value)
					h.hidden(name, value)
					h.raw(`</td>`)
					continue
				}
				h.rawf(`<td><input type="text" name="%s" value="%s"></td>`, name, value)
			}
			h.raw(`</tr>`)
		}
		h.raw(`</tbody></table></div>`)
	})
}
