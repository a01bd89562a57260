package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/societary"
	"github.com/JonMunkholm/toolbox/internal/table"
)

// Registry view form prefixes.
const (
	ViewCompany  = "company"
	ViewPartners = "partners"
	ViewIncoming = "incoming"
	ViewOutgoing = "outgoing"
)

var nameColumns = []string{societary.ColName}

// withColumns gives an empty view default columns so rows can be added.
func withColumns(t *table.Table, columns []string) *table.Table {
	if t != nil && len(t.Columns) > 0 {
		return t
	}
	return &table.Table{Columns: columns}
}

// RegistryPage shows the load form, or the editable views of the loaded record.
func RegistryPage(state *session.RegistryState) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="card"><h3>Load a record</h3>`)
		h.raw(`<form method="post" action="/m/societary/load" enctype="multipart/form-data">`)
		h.raw(`<input type="hidden" name="source" value="upload">`)
		h.raw(`<label>JSON file<input type="file" name="file" accept=".json,application/json"></label>`)
		h.raw(`<button type="submit">Upload</button></form>`)
		h.raw(`<form method="post" action="/m/societary/load">`)
		h.raw(`<input type="hidden" name="source" value="paste">`)
		h.raw(`<label>Paste JSON<textarea name="text" rows="6"></textarea></label>`)
		h.raw(`<button type="submit">Load text</button></form>`)
		h.raw(`<form method="post" action="/m/societary/load">`)
		h.raw(`<input type="hidden" name="source" value="sample">`)
		h.raw(`<button type="submit" class="secondary">Use sample</button></form></section>`)

		if state == nil {
			return
		}

		h.rawf(`<form method="post" action="/m/societary/save" class="card"><p class="muted">Source: %s</p>`, state.Source)
		h.raw(`<h3>Company</h3>`)
		h.render(EditableGrid(ViewCompany, state.Views.Company, []string{societary.ColField}, false))
		h.raw(`<h3>Partners</h3>`)
		h.render(EditableGrid(ViewPartners, withColumns(state.Views.Partners, societary.PartnerKeys), nil, true))
		h.raw(`<div class="row"><div><h3>Incoming partners</h3>`)
		h.render(EditableGrid(ViewIncoming, withColumns(state.Views.Incoming, nameColumns), nil, true))
		h.raw(`</div><div><h3>Outgoing partners</h3>`)
		h.render(EditableGrid(ViewOutgoing, withColumns(state.Views.Outgoing, nameColumns), nil, true))
		h.raw(`</div></div>`)
		h.raw(`<p class="muted">Clear every cell of a row to remove it.</p>`)
		h.raw(`<button type="submit">Save changes</button></form>`)

		h.raw(`<form method="post" action="/m/societary/reset" class="inline">`)
		h.raw(`<button type="submit" class="secondary">Start over</button></form>`)

		if state.Modified != nil {
			h.raw(`<section class="card"><h3>Modified record</h3>`)
			h.rawf(`<pre class="json">%s</pre>`, string(state.Modified))
			h.raw(`<a class="button" href="/m/societary/download">Download JSON</a></section>`)
		}
	})
}
