package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/core/modules"
	"github.com/JonMunkholm/toolbox/internal/societary"
	"github.com/JonMunkholm/toolbox/internal/table"
	"github.com/JonMunkholm/toolbox/internal/web/templates"
)

// handleRegistryLoad loads a record from an upload, pasted text or the sample.
func (s *Server) handleRegistryLoad(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}

	source := r.FormValue("source")
	var data []byte
	switch source {
	case core.RegistryUpload:
		var err error
		if data, _, err = formFile(r, "file"); err != nil {
			s.render(w, r, modules.Societary, view{err: err})
			return
		}
	case core.RegistryPaste:
		data = []byte(r.FormValue("text"))
	}

	state, err := s.service.LoadRegistry(r.Context(), sessionFrom(r.Context()), source, data)
	if err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}
	s.render(w, r, modules.Societary, view{
		notice: fmt.Sprintf("Record loaded with %d partners.", len(state.Original.Partners)),
	})
}

// handleRegistrySave merges the edited grids and stores the modified JSON.
func (s *Server) handleRegistrySave(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}

	sess := sessionFrom(r.Context())
	if sess.Registry == nil {
		s.render(w, r, modules.Societary, view{err: core.ErrNoRegistry})
		return
	}

	views, err := viewsFromForm(r, sess.Registry.Views)
	if err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}
	if _, err := s.service.SaveRegistry(r.Context(), sess, views); err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}
	s.render(w, r, modules.Societary, view{notice: "Changes saved. Download the modified JSON below."})
}

// handleRegistryReset discards the loaded record.
func (s *Server) handleRegistryReset(w http.ResponseWriter, r *http.Request) {
	s.service.ResetRegistry(r.Context(), sessionFrom(r.Context()))
	s.render(w, r, modules.Societary, view{notice: "Editor cleared."})
}

// handleRegistryDownload sends the saved JSON.
func (s *Server) handleRegistryDownload(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.RegistryDownload(sessionFrom(r.Context()))
	if err != nil {
		s.render(w, r, modules.Societary, view{err: err})
		return
	}
	sendDownload(w, r, d)
}

// viewsFromForm rebuilds the four views from the editable grids. A view
// missing from the form is left nil.
func viewsFromForm(r *http.Request, current societary.Views) (societary.Views, error) {
	var (
		v   societary.Views
		err error
	)
	if v.Company, err = gridFromForm(r, templates.ViewCompany, current.Company); err != nil {
		return v, err
	}
	if v.Partners, err = gridFromForm(r, templates.ViewPartners, current.Partners); err != nil {
		return v, err
	}
	if v.Incoming, err = gridFromForm(r, templates.ViewIncoming, current.Incoming); err != nil {
		return v, err
	}
	if v.Outgoing, err = gridFromForm(r, templates.ViewOutgoing, current.Outgoing); err != nil {
		return v, err
	}
	return v, nil
}

// maxGridCells bounds a submitted grid.
const maxGridCells = 100000

// gridFromForm reads one grid written by templates.EditableGrid. Rows whose
// cells are all blank are dropped. Cells of columns that are numeric in
// current become numbers when they parse as one.
func gridFromForm(r *http.Request, prefix string, current *table.Table) (*table.Table, error) {
	if r.PostForm.Get(prefix+"-rows") == "" {
		return nil, nil
	}
	nrows, err := strconv.Atoi(r.PostForm.Get(prefix + "-rows"))
	if err != nil || nrows < 0 {
		return nil, fmt.Errorf("%s grid: invalid number %q of rows", prefix, r.PostForm.Get(prefix+"-rows"))
	}
	ncols, err := strconv.Atoi(r.PostForm.Get(prefix + "-cols"))
	if err != nil || ncols < 0 {
		return nil, fmt.Errorf("%s grid: invalid number %q of columns", prefix, r.PostForm.Get(prefix+"-cols"))
	}
	if nrows*ncols > maxGridCells {
		return nil, fmt.Errorf("%s grid: %w", prefix, core.ErrInvalidSize)
	}

	columns := make([]string, ncols)
	numeric := make([]bool, ncols)
	for j := range columns {
		columns[j] = r.PostForm.Get(fmt.Sprintf("%s-col-%d", prefix, j))
		numeric[j] = current != nil && current.ColumnIndex(columns[j]) >= 0 && current.IsNumeric(columns[j])
	}

	var rows [][]table.Value
	for i := 0; i < nrows; i++ {
		row := make([]table.Value, ncols)
		blank := true
		for j := range row {
			raw := strings.TrimSpace(r.PostForm.Get(fmt.Sprintf("%s-%d-%d", prefix, i, j)))
			if raw == "" {
				continue
			}
			if prefix == templates.ViewCompany && columns[j] == societary.ColField {
				row[j] = raw
				continue
			}
			blank = false
			row[j] = raw
			if numeric[j] {
				if f, ok := table.ParseNumber(raw); ok {
					row[j] = f
				}
			}
		}
		if blank && prefix != templates.ViewCompany {
			continue
		}
		rows = append(rows, row)
	}
	return table.New(columns, rows)
}
