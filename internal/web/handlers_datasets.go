package web

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/core/modules"
	"github.com/JonMunkholm/toolbox/internal/session"
)

// excel renders the table editor with a notice, or with err when set.
func (s *Server) excel(w http.ResponseWriter, r *http.Request, err error, notice string, args ...any) {
	if err != nil {
		s.render(w, r, modules.Excel, view{err: err})
		return
	}
	s.render(w, r, modules.Excel, view{notice: fmt.Sprintf(notice, args...)})
}

func datasetName(d *session.Dataset) string {
	if d == nil {
		return ""
	}
	return d.Name
}

// form parses the request form, rendering the editor on failure.
func (s *Server) form(w http.ResponseWriter, r *http.Request) bool {
	if err := s.parseForm(w, r); err != nil {
		s.render(w, r, modules.Excel, view{err: err})
		return false
	}
	return true
}

func (s *Server) handleDatasetUpload(w http.ResponseWriter, r *http.Request) {
	if !s.form(w, r) {
		return
	}
	data, filename, err := formFile(r, "file")
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	d, err := s.service.UploadDataset(r.Context(), sessionFrom(r.Context()), r.FormValue("name"), filename, data)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	s.excel(w, r, nil, "Loaded %s: %d rows, %d columns.", d.Name, d.Data.Len(), len(d.Data.Columns))
}

func (s *Server) handleDatasetCreate(w http.ResponseWriter, r *http.Request) {
	if !s.form(w, r) {
		return
	}
	rows, err := formInt(r, "rows", 0)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	cols, err := formInt(r, "cols", 0)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	d, err := s.service.CreateDataset(r.Context(), sessionFrom(r.Context()),
		r.FormValue("name"), rows, cols, splitList(r.FormValue("columns")))
	s.excel(w, r, err, "Created %s.", datasetName(d))
}

func (s *Server) handleDatasetSelect(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("dataset")
	err := s.service.SelectDataset(sessionFrom(r.Context()), name)
	s.excel(w, r, err, "Opened %s.", name)
}

func (s *Server) handleDatasetRemove(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("dataset")
	err := s.service.RemoveDataset(r.Context(), sessionFrom(r.Context()), name)
	s.excel(w, r, err, "Removed %s.", name)
}

func (s *Server) handleDatasetSheet(w http.ResponseWriter, r *http.Request) {
	name, sheet := r.FormValue("dataset"), r.FormValue("sheet")
	err := s.service.SelectSheet(r.Context(), sessionFrom(r.Context()), name, sheet)
	s.excel(w, r, err, "Loaded sheet %s.", sheet)
}

func (s *Server) handleColumnAdd(w http.ResponseWriter, r *http.Request) {
	column := strings.TrimSpace(r.FormValue("column"))
	err := s.service.AddColumn(r.Context(), sessionFrom(r.Context()), r.FormValue("dataset"), column)
	s.excel(w, r, err, "Added column %s.", column)
}

func (s *Server) handleColumnDrop(w http.ResponseWriter, r *http.Request) {
	column := r.FormValue("column")
	err := s.service.DropColumn(r.Context(), sessionFrom(r.Context()), r.FormValue("dataset"), column)
	s.excel(w, r, err, "Dropped column %s.", column)
}

func (s *Server) handleCellEdit(w http.ResponseWriter, r *http.Request) {
	row, err := formInt(r, "row", -1)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	column := r.FormValue("column")
	err = s.service.EditCell(r.Context(), sessionFrom(r.Context()), r.FormValue("dataset"), row, column, r.FormValue("value"))
	s.excel(w, r, err, "Updated row %d of %s.", row, column)
}

func (s *Server) handleRowAdd(w http.ResponseWriter, r *http.Request) {
	err := s.service.AddRow(r.Context(), sessionFrom(r.Context()), r.FormValue("dataset"))
	s.excel(w, r, err, "Added a row.")
}

func (s *Server) handleRowDelete(w http.ResponseWriter, r *http.Request) {
	row, err := formInt(r, "row", -1)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	err = s.service.DeleteRow(r.Context(), sessionFrom(r.Context()), r.FormValue("dataset"), row)
	s.excel(w, r, err, "Deleted row %d.", row)
}

func (s *Server) handleDatasetRestore(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("dataset")
	err := s.service.RestoreOriginal(r.Context(), sessionFrom(r.Context()), name)
	s.excel(w, r, err, "Restored %s to its original data.", name)
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.Join(r.Context(), sessionFrom(r.Context()), core.JoinRequest{
		Left:     r.FormValue("left"),
		Right:    r.FormValue("right"),
		LeftKey:  strings.TrimSpace(r.FormValue("left_key")),
		RightKey: strings.TrimSpace(r.FormValue("right_key")),
		Kind:     r.FormValue("kind"),
		Result:   r.FormValue("result"),
	})
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	s.excel(w, r, nil, "Join saved as %s with %d rows.", d.Name, d.Data.Len())
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	req := core.LookupRequest{
		Source:    r.FormValue("source"),
		SourceKey: strings.TrimSpace(r.FormValue("source_key")),
		Reference: r.FormValue("reference"),
		RefKey:    strings.TrimSpace(r.FormValue("ref_key")),
		RefValue:  strings.TrimSpace(r.FormValue("ref_value")),
		NewColumn: strings.TrimSpace(r.FormValue("new_column")),
	}
	matched, err := s.service.Lookup(r.Context(), sessionFrom(r.Context()), req)
	s.excel(w, r, err, "Lookup matched %d rows of %s.", matched, req.Source)
}

func (s *Server) handleRemapFile(w http.ResponseWriter, r *http.Request) {
	if !s.form(w, r) {
		return
	}
	data, filename, err := formFile(r, "file")
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	changed, err := s.service.RemapFromFile(r.Context(), sessionFrom(r.Context()), core.RemapFileRequest{
		Dataset:  r.FormValue("dataset"),
		Column:   strings.TrimSpace(r.FormValue("column")),
		Filename: filename,
		Data:     data,
		From:     strings.TrimSpace(r.FormValue("from")),
		To:       strings.TrimSpace(r.FormValue("to")),
	})
	s.excel(w, r, err, "Remapped %d cells.", changed)
}

func (s *Server) handleRemapEntry(w http.ResponseWriter, r *http.Request) {
	from, to := r.FormValue("from"), r.FormValue("to")
	err := s.service.AddRemapEntry(r.Context(), sessionFrom(r.Context()), from, to)
	s.excel(w, r, err, "Added %s → %s.", from, to)
}

func (s *Server) handleRemapClear(w http.ResponseWriter, r *http.Request) {
	s.service.ClearRemap(r.Context(), sessionFrom(r.Context()))
	s.excel(w, r, nil, "Cleared the remap pairs.")
}

func (s *Server) handleRemapApply(w http.ResponseWriter, r *http.Request) {
	changed, err := s.service.ApplyManualRemap(r.Context(), sessionFrom(r.Context()),
		r.FormValue("dataset"), strings.TrimSpace(r.FormValue("column")))
	s.excel(w, r, err, "Remapped %d cells.", changed)
}

func (s *Server) handleArithmetic(w http.ResponseWriter, r *http.Request) {
	column, err := s.service.Arithmetic(r.Context(), sessionFrom(r.Context()), core.ArithmeticRequest{
		Dataset:   r.FormValue("dataset"),
		A:         strings.TrimSpace(r.FormValue("a")),
		B:         strings.TrimSpace(r.FormValue("b")),
		Op:        r.FormValue("op"),
		NewColumn: strings.TrimSpace(r.FormValue("new_column")),
	})
	s.excel(w, r, err, "Added column %s.", column)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("dataset")
	save := r.FormValue("save") != ""
	stats, err := s.service.Describe(r.Context(), sessionFrom(r.Context()), name, splitList(r.FormValue("columns")), save)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	v := view{stats: stats}
	if save {
		v.notice = fmt.Sprintf("Statistics saved as %s.", core.StatsName(name))
	}
	s.render(w, r, modules.Excel, v)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.Analyze(r.Context(), sessionFrom(r.Context()),
		r.FormValue("dataset"), strings.TrimSpace(r.FormValue("column")))
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	s.render(w, r, modules.Excel, view{analysis: a})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	d, err := s.service.Export(sessionFrom(r.Context()), r.URL.Query().Get("dataset"), format)
	if err != nil {
		s.excel(w, r, err, "")
		return
	}
	sendDownload(w, r, d)
}
