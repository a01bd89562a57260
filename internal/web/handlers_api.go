package web

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/societary"
	"github.com/JonMunkholm/toolbox/internal/table"
)

// TableJSON is the API form of a table. Non-finite numbers are sent as
// their display text ("inf", "-inf") since JSON has no encoding for them.
type TableJSON struct {
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
	Total   int             `json:"total_rows"`
}

func tableJSON(t *table.Table, limit int) TableJSON {
	if t == nil {
		return TableJSON{Columns: []string{}, Rows: [][]table.Value{}}
	}
	shown := t
	if limit > 0 {
		shown = t.Head(limit)
	}
	out := TableJSON{
		Columns: t.Columns,
		Rows:    make([][]table.Value, len(shown.Rows)),
		Total:   t.Len(),
	}
	for i, row := range shown.Rows {
		r := make([]table.Value, len(row))
		for j, v := range row {
			if f, ok := v.(float64); ok && (math.IsInf(f, 0) || math.IsNaN(f)) {
				v = table.Format(f)
			}
			r[j] = v
		}
		out.Rows[i] = r
	}
	return out
}

// Table converts the API form back to a table.
func (t TableJSON) Table() (*table.Table, error) {
	return table.New(t.Columns, t.Rows)
}

// DatasetJSON summarises a dataset.
type DatasetJSON struct {
	Name          string                 `json:"name"`
	Filename      string                 `json:"filename,omitempty"`
	Rows          int                    `json:"rows"`
	Columns       []string               `json:"columns"`
	Numeric       []string               `json:"numeric_columns"`
	Sheets        []string               `json:"sheets,omitempty"`
	SelectedSheet string                 `json:"selected_sheet,omitempty"`
	Size          int64                  `json:"size"`
	Created       time.Time              `json:"created"`
	History       []session.HistoryEntry `json:"history"`
	Data          *TableJSON             `json:"data,omitempty"`
}

func datasetJSON(d *session.Dataset) DatasetJSON {
	return DatasetJSON{
		Name:          d.Name,
		Filename:      d.Filename,
		Rows:          d.Data.Len(),
		Columns:       d.Data.Columns,
		Numeric:       d.Data.NumericColumns(),
		Sheets:        d.Sheets,
		SelectedSheet: d.SelectedSheet,
		Size:          d.Size,
		Created:       d.Created,
		History:       d.History,
	}
}

// ViewsJSON is the API form of the registry views.
type ViewsJSON struct {
	Company  *TableJSON `json:"company,omitempty"`
	Partners *TableJSON `json:"partners,omitempty"`
	Incoming *TableJSON `json:"incoming,omitempty"`
	Outgoing *TableJSON `json:"outgoing,omitempty"`
}

func viewsJSON(v societary.Views) ViewsJSON {
	c, p, i, o := tableJSON(v.Company, 0), tableJSON(v.Partners, 0), tableJSON(v.Incoming, 0), tableJSON(v.Outgoing, 0)
	return ViewsJSON{Company: &c, Partners: &p, Incoming: &i, Outgoing: &o}
}

// Views converts the API form back to views. Absent views stay nil.
func (v ViewsJSON) Views() (societary.Views, error) {
	var (
		out societary.Views
		err error
	)
	for _, p := range []struct {
		in  *TableJSON
		out **table.Table
	}{
		{v.Company, &out.Company},
		{v.Partners, &out.Partners},
		{v.Incoming, &out.Incoming},
		{v.Outgoing, &out.Outgoing},
	} {
		if p.in == nil {
			continue
		}
		if *p.out, err = p.in.Table(); err != nil {
			return out, err
		}
	}
	return out, nil
}

func (s *Server) apiModules(w http.ResponseWriter, r *http.Request) {
	all := core.All()
	infos := make([]core.ModuleInfo, len(all))
	for i, m := range all {
		infos[i] = m.Info
	}
	writeJSON(w, r, http.StatusOK, infos)
}

// LyricsJSON is the API form of a lyrics result.
type LyricsJSON struct {
	Artist string `json:"artist"`
	Title  string `json:"title"`
	Lyrics string `json:"lyrics"`
	Empty  bool   `json:"empty"`
}

func (s *Server) apiLyrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := s.service.SearchLyrics(r.Context(), sessionFrom(r.Context()), q.Get("artist"), q.Get("title"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, LyricsJSON{
		Artist: res.Artist,
		Title:  res.Title,
		Lyrics: res.Lyrics,
		Empty:  res.Empty(),
	})
}

// apiRegistryLoad parses the request body as a registry record and returns
// its views.
func (s *Server) apiRegistryLoad(w http.ResponseWriter, r *http.Request) {
	s.limitBody(w, r)
	body, err := readBody(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	source := core.RegistryPaste
	if r.URL.Query().Get("sample") == "true" {
		source = core.RegistrySample
	}
	state, err := s.service.LoadRegistry(r.Context(), sessionFrom(r.Context()), source, body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, viewsJSON(state.Views))
}

// apiRegistrySave merges edited views and returns the modified record.
func (s *Server) apiRegistrySave(w http.ResponseWriter, r *http.Request) {
	var in ViewsJSON
	if err := s.decodeJSON(w, r, &in); err != nil {
		s.respondError(w, r, err)
		return
	}
	views, err := in.Views()
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out, err := s.service.SaveRegistry(r.Context(), sessionFrom(r.Context()), views)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(out)
}

func (s *Server) apiRegistryDownload(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.RegistryDownload(sessionFrom(r.Context()))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	sendDownload(w, r, d)
}

func (s *Server) apiRegistryReset(w http.ResponseWriter, r *http.Request) {
	s.service.ResetRegistry(r.Context(), sessionFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiListDatasets(w http.ResponseWriter, r *http.Request) {
	ds := sessionFrom(r.Context()).Datasets()
	out := make([]DatasetJSON, len(ds))
	for i, d := range ds {
		out[i] = datasetJSON(d)
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) apiUploadDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, r, err)
		return
	}
	data, filename, err := formFile(r, "file")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.service.UploadDataset(r.Context(), sessionFrom(r.Context()), r.FormValue("name"), filename, data)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, datasetJSON(d))
}

// CreateRequest is the body of POST /api/datasets/empty.
type CreateRequest struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Cols    int      `json:"cols"`
	Columns []string `json:"columns"`
}

func (s *Server) apiCreateDataset(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.service.CreateDataset(r.Context(), sessionFrom(r.Context()), req.Name, req.Rows, req.Cols, req.Columns)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, datasetJSON(d))
}

// dataset writes the named dataset with up to ?limit= rows of data.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request, status int) {
	d, err := sessionFrom(r.Context()).Get(chi.URLParam(r, "name"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := datasetJSON(d)
	data := tableJSON(d.Data, parseIntParam(r, "limit", 0))
	out.Data = &data
	writeJSON(w, r, status, out)
}

func (s *Server) apiGetDataset(w http.ResponseWriter, r *http.Request) {
	s.dataset(w, r, http.StatusOK)
}

// mutated answers a dataset mutation with the updated dataset.
func (s *Server) mutated(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.dataset(w, r, http.StatusOK)
}

func (s *Server) apiRemoveDataset(w http.ResponseWriter, r *http.Request) {
	if err := s.service.RemoveDataset(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name")); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiSelectSheet(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Sheet string `json:"sheet"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.mutated(w, r, s.service.SelectSheet(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name"), req.Sheet))
}

func (s *Server) apiAddColumn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.mutated(w, r, s.service.AddColumn(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name"), req.Name))
}

func (s *Server) apiDropColumn(w http.ResponseWriter, r *http.Request) {
	s.mutated(w, r, s.service.DropColumn(r.Context(), sessionFrom(r.Context()),
		chi.URLParam(r, "name"), chi.URLParam(r, "column")))
}

// CellRequest is the body of PUT /api/datasets/{name}/cells.
type CellRequest struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

func (s *Server) apiEditCell(w http.ResponseWriter, r *http.Request) {
	var req CellRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.mutated(w, r, s.service.EditCell(r.Context(), sessionFrom(r.Context()),
		chi.URLParam(r, "name"), req.Row, req.Column, req.Value))
}

func (s *Server) apiAddRow(w http.ResponseWriter, r *http.Request) {
	s.mutated(w, r, s.service.AddRow(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name")))
}

func (s *Server) apiDeleteRow(w http.ResponseWriter, r *http.Request) {
	row, err := strconv.Atoi(chi.URLParam(r, "row"))
	if err != nil {
		s.respondError(w, r, table.ErrRowOutOfRange)
		return
	}
	s.mutated(w, r, s.service.DeleteRow(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name"), row))
}

func (s *Server) apiRestore(w http.ResponseWriter, r *http.Request) {
	s.mutated(w, r, s.service.RestoreOriginal(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name")))
}

// DescribeRequest is the body of POST /api/datasets/{name}/describe.
type DescribeRequest struct {
	Columns []string `json:"columns"`
	Save    bool     `json:"save"`
}

func (s *Server) apiDescribe(w http.ResponseWriter, r *http.Request) {
	var req DescribeRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	stats, err := s.service.Describe(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name"), req.Columns, req.Save)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, tableJSON(stats, 0))
}

// AnalysisJSON is the API form of core.Analysis.
type AnalysisJSON struct {
	Dataset  string             `json:"dataset"`
	Summary  table.Summary      `json:"summary"`
	Numeric  []string           `json:"numeric_columns"`
	Column   string             `json:"column,omitempty"`
	Counts   []table.ValueCount `json:"top_values,omitempty"`
	Describe *TableJSON         `json:"describe,omitempty"`
}

func (s *Server) apiAnalyze(w http.ResponseWriter, r *http.Request) {
	a, err := s.service.Analyze(r.Context(), sessionFrom(r.Context()), chi.URLParam(r, "name"), r.URL.Query().Get("column"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := AnalysisJSON{
		Dataset: a.Dataset,
		Summary: a.Summary,
		Numeric: a.Numeric,
		Column:  a.Column,
		Counts:  a.Counts,
	}
	if a.Describe != nil {
		d := tableJSON(a.Describe, 0)
		out.Describe = &d
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) apiExport(w http.ResponseWriter, r *http.Request) {
	format, err := core.ParseExportFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.service.Export(sessionFrom(r.Context()), chi.URLParam(r, "name"), format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	sendDownload(w, r, d)
}

func (s *Server) apiJoin(w http.ResponseWriter, r *http.Request) {
	var req core.JoinRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	d, err := s.service.Join(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, datasetJSON(d))
}

// CountResponse reports how many rows or cells an operation touched.
type CountResponse struct {
	Dataset string `json:"dataset"`
	Count   int    `json:"count"`
}

func (s *Server) apiLookup(w http.ResponseWriter, r *http.Request) {
	var req core.LookupRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	matched, err := s.service.Lookup(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, CountResponse{Dataset: req.Source, Count: matched})
}

func (s *Server) apiArithmetic(w http.ResponseWriter, r *http.Request) {
	var req core.ArithmeticRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	column, err := s.service.Arithmetic(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"dataset": req.Dataset, "column": column})
}

func (s *Server) apiRemapFile(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.respondError(w, r, err)
		return
	}
	data, filename, err := formFile(r, "file")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	req := core.RemapFileRequest{
		Dataset:  r.FormValue("dataset"),
		Column:   r.FormValue("column"),
		Filename: filename,
		Data:     data,
		From:     r.FormValue("from"),
		To:       r.FormValue("to"),
	}
	changed, err := s.service.RemapFromFile(r.Context(), sessionFrom(r.Context()), req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, CountResponse{Dataset: req.Dataset, Count: changed})
}

// RemapEntryJSON is one manual remap pair.
type RemapEntryJSON struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func remapJSON(entries []session.RemapEntry) []RemapEntryJSON {
	out := make([]RemapEntryJSON, len(entries))
	for i, e := range entries {
		out[i] = RemapEntryJSON{From: e.From, To: e.To}
	}
	return out
}

func (s *Server) apiRemapEntry(w http.ResponseWriter, r *http.Request) {
	var req RemapEntryJSON
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	sess := sessionFrom(r.Context())
	if err := s.service.AddRemapEntry(r.Context(), sess, req.From, req.To); err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, remapJSON(sess.Remap))
}

func (s *Server) apiRemapClear(w http.ResponseWriter, r *http.Request) {
	s.service.ClearRemap(r.Context(), sessionFrom(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) apiRemapApply(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Dataset string `json:"dataset"`
		Column  string `json:"column"`
	}
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	changed, err := s.service.ApplyManualRemap(r.Context(), sessionFrom(r.Context()), req.Dataset, req.Column)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, CountResponse{Dataset: req.Dataset, Count: changed})
}
