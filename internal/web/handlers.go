package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/core/modules"
	"github.com/JonMunkholm/toolbox/internal/logging"
	"github.com/JonMunkholm/toolbox/internal/session"
	"github.com/JonMunkholm/toolbox/internal/table"
	"github.com/JonMunkholm/toolbox/internal/web/templates"
)

// DefaultPreviewRows is how many rows of the open dataset a page shows
// unless ?rows= asks for more.
const DefaultPreviewRows = 100

// view is the per-request page state that is not kept in the session.
type view struct {
	notice   string
	warning  string
	err      error
	artist   string
	title    string
	stats    *table.Table
	analysis *core.Analysis
}

// handleIndex redirects to the first module.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	key := sessionFrom(r.Context()).Module
	if _, ok := core.Get(key); !ok {
		first, ok := core.First()
		if !ok {
			http.Error(w, "no modules registered", http.StatusInternalServerError)
			return
		}
		key = first.Info.Key
	}
	http.Redirect(w, r, "/m/"+key, http.StatusSeeOther)
}

// handleModule renders a module page.
func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, chi.URLParam(r, "module"), view{})
}

// render writes the page of module with v. An error in v is logged, shown
// inline and sets the response status.
func (s *Server) render(w http.ResponseWriter, r *http.Request, module string, v view) {
	def, ok := core.Get(module)
	if !ok {
		http.NotFound(w, r)
		return
	}
	sess := sessionFrom(r.Context())
	sess.Module = module

	page := templates.Page{
		Modules: core.All(),
		Active:  def,
		Notice:  v.notice,
		Warning: v.warning,
		Body:    s.moduleBody(r, sess, module, v),
	}
	status := http.StatusOK
	if v.err != nil {
		msg, code := mapError(r, v.err)
		page.Error, status = &msg, code
		page.Notice = ""
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(page).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "module", module, "error", err)
	}
}

func (s *Server) moduleBody(r *http.Request, sess *session.Session, module string, v view) templ.Component {
	switch module {
	case modules.Lyrics:
		artist, title := v.artist, v.title
		if artist == "" && title == "" && sess.Lyrics != nil {
			artist, title = sess.Lyrics.Artist, sess.Lyrics.Title
		}
		return templates.LyricsPage(artist, title, sess.Lyrics)
	case modules.Societary:
		return templates.RegistryPage(sess.Registry)
	case modules.Excel:
		data := templates.ExcelData{
			Datasets: sess.Datasets(),
			Preview:  parseIntParam(r, "rows", DefaultPreviewRows),
			Remap:    sess.Remap,
			Stats:    v.stats,
			Analysis: v.analysis,
			MaxMB:    s.service.MaxFileSize() >> 20,
		}
		if d, err := sess.Get(sess.Current); err == nil {
			data.Current = d
		}
		return templates.ExcelPage(data)
	}
	return nil
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status   string                   `json:"status"`
	Sessions int                      `json:"sessions"`
	Modules  int                      `json:"modules"`
	Uploads  core.UploadLimiterStatus `json:"uploads"`
}

// handleHealth reports liveness and upload load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, healthResponse{
		Status:   "ok",
		Sessions: s.sessions.Len(),
		Modules:  core.ModuleCount(),
		Uploads:  s.service.UploadLimiterStatus(),
	})
}
