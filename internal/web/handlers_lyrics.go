package web

import (
	"net/http"

	"github.com/JonMunkholm/toolbox/internal/core/modules"
)

// handleLyricsSearch looks up the lyrics of the submitted song.
func (s *Server) handleLyricsSearch(w http.ResponseWriter, r *http.Request) {
	v := view{artist: r.FormValue("artist"), title: r.FormValue("title")}

	res, err := s.service.SearchLyrics(r.Context(), sessionFrom(r.Context()), v.artist, v.title)
	switch {
	case err != nil:
		v.err = err
	case res.Empty():
		v.warning = "The service found the song but returned no lyrics."
	default:
		v.notice = "Lyrics found."
	}
	s.render(w, r, modules.Lyrics, v)
}

// handleLyricsDownload sends the last lyrics as a text file.
func (s *Server) handleLyricsDownload(w http.ResponseWriter, r *http.Request) {
	d, err := s.service.LyricsDownload(sessionFrom(r.Context()))
	if err != nil {
		s.render(w, r, modules.Lyrics, view{err: err})
		return
	}
	sendDownload(w, r, d)
}
