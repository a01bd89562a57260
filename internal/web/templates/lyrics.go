package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/lyrics"
)

// LyricsPage is the search form and the last result.
func LyricsPage(artist, title string, res *lyrics.Result) templ.Component {
	return component(func(h *html) {
		h.raw(`<section class="card"><form method="post" action="/m/lyrics/search" class="row">`)
		h.input("Artist", "artist", artist, "Coldplay")
		h.input("Song title", "title", title, "Yellow")
		h.raw(`<button type="submit">Search lyrics</button></form></section>`)

		if res == nil {
			return
		}
		h.rawf(`<section class="card"><h3>%s - %s</h3>`, res.Artist, res.Title)
		if res.Empty() {
			h.raw(`<p class="muted">The service returned no lyrics text for this song.</p>`)
		} else {
			h.rawf(`<pre class="lyrics">%s</pre>`, res.Lyrics)
			h.raw(`<a class="button" href="/m/lyrics/download">Download .txt</a>`)
		}
		h.raw(`</section>`)
	})
}
