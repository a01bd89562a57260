// Package templates holds the HTML components of the toolbox UI.
//
// Components implement templ.Component so handlers render them the same
// way whether they produce a full page or a fragment.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// html writes markup and remembers the first write error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

// raw writes trusted markup.
func (h *html) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// rawf writes trusted markup built from format and escaped arguments.
// Only format is trusted: every argument other than a number or bool is
// rendered with fmt.Sprint and escaped, so named string types and
// Stringers carrying user text cannot inject markup.
func (h *html) rawf(format string, args ...any) {
	for i, a := range args {
		switch a.(type) {
		case int, int64, float64, bool:
		default:
			args[i] = templ.EscapeString(fmt.Sprint(a))
		}
	}
	h.raw(fmt.Sprintf(format, args...))
}

// text writes escaped text.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// render writes a child component.
func (h *html) render(c templ.Component) {
	if h.err != nil || c == nil {
		return
	}
	h.err = c.Render(h.ctx, h.w)
}

// component adapts a body writer to templ.Component.
func component(body func(h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		body(h)
		return h.err
	})
}

// option writes an <option>, selected when value equals current.
func (h *html) option(value, label, current string) {
	if value == current {
		h.rawf(`<option value="%s" selected>%s</option>`, value, label)
		return
	}
	h.rawf(`<option value="%s">%s</option>`, value, label)
}

// selectField writes a labelled <select> of values.
func (h *html) selectField(label, name string, values []string, current string) {
	h.rawf(`<label>%s<select name="%s">`, label, name)
	for _, v := range values {
		h.option(v, v, current)
	}
	h.raw(`</select></label>`)
}

// input writes a labelled text input.
func (h *html) input(label, name, value, placeholder string) {
	h.rawf(`<label>%s<input type="text" name="%s" value="%s" placeholder="%s"></label>`,
		label, name, value, placeholder)
}

// hidden writes a hidden input.
func (h *html) hidden(name, value string) {
	h.rawf(`<input type="hidden" name="%s" value="%s">`, name, value)
}
