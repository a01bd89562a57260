package templates

import (
	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/core"
)

// Page is the shell around a module: sidebar, header, alerts and help.
type Page struct {
	Modules []core.ModuleDefinition
	Active  core.ModuleDefinition
	Notice  string
	Warning string
	Error   *core.UserMessage
	Body    templ.Component
}

// Layout renders a full HTML document.
func Layout(p Page) templ.Component {
	return component(func(h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.rawf(`<title>%s | Toolbox</title>`, p.Active.Info.Label)
		h.raw(`<link rel="stylesheet" href="/static/app.css"></head><body>`)

		h.raw(`<nav class="sidebar"><h1>Toolbox</h1><ul>`)
		for _, m := range p.Modules {
			class := ""
			if m.Info.Key == p.Active.Info.Key {
				class = "active"
			}
			h.rawf(`<li class="%s"><a href="/m/%s"><span class="icon">%s</span> %s</a></li>`,
				class, m.Info.Key, m.Info.Icon, m.Info.Label)
		}
		h.raw(`</ul></nav>`)

		h.raw(`<main>`)
		h.rawf(`<header><h2>%s %s</h2><p>%s</p></header>`,
			p.Active.Info.Icon, p.Active.Info.Label, p.Active.Info.Description)
		if p.Error != nil {
			h.render(ErrorAlert(p.Error.Message, p.Error.Action, p.Error.Code))
		}
		if p.Warning != "" {
			h.render(Alert("warning", p.Warning))
		}
		if p.Notice != "" {
			h.render(Alert("success", p.Notice))
		}
		h.render(p.Body)
		h.render(HelpPanel(p.Active.Help))
		h.raw(`</main></body></html>`)
	})
}

// ErrorAlert renders a user-facing error with its support code.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(h *html) {
		h.rawf(`<div class="alert error" role="alert"><strong>%s</strong>`, message)
		if action != "" {
			h.rawf(`<p>%s</p>`, action)
		}
		if code != "" {
			h.rawf(`<small>Code: %s</small>`, code)
		}
		h.raw(`</div>`)
	})
}

// Alert renders a one-line message of the given kind (success, warning).
func Alert(kind, message string) templ.Component {
	return component(func(h *html) {
		h.rawf(`<div class="alert %s" role="status">%s</div>`, kind, message)
	})
}

// HelpPanel renders usage notes.
func HelpPanel(lines []string) templ.Component {
	return component(func(h *html) {
		if len(lines) == 0 {
			return
		}
		h.raw(`<details class="help"><summary>Help</summary><ul>`)
		for _, l := range lines {
			h.rawf(`<li>%s</li>`, l)
		}
		h.raw(`</ul></details>`)
	})
}
