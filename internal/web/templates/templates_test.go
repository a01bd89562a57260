package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/toolbox/internal/core"
	"github.com/JonMunkholm/toolbox/internal/table"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	if err := c.Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	return buf.String()
}

func mustTable(t *testing.T, columns []string, rows [][]table.Value) *table.Table {
	t.Helper()
	tbl, err := table.New(columns, rows)
	if err != nil {
		t.Fatal(err)
	}
	return tbl
}

func TestLayout(t *testing.T) {
	mods := []core.ModuleDefinition{
		{Info: core.ModuleInfo{Key: "a", Label: "Alpha"}},
		{Info: core.ModuleInfo{Key: "b", Label: "Beta"}, Help: []string{"Use <b> wisely"}},
	}
	out := renderString(t, Layout(Page{
		Modules: mods,
		Active:  mods[1],
		Notice:  `saved "<x>"`,
		Error:   &core.UserMessage{Message: "Broken", Action: "Retry", Code: "ERR000"},
		Body:    templ.Raw(`<p id="body"></p>`),
	}))

	for _, want := range []string{
		"<title>Beta | Toolbox</title>",
		`<li class=""><a href="/m/a">`,
		`<li class="active"><a href="/m/b">`,
		"saved &#34;&lt;x&gt;&#34;",
		"<strong>Broken</strong>",
		"Code: ERR000",
		`<p id="body"></p>`,
		"Use &lt;b&gt; wisely",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("layout does not contain %q", want)
		}
	}
}

func TestTableGrid(t *testing.T) {
	tbl := mustTable(t, []string{"name", "n"}, [][]table.Value{
		{"<a>", 1.5},
		{nil, 2.0},
		{"c", 3.0},
	})

	tests := []struct {
		name    string
		limit   int
		want    []string
		notWant []string
	}{
		{
			name:    "all rows",
			limit:   0,
			want:    []string{"<th>name</th>", "<td>&lt;a&gt;</td>", "<td>1.5</td>", `<td class="missing"></td>`, "<td>3</td>"},
			notWant: []string{"Showing"},
		},
		{
			name:    "truncated",
			limit:   2,
			want:    []string{"Showing 2 of 3 rows."},
			notWant: []string{"<td>3</td>"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := renderString(t, TableGrid(tbl, tt.limit))
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("grid does not contain %q", w)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("grid contains %q", w)
				}
			}
		})
	}
}

func TestEditableGrid(t *testing.T) {
	tbl := mustTable(t, []string{"Field", "Value"}, [][]table.Value{
		{"company_name", "ACME"},
	})
	out := renderString(t, EditableGrid(ViewCompany, tbl, []string{"Field"}, true))

	for _, want := range []string{
		`name="company-rows" value="2"`,
		`name="company-cols" value="2"`,
		`name="company-col-0" value="Field"`,
		`name="company-0-0" value="company_name"`,
		`<input type="text" name="company-0-1" value="ACME">`,
		`<input type="text" name="company-1-1" value="">`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("grid does not contain %q", want)
		}
	}
}

type label string

type tag struct{ name string }

func (t tag) String() string { return "<" + t.name + ">" }

func TestRawfEscapesArguments(t *testing.T) {
	var buf bytes.Buffer
	h := newHTML(context.Background(), &buf)
	h.rawf(`<p>%s %s %s %d</p>`, "<a>", label("<b>"), tag{"i"}, 3)
	if h.err != nil {
		t.Fatalf("rawf() error = %v", h.err)
	}
	want := "<p>&lt;a&gt; &lt;b&gt; &lt;i&gt; 3</p>"
	if got := buf.String(); got != want {
		t.Errorf("rawf() = %q, want %q", got, want)
	}
}

func TestEmptyComponents(t *testing.T) {
	if out := renderString(t, TableGrid(nil, 10)); out != "" {
		t.Errorf("TableGrid(nil) = %q, want empty", out)
	}
	if out := renderString(t, HelpPanel(nil)); out != "" {
		t.Errorf("HelpPanel(nil) = %q, want empty", out)
	}
}
