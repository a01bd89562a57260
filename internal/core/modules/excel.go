package modules

import "github.com/JonMunkholm/toolbox/internal/core"

func init() {
	core.Register(core.ModuleDefinition{
		Info: core.ModuleInfo{
			Key:         Excel,
			Label:       "Excel Editor",
			Icon:        "▦",
			Description: "Upload, edit, join and transform spreadsheets.",
			Order:       30,
		},
		Help: []string{
			"Upload .csv, .xlsx or .xlsm files; each upload becomes a named dataset.",
			"JOIN merges two datasets on a key column; clashing columns get _x and _y suffixes.",
			"PROCV adds a column looked up by key from a reference dataset.",
			"DE/PARA replaces values in a column using a two-column file or manual pairs.",
			"Math adds a column computed from two numeric columns, or saves statistics as a new dataset.",
		},
	})
}
