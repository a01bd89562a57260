package modules

import "github.com/JonMunkholm/toolbox/internal/core"

func init() {
	core.Register(core.ModuleDefinition{
		Info: core.ModuleInfo{
			Key:         Societary,
			Label:       "Registry Editor",
			Icon:        "§",
			Description: "Edit corporate registry records as tables and export them back to JSON.",
			Order:       20,
		},
		Help: []string{
			"Load a record by uploading a .json file, pasting its text or using the sample.",
			"Company data, partners, incoming and outgoing partners are edited as separate tables.",
			"Fields the editor does not know are kept unchanged in the exported file.",
			"Save to build the modified JSON, then preview or download it.",
		},
	})
}
