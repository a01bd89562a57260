package modules

import "github.com/JonMunkholm/toolbox/internal/core"

func init() {
	core.Register(core.ModuleDefinition{
		Info: core.ModuleInfo{
			Key:         Lyrics,
			Label:       "Lyrics Search",
			Icon:        "♪",
			Description: "Look up song lyrics by artist and title.",
			Order:       10,
		},
		Help: []string{
			"Type the artist and the song title exactly as released.",
			"Examples: Coldplay / Yellow, Legião Urbana / Tempo Perdido, Queen / Bohemian Rhapsody.",
			"Accents and spaces are allowed; try the original title if a translation finds nothing.",
			"Found lyrics can be downloaded as a text file.",
		},
	})
}
