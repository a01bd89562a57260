// Package modules registers the toolbox modules with the core registry.
// Import this package to ensure all modules are registered.
package modules

// Module keys used in URLs and session state.
const (
	Lyrics    = "lyrics"
	Societary = "societary"
	Excel     = "excel"
)
