package core

import (
	"fmt"
	"sort"
	"sync"
)

// ModuleInfo contains display information about a tool.
type ModuleInfo struct {
	Key         string // Unique identifier: "excel"
	Label       string // Sidebar name: "Excel Editor"
	Icon        string // Sidebar glyph
	Description string // One-line summary shown under the page title
	Order       int    // Sidebar position, lowest first
}

// ModuleDefinition contains everything the UI shell needs to show a tool.
type ModuleDefinition struct {
	Info ModuleInfo
	Help []string // Usage notes rendered in the help panel
}

var (
	registry   = make(map[string]ModuleDefinition)
	registryMu sync.RWMutex
)

// Register adds a module definition to the registry.
// Panics if a module with the same key is already registered.
func Register(def ModuleDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Info.Key == "" {
		panic("module key is required")
	}
	if _, exists := registry[def.Info.Key]; exists {
		panic(fmt.Sprintf("module already registered: %s", def.Info.Key))
	}

	if def.Info.Label == "" {
		def.Info.Label = def.Info.Key
	}

	registry[def.Info.Key] = def
}

// Get returns a module definition by key.
// Returns false if not found.
func Get(key string) (ModuleDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns all registered modules.
// Sorted by order then by key for consistent ordering.
func All() []ModuleDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ModuleDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Info.Order != result[j].Info.Order {
			return result[i].Info.Order < result[j].Info.Order
		}
		return result[i].Info.Key < result[j].Info.Key
	})

	return result
}

// First returns the module shown when none is selected.
func First() (ModuleDefinition, bool) {
	all := All()
	if len(all) == 0 {
		return ModuleDefinition{}, false
	}
	return all[0], true
}

// ModuleCount returns the number of registered modules.
func ModuleCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered modules.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ModuleDefinition)
}
