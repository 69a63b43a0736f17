package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[string]ImportDefinition)
	registryMu sync.RWMutex
)

// Register adds an import definition to the registry.
// Panics if the type is already registered.
func Register(def ImportDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[def.Info.Type]; exists {
		panic(fmt.Sprintf("import type already registered: %s", def.Info.Type))
	}
	if def.NewRunner == nil {
		panic(fmt.Sprintf("import type %s has no runner", def.Info.Type))
	}
	if def.Info.Label == "" {
		def.Info.Label = def.Info.Type
	}

	registry[def.Info.Type] = def
}

// Get returns an import definition by type.
func Get(importType string) (ImportDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[importType]
	return def, ok
}

// All returns every registered definition sorted by type.
func All() []ImportDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ImportDefinition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Info.Type < result[j].Info.Type
	})
	return result
}

// TypeCount returns the number of registered import types.
func TypeCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered types. Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]ImportDefinition)
}
