package app

import (
	"github.com/vk/partgrid/internal/pkglookup"
	"github.com/vk/partgrid/internal/registry"
)

// coreModules returns the lookup mechanisms compiled into the partgrid
// binary. Package queries run through the system's ocamlfind and
// pkg-config and are cached for the lifetime of the process.
func coreModules() []registry.Module {
	return []registry.Module{
		pkglookup.Module{Cache: pkglookup.NewCache(pkglookup.ExecQuerier{})},
	}
}
