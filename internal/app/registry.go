package app

import (
	"fmt"
	"sort"
	"sync"

	"github.com/eslabs/cmdata/internal/domain/units"
	"github.com/eslabs/cmdata/taxonomy"
)

// registrySpec locates a unit definition file in the embedded taxonomy FS.
type registrySpec struct {
	path           string
	includeDefault bool
}

// registryFiles lists the available unit registries.
var registryFiles = map[string]registrySpec{
	"NBS_zh": {path: "units/pint_units_NBS_zh.txt", includeDefault: true},
}

var (
	registryMu    sync.Mutex
	registryCache = make(map[string]*units.Registry)
)

// RegistryNames returns the available unit registry names, sorted.
func RegistryNames() []string {
	names := make([]string, 0, len(registryFiles))
	for name := range registryFiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadRegistry loads a unit registry by name. Registries are parsed once
// and cached; the same instance is returned on subsequent calls, which is
// safe because registries are immutable after loading.
func LoadRegistry(name string) (*units.Registry, error) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if r, ok := registryCache[name]; ok {
		return r, nil
	}
	spec, ok := registryFiles[name]
	if !ok {
		return nil, fmt.Errorf("no unit registry %q (have: %v)", name, RegistryNames())
	}
	r, err := units.LoadFS(taxonomy.FS, spec.path, name, spec.includeDefault)
	if err != nil {
		return nil, err
	}
	registryCache[name] = r
	return r, nil
}
