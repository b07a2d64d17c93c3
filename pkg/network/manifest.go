package network

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed networks.yaml
var builtinManifest []byte

// Manifest is the YAML document listing named networks.
type Manifest struct {
	Networks []Network `yaml:"networks"`
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Network)
)

func init() {
	networks, err := parseManifest(builtinManifest)
	if err != nil {
		panic(fmt.Sprintf("failed to parse built-in network manifest: %v", err))
	}
	for _, n := range networks {
		registry[n.Name] = n
	}
}

func parseManifest(data []byte) ([]Network, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing network manifest: %w", err)
	}
	for _, n := range m.Networks {
		if n.Name == "" {
			return nil, fmt.Errorf("network manifest: entry with empty name")
		}
	}
	return m.Networks, nil
}

// Lookup returns the network registered under name.
func Lookup(name string) (Network, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	n, ok := registry[name]
	if !ok {
		return Network{}, fmt.Errorf("network %q not registered", name)
	}
	return n, nil
}

// MustLookup is Lookup for names known to be registered, such as the
// built-in networks. It panics on unknown names.
func MustLookup(name string) Network {
	n, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return n
}

// Register adds a network to the registry. Re-registering a name
// replaces the previous entry.
func Register(n Network) error {
	if n.Name == "" {
		return fmt.Errorf("network name must not be empty")
	}

	registryMu.Lock()
	defer registryMu.Unlock()

	registry[n.Name] = n
	return nil
}

// Names returns the names of all registered networks, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadManifest reads a YAML manifest file and registers every network
// it lists, returning the registered entries. Existing names are
// replaced, so a user manifest can redefine a built-in network.
func LoadManifest(path string) ([]Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading network manifest: %w", err)
	}

	networks, err := parseManifest(data)
	if err != nil {
		return nil, err
	}

	registryMu.Lock()
	for _, n := range networks {
		registry[n.Name] = n
	}
	registryMu.Unlock()

	return networks, nil
}
