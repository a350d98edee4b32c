package source

import "fmt"

// Constructor is a function that creates a new Adapter instance.
type Constructor func(opts Options) (Adapter, error)

var registry = map[string]Constructor{}

// Register adds an adapter constructor under the given source name.
func Register(name string, ctor Constructor) {
	registry[name] = ctor
}

// Get returns the adapter constructor for the given source name.
func Get(name string) (Constructor, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown source adapter: %s", name)
	}
	return ctor, nil
}

// Adapters returns the names of all registered source adapters.
func Adapters() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
