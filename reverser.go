package qz

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Reverser keeps track of named route paths and allows building URLs from them.
type Reverser struct {
	paths map[string]string
}

// NewReverser inits the reverser.
func NewReverser() *Reverser {
	return &Reverser{make(map[string]string)}
}

// Reverse builds the url for the named route. A route ending in "/*" takes exactly one value that
// replaces the wildcard, other routes take none.
func (r Reverser) Reverse(name string, vals ...string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		return "", fmt.Errorf("no route named: %q, got: %v", name, lo.Keys(r.paths)) //nolint:goerr113
	}

	if !strings.HasSuffix(path, "/*") {
		if len(vals) > 0 {
			return "", fmt.Errorf("route %q takes no values, got %d", name, len(vals)) //nolint:goerr113
		}
		return path, nil
	}

	if len(vals) != 1 {
		return "", fmt.Errorf("route %q takes exactly one value, got %d", name, len(vals)) //nolint:goerr113
	}

	return path[:len(path)-1] + strings.TrimPrefix(vals[0], "/"), nil
}

// Named is a convenience method that panics if naming the path fails.
func (r Reverser) Named(name, path string) string {
	path, err := r.NamedPath(name, path)
	if err != nil {
		panic("qz: " + err.Error())
	}

	return path
}

// NamedPath records 'path' under 'name' while returning it as well.
func (r Reverser) NamedPath(name, path string) (string, error) {
	if _, exists := r.paths[name]; exists {
		return path, fmt.Errorf("route with name %q already exists", name) //nolint:goerr113
	}

	if err := checkRoutePath(path); err != nil {
		return path, fmt.Errorf("failed to parse route: %w", err)
	}

	r.paths[name] = path

	return path, nil
}
