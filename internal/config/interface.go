package config

import "context"

// Loader is the interface for a format-specific universe loader.
type Loader interface {
	// Load reads definitions from the given paths and returns them as a
	// single Universe. Later paths may not redefine an identifier already
	// loaded from an earlier one.
	Load(ctx context.Context, paths ...string) (*Universe, error)
}
