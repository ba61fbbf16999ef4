// Package config defines the format-agnostic Universe of loaded entities and
// the Loader interface that produces it.
//
// The Universe is the single input of the closure builder. Concrete loaders,
// such as the HCL one, live in separate packages.
package config
