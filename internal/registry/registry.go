// Package registry provides the static catalog of syndication feed sources.
// The catalog is an explicit value handed to the pipeline at construction
// time, so tests can substitute fake sources and operations can extend the
// catalog from a YAML file without recompiling.
package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"prensa-feed/internal/domain/entity"
)

// Registry is a read-only lookup table of feed sources keyed by their stable
// identifier. The zero value is unusable; construct via New, Default, or
// LoadFile.
type Registry struct {
	sources  map[string]entity.FeedSource
	order    []string
	reliable []string
}

// New builds a registry from an explicit source list. The reliable list names
// the keys eligible for batch runs; keys not present in sources are ignored
// at lookup time, not here, to keep construction infallible.
func New(sources []entity.FeedSource, reliable []string) *Registry {
	r := &Registry{
		sources:  make(map[string]entity.FeedSource, len(sources)),
		reliable: reliable,
	}
	for _, src := range sources {
		if _, dup := r.sources[src.Key]; dup {
			continue
		}
		r.sources[src.Key] = src
		r.order = append(r.order, src.Key)
	}
	return r
}

// Default returns the built-in catalog of Spanish-language news feeds.
func Default() *Registry {
	return New(defaultSources, defaultReliable)
}

// registryFile is the on-disk YAML shape accepted by LoadFile.
type registryFile struct {
	Sources  []entity.FeedSource `yaml:"sources"`
	Reliable []string            `yaml:"reliable"`
}

// LoadFile reads a registry from a YAML file. Sources in the file replace the
// built-in catalog entirely; an empty reliable list falls back to every key
// in file order.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse registry file: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("registry file %s declares no sources", path)
	}

	for i, src := range file.Sources {
		if src.Key == "" || src.FeedURL == "" {
			return nil, fmt.Errorf("registry file %s: source %d is missing key or feed_url", path, i)
		}
	}

	reliable := file.Reliable
	if len(reliable) == 0 {
		for _, src := range file.Sources {
			reliable = append(reliable, src.Key)
		}
	}
	return New(file.Sources, reliable), nil
}

// Lookup returns the source registered under key, or entity.ErrUnknownSource.
func (r *Registry) Lookup(key string) (entity.FeedSource, error) {
	src, ok := r.sources[key]
	if !ok {
		return entity.FeedSource{}, fmt.Errorf("%w: %q", entity.ErrUnknownSource, key)
	}
	return src, nil
}

// Keys returns every registered source key in registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// ReliableKeys returns the allow-list of sources known to respond correctly,
// used by batch runs.
func (r *Registry) ReliableKeys() []string {
	out := make([]string, len(r.reliable))
	copy(out, r.reliable)
	return out
}

// Len returns the number of registered sources.
func (r *Registry) Len() int { return len(r.sources) }
