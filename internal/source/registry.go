package source

import (
	"context"
	"fmt"
	"sort"

	"infocurator/internal/domain"
)

// Query carries the search terms a collector should use. An empty keyword
// list asks for the source's trending/front-page content.
type Query struct {
	Keywords []string
	Exclude  []string
}

// Collector normalizes one upstream API into RawItems. Implementations
// return an error instead of panicking; a failing collector never aborts
// its siblings.
type Collector interface {
	Name() string
	Collect(ctx context.Context, q Query) ([]domain.RawItem, error)
}

// Params is the static tuning attached to a registered source: the
// engagement baselines used for score normalization and the trust values.
type Params struct {
	PrimaryBaseline   float64
	SecondaryBaseline float64
	Trust             int
	SubTrust          map[string]int
	// FixedEngagement marks sources without a meaningful engagement
	// concept (academic feeds, plain news feeds).
	FixedEngagement bool
}

// Registry maps source names to their collector implementation and tuning.
// Categories are validated against it at startup so an unregistered source
// fails fast instead of silently defaulting.
type Registry struct {
	collectors map[string]Collector
	params     map[string]Params
}

func NewRegistry() *Registry {
	return &Registry{
		collectors: map[string]Collector{},
		params:     map[string]Params{},
	}
}

// Register adds or replaces a collector together with its tuning.
func (r *Registry) Register(c Collector, p Params) {
	r.collectors[c.Name()] = c
	r.params[c.Name()] = p
}

// Resolve returns a collector by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Collector, error) {
	if c, ok := r.collectors[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("source %q is not registered", name)
}

// Params returns the tuning for a registered source.
func (r *Registry) Params(name string) (Params, bool) {
	p, ok := r.params[name]
	return p, ok
}

// AllParams exposes the full tuning table for the scoring engine.
func (r *Registry) AllParams() map[string]Params {
	out := make(map[string]Params, len(r.params))
	for name, p := range r.params {
		out[name] = p
	}
	return out
}

// Names lists registered sources in stable order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.collectors))
	for name := range r.collectors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that every referenced source has a collector.
func (r *Registry) Validate(sources []string) error {
	for _, name := range sources {
		if _, ok := r.collectors[name]; !ok {
			return fmt.Errorf("source %q is not registered", name)
		}
	}
	return nil
}
