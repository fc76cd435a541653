package source

import (
	"context"
	"testing"

	"infocurator/internal/domain"
)

type stubCollector struct{ name string }

func (s stubCollector) Name() string { return s.name }

func (s stubCollector) Collect(context.Context, Query) ([]domain.RawItem, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubCollector{name: "hackernews"}, Params{Trust: 18})

	c, err := r.Resolve("hackernews")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if c.Name() != "hackernews" {
		t.Fatalf("unexpected collector: %s", c.Name())
	}

	if _, err := r.Resolve("missing"); err == nil {
		t.Fatal("expected an error for an unregistered source")
	}
}

func TestRegistryParams(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubCollector{name: "arxiv"}, Params{FixedEngagement: true, Trust: 19})

	p, ok := r.Params("arxiv")
	if !ok {
		t.Fatal("expected tuning for registered source")
	}
	if !p.FixedEngagement || p.Trust != 19 {
		t.Fatalf("unexpected tuning: %+v", p)
	}

	all := r.AllParams()
	if len(all) != 1 {
		t.Fatalf("expected 1 tuning entry, got %d", len(all))
	}
}

func TestRegistryValidate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubCollector{name: "reddit"}, Params{})

	if err := r.Validate([]string{"reddit"}); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := r.Validate([]string{"reddit", "ghost"}); err == nil {
		t.Fatal("expected validation failure for an unregistered source")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(stubCollector{name: "zeta"}, Params{})
	r.Register(stubCollector{name: "alpha"}, Params{})

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Fatalf("expected sorted names, got %v", names)
	}
}
