package reward

import (
	"fmt"

	"github.com/earnbox/earnbox/internal/domain"
	"github.com/earnbox/earnbox/internal/infra/clock"
)

// Registry holds the daemon's surfaces in display order.
type Registry struct {
	order    []string
	surfaces map[string]*Surface
}

// NewRegistry builds one surface per config. Names must be unique.
func NewRegistry(cfgs []Config, clk clock.Clock, sink domain.EarningSink, opener domain.LinkOpener) (*Registry, error) {
	r := &Registry{surfaces: make(map[string]*Surface, len(cfgs))}
	for _, cfg := range cfgs {
		if _, dup := r.surfaces[cfg.Name]; dup {
			r.Close()
			return nil, fmt.Errorf("reward: duplicate surface %q", cfg.Name)
		}
		s, err := NewSurface(cfg, clk, sink, opener)
		if err != nil {
			r.Close()
			return nil, err
		}
		r.order = append(r.order, cfg.Name)
		r.surfaces[cfg.Name] = s
	}
	return r, nil
}

// Get returns the named surface.
func (r *Registry) Get(name string) (*Surface, error) {
	s, ok := r.surfaces[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSurface, name)
	}
	return s, nil
}

// Surfaces returns every surface in display order.
func (r *Registry) Surfaces() []*Surface {
	out := make([]*Surface, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.surfaces[name])
	}
	return out
}

// Close tears down every surface.
func (r *Registry) Close() error {
	for _, s := range r.surfaces {
		s.Close()
	}
	return nil
}
