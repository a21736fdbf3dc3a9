package platforms

import (
	"fmt"

	"github.com/orderdesk/backend/internal/domain/integration"
	"github.com/orderdesk/backend/internal/domain/order"
	"go.uber.org/zap"
)

// Registry holds the configured platform adapters keyed by platform code
type Registry struct {
	adapters map[order.Platform]integration.PlatformAdapter
	ordered  []order.Platform
}

var _ integration.AdapterRegistry = (*Registry)(nil)

// NewRegistry builds the registry with all five marketplace adapters.
// strictStatus makes every adapter reject unmapped source statuses instead
// of collapsing them to pending.
func NewRegistry(log *zap.Logger, strictStatus bool) *Registry {
	adapters := []integration.PlatformAdapter{
		NewAmazonAdapter(log, strictStatus),
		NewBlinkitAdapter(log, strictStatus),
		NewFlipkartAdapter(log, strictStatus),
		NewSwiggyAdapter(log, strictStatus),
		NewOrganicAdapter(log, strictStatus),
	}

	r := &Registry{
		adapters: make(map[order.Platform]integration.PlatformAdapter, len(adapters)),
		ordered:  make([]order.Platform, 0, len(adapters)),
	}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
		r.ordered = append(r.ordered, a.Platform())
	}
	return r
}

// Get returns the adapter for the platform
func (r *Registry) Get(platform order.Platform) (integration.PlatformAdapter, error) {
	a, ok := r.adapters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", integration.ErrUnsupportedPlatform, platform)
	}
	return a, nil
}

// List returns all registered adapters in registration order
func (r *Registry) List() []integration.PlatformAdapter {
	out := make([]integration.PlatformAdapter, 0, len(r.ordered))
	for _, p := range r.ordered {
		out = append(out, r.adapters[p])
	}
	return out
}

// Platforms returns the registered platform keys in registration order
func (r *Registry) Platforms() []order.Platform {
	out := make([]order.Platform, len(r.ordered))
	copy(out, r.ordered)
	return out
}
