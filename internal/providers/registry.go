package providers

import (
	"fmt"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/metrics"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
)

// AdapterParams is everything an AdapterFactory needs to construct an adapter. The
// Loggers are already prefixed for the provider; Metrics may be nil.
type AdapterParams struct {
	AllConfig config.Config
	Kind      sdks.Kind
	Factories sdks.ClientFactories
	Loggers   ldlog.Loggers
	Metrics   *metrics.ProviderMetrics
}

// AdapterFactory constructs one adapter variant. Construction must be cheap and must not
// touch the network; real setup happens in the adapter's Init.
type AdapterFactory func(params AdapterParams) (Provider, error)

// Registry maps adapter variants to their factories. The composition root registers the
// two variants of each logical provider at startup; a Proxy resolves against the registry
// exactly once, after the platform is known.
type Registry struct {
	factories map[sdks.Kind]AdapterFactory
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[sdks.Kind]AdapterFactory)}
}

// Register adds a factory for an adapter variant, replacing any previous registration.
func (r *Registry) Register(kind sdks.Kind, factory AdapterFactory) {
	r.factories[kind] = factory
}

// Factory returns the factory for an adapter variant.
func (r *Registry) Factory(kind sdks.Kind) (AdapterFactory, error) {
	if factory, ok := r.factories[kind]; ok {
		return factory, nil
	}
	return nil, errNoSuchAdapter(kind)
}

func errNoSuchAdapter(kind sdks.Kind) error {
	return fmt.Errorf("no adapter is registered for variant %q", kind)
}
