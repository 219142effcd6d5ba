package analytics

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/mohitsharma90015656/unified-analytics/internal/providers"
)

// Feature flag operations are routed to whichever active provider supports them, rather
// than fanned out: flag evaluation is a read with a single answer, not a tracking write.
// When no active provider supports flags, every operation returns its neutral default
// without error.

// FeatureFlag returns the value of a feature flag, or a null value if the flag does not
// exist or no flag-capable provider is active.
func (a *Analytics) FeatureFlag(key string) ldvalue.Value {
	if p := a.flagProvider(); p != nil {
		return p.FeatureFlag(key)
	}
	return ldvalue.Null()
}

// IsFeatureEnabled reports whether a feature flag evaluates as enabled, or false if no
// flag-capable provider is active.
func (a *Analytics) IsFeatureEnabled(key string) bool {
	if p := a.flagProvider(); p != nil {
		return p.IsFeatureEnabled(key)
	}
	return false
}

// AllFeatureFlags returns every known flag keyed by flag key, or an empty object if no
// flag-capable provider is active.
func (a *Analytics) AllFeatureFlags() ldvalue.Value {
	if p := a.flagProvider(); p != nil {
		return p.AllFeatureFlags()
	}
	return ldvalue.ObjectBuild().Build()
}

// OnFeatureFlagsChange registers a listener invoked whenever flag values may have
// changed. The returned function unregisters the listener; if no flag-capable provider
// is active, the listener is never invoked and the returned function does nothing.
func (a *Analytics) OnFeatureFlagsChange(listener func()) func() {
	if p := a.flagProvider(); p != nil {
		return p.OnFeatureFlagsChange(listener)
	}
	return func() {}
}

func (a *Analytics) flagProvider() *providers.Proxy {
	for _, p := range a.activeProxies() {
		if p.Capabilities().FeatureFlags {
			return p
		}
	}
	return nil
}
