package analytics

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"golang.org/x/sync/errgroup"

	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
	"github.com/mohitsharma90015656/unified-analytics/internal/logging"
	"github.com/mohitsharma90015656/unified-analytics/internal/metrics"
	"github.com/mohitsharma90015656/unified-analytics/internal/platforms"
	"github.com/mohitsharma90015656/unified-analytics/internal/providers"
	"github.com/mohitsharma90015656/unified-analytics/internal/sdks"
	"github.com/mohitsharma90015656/unified-analytics/internal/util"

	countlyadapter "github.com/mohitsharma90015656/unified-analytics/internal/adapters/countly"
	posthogadapter "github.com/mohitsharma90015656/unified-analytics/internal/adapters/posthog"
)

// Analytics is the application-facing entry point. It owns one Proxy per configured
// provider and fans unified operations out to the ones that initialized successfully.
//
// An application wires exactly one Analytics instance through its composition root; the
// type has no package-level singleton. All methods are safe for concurrent use.
type Analytics struct {
	config         config.Config
	loggers        ldlog.Loggers
	platform       *platforms.Resolver
	metricsManager *metrics.Manager
	factories      sdks.ClientFactories
	registry       *providers.Registry

	initialized      bool
	proxies          []*providers.Proxy
	trackScreenViews bool
	screenOverrides  map[string]string
	lock             sync.Mutex
}

type proxyInitResult struct {
	kind  basictypes.ProviderKind
	proxy *providers.Proxy
	err   error
}

// DefaultLoggers returns the standard log configuration for applications that have no
// logging setup of their own: stdout for everything except errors, which go to stderr.
func DefaultLoggers() ldlog.Loggers {
	return logging.MakeDefaultLoggers()
}

// New validates the configuration and starts every configured provider.
//
// Validation failures are returned as a config.ConfigurationError before any provider is
// touched. After validation passes, New cannot fail because of a provider: each provider
// initializes independently on its own goroutine, and one whose startup fails is logged
// and disabled without affecting the others. New waits for the providers to settle,
// bounded by Main.InitTimeout.
//
// The factories parameter customizes how the wrapped SDK clients are created; the zero
// value uses the real SDKs.
func New(c config.Config, loggers ldlog.Loggers, factories sdks.ClientFactories) (*Analytics, error) {
	var thingsToCleanUp util.CleanupTasks // partially constructed things, in case we exit early
	defer thingsToCleanUp.Run()

	if err := config.ValidateConfig(&c, loggers); err != nil { // in case a not-yet-validated Config was passed in
		return nil, err
	}

	if c.Main.LogLevel.IsDefined() {
		loggers.SetMinLevel(c.Main.LogLevel.GetOrElse(ldlog.Info))
	}
	if c.Main.Debug {
		loggers.SetMinLevel(ldlog.Debug)
	}

	platform := platforms.NewResolver()
	if c.Main.Platform.IsDefined() {
		if err := platform.Set(c.Main.Platform.GetOrElse("")); err != nil {
			return nil, err
		}
	}

	metricsManager, err := metrics.NewManager(loggers)
	if err != nil {
		return nil, errNewMetricsManagerFailed(err)
	}

	a := &Analytics{
		config:           c,
		loggers:          loggers,
		platform:         platform,
		metricsManager:   metricsManager,
		factories:        factories.WithDefaults(),
		registry:         makeAdapterRegistry(),
		trackScreenViews: c.Main.TrackScreenViews.GetOrElse(true),
		screenOverrides:  make(map[string]string),
	}
	thingsToCleanUp.AddCloser(a)

	activePlatform := platform.Current()
	loggers.Infof("Starting unified analytics (platform: %s)", activePlatform)

	kinds := configuredProviders(c)
	initCh := make(chan proxyInitResult, len(kinds))
	for _, kind := range kinds {
		proxy := providers.NewProxy(kind, a.registry, makeProviderLoggers(loggers, c, kind),
			metricsManager.ForProvider(kind))
		proxy.SetDebug(c.Main.Debug)
		go func(kind basictypes.ProviderKind, proxy *providers.Proxy) {
			err := proxy.Init(context.Background(), activePlatform, c, a.factories)
			initCh <- proxyInitResult{kind: kind, proxy: proxy, err: err}
		}(kind, proxy)
	}

	active := a.waitForAllProviders(initCh, len(kinds), c.Main.InitTimeout.GetOrElse(config.DefaultInitTimeout))
	for _, kind := range basictypes.ProviderKindsInPreferenceOrder() {
		if proxy, ok := active[kind]; ok {
			a.proxies = append(a.proxies, proxy)
		}
	}

	a.lock.Lock()
	a.initialized = true
	a.lock.Unlock()

	thingsToCleanUp.Clear() // we succeeded, don't close anything
	return a, nil
}

// waitForAllProviders blocks until every configured provider has reported back as either
// successfully initialized or failed, or until the timeout elapses (if non-zero). Failed
// providers are logged and dropped; a timeout keeps whatever settled in time.
func (a *Analytics) waitForAllProviders(
	initCh <-chan proxyInitResult,
	count int,
	timeout time.Duration,
) map[basictypes.ProviderKind]*providers.Proxy {
	var timeoutCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	active := make(map[basictypes.ProviderKind]*providers.Proxy, count)
	for finished := 0; finished < count; finished++ {
		select {
		case res := <-initCh:
			if res.err != nil {
				a.loggers.Errorf("Provider %s failed to initialize and has been disabled: %s", res.kind, res.err)
				_ = res.proxy.Close()
				continue
			}
			active[res.kind] = res.proxy
		case <-timeoutCh:
			a.loggers.Warnf("Timed out after %s waiting for providers to initialize; continuing with %d of %d",
				timeout, len(active), count)
			// Providers still initializing are disabled, but their goroutines may yet
			// produce a live client that would otherwise leak. Reap them as they settle.
			remaining := count - finished
			go func() {
				for i := 0; i < remaining; i++ {
					res := <-initCh
					if res.err == nil {
						a.loggers.Warnf("Provider %s initialized after the timeout and has been shut down", res.kind)
					}
					_ = res.proxy.Close()
				}
			}()
			return active
		}
	}
	return active
}

func configuredProviders(c config.Config) []basictypes.ProviderKind {
	var kinds []basictypes.ProviderKind
	for _, kind := range basictypes.ProviderKindsInPreferenceOrder() {
		switch kind {
		case basictypes.CountlyProvider:
			if c.Countly.IsConfigured() {
				kinds = append(kinds, kind)
			}
		case basictypes.PostHogProvider:
			if c.PostHog.IsConfigured() {
				kinds = append(kinds, kind)
			}
		}
	}
	return kinds
}

// makeAdapterRegistry registers both platform variants of each provider. This is the one
// place that knows about the concrete adapter packages.
func makeAdapterRegistry() *providers.Registry {
	registry := providers.NewRegistry()
	registry.Register(sdks.CountlyWeb, countlyadapter.NewWebAdapter)
	registry.Register(sdks.CountlyNative, countlyadapter.NewNativeAdapter)
	registry.Register(sdks.PostHogWeb, posthogadapter.NewWebAdapter)
	registry.Register(sdks.PostHogNative, posthogadapter.NewNativeAdapter)
	return registry
}

func makeProviderLoggers(loggers ldlog.Loggers, c config.Config, kind basictypes.ProviderKind) ldlog.Loggers {
	providerLoggers := loggers
	providerLoggers.SetPrefix(fmt.Sprintf("[provider: %s]", kind))
	var level config.OptLogLevel
	switch kind {
	case basictypes.CountlyProvider:
		level = c.Countly.LogLevel
	case basictypes.PostHogProvider:
		level = c.PostHog.LogLevel
	}
	if level.IsDefined() {
		providerLoggers.SetMinLevel(level.GetOrElse(ldlog.Info))
	}
	return providerLoggers
}

// IsInitialized reports whether New completed. It stays true even if every individual
// provider failed, as long as the configuration was valid.
func (a *Analytics) IsInitialized() bool {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.initialized
}

// EnabledProviders returns the names of the providers that initialized successfully, in
// the facade's fixed preference order.
func (a *Analytics) EnabledProviders() []string {
	proxies := a.activeProxies()
	names := make([]string, 0, len(proxies))
	for _, p := range proxies {
		names = append(names, string(p.Kind()))
	}
	return names
}

// HasProvider reports whether the named provider is active.
func (a *Analytics) HasProvider(name string) bool {
	for _, p := range a.activeProxies() {
		if string(p.Kind()) == name {
			return true
		}
	}
	return false
}

// Platform returns the resolved runtime platform.
func (a *Analytics) Platform() config.Platform {
	return a.platform.Current()
}

// SetDebug toggles verbose logging for the facade and every active provider.
func (a *Analytics) SetDebug(enabled bool) {
	if enabled {
		a.loggers.SetMinLevel(ldlog.Debug)
	} else {
		a.loggers.SetMinLevel(a.config.Main.LogLevel.GetOrElse(ldlog.Info))
	}
	for _, p := range a.activeProxies() {
		p.SetDebug(enabled)
	}
}

// SetTrackScreenViews toggles screen view tracking. While disabled, TrackView and the
// navigation handlers dispatch nothing.
func (a *Analytics) SetTrackScreenViews(enabled bool) {
	a.lock.Lock()
	a.trackScreenViews = enabled
	a.lock.Unlock()
}

// Flush asks every active provider to deliver whatever it has queued, waiting until all
// are done or the context is cancelled.
func (a *Analytics) Flush(ctx context.Context) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, p := range a.activeProxies() {
		p := p
		group.Go(func() error {
			return p.Flush(ctx)
		})
	}
	return group.Wait()
}

// Close shuts down every active provider. The instance cannot be reused afterwards.
func (a *Analytics) Close() error {
	a.lock.Lock()
	proxies := a.proxies
	a.proxies = nil
	a.initialized = false
	a.lock.Unlock()

	var firstErr error
	for _, p := range proxies {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// activeProxies snapshots the provider set so dispatch never holds the facade lock while
// calling into an adapter.
func (a *Analytics) activeProxies() []*providers.Proxy {
	a.lock.Lock()
	defer a.lock.Unlock()
	return append([]*providers.Proxy(nil), a.proxies...)
}
