package analytics

import (
	"net/url"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// NavigationRef is the subset of a native navigation container that the navigation
// handlers need: the name of the route currently on screen.
type NavigationRef interface {
	CurrentRouteName() string
}

// NavigationEventHandlers are callbacks to be wired into a native navigation container's
// lifecycle events.
type NavigationEventHandlers struct {
	// OnReady should be called once, when the navigation container has mounted. It tracks
	// the initial route.
	OnReady func()

	// OnStateChange should be called on every navigation state change. It tracks the new
	// route, skipping transitions that stay on the same route.
	OnStateChange func()
}

// WebNavigationEventHandlers are callbacks to be wired into a web routing integration.
type WebNavigationEventHandlers struct {
	// OnRouteChange should be called with the full URL on every route transition. It
	// tracks the URL's path, skipping transitions that stay on the same path.
	OnRouteChange func(rawURL string)
}

// SetScreenViewOverride registers a one-time substitute name for a screen. The next
// navigation transition to that screen is tracked under the custom name and the override
// is consumed; later transitions track the raw screen name again.
func (a *Analytics) SetScreenViewOverride(screen, custom string) {
	a.lock.Lock()
	a.screenOverrides[screen] = custom
	a.lock.Unlock()
}

// NavigationHandlers returns the handlers that connect a native navigation container to
// screen view tracking.
func (a *Analytics) NavigationHandlers(ref NavigationRef) NavigationEventHandlers {
	var mu sync.Mutex
	var lastRoute string
	track := func(initial bool) {
		route := ref.CurrentRouteName()
		if route == "" {
			return
		}
		mu.Lock()
		if !initial && route == lastRoute {
			mu.Unlock()
			return
		}
		lastRoute = route
		mu.Unlock()
		a.trackScreenTransition(route)
	}
	return NavigationEventHandlers{
		OnReady:       func() { track(true) },
		OnStateChange: func() { track(false) },
	}
}

// WebNavigationHandlers returns the handlers that connect a web routing integration to
// screen view tracking.
func (a *Analytics) WebNavigationHandlers() WebNavigationEventHandlers {
	var mu sync.Mutex
	var lastPath string
	return WebNavigationEventHandlers{
		OnRouteChange: func(rawURL string) {
			path := urlPath(rawURL)
			mu.Lock()
			if path == lastPath {
				mu.Unlock()
				return
			}
			lastPath = path
			mu.Unlock()
			a.trackScreenTransition(path)
		},
	}
}

// trackScreenTransition tracks one navigation transition, applying a registered override
// if there is one. The consult-and-delete is atomic under the facade lock, so two rapid
// transitions to the same screen cannot both consume the override.
func (a *Analytics) trackScreenTransition(screen string) {
	a.lock.Lock()
	if !a.trackScreenViews {
		a.lock.Unlock()
		return
	}
	name := screen
	if custom, ok := a.screenOverrides[screen]; ok {
		name = custom
		delete(a.screenOverrides, screen)
	}
	a.lock.Unlock()
	a.TrackView(name, ldvalue.Null())
}

func urlPath(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}
