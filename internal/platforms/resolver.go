// Package platforms decides which runtime platform the facade is operating on, which in
// turn selects the adapter variant used for each provider.
package platforms

import (
	"runtime"
	"sync"

	"github.com/mohitsharma90015656/unified-analytics/config"
)

// Resolver holds the process-wide platform value. The value can be set explicitly, either
// directly or through the Platform configuration option; otherwise the first read runs
// auto-detection and caches the result for the lifetime of the Resolver. An explicit Set
// always overrides a previously detected value.
//
// The facade can be used from multiple goroutines, so access is mutex-guarded.
type Resolver struct {
	value    config.Platform
	resolved bool
	detectFn func() config.Platform
	mu       sync.Mutex
}

// NewResolver creates a Resolver that uses the standard auto-detection.
func NewResolver() *Resolver {
	return &Resolver{detectFn: detectPlatform}
}

// NewResolverWithDetection creates a Resolver with custom auto-detection, for tests.
func NewResolverWithDetection(detectFn func() config.Platform) *Resolver {
	return &Resolver{detectFn: detectFn}
}

// Set stores an explicit platform value. It fails with config.ErrInvalidPlatform if the
// value is not one of the recognized platforms.
func (r *Resolver) Set(p config.Platform) error {
	if !p.IsValid() {
		return errBadPlatformValue(p)
	}
	r.mu.Lock()
	r.value = p
	r.resolved = true
	r.mu.Unlock()
	return nil
}

// Current returns the stored platform value, running auto-detection on the first call if
// no value was set explicitly. After the first resolution the value is stable.
func (r *Resolver) Current() config.Platform {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.resolved {
		r.value = r.detectFn()
		r.resolved = true
	}
	return r.value
}

// detectPlatform is the fallback when no platform was configured. A mobile OS build
// target counts as the native marker, a WebAssembly/js build target counts as the
// browser marker, and anything else defaults to native.
func detectPlatform() config.Platform {
	switch {
	case runtime.GOOS == "android" || runtime.GOOS == "ios":
		return config.PlatformNative
	case runtime.GOOS == "js" || runtime.GOARCH == "wasm":
		return config.PlatformWeb
	default:
		return config.PlatformNative
	}
}
