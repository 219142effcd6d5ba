// Package analytics is a unified product-analytics facade over the Countly and PostHog
// backends. An Analytics instance fans each unified operation out to every provider that
// is configured and healthy, translating it into each backend's native calls through a
// platform-specific adapter, and degrades gracefully where a backend has no equivalent
// concept.
//
// The facade never lets a provider failure reach the application: configuration problems
// are the only errors New returns, a provider whose startup fails is disabled and logged,
// and runtime failures inside a wrapped SDK are absorbed at the adapter boundary.
package analytics
