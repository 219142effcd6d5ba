package basictypes

import "github.com/launchdarkly/go-sdk-common/v3/ldvalue"

// ErrorReport is the normalized form of an error-like input passed to TrackError. Each
// adapter decides how to represent it in its backend's native terms (Countly uses a crash
// report, PostHog uses an exception event).
type ErrorReport struct {
	// Message is the error message. Never empty; normalization substitutes "unknown error"
	// when no message can be derived from the input.
	Message string

	// Name is the error classification, such as a Go error type name.
	Name string

	// Stack is a stack trace captured at the point where TrackError was called, or empty
	// if capture was disabled.
	Stack string

	// Fatal marks the error as fatal/crash-level rather than handled.
	Fatal bool

	// Metadata is caller-supplied context merged into the provider-specific
	// representation. Always an object value or null.
	Metadata ldvalue.Value
}
