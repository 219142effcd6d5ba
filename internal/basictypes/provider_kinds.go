package basictypes

// ProviderKind represents one of the supported analytics backends, independently of which
// platform variant of its adapter is in use.
type ProviderKind string

const (
	// CountlyProvider represents the Countly backend.
	CountlyProvider ProviderKind = "countly"

	// PostHogProvider represents the PostHog backend.
	PostHogProvider ProviderKind = "posthog"
)

// ProviderKindsInPreferenceOrder returns the provider kinds in the fixed order used when
// a unified read (such as a global property lookup) must be answered by a single
// provider: whichever of these is active first wins.
func ProviderKindsInPreferenceOrder() []ProviderKind {
	return []ProviderKind{CountlyProvider, PostHogProvider}
}
