package sdks

import (
	"github.com/mohitsharma90015656/unified-analytics/config"
	"github.com/mohitsharma90015656/unified-analytics/internal/basictypes"
)

// Kind identifies one concrete adapter variant: a logical provider specialized for a
// platform. Each Kind corresponds to one wrapped SDK distribution and is reported to the
// backend as the SDK name tag.
type Kind string

const (
	// CountlyWeb is the Countly adapter variant for browser runtimes.
	CountlyWeb Kind = "countly-web"

	// CountlyNative is the Countly adapter variant for mobile app shells.
	CountlyNative Kind = "countly-native"

	// PostHogWeb is the PostHog adapter variant for browser runtimes.
	PostHogWeb Kind = "posthog-web"

	// PostHogNative is the PostHog adapter variant for mobile app shells.
	PostHogNative Kind = "posthog-native"
)

// KindFor returns the adapter variant for a logical provider on a platform.
func KindFor(provider basictypes.ProviderKind, platform config.Platform) Kind {
	switch provider {
	case basictypes.CountlyProvider:
		if platform == config.PlatformWeb {
			return CountlyWeb
		}
		return CountlyNative
	case basictypes.PostHogProvider:
		if platform == config.PlatformWeb {
			return PostHogWeb
		}
		return PostHogNative
	}
	return ""
}

// SDKName returns the name tag that this variant reports to its backend.
func (k Kind) SDKName() string {
	return "unified-analytics-" + string(k)
}
