package providers

// The two provider families model identity changes differently, and the models are not
// unifiable: Countly has an explicit device identifier with a merge-or-not choice when it
// changes, while PostHog swaps a single distinct id. These optional interfaces keep the
// operations as provider-specific passthroughs instead of forcing one model onto the
// other; the facade type-asserts against the resolved adapter.

// DeviceIDManager is implemented by adapters whose backend has an explicit device-id
// concept distinct from the analytics-assigned user id (the Countly family).
type DeviceIDManager interface {
	// DeviceID returns the identifier currently used for event attribution.
	DeviceID() (string, error)

	// ChangeDeviceID switches identifiers, merging the old identifier's history into the
	// new one when merge is true.
	ChangeDeviceID(id string, merge bool) error
}

// ConsentManager is implemented by adapters whose backend gates data collection behind
// explicit user consent (the Countly family, when requiresConsent is configured).
type ConsentManager interface {
	// SetConsent grants or revokes consent for data collection.
	SetConsent(given bool) error
}

// DistinctIDManager is implemented by adapters whose backend models identity purely as a
// distinct-id swap (the PostHog family).
type DistinctIDManager interface {
	// DistinctID returns the identifier currently used for event attribution.
	DistinctID() (string, error)

	// Alias links an additional identifier to the current distinct id.
	Alias(alias string) error
}
