package analytics

// The two provider families model identity changes in ways that cannot be folded into one
// operation: Countly switches an explicit device id with a merge-or-not choice, while
// PostHog swaps a distinct id and links aliases to it. These passthroughs target only the
// family that has the concept; for the other family they are no-ops (or not-found reads).

// DeviceID returns the device identifier of the first active provider that has an
// explicit device-id concept. The second return value is false if no such provider is
// active.
func (a *Analytics) DeviceID() (string, bool) {
	for _, p := range a.activeProxies() {
		if id, ok := p.DeviceID(); ok {
			return id, true
		}
	}
	return "", false
}

// ChangeDeviceID switches the device identifier on every active provider that has the
// concept, merging the old identifier's history into the new one when merge is true.
func (a *Analytics) ChangeDeviceID(id string, merge bool) {
	for _, p := range a.activeProxies() {
		if !p.Capabilities().DeviceIDManagement {
			continue
		}
		p.ChangeDeviceID(id, merge)
	}
}

// DistinctID returns the distinct id of the first active provider that models identity
// that way. The second return value is false if no such provider is active.
func (a *Analytics) DistinctID() (string, bool) {
	for _, p := range a.activeProxies() {
		if id, ok := p.DistinctID(); ok {
			return id, true
		}
	}
	return "", false
}

// Alias links an additional identifier to the current identity on every active provider
// that models identity as a distinct id.
func (a *Analytics) Alias(alias string) {
	for _, p := range a.activeProxies() {
		p.Alias(alias)
	}
}
