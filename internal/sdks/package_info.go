// Package sdks abstracts the wrapped third-party analytics SDK clients behind narrow
// contracts, so that the rest of the facade never touches a vendor SDK type directly.
//
// The adapters translate unified operations into calls on these contracts; the contracts
// are deliberately minimal and trust the underlying client to do its own batching,
// queuing, retries, and failure handling. Default factories construct real clients; tests
// substitute fakes.
package sdks
