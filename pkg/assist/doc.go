// Package assist is a stateful client-side cache and polling layer for an
// assistants/threads/messages/runs HTTP API. A Session owns a typed object
// cache with per-object event propagation; handles front individual cache
// entries; run handles drive a polling loop that tracks asynchronous runs
// to completion.
package assist

// Compile-time interface compliance check.
var _ Transport = (*OpenAITransport)(nil)
