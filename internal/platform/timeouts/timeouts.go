// Package timeouts defines shared timeout constants used across the engine.
// Centralizing these values prevents drift between service boundaries and
// makes the durations discoverable.
package timeouts

import "time"

// StoreIO caps a single history store read or write. Calls exceeding this
// bound fail with DATA_STORE_UNAVAILABLE instead of hanging.
const StoreIO = 2 * time.Second

// Shutdown limits how long the service waits for in-flight work during
// graceful shutdown.
const Shutdown = 5 * time.Second
