// Package timeouts defines shared timeout constants used across the web
// process. Keeping them together makes the durations discoverable.
package timeouts

import "time"

// APIRequest caps the time allowed for a single call to the blog API.
const APIRequest = 10 * time.Second

// StorePing caps the wait time when checking a session store at startup.
const StorePing = 2 * time.Second

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second
