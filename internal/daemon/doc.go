// Package daemon wires the long-running interview intake service: the
// session store, the upload pipeline, the lifecycle controller, and the HTTP
// API that fronts them, with graceful shutdown on context cancellation.
package daemon
