// Package api defines the JSON request and response shapes of the HTTP
// surface plus read-only view services over the session store. Handlers live
// in the daemon package; this package holds the wire contracts so the CLI
// and tests can share them.
package api
