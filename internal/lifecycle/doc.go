// Package lifecycle implements session start and finish semantics on top of
// the session store.
package lifecycle
