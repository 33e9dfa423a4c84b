// Package session defines the durable per-session interview record and the
// file-backed store that owns it.
//
// Each session lives in its own directory under the storage root, named by a
// deterministic identifier derived from the local start time and the
// sanitized user label. The meta.json record inside that directory is the
// single source of truth for session state: upload entries, lifecycle flags,
// and the append-only event log. Saves replace the whole record atomically
// (temp file + rename), and mutating callers serialize through a per-session
// lock so concurrent commits never read-modify-write stale data.
package session
