// Package flatdb persists a single in-memory object to a checksummed
// flat file and restores it on startup.
//
// It exists so node-style software can cache expensive-to-rebuild
// state (peer lists, fulfilled-request ledgers) across restarts, while
// guaranteeing that a corrupted, stale, or foreign cache file is
// detected instead of silently loaded.
//
// # File format
//
// A store file is a single blob:
//
//	[store tag: uvarint length + bytes][network magic: 4 bytes][payload][checksum: 32 bytes]
//
// The BLAKE2b-256 checksum covers every byte before it. The payload
// length is derived from the file size, never stored.
//
// # Recovery policy
//
// Read classifies every outcome as a ReadResult. Two failures are
// recoverable: a missing file (cold start) and an undecodable payload
// (the object is cleared). Load continues past those and the next Dump
// recreates the file. Everything else (bad checksum, foreign tag or
// network, IO failure) means the file cannot be trusted or judged, so
// Load and Dump refuse to proceed until someone fixes or removes it.
//
// # Locking
//
// Write holds the object's exclusive lock for its full duration, so
// every dump is a consistent snapshot. Read does not lock: objects are
// loaded before they are shared.
//
// # Durability
//
// Writes overwrite the file in place, with no temp file, rename, or
// fsync. A crash mid-write can corrupt the file; the checksum turns
// that into a detected fatal condition on the next read rather than
// silent bad state.
package flatdb
