// Package peercache is a TTL-pruned cache of known peer addresses,
// persistable through the flatdb store.
//
// Peers that have not been seen for longer than the TTL are dropped by
// CheckAndRemove, which runs automatically after every load and can
// also be called periodically at runtime.
package peercache
