// Package cache provides an in-memory keyed store with pluggable eviction.
//
// The calculation engine keeps its sessions here. Nothing is evicted in
// the background: callers sweep the store explicitly with an
// EvictionPolicy, which keeps cleanup schedulable by the host and
// testable with an injected clock. Key features:
//   - Generic over the stored value type
//   - Creation and last-access timestamps per entry
//   - Composable policies (OlderThan, IdleFor, All, Any, PolicyFunc)
//   - Retention parsing ("3600", "1h30m", "3d") and compact formatting
package cache
