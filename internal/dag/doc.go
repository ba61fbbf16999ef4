// Package dag provides a small, concurrency-safe directed graph keyed by
// string IDs. The closure builder uses it to record which workflow references
// which sub-workflow and to report reference cycles.
package dag
