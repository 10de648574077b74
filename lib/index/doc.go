// Package index implements the derived reverse reference indices of the store
// (place -> visits, person -> visits).
//
// Buckets keep insertion order. Relocating an id removes it from its old bucket
// without disturbing the order of the remaining ids and appends it to the end
// of the new bucket, so the original relative position is not preserved.
//
// Each Index owns one reader/writer lock (xsync.RBMutex). The store decides in
// which order indices are locked; the index itself never calls out while
// holding its lock.
package index
