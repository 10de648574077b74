package index

import (
	"slices"

	"github.com/puzpuzpuz/xsync/v3"
)

// Index is a reverse reference index: it maps a foreign key (e.g. a place id)
// to the ordered list of record ids (e.g. visit ids) referencing it.
//
// Every method takes the index lock for its whole duration, readers share it and
// writers hold it exclusively. The lock is reader biased because the index is
// read on every query but written only on creates and reference changes.
//
// Thread-safety: All methods are safe for concurrent use.
type Index struct {
	mu      *xsync.RBMutex
	buckets map[uint32][]uint32
}

// New creates an empty index. sizeHint preallocates room for that many keys.
func New(sizeHint int) *Index {
	return &Index{
		mu:      xsync.NewRBMutex(),
		buckets: make(map[uint32][]uint32, sizeHint),
	}
}

// Append adds id to the end of the bucket of key, creating the bucket if absent.
func (idx *Index) Append(key, id uint32) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.buckets[key] = append(idx.buckets[key], id)
}

// Relocate moves id from the bucket of oldKey to the end of the bucket of newKey.
// The relative order of the remaining entries of oldKey is preserved. Both steps
// happen under one exclusive lock, so readers never observe id in both or in
// neither bucket.
//
// Relocate reports whether id was found in the bucket of oldKey. It is appended
// to newKey in either case.
func (idx *Index) Relocate(id, oldKey, newKey uint32) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	found := idx.remove(oldKey, id)
	idx.buckets[newKey] = append(idx.buckets[newKey], id)
	return found
}

// remove filters id out of the bucket of key. The caller must hold the write lock.
func (idx *Index) remove(key, id uint32) bool {
	bucket, ok := idx.buckets[key]
	if !ok {
		return false
	}

	pos := slices.Index(bucket, id)
	if pos < 0 {
		return false
	}

	// the bucket is copied so that slices handed out by Bucket stay untouched
	next := make([]uint32, 0, len(bucket)-1)
	next = append(next, bucket[:pos]...)
	next = append(next, bucket[pos+1:]...)
	idx.buckets[key] = next
	return true
}

// Bucket returns a copy of the ids stored under key and whether a bucket for
// key exists at all. An existing bucket may be empty after relocations.
func (idx *Index) Bucket(key uint32) ([]uint32, bool) {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)

	bucket, ok := idx.buckets[key]
	if !ok {
		return nil, false
	}
	return slices.Clone(bucket), true
}

// Len returns the number of keys with a bucket.
func (idx *Index) Len() int {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)
	return len(idx.buckets)
}

// Range calls fn for every bucket while holding the read lock. fn must not
// retain or modify ids and must not call back into the index. Iteration stops
// when fn returns false.
func (idx *Index) Range(fn func(key uint32, ids []uint32) bool) {
	t := idx.mu.RLock()
	defer idx.mu.RUnlock(t)

	for key, ids := range idx.buckets {
		if !fn(key, ids) {
			return
		}
	}
}
