package lstore

import (
	"github.com/RoaringBitmap/roaring"
	"github.com/ValentinKolb/travels/lib/index"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/lib/util"
)

// Verify audits the derived state against the tables:
//   - every visit appears exactly once in each index, under the bucket of its current reference
//   - no index bucket holds an id that is not a visit
//   - every visit references an existing person and place
//   - every person has an age cache entry equal to the recomputed age, and no other entries exist
//
// It holds the visits read lock during the index walk, so it sees a consistent
// view of visits and indices but may block writers for a while on large stores.
func (s *storeImpl) Verify() error {
	if err := s.verifyIndices(); err != nil {
		return err
	}
	return s.verifyAges()
}

func (s *storeImpl) verifyIndices() error {
	tok := s.visits.mu.RLock()
	defer s.visits.mu.RUnlock(tok)

	// visits -> placeVisits
	if err := s.verifyIndex("place", s.placeVisits, func(visitID uint32) uint32 {
		return s.visits.rows[visitID].Place
	}); err != nil {
		return err
	}
	// visits -> personVisits
	if err := s.verifyIndex("person", s.personVisits, func(visitID uint32) uint32 {
		return s.visits.rows[visitID].Person
	}); err != nil {
		return err
	}

	// visits -> people / places (short, one after another)
	for id, v := range s.visits.rows {
		if !s.people.has(v.Person) {
			return store.Errorf(store.RetCInternalError, "visit %d references missing person %d", id, v.Person)
		}
		if !s.places.has(v.Place) {
			return store.Errorf(store.RetCInternalError, "visit %d references missing place %d", id, v.Place)
		}
	}
	return nil
}

// verifyIndex checks one index against the visits table. The caller must hold
// the visits read lock.
func (s *storeImpl) verifyIndex(name string, idx *index.Index, keyOf func(visitID uint32) uint32) error {
	seen := roaring.New()
	var err error

	idx.Range(func(key uint32, ids []uint32) bool {
		for _, id := range ids {
			if _, ok := s.visits.rows[id]; !ok {
				err = store.Errorf(store.RetCInternalError, "%s index: bucket %d holds unknown visit %d", name, key, id)
				return false
			}
			if !seen.CheckedAdd(id) {
				err = store.Errorf(store.RetCInternalError, "%s index: visit %d is indexed more than once", name, id)
				return false
			}
			if want := keyOf(id); want != key {
				err = store.Errorf(store.RetCInternalError, "%s index: visit %d is in bucket %d, expected %d", name, id, key, want)
				return false
			}
		}
		return true
	})
	if err != nil {
		return err
	}

	if seen.GetCardinality() != uint64(len(s.visits.rows)) {
		for id := range s.visits.rows {
			if !seen.Contains(id) {
				return store.Errorf(store.RetCInternalError, "%s index: visit %d is not indexed", name, id)
			}
		}
	}
	return nil
}

func (s *storeImpl) verifyAges() error {
	tok := s.people.mu.RLock()
	defer s.people.mu.RUnlock(tok)

	// people -> ages
	ageTok := s.ages.mu.RLock()
	defer s.ages.mu.RUnlock(ageTok)

	for id, p := range s.people.rows {
		cached, ok := s.ages.rows[id]
		if !ok {
			return store.Errorf(store.RetCInternalError, "person %d has no cached age", id)
		}
		if want := s.computeAge(p.BirthDate); cached != want {
			return store.Errorf(store.RetCInternalError, "person %d: cached age %d, expected %d", id, cached, want)
		}
	}
	if len(s.ages.rows) != len(s.people.rows) {
		return store.Errorf(store.RetCInternalError, "age cache holds %d entries for %d people", len(s.ages.rows), len(s.people.rows))
	}
	return nil
}

func (s *storeImpl) Info() store.Info {
	return store.Info{
		People:             s.people.len(),
		Places:             s.places.len(),
		Visits:             s.visits.len(),
		Writes:             s.writes.Load(),
		PlaceVisitBuckets:  bucketStats(s.placeVisits),
		PersonVisitBuckets: bucketStats(s.personVisits),
		ReferenceTime:      s.reference,
	}
}

func bucketStats(idx *index.Index) util.DistributionStats {
	sizes := make([]int, 0, idx.Len())
	idx.Range(func(_ uint32, ids []uint32) bool {
		sizes = append(sizes, len(ids))
		return true
	})
	return util.NewDistributionStats(sizes)
}
