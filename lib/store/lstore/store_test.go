package lstore

import (
	"sync"
	"testing"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	storetesting "github.com/ValentinKolb/travels/lib/store/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factory(ref int64) store.IStore {
	return NewLocalStore(Options{ReferenceTime: ref})
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "LocalStore", factory)
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "LocalStore", factory)
}

func ptr[T any](v T) *T { return &v }

// newSeeded creates a store with two people, two places and visit 10 of person 1 at place 5.
func newSeeded(t *testing.T) *storeImpl {
	t.Helper()
	s := newStore(Options{ReferenceTime: storetesting.ReferenceTime})
	require.NoError(t, s.CreatePerson(model.Person{ID: 1, Gender: model.GenderMale, BirthDate: -712108800}))
	require.NoError(t, s.CreatePerson(model.Person{ID: 2, Gender: model.GenderFemale}))
	require.NoError(t, s.CreatePlace(model.Place{ID: 5, Place: "Tower"}))
	require.NoError(t, s.CreatePlace(model.Place{ID: 6, Place: "Bridge"}))
	require.NoError(t, s.CreateVisit(model.VisitEvent{ID: 10, Person: 1, Place: 5, Mark: 80, VisitedAt: 1000}))
	return s
}

func bucket(t *testing.T, s *storeImpl, persons bool, key uint32) []uint32 {
	t.Helper()
	idx := s.placeVisits
	if persons {
		idx = s.personVisits
	}
	ids, _ := idx.Bucket(key)
	return ids
}

func TestAgeCacheScenario(t *testing.T) {
	s := newSeeded(t)

	// 1947-06-09, reference 2017-08-25
	age, ok := s.ages.get(1)
	require.True(t, ok)
	assert.Equal(t, 2017-1947, age)

	require.NoError(t, s.UpdatePerson(1, model.PersonUpdate{Gender: ptr(model.GenderFemale)}))
	person, _ := s.GetPerson(1)
	assert.Equal(t, model.Person{ID: 1, Gender: model.GenderFemale, BirthDate: -712108800}, person)
	age, _ = s.ages.get(1)
	assert.Equal(t, 70, age)

	// 1947-08-26 has its birthday one day after the reference instant
	require.NoError(t, s.UpdatePerson(1, model.PersonUpdate{BirthDate: ptr[int64](-705369600)}))
	age, _ = s.ages.get(1)
	assert.Equal(t, 69, age)
}

func TestRelocationScenario(t *testing.T) {
	s := newSeeded(t)
	require.NoError(t, s.CreateVisit(model.VisitEvent{ID: 11, Person: 2, Place: 5, Mark: 1, VisitedAt: 2000}))

	require.NoError(t, s.UpdateVisit(10, model.VisitUpdate{Person: ptr[uint32](2)}))

	assert.Empty(t, bucket(t, s, true, 1))
	assert.Equal(t, []uint32{11, 10}, bucket(t, s, true, 2))
	assert.Equal(t, []uint32{10, 11}, bucket(t, s, false, 5))

	require.NoError(t, s.UpdateVisit(10, model.VisitUpdate{Place: ptr[uint32](6)}))
	assert.Equal(t, []uint32{11}, bucket(t, s, false, 5))
	assert.Equal(t, []uint32{10}, bucket(t, s, false, 6))
	assert.Equal(t, []uint32{11, 10}, bucket(t, s, true, 2))

	require.NoError(t, s.Verify())
	assert.Equal(t, uint64(8), s.Info().Writes)
}

func TestFailedUpdateLeavesIndicesAlone(t *testing.T) {
	s := newSeeded(t)

	err := s.UpdateVisit(10, model.VisitUpdate{Place: ptr[uint32](6), Person: ptr[uint32](99)})
	require.Equal(t, store.RetCBadRequest, store.CodeOf(err))

	assert.Equal(t, []uint32{10}, bucket(t, s, false, 5))
	assert.Equal(t, []uint32{10}, bucket(t, s, true, 1))
	visit, _ := s.GetVisit(10)
	assert.Equal(t, uint32(5), visit.Place)
}

func TestDanglingReferenceIsInternal(t *testing.T) {
	s := newSeeded(t)

	// break the invariant behind the store's back
	s.places.mu.Lock()
	delete(s.places.rows, 5)
	s.places.mu.Unlock()

	_, err := s.PersonVisits(1, &model.VisitFilter{Country: ptr("Chile")})
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))
	_, err = s.PersonVisits(1, nil)
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))
	assert.Equal(t, store.RetCInternalError, store.CodeOf(s.Verify()))

	s.ages.mu.Lock()
	delete(s.ages.rows, 1)
	s.ages.mu.Unlock()
	s.places.mu.Lock()
	s.places.rows[5] = model.Place{ID: 5}
	s.places.mu.Unlock()

	_, err = s.PlaceAverage(5, &model.AverageFilter{FromAge: ptr(10)})
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))
	// without an age filter the age cache is never consulted
	avg, err := s.PlaceAverage(5, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, avg)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(s *storeImpl)
	}{
		{"visit in wrong bucket", func(s *storeImpl) {
			s.placeVisits.Relocate(10, 5, 99)
		}},
		{"visit indexed twice", func(s *storeImpl) {
			s.personVisits.Append(2, 10)
		}},
		{"unknown visit in bucket", func(s *storeImpl) {
			s.placeVisits.Append(5, 77)
		}},
		{"stale age", func(s *storeImpl) {
			s.ages.mu.Lock()
			s.ages.rows[1] = 3
			s.ages.mu.Unlock()
		}},
		{"orphan age", func(s *storeImpl) {
			s.ages.mu.Lock()
			s.ages.rows[42] = 3
			s.ages.mu.Unlock()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSeeded(t)
			require.NoError(t, s.Verify())
			tt.corrupt(s)
			assert.Equal(t, store.RetCInternalError, store.CodeOf(s.Verify()))
		})
	}
}

func TestInfo(t *testing.T) {
	s := newSeeded(t)
	require.NoError(t, s.CreateVisit(model.VisitEvent{ID: 11, Person: 1, Place: 6}))
	require.NoError(t, s.CreateVisit(model.VisitEvent{ID: 12, Person: 1, Place: 6}))

	info := s.Info()
	assert.Equal(t, 2, info.People)
	assert.Equal(t, 2, info.Places)
	assert.Equal(t, 3, info.Visits)
	assert.Equal(t, storetesting.ReferenceTime, info.ReferenceTime)
	assert.Equal(t, 2, info.PlaceVisitBuckets.Count)
	assert.InDelta(t, 3.0, info.PlaceVisitBuckets.Total, 1e-9)
	assert.InDelta(t, 2.0, info.PlaceVisitBuckets.Max, 1e-9)
	assert.Equal(t, 1, info.PersonVisitBuckets.Count)
}

func TestRelocateRacesWithQueries(t *testing.T) {
	s := newSeeded(t)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.UpdateVisit(10, model.VisitUpdate{
				Person: ptr(uint32(1 + i%2)),
				Place:  ptr(uint32(5 + i%2)),
			}))
		}(i)
		go func() {
			defer wg.Done()
			_, err := s.PersonVisits(1, nil)
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := s.PlaceAverage(6, nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	require.NoError(t, s.Verify())
	total := len(bucket(t, s, true, 1)) + len(bucket(t, s, true, 2))
	assert.Equal(t, 1, total)
}
