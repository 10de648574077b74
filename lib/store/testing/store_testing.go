package testing

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// StoreFactory creates a new, empty store that computes ages against referenceTime.
type StoreFactory func(referenceTime int64) store.IStore

// ReferenceTime is the reference instant used by the suite (2017-08-25 21:10:52 UTC).
const ReferenceTime int64 = 1503695452

// RunStoreTests runs a comprehensive test suite for an IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			testRoundTrip(t, factory(ReferenceTime))
		})

		t.Run("Conflict", func(t *testing.T) {
			testConflict(t, factory(ReferenceTime))
		})

		t.Run("NotFound", func(t *testing.T) {
			testNotFound(t, factory(ReferenceTime))
		})

		t.Run("PartialUpdate", func(t *testing.T) {
			testPartialUpdate(t, factory(ReferenceTime))
		})

		t.Run("Validation", func(t *testing.T) {
			testValidation(t, factory(ReferenceTime))
		})

		t.Run("PersonVisits", func(t *testing.T) {
			testPersonVisits(t, factory(ReferenceTime))
		})

		t.Run("PlaceAverage", func(t *testing.T) {
			testPlaceAverage(t, factory(ReferenceTime))
		})

		t.Run("AverageRounding", func(t *testing.T) {
			testAverageRounding(t, factory(ReferenceTime))
		})

		t.Run("Relocation", func(t *testing.T) {
			testRelocation(t, factory(ReferenceTime))
		})

		t.Run("AgeFollowsBirthDate", func(t *testing.T) {
			testAgeFollowsBirthDate(t, factory(ReferenceTime))
		})

		t.Run("ConcurrentUsage", func(t *testing.T) {
			testConcurrentUsage(t, factory(ReferenceTime))
		})
	})
}

// --------------------------------------------------------------------------
// Fixture
// --------------------------------------------------------------------------

// Ages at ReferenceTime: person 1 is 70, person 2 is 17, person 3 is 26
// (turning 27 one day after the reference instant).
var (
	fixturePeople = []model.Person{
		{ID: 1, Email: "a@example.com", FirstName: "Ann", LastName: "Ash", Gender: model.GenderMale, BirthDate: -712108800},
		{ID: 2, Email: "b@example.com", FirstName: "Bea", LastName: "Birch", Gender: model.GenderFemale, BirthDate: 946684800},
		{ID: 3, Email: "c@example.com", FirstName: "Cid", LastName: "Cedar", Gender: model.GenderFemale, BirthDate: 651628800},
	}
	fixturePlaces = []model.Place{
		{ID: 5, Place: "Tower", Country: "Chile", City: "Lima", Distance: 10},
		{ID: 6, Place: "Bridge", Country: "Peru", City: "Cusco", Distance: 20},
		{ID: 7, Place: "Museum", Country: "Chile", City: "Arica", Distance: 30},
		{ID: 8, Place: "Desert", Country: "Chile", City: "Calama", Distance: 40},
	}
	fixtureVisits = []model.VisitEvent{
		{ID: 1, Person: 1, Place: 5, VisitedAt: 400, Mark: 4},
		{ID: 2, Person: 2, Place: 5, VisitedAt: 1000, Mark: 3},
		{ID: 3, Person: 3, Place: 5, VisitedAt: 1600, Mark: 5},
		{ID: 4, Person: 1, Place: 5, VisitedAt: 2000, Mark: 1},
		{ID: 5, Person: 1, Place: 6, VisitedAt: 1000, Mark: 2},
		{ID: 6, Person: 1, Place: 7, VisitedAt: 1000, Mark: 3},
	}
)

func seed(t *testing.T, s store.IStore) {
	t.Helper()
	for _, p := range fixturePeople {
		require.NoError(t, s.CreatePerson(p))
	}
	for _, p := range fixturePlaces {
		require.NoError(t, s.CreatePlace(p))
	}
	for _, v := range fixtureVisits {
		require.NoError(t, s.CreateVisit(v))
	}
}

func ptr[T any](v T) *T { return &v }

func requireCode(t *testing.T, want store.RetCode, err error) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, store.CodeOf(err), "unexpected error: %v", err)
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testRoundTrip(t *testing.T, s store.IStore) {
	seed(t, s)

	for _, want := range fixturePeople {
		got, ok := s.GetPerson(want.ID)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, want := range fixturePlaces {
		got, ok := s.GetPlace(want.ID)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
	for _, want := range fixtureVisits {
		got, ok := s.GetVisit(want.ID)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}

	// lookups have no side effects
	first, _ := s.GetVisit(3)
	second, _ := s.GetVisit(3)
	assert.Equal(t, first, second)

	require.NoError(t, s.Verify())
}

func testConflict(t *testing.T, s store.IStore) {
	seed(t, s)

	requireCode(t, store.RetCConflict, s.CreatePerson(model.Person{ID: 1, Gender: model.GenderFemale, Email: "other"}))
	requireCode(t, store.RetCConflict, s.CreatePlace(model.Place{ID: 5, Place: "other"}))
	requireCode(t, store.RetCConflict, s.CreateVisit(model.VisitEvent{ID: 1, Person: 2, Place: 6, Mark: 1}))

	// nothing changed
	person, _ := s.GetPerson(1)
	assert.Equal(t, fixturePeople[0], person)
	place, _ := s.GetPlace(5)
	assert.Equal(t, fixturePlaces[0], place)
	visit, _ := s.GetVisit(1)
	assert.Equal(t, fixtureVisits[0], visit)

	require.NoError(t, s.Verify())
}

func testNotFound(t *testing.T, s store.IStore) {
	seed(t, s)

	_, ok := s.GetPerson(99)
	assert.False(t, ok)
	_, ok = s.GetPlace(99)
	assert.False(t, ok)
	_, ok = s.GetVisit(99)
	assert.False(t, ok)

	requireCode(t, store.RetCNotFound, s.UpdatePerson(99, model.PersonUpdate{Email: ptr("x")}))
	requireCode(t, store.RetCNotFound, s.UpdatePlace(99, model.PlaceUpdate{City: ptr("x")}))
	requireCode(t, store.RetCNotFound, s.UpdateVisit(99, model.VisitUpdate{Mark: ptr[uint8](1)}))

	_, err := s.PersonVisits(99, nil)
	requireCode(t, store.RetCNotFound, err)
	_, err = s.PlaceAverage(99, nil)
	requireCode(t, store.RetCNotFound, err)
}

func testPartialUpdate(t *testing.T, s store.IStore) {
	seed(t, s)

	require.NoError(t, s.UpdatePerson(1, model.PersonUpdate{Gender: ptr(model.GenderFemale)}))
	person, ok := s.GetPerson(1)
	require.True(t, ok)
	want := fixturePeople[0]
	want.Gender = model.GenderFemale
	assert.Equal(t, want, person)

	// zero values are applied, not ignored
	require.NoError(t, s.UpdatePlace(6, model.PlaceUpdate{Distance: ptr[uint32](0), City: ptr("")}))
	place, _ := s.GetPlace(6)
	assert.Equal(t, uint32(0), place.Distance)
	assert.Equal(t, "", place.City)
	assert.Equal(t, "Bridge", place.Place)

	require.NoError(t, s.UpdateVisit(2, model.VisitUpdate{Mark: ptr[uint8](0)}))
	visit, _ := s.GetVisit(2)
	assert.Equal(t, uint8(0), visit.Mark)
	assert.Equal(t, int64(1000), visit.VisitedAt)

	// an empty update is a no-op
	require.NoError(t, s.UpdatePerson(2, model.PersonUpdate{}))
	person, _ = s.GetPerson(2)
	assert.Equal(t, fixturePeople[1], person)

	require.NoError(t, s.Verify())
}

func testValidation(t *testing.T, s store.IStore) {
	seed(t, s)

	tests := []struct {
		name string
		run  func() error
	}{
		{"mark above maximum", func() error {
			return s.CreateVisit(model.VisitEvent{ID: 40, Person: 1, Place: 5, Mark: model.MaxMark + 1})
		}},
		{"update mark above maximum", func() error {
			return s.UpdateVisit(1, model.VisitUpdate{Mark: ptr(model.MaxMark + 1)})
		}},
		{"visit of unknown person", func() error {
			return s.CreateVisit(model.VisitEvent{ID: 40, Person: 99, Place: 5})
		}},
		{"visit of unknown place", func() error {
			return s.CreateVisit(model.VisitEvent{ID: 40, Person: 1, Place: 99})
		}},
		{"move visit to unknown person", func() error {
			return s.UpdateVisit(1, model.VisitUpdate{Person: ptr[uint32](99)})
		}},
		{"move visit to unknown place", func() error {
			return s.UpdateVisit(1, model.VisitUpdate{Place: ptr[uint32](99)})
		}},
		{"move visit with one unknown reference", func() error {
			return s.UpdateVisit(1, model.VisitUpdate{Place: ptr[uint32](6), Person: ptr[uint32](99)})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireCode(t, store.RetCBadRequest, tt.run())
		})
	}

	// rejected writes left no trace
	_, ok := s.GetPerson(40)
	assert.False(t, ok)
	_, ok = s.GetVisit(40)
	assert.False(t, ok)
	visit, _ := s.GetVisit(1)
	assert.Equal(t, fixtureVisits[0], visit)
	require.NoError(t, s.Verify())
}

func testPersonVisits(t *testing.T, s store.IStore) {
	seed(t, s)

	info := func(v model.VisitEvent, place string) model.VisitInfo {
		return model.VisitInfo{Mark: v.Mark, VisitedAt: v.VisitedAt, Place: place}
	}
	v1 := info(fixtureVisits[0], "Tower")
	v4 := info(fixtureVisits[3], "Tower")
	v5 := info(fixtureVisits[4], "Bridge")
	v6 := info(fixtureVisits[5], "Museum")

	tests := []struct {
		name   string
		filter *model.VisitFilter
		want   []model.VisitInfo
	}{
		{"no filter sorted by time, ties keep insertion order", nil, []model.VisitInfo{v1, v5, v6, v4}},
		{"from date is exclusive", &model.VisitFilter{FromDate: ptr[int64](400)}, []model.VisitInfo{v5, v6, v4}},
		{"to date is exclusive", &model.VisitFilter{ToDate: ptr[int64](2000)}, []model.VisitInfo{v1, v5, v6}},
		{"date window", &model.VisitFilter{FromDate: ptr[int64](500), ToDate: ptr[int64](1500)}, []model.VisitInfo{v5, v6}},
		{"country", &model.VisitFilter{Country: ptr("Chile")}, []model.VisitInfo{v1, v6, v4}},
		{"unknown country", &model.VisitFilter{Country: ptr("Mars")}, []model.VisitInfo{}},
		{"distance is exclusive", &model.VisitFilter{MaxDistance: ptr[uint32](20)}, []model.VisitInfo{v1, v4}},
		{"combined", &model.VisitFilter{FromDate: ptr[int64](500), Country: ptr("Chile")}, []model.VisitInfo{v6, v4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.PersonVisits(1, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("empty filter set", func(t *testing.T) {
		_, err := s.PersonVisits(1, &model.VisitFilter{})
		requireCode(t, store.RetCBadRequest, err)
	})

	t.Run("person without visits", func(t *testing.T) {
		require.NoError(t, s.CreatePerson(model.Person{ID: 20, Gender: model.GenderMale}))
		got, err := s.PersonVisits(20, &model.VisitFilter{Country: ptr("Chile")})
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("sees updated place", func(t *testing.T) {
		require.NoError(t, s.UpdatePlace(6, model.PlaceUpdate{Country: ptr("Chile"), Place: ptr("New Bridge")}))
		got, err := s.PersonVisits(1, &model.VisitFilter{Country: ptr("Chile")})
		require.NoError(t, err)
		assert.Equal(t, []model.VisitInfo{v1, info(fixtureVisits[4], "New Bridge"), v6, v4}, got)
	})
}

func testPlaceAverage(t *testing.T, s store.IStore) {
	seed(t, s)

	tests := []struct {
		name   string
		filter *model.AverageFilter
		want   float64
	}{
		{"no filter", nil, 3.25},
		{"date window", &model.AverageFilter{FromDate: ptr[int64](500), ToDate: ptr[int64](1500)}, 3},
		{"from date is exclusive", &model.AverageFilter{FromDate: ptr[int64](1600)}, 1},
		{"to date is exclusive", &model.AverageFilter{ToDate: ptr[int64](1000)}, 4},
		{"adults", &model.AverageFilter{FromAge: ptr(18)}, 3.33333},
		{"to age is exclusive", &model.AverageFilter{ToAge: ptr(26)}, 3},
		{"from age is inclusive", &model.AverageFilter{FromAge: ptr(26), ToAge: ptr(27)}, 5},
		{"female", &model.AverageFilter{Gender: ptr(model.GenderFemale)}, 4},
		{"male", &model.AverageFilter{Gender: ptr(model.GenderMale)}, 2.5},
		{"nothing matches", &model.AverageFilter{FromAge: ptr(100)}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.PlaceAverage(5, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("place without visits", func(t *testing.T) {
		got, err := s.PlaceAverage(8, &model.AverageFilter{Gender: ptr(model.GenderMale)})
		require.NoError(t, err)
		assert.Equal(t, 0.0, got)
	})

	t.Run("empty filter set", func(t *testing.T) {
		_, err := s.PlaceAverage(5, &model.AverageFilter{})
		requireCode(t, store.RetCBadRequest, err)
	})
}

func testAverageRounding(t *testing.T, s store.IStore) {
	seed(t, s)

	for i, mark := range []uint8{1, 1, 0} {
		require.NoError(t, s.CreateVisit(model.VisitEvent{ID: uint32(100 + i), Person: 2, Place: 8, VisitedAt: 5000, Mark: mark}))
	}
	got, err := s.PlaceAverage(8, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.66667, got)

	require.NoError(t, s.UpdateVisit(101, model.VisitUpdate{Mark: ptr[uint8](0)}))
	got, err = s.PlaceAverage(8, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.33333, got)

	require.NoError(t, s.UpdateVisit(100, model.VisitUpdate{Mark: ptr[uint8](0)}))
	got, err = s.PlaceAverage(8, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func testRelocation(t *testing.T, s store.IStore) {
	seed(t, s)

	require.NoError(t, s.CreateVisit(model.VisitEvent{ID: 10, Person: 1, Place: 5, VisitedAt: 1000, Mark: 80}))
	before, err := s.PlaceAverage(5, nil)
	require.NoError(t, err)

	require.NoError(t, s.UpdateVisit(10, model.VisitUpdate{Person: ptr[uint32](2)}))

	visits, err := s.PersonVisits(1, nil)
	require.NoError(t, err)
	for _, v := range visits {
		assert.NotEqual(t, uint8(80), v.Mark)
	}
	visits, err = s.PersonVisits(2, nil)
	require.NoError(t, err)
	assert.Contains(t, visits, model.VisitInfo{Mark: 80, VisitedAt: 1000, Place: "Tower"})

	// the place index was not touched
	after, err := s.PlaceAverage(5, nil)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	// moving the place shifts the average
	require.NoError(t, s.UpdateVisit(10, model.VisitUpdate{Place: ptr[uint32](8)}))
	got, err := s.PlaceAverage(8, nil)
	require.NoError(t, err)
	assert.Equal(t, 80.0, got)
	got, err = s.PlaceAverage(5, nil)
	require.NoError(t, err)
	assert.Equal(t, 3.25, got)

	// the same reference again is not a move
	require.NoError(t, s.UpdateVisit(10, model.VisitUpdate{Place: ptr[uint32](8), Person: ptr[uint32](2)}))
	require.NoError(t, s.Verify())
}

func testAgeFollowsBirthDate(t *testing.T, s store.IStore) {
	seed(t, s)

	adults := &model.AverageFilter{FromAge: ptr(27)}
	got, err := s.PlaceAverage(5, adults)
	require.NoError(t, err)
	assert.Equal(t, 2.5, got) // person 1 only

	// person 3 born one day earlier has had the 27th birthday on the reference day
	require.NoError(t, s.UpdatePerson(3, model.PersonUpdate{BirthDate: ptr[int64](651542400)}))
	got, err = s.PlaceAverage(5, adults)
	require.NoError(t, err)
	assert.Equal(t, 3.33333, got)

	// other fields leave the age alone
	require.NoError(t, s.UpdatePerson(3, model.PersonUpdate{Email: ptr("new@example.com")}))
	got, err = s.PlaceAverage(5, adults)
	require.NoError(t, err)
	assert.Equal(t, 3.33333, got)

	require.NoError(t, s.Verify())
}

func testConcurrentUsage(t *testing.T, s store.IStore) {
	seed(t, s)

	const (
		workers = 8
		rounds  = 200
	)
	people := []uint32{1, 2, 3}
	places := []uint32{5, 6, 7, 8}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(w)))
			for i := 0; i < rounds; i++ {
				id := uint32(1000 + w*rounds + i)
				switch rng.Intn(5) {
				case 0:
					assert.NoError(t, s.CreateVisit(model.VisitEvent{
						ID:        id,
						Person:    people[rng.Intn(len(people))],
						Place:     places[rng.Intn(len(places))],
						VisitedAt: rng.Int63n(10000),
						Mark:      uint8(rng.Intn(6)),
					}))
				case 1:
					visit := uint32(1 + rng.Intn(len(fixtureVisits)))
					assert.NoError(t, s.UpdateVisit(visit, model.VisitUpdate{
						Person: ptr(people[rng.Intn(len(people))]),
						Place:  ptr(places[rng.Intn(len(places))]),
					}))
				case 2:
					assert.NoError(t, s.UpdatePerson(people[rng.Intn(len(people))], model.PersonUpdate{
						BirthDate: ptr(rng.Int63n(1e9)),
					}))
				case 3:
					_, err := s.PersonVisits(people[rng.Intn(len(people))], &model.VisitFilter{Country: ptr("Chile")})
					assert.NoError(t, err)
				default:
					_, err := s.PlaceAverage(places[rng.Intn(len(places))], &model.AverageFilter{FromAge: ptr(18)})
					assert.NoError(t, err)
				}
			}
		}(w)
	}
	wg.Wait()

	require.NoError(t, s.Verify())

	// every visit is listed exactly once across all people
	info := s.Info()
	total := 0
	for _, id := range people {
		visits, err := s.PersonVisits(id, nil)
		require.NoError(t, err)
		total += len(visits)
	}
	assert.Equal(t, info.Visits, total)
}
