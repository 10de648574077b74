package testing

import (
	"math/rand"
	"testing"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
)

// benchmark dataset dimensions
const (
	benchPeople = 1000
	benchPlaces = 500
	benchVisits = 20000
)

// RunStoreBenchmarks runs all benchmarks for an IStore implementation.
func RunStoreBenchmarks(b *testing.B, name string, factory StoreFactory) {
	b.Run(name, func(b *testing.B) {
		b.Run("GetVisit", func(b *testing.B) {
			benchmarkGetVisit(b, populated(b, factory))
		})

		b.Run("CreateVisit", func(b *testing.B) {
			benchmarkCreateVisit(b, populated(b, factory))
		})

		b.Run("RelocateVisit", func(b *testing.B) {
			benchmarkRelocateVisit(b, populated(b, factory))
		})

		b.Run("PersonVisits", func(b *testing.B) {
			benchmarkPersonVisits(b, populated(b, factory))
		})

		b.Run("PlaceAverage", func(b *testing.B) {
			benchmarkPlaceAverage(b, populated(b, factory))
		})

		b.Run("MixedUsage", func(b *testing.B) {
			benchmarkMixedUsage(b, populated(b, factory))
		})
	})
}

// populated creates a store with benchPeople people, benchPlaces places and
// benchVisits visits spread uniformly at random.
func populated(b *testing.B, factory StoreFactory) store.IStore {
	b.Helper()
	s := factory(ReferenceTime)
	rng := rand.New(rand.NewSource(1))
	countries := []string{"Chile", "Peru", "Japan", "Norway"}

	for id := uint32(1); id <= benchPeople; id++ {
		gender := model.GenderMale
		if id%2 == 0 {
			gender = model.GenderFemale
		}
		if err := s.CreatePerson(model.Person{ID: id, Gender: gender, BirthDate: rng.Int63n(1e9) - 5e8}); err != nil {
			b.Fatal(err)
		}
	}
	for id := uint32(1); id <= benchPlaces; id++ {
		place := model.Place{ID: id, Country: countries[rng.Intn(len(countries))], Distance: uint32(rng.Intn(100))}
		if err := s.CreatePlace(place); err != nil {
			b.Fatal(err)
		}
	}
	for id := uint32(1); id <= benchVisits; id++ {
		if err := s.CreateVisit(randomVisit(rng, id)); err != nil {
			b.Fatal(err)
		}
	}
	return s
}

func randomVisit(rng *rand.Rand, id uint32) model.VisitEvent {
	return model.VisitEvent{
		ID:        id,
		Person:    uint32(1 + rng.Intn(benchPeople)),
		Place:     uint32(1 + rng.Intn(benchPlaces)),
		VisitedAt: rng.Int63n(1.5e9),
		Mark:      uint8(rng.Intn(6)),
	}
}

// --------------------------------------------------------------------------
// Benchmark functions
// --------------------------------------------------------------------------

func benchmarkGetVisit(b *testing.B, s store.IStore) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.GetVisit(uint32(1 + i%benchVisits))
	}
}

func benchmarkCreateVisit(b *testing.B, s store.IStore) {
	rng := rand.New(rand.NewSource(2))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := s.CreateVisit(randomVisit(rng, uint32(benchVisits+1+i))); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkRelocateVisit(b *testing.B, s store.IStore) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		person := uint32(1 + i%benchPeople)
		place := uint32(1 + i%benchPlaces)
		if err := s.UpdateVisit(uint32(1+i%benchVisits), model.VisitUpdate{Person: &person, Place: &place}); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkPersonVisits(b *testing.B, s store.IStore) {
	country := "Chile"
	filter := &model.VisitFilter{Country: &country}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.PersonVisits(uint32(1+i%benchPeople), filter); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkPlaceAverage(b *testing.B, s store.IStore) {
	fromAge := 18
	filter := &model.AverageFilter{FromAge: &fromAge}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := s.PlaceAverage(uint32(1+i%benchPlaces), filter); err != nil {
			b.Fatal(err)
		}
	}
}

// benchmarkMixedUsage runs roughly 90% reads and 10% writes in parallel.
func benchmarkMixedUsage(b *testing.B, s store.IStore) {
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		rng := rand.New(rand.NewSource(rand.Int63()))
		for pb.Next() {
			switch n := rng.Intn(10); {
			case n == 0:
				mark := uint8(rng.Intn(6))
				_ = s.UpdateVisit(uint32(1+rng.Intn(benchVisits)), model.VisitUpdate{Mark: &mark})
			case n < 4:
				s.GetPerson(uint32(1 + rng.Intn(benchPeople)))
			case n < 7:
				_, _ = s.PersonVisits(uint32(1+rng.Intn(benchPeople)), nil)
			default:
				_, _ = s.PlaceAverage(uint32(1+rng.Intn(benchPlaces)), nil)
			}
		}
	})
}
