package lstore

import (
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
)

// candidate is a visit under evaluation. Referenced records are resolved
// lazily and at most once per candidate.
type candidate struct {
	visit model.VisitEvent

	place  *model.Place
	person *model.Person
	age    *int
}

// resolver looks up the records a candidate references. Every lookup takes a
// fresh short read lock, so two predicates of the same query may observe
// different versions of a referenced record under concurrent updates.
type resolver interface {
	placeOf(c *candidate) (model.Place, error)
	personOf(c *candidate) (model.Person, error)
	ageOf(c *candidate) (int, error)
}

// predicate decides whether a candidate passes one filter.
type predicate func(c *candidate) (bool, error)

// matchAll evaluates preds in order and stops at the first rejection or error.
func matchAll(preds []predicate, c *candidate) (bool, error) {
	for _, p := range preds {
		ok, err := p(c)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// --------------------------------------------------------------------------
// Predicates
// --------------------------------------------------------------------------

func visitedAfter(from int64) predicate {
	return func(c *candidate) (bool, error) {
		return c.visit.VisitedAt > from, nil
	}
}

func visitedBefore(to int64) predicate {
	return func(c *candidate) (bool, error) {
		return c.visit.VisitedAt < to, nil
	}
}

func inCountry(r resolver, country string) predicate {
	return func(c *candidate) (bool, error) {
		place, err := r.placeOf(c)
		if err != nil {
			return false, err
		}
		return place.Country == country, nil
	}
}

func closerThan(r resolver, distance uint32) predicate {
	return func(c *candidate) (bool, error) {
		place, err := r.placeOf(c)
		if err != nil {
			return false, err
		}
		return place.Distance < distance, nil
	}
}

func atLeastAge(r resolver, from int) predicate {
	return func(c *candidate) (bool, error) {
		a, err := r.ageOf(c)
		if err != nil {
			return false, err
		}
		return a >= from, nil
	}
}

func youngerThan(r resolver, to int) predicate {
	return func(c *candidate) (bool, error) {
		a, err := r.ageOf(c)
		if err != nil {
			return false, err
		}
		return a < to, nil
	}
}

func ofGender(r resolver, g model.Gender) predicate {
	return func(c *candidate) (bool, error) {
		person, err := r.personOf(c)
		if err != nil {
			return false, err
		}
		return person.Gender == g, nil
	}
}

// visitPredicates builds the predicate chain of the person-visits query.
// Cheap predicates on the visit itself come before lookups.
func visitPredicates(r resolver, f *model.VisitFilter) []predicate {
	if f == nil {
		return nil
	}
	var preds []predicate
	if f.FromDate != nil {
		preds = append(preds, visitedAfter(*f.FromDate))
	}
	if f.ToDate != nil {
		preds = append(preds, visitedBefore(*f.ToDate))
	}
	if f.Country != nil {
		preds = append(preds, inCountry(r, *f.Country))
	}
	if f.MaxDistance != nil {
		preds = append(preds, closerThan(r, *f.MaxDistance))
	}
	return preds
}

// averagePredicates builds the predicate chain of the place-average query.
func averagePredicates(r resolver, f *model.AverageFilter) []predicate {
	if f == nil {
		return nil
	}
	var preds []predicate
	if f.FromDate != nil {
		preds = append(preds, visitedAfter(*f.FromDate))
	}
	if f.ToDate != nil {
		preds = append(preds, visitedBefore(*f.ToDate))
	}
	if f.FromAge != nil {
		preds = append(preds, atLeastAge(r, *f.FromAge))
	}
	if f.ToAge != nil {
		preds = append(preds, youngerThan(r, *f.ToAge))
	}
	if f.Gender != nil {
		preds = append(preds, ofGender(r, *f.Gender))
	}
	return preds
}

// --------------------------------------------------------------------------
// Store resolver
// --------------------------------------------------------------------------

func (s *storeImpl) placeOf(c *candidate) (model.Place, error) {
	if c.place == nil {
		place, ok := s.places.get(c.visit.Place)
		if !ok {
			return model.Place{}, s.dangling("place", c.visit.Place, c.visit.ID)
		}
		c.place = &place
	}
	return *c.place, nil
}

func (s *storeImpl) personOf(c *candidate) (model.Person, error) {
	if c.person == nil {
		person, ok := s.people.get(c.visit.Person)
		if !ok {
			return model.Person{}, s.dangling("person", c.visit.Person, c.visit.ID)
		}
		c.person = &person
	}
	return *c.person, nil
}

func (s *storeImpl) ageOf(c *candidate) (int, error) {
	if c.age == nil {
		a, ok := s.ages.get(c.visit.Person)
		if !ok {
			return 0, s.dangling("age of person", c.visit.Person, c.visit.ID)
		}
		c.age = &a
	}
	return *c.age, nil
}

func (s *storeImpl) dangling(what string, id, visitID uint32) error {
	Logger.Errorf("visit %d references missing %s %d", visitID, what, id)
	return store.Errorf(store.RetCInternalError, "visit %d references missing %s %d", visitID, what, id)
}
