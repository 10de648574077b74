package lstore

import (
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
)

// --------------------------------------------------------------------------
// People
// --------------------------------------------------------------------------

func (s *storeImpl) CreatePerson(p model.Person) error {
	s.people.mu.Lock()
	defer s.people.mu.Unlock()

	if _, ok := s.people.rows[p.ID]; ok {
		return store.Errorf(store.RetCConflict, "person %d already exists", p.ID)
	}
	s.people.rows[p.ID] = p

	// people -> ages
	s.ages.mu.Lock()
	s.ages.rows[p.ID] = s.computeAge(p.BirthDate)
	s.ages.mu.Unlock()

	s.incWrites()
	return nil
}

func (s *storeImpl) UpdatePerson(id uint32, u model.PersonUpdate) error {
	s.people.mu.Lock()
	defer s.people.mu.Unlock()

	p, ok := s.people.rows[id]
	if !ok {
		return store.Errorf(store.RetCNotFound, "person %d not found", id)
	}
	u.Apply(&p)
	s.people.rows[id] = p

	if u.BirthDate != nil {
		// people -> ages
		s.ages.mu.Lock()
		s.ages.rows[id] = s.computeAge(p.BirthDate)
		s.ages.mu.Unlock()
	}

	s.incWrites()
	return nil
}

// --------------------------------------------------------------------------
// Places
// --------------------------------------------------------------------------

func (s *storeImpl) CreatePlace(p model.Place) error {
	s.places.mu.Lock()
	defer s.places.mu.Unlock()

	if _, ok := s.places.rows[p.ID]; ok {
		return store.Errorf(store.RetCConflict, "place %d already exists", p.ID)
	}
	s.places.rows[p.ID] = p

	s.incWrites()
	return nil
}

func (s *storeImpl) UpdatePlace(id uint32, u model.PlaceUpdate) error {
	s.places.mu.Lock()
	defer s.places.mu.Unlock()

	p, ok := s.places.rows[id]
	if !ok {
		return store.Errorf(store.RetCNotFound, "place %d not found", id)
	}
	u.Apply(&p)
	s.places.rows[id] = p

	s.incWrites()
	return nil
}

// --------------------------------------------------------------------------
// Visits
// --------------------------------------------------------------------------

func (s *storeImpl) CreateVisit(v model.VisitEvent) error {
	if v.Mark > model.MaxMark {
		return store.Errorf(store.RetCBadRequest, "visit %d: mark %d exceeds %d", v.ID, v.Mark, model.MaxMark)
	}

	s.visits.mu.Lock()
	defer s.visits.mu.Unlock()

	if _, ok := s.visits.rows[v.ID]; ok {
		return store.Errorf(store.RetCConflict, "visit %d already exists", v.ID)
	}

	// visits -> people / places (short, one after another)
	if !s.people.has(v.Person) {
		return store.Errorf(store.RetCBadRequest, "visit %d: person %d does not exist", v.ID, v.Person)
	}
	if !s.places.has(v.Place) {
		return store.Errorf(store.RetCBadRequest, "visit %d: place %d does not exist", v.ID, v.Place)
	}

	s.visits.rows[v.ID] = v
	// visits -> placeVisits, visits -> personVisits
	s.placeVisits.Append(v.Place, v.ID)
	s.personVisits.Append(v.Person, v.ID)

	s.incWrites()
	return nil
}

// UpdateVisit holds the visits write lock for the whole operation, so two
// updates of the same visit never interleave their index relocations.
func (s *storeImpl) UpdateVisit(id uint32, u model.VisitUpdate) error {
	if u.Mark != nil && *u.Mark > model.MaxMark {
		return store.Errorf(store.RetCBadRequest, "visit %d: mark %d exceeds %d", id, *u.Mark, model.MaxMark)
	}

	s.visits.mu.Lock()
	defer s.visits.mu.Unlock()

	v, ok := s.visits.rows[id]
	if !ok {
		return store.Errorf(store.RetCNotFound, "visit %d not found", id)
	}

	placeChanged := u.Place != nil && *u.Place != v.Place
	personChanged := u.Person != nil && *u.Person != v.Person

	// validate both references before touching any index
	if personChanged && !s.people.has(*u.Person) {
		return store.Errorf(store.RetCBadRequest, "visit %d: person %d does not exist", id, *u.Person)
	}
	if placeChanged && !s.places.has(*u.Place) {
		return store.Errorf(store.RetCBadRequest, "visit %d: place %d does not exist", id, *u.Place)
	}

	if placeChanged && !s.placeVisits.Relocate(id, v.Place, *u.Place) {
		Logger.Warningf("visit %d was not indexed under place %d", id, v.Place)
	}
	if personChanged && !s.personVisits.Relocate(id, v.Person, *u.Person) {
		Logger.Warningf("visit %d was not indexed under person %d", id, v.Person)
	}

	u.Apply(&v)
	s.visits.rows[id] = v

	s.incWrites()
	return nil
}
