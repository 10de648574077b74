package store

import (
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/util"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the interface of the indexed entity store.
// Lookups return the record and whether it was found. All other operations
// return an error carrying a RetCode (see Error and CodeOf), nil on success.
type IStore interface {
	// GetPerson returns the person with the given id.
	GetPerson(id uint32) (person model.Person, found bool)
	// GetPlace returns the place with the given id.
	GetPlace(id uint32) (place model.Place, found bool)
	// GetVisit returns the visit with the given id.
	GetVisit(id uint32) (visit model.VisitEvent, found bool)

	// CreatePerson inserts a new person. RetCConflict if the id is already taken.
	CreatePerson(person model.Person) (err error)
	// CreatePlace inserts a new place. RetCConflict if the id is already taken.
	CreatePlace(place model.Place) (err error)
	// CreateVisit inserts a new visit and indexes it under its person and place.
	// RetCConflict if the id is already taken, RetCBadRequest if the person or place does not exist.
	CreateVisit(visit model.VisitEvent) (err error)

	// UpdatePerson applies the present fields of update. RetCNotFound if the id is unknown.
	UpdatePerson(id uint32, update model.PersonUpdate) (err error)
	// UpdatePlace applies the present fields of update. RetCNotFound if the id is unknown.
	UpdatePlace(id uint32, update model.PlaceUpdate) (err error)
	// UpdateVisit applies the present fields of update and relocates the visit in the
	// indices if its person or place changes. RetCNotFound if the id is unknown.
	UpdateVisit(id uint32, update model.VisitUpdate) (err error)

	// PersonVisits returns the visits of a person sorted by visit time.
	// A nil filter means no filtering, a non nil filter must set at least one field.
	PersonVisits(personID uint32, filter *model.VisitFilter) (visits []model.VisitInfo, err error)
	// PlaceAverage returns the average mark of the visits of a place rounded to 5 digits.
	// A nil filter means no filtering, a non nil filter must set at least one field.
	PlaceAverage(placeID uint32, filter *model.AverageFilter) (avg float64, err error)

	// Verify checks that the derived indices and the age cache match the tables.
	Verify() (err error)
	// Info returns table sizes and index statistics.
	// It is not guaranteed that the numbers are consistent with each other under concurrent writes!
	Info() (info Info)
}

// Info holds metadata about the contents of a store.
type Info struct {
	People             int                    `json:"people"`
	Places             int                    `json:"places"`
	Visits             int                    `json:"visits"`
	Writes             uint64                 `json:"writes"`
	PlaceVisitBuckets  util.DistributionStats `json:"place_visit_buckets"`
	PersonVisitBuckets util.DistributionStats `json:"person_visit_buckets"`
	ReferenceTime      int64                  `json:"reference_time"`
}
