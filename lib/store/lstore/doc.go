// Package lstore implements a local, in-memory, single-node entity store based on
// the store.IStore interface. Data is stored entirely in memory and is not
// persisted between process restarts.
//
// Key Features:
//   - Three entity tables (people, places, visits) keyed by numeric id
//   - Two reverse indices (place -> visits, person -> visits) maintained on every create and update
//   - An age cache (person -> age at the reference instant) recomputed whenever a birth date changes
//   - Person-visits and place-average queries evaluated as a chain of independent predicates
//   - An audit (Verify) that checks the derived state against the tables
//
// Implementation Details:
//
//   - Locking: Each of the six resources (visits, place index, person index, people,
//     places, ages) has its own reader biased RW lock (xsync.RBMutex). When an
//     operation holds more than one lock at once they are nested in the order
//     visits -> place index -> person index -> people / places -> ages. No lock is
//     upgraded and no lock is taken twice by the same operation.
//
//   - Index Relocation: When a visit's place or person changes, the visit is removed
//     from its old bucket and appended to the end of the new one under the index's
//     write lock. The two indices are updated one after another. The visits write
//     lock is held for the whole update, so updates of the same visit never
//     interleave. Readers may briefly see one index already relocated and the other
//     not yet.
//
//   - Queries: The candidate visits are copied under the visits and index read locks,
//     which are then released. Filters that need a referenced place, person or age
//     look it up under a fresh short read lock. A reference that cannot be resolved
//     fails the query with store.RetCInternalError instead of crashing.
//
//   - Write Counter: The store counts successful mutations with an atomic counter,
//     reported through Info.
//
// Usage Example:
//
//	s := lstore.NewLocalStore(lstore.Options{ReferenceTime: 1503695452})
//
//	_ = s.CreatePerson(model.Person{ID: 1, Gender: model.GenderFemale, BirthDate: -712108800})
//	_ = s.CreatePlace(model.Place{ID: 5, Place: "Tower", Country: "Chile", Distance: 12})
//	_ = s.CreateVisit(model.VisitEvent{ID: 10, Person: 1, Place: 5, VisitedAt: 1000, Mark: 4})
//
//	visits, err := s.PersonVisits(1, &model.VisitFilter{Country: &country})
//	avg, err := s.PlaceAverage(5, nil)
package lstore
