// Package store provides the interface of the indexed entity store and its
// error taxonomy. The store owns three entity tables (people, places, visits),
// two derived reverse indices (place -> visits, person -> visits) and a derived
// cache of every person's age at a fixed reference instant.
//
// The package focuses on:
//   - A unified interface (IStore) for lookups, creates, partial updates and the two queries
//   - A structured error type carrying a RetCode
//
// Key Components:
//
//   - IStore Interface: Point lookups return (record, found). Creates fail with
//     RetCConflict on duplicate ids, updates fail with RetCNotFound on unknown ids.
//     PersonVisits and PlaceAverage evaluate optional filter sets; a supplied but
//     empty filter set is a RetCBadRequest.
//
//   - Error System: Every failure carries a RetCode. Errors may be wrapped with
//     github.com/cockroachdb/errors on their way up; CodeOf recovers the code
//     through any wrapping. RetCNotFound, RetCConflict and RetCBadRequest are
//     expected results that leave the store unchanged. RetCInternalError means
//     a stored reference could not be resolved; it fails the operation, never
//     the process.
//
// Implementations:
//
//	- Local Store (lstore): in-memory, single node, one reader/writer lock per
//	  table and index. Available in the "github.com/ValentinKolb/travels/lib/store/lstore" package.
package store
