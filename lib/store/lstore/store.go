package lstore

import (
	"sync/atomic"

	"github.com/ValentinKolb/travels/lib/age"
	"github.com/ValentinKolb/travels/lib/index"
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var Logger = logger.GetLogger("store")

// --------------------------------------------------------------------------
// Tables
// --------------------------------------------------------------------------

// table is a map keyed by id guarded by its own reader biased RW lock.
// Writers lock mu directly, readers use get or hold a read token themselves.
type table[T any] struct {
	mu   *xsync.RBMutex
	rows map[uint32]T
}

func newTable[T any](sizeHint int) *table[T] {
	return &table[T]{
		mu:   xsync.NewRBMutex(),
		rows: make(map[uint32]T, sizeHint),
	}
}

// get returns the row under a short lived read lock.
func (t *table[T]) get(id uint32) (T, bool) {
	tok := t.mu.RLock()
	defer t.mu.RUnlock(tok)
	row, ok := t.rows[id]
	return row, ok
}

func (t *table[T]) has(id uint32) bool {
	_, ok := t.get(id)
	return ok
}

func (t *table[T]) len() int {
	tok := t.mu.RLock()
	defer t.mu.RUnlock(tok)
	return len(t.rows)
}

// --------------------------------------------------------------------------
// Store
// --------------------------------------------------------------------------

// storeImpl owns six independently locked resources. Whenever more than one
// lock is held at the same time they are acquired in this order:
//
//	visits -> placeVisits -> personVisits -> people / places -> ages
//
// Locks that are only taken one after another (never nested) may appear in
// any order. Records are never deleted, so an existence check done under a
// short lock stays valid for the rest of an operation.
type storeImpl struct {
	visits       *table[model.VisitEvent]
	placeVisits  *index.Index
	personVisits *index.Index
	people       *table[model.Person]
	places       *table[model.Place]
	ages         *table[int]

	reference int64
	writes    atomic.Uint64
}

// Options are the tuning knobs of a local store.
type Options struct {
	// ReferenceTime is the instant (epoch seconds) all ages are computed against.
	ReferenceTime int64
	// SizeHint preallocates room for that many records per table.
	SizeHint int
}

// NewLocalStore creates a new, empty local store.
// This store implementation is not distributed and only works on a single node.
func NewLocalStore(opts Options) store.IStore {
	return newStore(opts)
}

func newStore(opts Options) *storeImpl {
	return &storeImpl{
		visits:       newTable[model.VisitEvent](opts.SizeHint),
		placeVisits:  index.New(opts.SizeHint),
		personVisits: index.New(opts.SizeHint),
		people:       newTable[model.Person](opts.SizeHint),
		places:       newTable[model.Place](opts.SizeHint),
		ages:         newTable[int](opts.SizeHint),
		reference:    opts.ReferenceTime,
	}
}

// incWrites counts a successful mutation.
//
// Thread-safety: This method is thread-safe since it uses atomic operations.
func (s *storeImpl) incWrites() uint64 {
	return s.writes.Add(1)
}

// computeAge computes the age of a person born at birth at the reference instant.
func (s *storeImpl) computeAge(birth int64) int {
	return age.Years(birth, s.reference)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) GetPerson(id uint32) (model.Person, bool) {
	return s.people.get(id)
}

func (s *storeImpl) GetPlace(id uint32) (model.Place, bool) {
	return s.places.get(id)
}

func (s *storeImpl) GetVisit(id uint32) (model.VisitEvent, bool) {
	return s.visits.get(id)
}
