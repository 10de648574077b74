package lstore

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ValentinKolb/travels/lib/index"
	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
)

// averagePrecision is the number of decimal digits the average is rounded to.
const averagePrecision = 5

func (s *storeImpl) PersonVisits(personID uint32, f *model.VisitFilter) ([]model.VisitInfo, error) {
	if !s.people.has(personID) {
		return nil, store.Errorf(store.RetCNotFound, "person %d not found", personID)
	}
	if f != nil && f.Empty() {
		return nil, store.NewError(store.RetCBadRequest, "empty visit filter")
	}

	candidates, err := s.candidates(s.personVisits, personID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return []model.VisitInfo{}, nil
	}

	preds := visitPredicates(s, f)
	matched := candidates[:0]
	for i := range candidates {
		ok, err := matchAll(preds, &candidates[i])
		if err != nil {
			return nil, err
		}
		if ok {
			matched = append(matched, candidates[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].visit.VisitedAt < matched[j].visit.VisitedAt
	})

	result := make([]model.VisitInfo, 0, len(matched))
	for i := range matched {
		place, err := s.placeOf(&matched[i])
		if err != nil {
			return nil, err
		}
		result = append(result, model.VisitInfo{
			Mark:      matched[i].visit.Mark,
			VisitedAt: matched[i].visit.VisitedAt,
			Place:     place.Place,
		})
	}
	return result, nil
}

func (s *storeImpl) PlaceAverage(placeID uint32, f *model.AverageFilter) (float64, error) {
	if !s.places.has(placeID) {
		return 0, store.Errorf(store.RetCNotFound, "place %d not found", placeID)
	}
	if f != nil {
		if f.Empty() {
			return 0, store.NewError(store.RetCBadRequest, "empty average filter")
		}
	}

	candidates, err := s.candidates(s.placeVisits, placeID)
	if err != nil || len(candidates) == 0 {
		return 0, err
	}

	preds := averagePredicates(s, f)
	var sum, count uint64
	for i := range candidates {
		ok, err := matchAll(preds, &candidates[i])
		if err != nil {
			return 0, err
		}
		if ok {
			sum += uint64(candidates[i].visit.Mark)
			count++
		}
	}

	if sum == 0 {
		return 0, nil
	}
	return roundHalfAway(float64(sum)/float64(count), averagePrecision), nil
}

// candidates copies the visits indexed under key. The visits read lock is held
// while the bucket is read so that every id in it resolves. A missing bucket
// yields no candidates.
func (s *storeImpl) candidates(idx *index.Index, key uint32) ([]candidate, error) {
	tok := s.visits.mu.RLock()
	defer s.visits.mu.RUnlock(tok)

	// visits -> index
	ids, ok := idx.Bucket(key)
	if !ok {
		return nil, nil
	}

	out := make([]candidate, 0, len(ids))
	for _, id := range ids {
		v, ok := s.visits.rows[id]
		if !ok {
			Logger.Errorf("index bucket %d references missing visit %d", key, id)
			return nil, store.Errorf(store.RetCInternalError, "index bucket %d references missing visit %d", key, id)
		}
		out = append(out, candidate{visit: v})
	}
	return out, nil
}

// roundHalfAway rounds x to the given number of decimal digits. Rounding is done
// on the shortest decimal representation of x, half away from zero, so that a
// value printed as 0.123455 becomes 0.12346.
func roundHalfAway(x float64, digits int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	s := strconv.FormatFloat(x, 'f', -1, 64)
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= digits {
		return x
	}

	n, err := strconv.ParseInt(s[:dot]+s[dot+1:dot+1+digits], 10, 64)
	if err != nil {
		return x
	}
	if s[dot+1+digits] >= '5' {
		if s[0] == '-' {
			n--
		} else {
			n++
		}
	}
	return float64(n) / math.Pow10(digits)
}
