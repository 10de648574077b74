package server

import (
	"net/url"
	"strconv"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
)

// Query parameters of the person-visits and place-average queries.
const (
	paramFromDate   = "fromDate"
	paramToDate     = "toDate"
	paramCountry    = "country"
	paramToDistance = "toDistance"
	paramFromAge    = "fromAge"
	paramToAge      = "toAge"
	paramGender     = "gender"

	// paramQueryID is sent by load generators to tag requests and carries no meaning.
	paramQueryID = "query_id"
)

// filterParams returns the query without query_id, nil if nothing is left.
// A non nil result means a filter set was supplied, even if none of its
// parameters is recognised.
func filterParams(q url.Values) url.Values {
	if len(q) == 0 {
		return nil
	}
	rest := url.Values{}
	for k, v := range q {
		if k != paramQueryID {
			rest[k] = v
		}
	}
	if len(rest) == 0 {
		return nil
	}
	return rest
}

// visitFilterFrom builds the person-visits filter from the query string.
func visitFilterFrom(q url.Values) (*model.VisitFilter, error) {
	q = filterParams(q)
	if q == nil {
		return nil, nil
	}

	f := &model.VisitFilter{}
	var err error
	if f.FromDate, err = int64Param(q, paramFromDate); err != nil {
		return nil, err
	}
	if f.ToDate, err = int64Param(q, paramToDate); err != nil {
		return nil, err
	}
	if q.Has(paramCountry) {
		country := q.Get(paramCountry)
		f.Country = &country
	}
	if q.Has(paramToDistance) {
		d, err := strconv.ParseUint(q.Get(paramToDistance), 10, 32)
		if err != nil {
			return nil, badParam(paramToDistance, err)
		}
		dist := uint32(d)
		f.MaxDistance = &dist
	}
	return f, nil
}

// averageFilterFrom builds the place-average filter from the query string.
func averageFilterFrom(q url.Values) (*model.AverageFilter, error) {
	q = filterParams(q)
	if q == nil {
		return nil, nil
	}

	f := &model.AverageFilter{}
	var err error
	if f.FromDate, err = int64Param(q, paramFromDate); err != nil {
		return nil, err
	}
	if f.ToDate, err = int64Param(q, paramToDate); err != nil {
		return nil, err
	}
	if f.FromAge, err = intParam(q, paramFromAge); err != nil {
		return nil, err
	}
	if f.ToAge, err = intParam(q, paramToAge); err != nil {
		return nil, err
	}
	if q.Has(paramGender) {
		g, err := model.ParseGender(q.Get(paramGender))
		if err != nil {
			return nil, badParam(paramGender, err)
		}
		f.Gender = &g
	}
	return f, nil
}

func int64Param(q url.Values, name string) (*int64, error) {
	if !q.Has(name) {
		return nil, nil
	}
	v, err := strconv.ParseInt(q.Get(name), 10, 64)
	if err != nil {
		return nil, badParam(name, err)
	}
	return &v, nil
}

func intParam(q url.Values, name string) (*int, error) {
	if !q.Has(name) {
		return nil, nil
	}
	v, err := strconv.Atoi(q.Get(name))
	if err != nil {
		return nil, badParam(name, err)
	}
	return &v, nil
}

func badParam(name string, err error) error {
	return store.Errorf(store.RetCBadRequest, "query parameter %s: %v", name, err)
}
