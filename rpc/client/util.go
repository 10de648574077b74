package client

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/cockroachdb/errors"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("client")
)

// invokeRPCRequest is a helper function used by the RPC client to send requests.
// It returns the body of a successful response. Error statuses are converted
// back into store errors, so store.CodeOf works on both sides of the wire.
func invokeRPCRequest(req transport.Request, t transport.IRPCClientTransport) ([]byte, error) {
	// Send the request
	resp, err := t.Send(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.Path())
	}

	// Check if the response is an error response
	if err := errorOf(resp.Status); err != nil {
		Logger.Debugf("%s %s => %d", req.Method, req.Path(), resp.Status)
		return nil, err
	}
	return resp.Body, nil
}

// errorOf returns the store error for an HTTP status, nil for 200.
func errorOf(status int) error {
	switch status {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return store.NewError(store.RetCNotFound, "not found")
	case http.StatusConflict:
		return store.NewError(store.RetCConflict, "id already exists")
	case http.StatusBadRequest:
		return store.NewError(store.RetCBadRequest, "bad request")
	default:
		return store.Errorf(store.RetCInternalError, "server answered with status %d", status)
	}
}

// --------------------------------------------------------------------------
// Query parameters
// --------------------------------------------------------------------------

// visitFilterQuery encodes a person-visits filter. A non nil filter always
// produces a query, an empty filter one the server rejects.
func visitFilterQuery(f *model.VisitFilter) url.Values {
	if f == nil {
		return nil
	}
	q := url.Values{}
	if f.Empty() {
		// no recognised parameter: the server answers 400
		q.Set("filter", "")
		return q
	}
	setInt64(q, "fromDate", f.FromDate)
	setInt64(q, "toDate", f.ToDate)
	if f.Country != nil {
		q.Set("country", *f.Country)
	}
	if f.MaxDistance != nil {
		q.Set("toDistance", strconv.FormatUint(uint64(*f.MaxDistance), 10))
	}
	return q
}

// averageFilterQuery encodes a place-average filter, see visitFilterQuery.
func averageFilterQuery(f *model.AverageFilter) url.Values {
	if f == nil {
		return nil
	}
	q := url.Values{}
	if f.Empty() {
		q.Set("filter", "")
		return q
	}
	setInt64(q, "fromDate", f.FromDate)
	setInt64(q, "toDate", f.ToDate)
	if f.FromAge != nil {
		q.Set("fromAge", strconv.Itoa(*f.FromAge))
	}
	if f.ToAge != nil {
		q.Set("toAge", strconv.Itoa(*f.ToAge))
	}
	if f.Gender != nil {
		q.Set("gender", f.Gender.String())
	}
	return q
}

func setInt64(q url.Values, name string, v *int64) {
	if v != nil {
		q.Set(name, strconv.FormatInt(*v, 10))
	}
}
