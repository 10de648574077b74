package server

import (
	"net/http"
	"strconv"

	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/transport"
	"github.com/cockroachdb/errors"
)

// Entities and actions of the API.
const (
	EntityPeople = "users"
	EntityPlaces = "locations"
	EntityVisits = "visits"

	ActionVisits  = "visits"
	ActionAverage = "avg"

	// IDNew is the id used to create a record.
	IDNew = "new"
)

// emptyObject is the body of successful creates and updates.
var emptyObject = []byte("{}")

// NewIStoreServerAdapter returns the adapter translating API requests to store.IStore calls.
// With zeroAsAbsent set, zero valued fields of partial updates are treated as not supplied.
func NewIStoreServerAdapter(serializer serializer.IRPCSerializer, zeroAsAbsent bool) IRPCServerAdapter {
	return &iStoreServerAdapterImpl{
		serializer:   serializer,
		zeroAsAbsent: zeroAsAbsent,
	}
}

type iStoreServerAdapterImpl struct {
	serializer   serializer.IRPCSerializer
	zeroAsAbsent bool
}

func (adapter *iStoreServerAdapterImpl) Handle(req transport.Request, store store.IStore) transport.Response {
	// Check for nil store
	if store == nil {
		Logger.Errorf("handler: store is nil")
		return transport.Response{Status: http.StatusInternalServerError}
	}

	switch req.Entity {
	case EntityPeople, EntityPlaces, EntityVisits:
	default:
		return notFound()
	}

	switch req.Method {
	case http.MethodGet:
		return adapter.handleGet(req, store)
	case http.MethodPost:
		return adapter.handlePost(req, store)
	default:
		return transport.Response{Status: http.StatusMethodNotAllowed}
	}
}

// --------------------------------------------------------------------------
// Reads
// --------------------------------------------------------------------------

func (adapter *iStoreServerAdapterImpl) handleGet(req transport.Request, st store.IStore) transport.Response {
	id, ok := parseID(req.ID)
	if !ok {
		return notFound()
	}

	switch {
	case req.Action == "":
		return adapter.getRecord(req, id, st)
	case req.Entity == EntityPeople && req.Action == ActionVisits:
		filter, err := visitFilterFrom(req.Query)
		if err != nil {
			return errorResponse(req, err)
		}
		visits, err := st.PersonVisits(id, filter)
		if err != nil {
			return errorResponse(req, err)
		}
		data, err := adapter.serializer.EncodeVisits(visits)
		return encoded(req, data, err)
	case req.Entity == EntityPlaces && req.Action == ActionAverage:
		filter, err := averageFilterFrom(req.Query)
		if err != nil {
			return errorResponse(req, err)
		}
		avg, err := st.PlaceAverage(id, filter)
		if err != nil {
			return errorResponse(req, err)
		}
		data, err := adapter.serializer.EncodeAverage(avg)
		return encoded(req, data, err)
	default:
		return notFound()
	}
}

func (adapter *iStoreServerAdapterImpl) getRecord(req transport.Request, id uint32, st store.IStore) transport.Response {
	var (
		data []byte
		err  error
	)
	switch req.Entity {
	case EntityPeople:
		p, found := st.GetPerson(id)
		if !found {
			return notFound()
		}
		data, err = adapter.serializer.EncodePerson(p)
	case EntityPlaces:
		p, found := st.GetPlace(id)
		if !found {
			return notFound()
		}
		data, err = adapter.serializer.EncodePlace(p)
	case EntityVisits:
		v, found := st.GetVisit(id)
		if !found {
			return notFound()
		}
		data, err = adapter.serializer.EncodeVisit(v)
	}
	return encoded(req, data, err)
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

func (adapter *iStoreServerAdapterImpl) handlePost(req transport.Request, st store.IStore) transport.Response {
	if req.Action != "" {
		return notFound()
	}

	var err error
	if req.ID == IDNew {
		err = adapter.create(req, st)
	} else {
		id, ok := parseID(req.ID)
		if !ok {
			return notFound()
		}
		err = adapter.update(req, id, st)
	}

	if err != nil {
		return errorResponse(req, err)
	}
	return transport.Response{Status: http.StatusOK, Body: emptyObject}
}

func (adapter *iStoreServerAdapterImpl) create(req transport.Request, st store.IStore) error {
	switch req.Entity {
	case EntityPeople:
		p, err := adapter.serializer.DecodePerson(req.Body)
		if err != nil {
			return err
		}
		return st.CreatePerson(p)
	case EntityPlaces:
		p, err := adapter.serializer.DecodePlace(req.Body)
		if err != nil {
			return err
		}
		return st.CreatePlace(p)
	default:
		v, err := adapter.serializer.DecodeVisit(req.Body)
		if err != nil {
			return err
		}
		return st.CreateVisit(v)
	}
}

func (adapter *iStoreServerAdapterImpl) update(req transport.Request, id uint32, st store.IStore) error {
	switch req.Entity {
	case EntityPeople:
		u, err := adapter.serializer.DecodePersonUpdate(req.Body)
		if err != nil {
			return err
		}
		if adapter.zeroAsAbsent {
			u = u.DropZero()
		}
		return st.UpdatePerson(id, u)
	case EntityPlaces:
		u, err := adapter.serializer.DecodePlaceUpdate(req.Body)
		if err != nil {
			return err
		}
		if adapter.zeroAsAbsent {
			u = u.DropZero()
		}
		return st.UpdatePlace(id, u)
	default:
		u, err := adapter.serializer.DecodeVisitUpdate(req.Body)
		if err != nil {
			return err
		}
		if adapter.zeroAsAbsent {
			u = u.DropZero()
		}
		return st.UpdateVisit(id, u)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseID parses a record id. Anything that is not a uint32 can not name a record.
func parseID(s string) (uint32, bool) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint32(id), err == nil
}

func notFound() transport.Response {
	return transport.Response{Status: http.StatusNotFound}
}

func encoded(req transport.Request, data []byte, err error) transport.Response {
	if err != nil {
		return errorResponse(req, errors.Wrap(err, "encode response"))
	}
	return transport.Response{Status: http.StatusOK, Body: data}
}

// StatusOf maps an error to the HTTP status reported to the caller.
// Undecodable payloads are bad requests, store errors map by their code.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, serializer.ErrInvalid) {
		return http.StatusBadRequest
	}
	switch store.CodeOf(err) {
	case store.RetCNotFound:
		return http.StatusNotFound
	case store.RetCConflict:
		return http.StatusConflict
	case store.RetCBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse turns err into an empty response with the matching status.
// Internal errors point at a broken invariant and are logged with their stack.
func errorResponse(req transport.Request, err error) transport.Response {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		Logger.Errorf("%s %s: %+v", req.Method, req.Path(), err)
	} else {
		Logger.Debugf("%s %s => %d: %v", req.Method, req.Path(), status, err)
	}
	return transport.Response{Status: status}
}
