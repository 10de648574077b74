package client

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/ValentinKolb/travels/lib/model"
	"github.com/ValentinKolb/travels/rpc/common"
	"github.com/ValentinKolb/travels/rpc/serializer"
	"github.com/ValentinKolb/travels/rpc/server"
	"github.com/ValentinKolb/travels/rpc/transport"
)

// NewRPCClient creates a new RPC client
// The function takes a config, a transport and a serializer as parameters
// and connects the transport.
func NewRPCClient(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (*RPCClient, error) {

	// Connect the transport
	err := transport.Connect(config)
	if err != nil {
		return nil, err
	}

	// Return the RPC client
	return &RPCClient{
		config:     config,
		transport:  transport,
		serializer: serializer,
	}, nil
}

// RPCClient gives access to a remote travels server. Failed calls return
// store errors (see store.CodeOf) for error statuses of the server.
type RPCClient struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
}

// Close closes the underlying transport.
func (c *RPCClient) Close() error {
	return c.transport.Close()
}

// --------------------------------------------------------------------------
// Lookups
// --------------------------------------------------------------------------

func (c *RPCClient) GetPerson(id uint32) (model.Person, error) {
	data, err := c.get(server.EntityPeople, id, "", nil)
	if err != nil {
		return model.Person{}, err
	}
	return c.serializer.DecodePerson(data)
}

func (c *RPCClient) GetPlace(id uint32) (model.Place, error) {
	data, err := c.get(server.EntityPlaces, id, "", nil)
	if err != nil {
		return model.Place{}, err
	}
	return c.serializer.DecodePlace(data)
}

func (c *RPCClient) GetVisit(id uint32) (model.VisitEvent, error) {
	data, err := c.get(server.EntityVisits, id, "", nil)
	if err != nil {
		return model.VisitEvent{}, err
	}
	return c.serializer.DecodeVisit(data)
}

// --------------------------------------------------------------------------
// Queries
// --------------------------------------------------------------------------

// PersonVisits returns the visits of a person, nil filter means unfiltered.
func (c *RPCClient) PersonVisits(personID uint32, filter *model.VisitFilter) ([]model.VisitInfo, error) {
	data, err := c.get(server.EntityPeople, personID, server.ActionVisits, visitFilterQuery(filter))
	if err != nil {
		return nil, err
	}
	return c.serializer.DecodeVisits(data)
}

// PlaceAverage returns the average mark of a place, nil filter means unfiltered.
func (c *RPCClient) PlaceAverage(placeID uint32, filter *model.AverageFilter) (float64, error) {
	data, err := c.get(server.EntityPlaces, placeID, server.ActionAverage, averageFilterQuery(filter))
	if err != nil {
		return 0, err
	}
	return c.serializer.DecodeAverage(data)
}

// --------------------------------------------------------------------------
// Writes
// --------------------------------------------------------------------------

func (c *RPCClient) CreatePerson(p model.Person) error {
	return c.post(server.EntityPeople, server.IDNew)(c.serializer.EncodePerson(p))
}

func (c *RPCClient) CreatePlace(p model.Place) error {
	return c.post(server.EntityPlaces, server.IDNew)(c.serializer.EncodePlace(p))
}

func (c *RPCClient) CreateVisit(v model.VisitEvent) error {
	return c.post(server.EntityVisits, server.IDNew)(c.serializer.EncodeVisit(v))
}

func (c *RPCClient) UpdatePerson(id uint32, u model.PersonUpdate) error {
	return c.post(server.EntityPeople, formatID(id))(c.serializer.EncodePersonUpdate(u))
}

func (c *RPCClient) UpdatePlace(id uint32, u model.PlaceUpdate) error {
	return c.post(server.EntityPlaces, formatID(id))(c.serializer.EncodePlaceUpdate(u))
}

func (c *RPCClient) UpdateVisit(id uint32, u model.VisitUpdate) error {
	return c.post(server.EntityVisits, formatID(id))(c.serializer.EncodeVisitUpdate(u))
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func formatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

func (c *RPCClient) get(entity string, id uint32, action string, query url.Values) ([]byte, error) {
	return invokeRPCRequest(transport.Request{
		Method: http.MethodGet,
		Entity: entity,
		ID:     formatID(id),
		Action: action,
		Query:  query,
	}, c.transport)
}

// post returns a function sending an encoded body, so encoders can be passed directly.
func (c *RPCClient) post(entity, id string) func(body []byte, err error) error {
	return func(body []byte, err error) error {
		if err != nil {
			return err
		}
		_, err = invokeRPCRequest(transport.Request{
			Method: http.MethodPost,
			Entity: entity,
			ID:     id,
			Body:   body,
		}, c.transport)
		return err
	}
}
