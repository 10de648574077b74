package transport

import (
	"net/url"
	"strings"

	"github.com/ValentinKolb/travels/rpc/common"
)

// --------------------------------------------------------------------------
// Messages
// --------------------------------------------------------------------------

// Request is a transport independent API call, e.g. GET /users/1/visits?country=Chile
// is {Method: "GET", Entity: "users", ID: "1", Action: "visits", Query: {"country": ["Chile"]}}.
type Request struct {
	Method string     // GET or POST
	Entity string     // users, locations or visits
	ID     string     // record id, "new" for creations
	Action string     // visits or avg, empty for plain records
	Query  url.Values // raw query parameters
	Body   []byte
}

// Path returns the URL path of the request.
func (r Request) Path() string {
	parts := []string{"", r.Entity, r.ID}
	if r.Action != "" {
		parts = append(parts, r.Action)
	}
	return strings.Join(parts, "/")
}

// Response is the result of a Request. Status uses the HTTP status codes.
type Response struct {
	Status int
	Body   []byte
}

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// ServerHandleFunc is a function type that handles incoming requests
// This function is called by a server transport layer when a request is received
type ServerHandleFunc func(req Request) Response

// IRPCServerTransport is the interface for the RPC transport layer
// It must accept a ServerConfig as a parameter
type IRPCServerTransport interface {
	// RegisterHandler registers a handler for the transport layer
	// This handler should be called when a request is received
	RegisterHandler(handler ServerHandleFunc)
	// Listen starts the transport layer and listens for incoming requests.
	// It blocks until the transport is closed.
	Listen(config common.ServerConfig) error
	// Close stops listening, requests in flight are finished first
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the RPC client transport
type IRPCClientTransport interface {
	// Connect initializes the transport with the given configuration
	Connect(config common.ClientConfig) error
	// Send sends a request to the server and returns the response.
	// Error statuses are returned as a Response, err is only set if no
	// response could be obtained.
	Send(req Request) (resp Response, err error)
	// Close closes the transport connection
	Close() error
}
