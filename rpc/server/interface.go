package server

import (
	"github.com/ValentinKolb/travels/lib/store"
	"github.com/ValentinKolb/travels/rpc/transport"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for handling requests and responses
type IRPCServerAdapter interface {
	// Handle handles a request and returns a response
	// It takes a Request and a store as parameters.
	// Errors are reported through the status of the response
	Handle(req transport.Request, store store.IStore) (resp transport.Response)
}
