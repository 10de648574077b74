// Package server implements the RPC server of travels. It translates API requests
// into calls on a store.IStore and store results and errors back into responses.
//
// The package focuses on:
//   - Server-side request handling for lookups, creates, partial updates and queries
//   - Adapter pattern to decouple application logic from the transport
//   - Bootstrapping the store from the data source at startup
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server adapters,
//     with the Handle method that processes incoming requests against a store.IStore.
//
//   - NewIStoreServerAdapter: Factory function creating the adapter for the travels
//     API. It parses ids and query parameters, decodes bodies with the configured
//     serializer and maps errors to statuses (see StatusOf):
//
//     | error                                   | status |
//     |-----------------------------------------|--------|
//     | serializer.ErrInvalid, RetCBadRequest   | 400    |
//     | RetCNotFound, unknown route, bad id     | 404    |
//     | RetCConflict                            | 409    |
//     | anything else (RetCInternalError)       | 500    |
//
//   - Bootstrap: Reads the options file, creates a local store and loads the
//     data source into it.
//
//   - NewRPCServer: Factory function creating a configured server with the specified
//     transport and serializer mechanisms. Serve bootstraps the store, audits the
//     indices (unless disabled or running in rating mode) and starts the transport.
//
// Query parameters:
//
//	GET /users/{id}/visits     fromDate, toDate, country, toDistance
//	GET /locations/{id}/avg    fromDate, toDate, fromAge, toAge, gender
//
// Without parameters the query is unfiltered. Any parameter other than query_id
// supplies a filter set, and a filter set without a recognised parameter is a
// bad request. Values that can not be parsed are bad requests as well.
//
// Usage Example:
//
//	config := common.ServerConfig{
//	  Endpoint:      "0.0.0.0:80",
//	  DataPath:      "/tmp/data/data.zip",
//	  Serializer:    "fast",
//	  VerifyIndexes: true,
//	  LogLevel:      "info",
//	}
//
//	s := server.NewRPCServer(config, http.NewHttpServerTransport(), serializer.NewFastSerializer())
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent requests.
//	Each request is processed independently, the store provides the isolation.
//	Serve is not thread-safe and should be called only once.
package server
