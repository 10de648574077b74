// Package client implements the RPC client of travels. It gives typed access to
// the API of a remote server via the transport and serialization layers.
//
// The package focuses on:
//   - Typed access to lookups, creates, partial updates and queries
//   - Integration with the transport and serialization layers
//   - Error handling and conversion between RPC statuses and store errors
//
// Key Components:
//
//   - NewRPCClient: Factory function that connects the transport and returns an
//     RPCClient. Every method maps to one API call.
//
//   - Error conversion: A 404 becomes a RetCNotFound, a 409 a RetCConflict and a
//     400 a RetCBadRequest store error, so callers can use store.CodeOf (or
//     store.IsNotFound, ...) exactly as they would against a local store. Any
//     other status is a RetCInternalError.
//
// Usage Example:
//
//	config := common.ClientConfig{
//	  Endpoints:     []string{"localhost:80"},
//	  TimeoutSecond: 5,
//	  RetryCount:    3,
//	}
//
//	c, _ := client.NewRPCClient(config, http.NewHttpClientTransport(), serializer.NewFastSerializer())
//	defer c.Close()
//
//	visits, err := c.PersonVisits(1, &model.VisitFilter{Country: &country})
//	if store.IsNotFound(err) {
//	  // no such person
//	}
//
// Thread Safety:
//
//	The client is thread-safe and can be used concurrently from multiple
//	goroutines without additional synchronization.
package client
