// Package transport defines the interfaces and abstractions for RPC communication
// between travels clients and servers. It provides a common contract that all transport
// implementations must fulfill, keeping the request handling independent of the wire.
//
// The package focuses on:
//   - Defining clear interfaces for client and server transport layers
//   - A small request model (entity, id, action, query, body) for the REST style API
//
// Key Components:
//
//   - Request and Response: The API call as seen by the server. The transport
//     splits the URL into its parts, the server interprets them.
//
//   - IRPCClientTransport: Interface for client-side transport implementations that
//     handles connection management and request sending.
//
//   - IRPCServerTransport: Interface for server-side transport implementations that
//     receives requests and passes them to the registered handler.
//
//   - ServerHandleFunc: Function type for request handling callbacks.
package transport
