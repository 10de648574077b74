// Package rpc provides the network layer of travels. It exposes a store over
// the HTTP API and gives clients typed access to a remote server.
//
// The package is organized into several subpackages:
//
//   - common: Configuration structures of server and client and the zap backed
//     logger factory installed into the dragonboat logger registry.
//
//   - transport: The request and response abstraction between the API and the
//     network, with the HTTP implementation (routing, metrics, client round-robin).
//
//   - serializer: JSON codecs for records, partial updates, query results and
//     batch files (fast: jsonparser/easyjson, std: encoding/json).
//
//   - client: RPC client mirroring the API, used by the query command.
//
//   - server: Maps API requests onto store.IStore operations and status codes,
//     and bootstraps a store from a data source.
package rpc
