// Package http implements the HTTP transport layer of the travels API. It provides
// concrete implementations of the transport interfaces defined in the parent package.
//
// The package focuses on:
//   - Server-side routing of the REST style API to a transport.ServerHandleFunc
//   - Client-side HTTP transport with retries and round-robin load balancing
//   - Request metrics and request logging
//
// Key Components:
//
//   - httpServerTransport: Implements IRPCServerTransport. Routes
//     GET /{entity}/{id}, GET /{entity}/{id}/{action} and POST /{entity}/{id}
//     to the registered handler and leaves the interpretation of the path to it.
//     NewHttpHandler exposes the same routing as a plain http.Handler.
//
//   - serverMetrics: A github.com/VictoriaMetrics/metrics set with a request counter
//     and a duration histogram per route pattern and status, served on GET /metrics
//     in the Prometheus text format together with the process metrics.
//
//   - loggerMiddleware: Enabled with the debug log level. Tags every request with a
//     random id (X-Request-Id header) and logs method, URI, status and duration.
//
//   - httpClientTransport: Implements IRPCClientTransport, managing connections to
//     server endpoints and retrying failed requests on the next endpoint. Error
//     statuses are not retried, they are a valid answer.
//
// Thread Safety:
//
//	Both transports are thread-safe. The client uses atomic operations for the
//	round-robin counter, the metrics use a concurrent map per route.
package http
