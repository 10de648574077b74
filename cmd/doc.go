// Package cmd implements the command-line interface of travels. It provides a
// hierarchical command structure with operations for running the server,
// inspecting a data source offline and querying a running server.
//
// The package is organized into several subpackages:
//
//   - serve: Loads the data source and starts the HTTP server
//   - query: Client commands for lookups, person visits, place averages and a load test
//   - inspect: Loads a data source without serving it and prints index statistics
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// Every flag can also be set as an environment variable TRAVELS_<FLAG>, with
// dashes replaced by underscores. .env and .env.local are read on startup.
//
// See travels -help for a list of all commands.
package cmd
