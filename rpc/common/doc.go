// Package common provides the configuration structures and the logging setup
// shared by the travels server, client and command line.
//
// The package focuses on:
//   - Configuration structures for client and server components
//   - A zap backed logger implementation integrated with Dragonboat's logger facade
//
// Key Components:
//
//   - ServerConfig: Configuration of a server process: listen endpoint, data
//     source, options file, wire serializer, partial update compatibility and
//     index auditing. Validate rejects values the server can not start with.
//
//   - ClientConfig: Configuration for client components, controlling endpoints,
//     timeouts, and retry behavior.
//
//   - Logger: Every package declares its own named logger with
//     logger.GetLogger("<name>"). The first InitLoggers call installs a factory
//     that backs these loggers with go.uber.org/zap (console encoder, one line per
//     message in the form "time | LEVEL | package | message"). Every call applies
//     the configured level.
package common
