// Package loader fills a store from the batch files supplied at startup.
//
// A data source is a directory or a zip archive holding numbered JSON batches
// per entity kind:
//
//	users_1.json      {"users": [{...}, ...]}
//	locations_1.json  {"locations": [{...}, ...]}
//	visits_1.json     {"visits": [{...}, ...]}
//
// Kinds are ingested in the order users, locations, visits. For each kind the
// batches are read from index 1 upward until the first missing index. Records
// are inserted through the store's create operations, so the derived indices
// and the age cache are built while ingesting.
//
// The options file (options.txt next to the data) carries the reference
// instant on its first line and the operating mode on its second line. Both
// are fixed for the lifetime of the process.
package loader
