// Package serializer provides the JSON wire codecs of the travels API. It
// defines a common interface and two implementations for encoding records and
// query results and for decoding records, partial updates and batch files.
//
// The package focuses on:
//   - Providing a consistent interface for different JSON implementations
//   - Strict decoding: wrong types, nulls, out of range numbers and unknown gender tokens are rejected
//   - Explicit field presence for partial updates (absent fields stay nil)
//
// Key Components:
//
//   - IRPCSerializer: Core interface that all serializer implementations must satisfy.
//     Every decode error wraps ErrInvalid, which the server maps to 400 Bad Request.
//
//   - fastSerializerImpl: Decodes with github.com/buger/jsonparser and encodes with a
//     hand written github.com/mailru/easyjson/jwriter writer. No reflection and few
//     allocations. The default.
//
//   - stdSerializerImpl: Uses encoding/json. Objects are first decoded into raw
//     messages to detect which fields are present. Useful as a reference and for
//     debugging.
//
// Both implementations share the field level decoding rules (decode.go) and only
// differ in how they walk the JSON document, so they accept and reject exactly
// the same payloads.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use
//	across multiple goroutines without additional synchronization.
//
// Usage:
//
//	s, err := serializer.New("fast")
//	person, err := s.DecodePerson(body)
//	data, err := s.EncodePerson(person)
package serializer
