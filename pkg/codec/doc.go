// Package codec provides the deterministic CBOR encoding used for
// flat-file payloads.
//
// Encoding is canonical (RFC 8949 core deterministic encoding: sorted
// map keys, definite lengths, unix timestamps), so encoding the same
// value always produces the same bytes. Dumping an unchanged object
// therefore rewrites an identical file, and byte comparison is a valid
// equality check for encoded state.
//
// Decoding is deliberately more lenient than encoding: unknown fields
// and duplicate map keys are tolerated so that payloads written by
// newer code remain readable.
package codec
