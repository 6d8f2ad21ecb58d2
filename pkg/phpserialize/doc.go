// Package phpserialize implements the legacy PHP session wire format: a
// concatenation of "name|value" pairs where every value is a self-describing
// typed token in the serialize() grammar (N; b: i: d: s: a: O: C:).
//
// The package exists so Go services can read and write session records that
// a PHP application produced, byte for byte, without an intermediate
// migration. Decode converts a raw payload into a map[string]any; Encode is
// the mirror operation. Both are stateless pure functions.
//
// # Wire Format
//
// A payload is zero or more pairs with no separators between them:
//
//	user_id|i:123;cart|a:2:{i:0;s:3:"abc";i:1;s:3:"def";}
//
// The field name runs up to the first '|' at a top-level position. The value
// that follows is one typed token:
//
//	N;                          null
//	b:0; b:1;                   boolean
//	i:42;                       integer (64-bit)
//	d:1.5; d:INF; d:NAN;        float
//	s:5:"hello";                string, byte-length prefixed
//	a:2:{i:0;N;s:1:"k";b:1;}    array (list or mapping)
//	O:4:"Cart":1:{...}          object, kept opaque
//	C:4:"Cart":12:{...}         custom-serialized object, kept opaque
//
// String payloads are consumed by their declared byte length, never by
// scanning for terminators, so raw bytes may contain '"', ';' and '|'
// freely. Arrays decode to []any when their keys are exactly the integer
// sequence 0..n-1 and to map[string]any otherwise. Objects decode to Object
// values that preserve the original serialization verbatim, so they survive
// a decode/encode round trip untouched.
//
// # Errors
//
// Malformed input produces a *SyntaxError carrying the byte offset of the
// problem; all syntax errors unwrap to ErrSyntax:
//
//	if errors.Is(err, phpserialize.ErrSyntax) { ... }
//
// Empty input is not an error: Decode(nil) returns an empty map, and
// Encode of an empty map returns a zero-length slice.
//
// # Fidelity Notes
//
// Decode(Encode(m)) is value-equal to m for every mapping built from the
// canonical types nil, bool, int, float64, string, []any, map[string]any and
// Object. Encode also accepts the narrower numeric kinds and []byte, which
// normalize to int, float64 and string on the way back. The reverse
// direction is lossy in the ways the format itself is ambiguous:
// non-sequential integer array keys come back as strings, and an empty array
// decodes to an empty []any because "a:0:{}" carries no key evidence.
package phpserialize
