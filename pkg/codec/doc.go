// Package codec abstracts how a session mapping is serialized for storage.
//
// Two codecs ship with the module. PHP is the legacy "name|typed-value"
// session format implemented by pkg/phpserialize; it is the default because
// it lets a Go service share live session records with an existing PHP
// fleet. JSON stores the whole mapping as one JSON document for deployments
// that have no legacy readers.
//
// Both codecs agree on the empty cases so the read/write pipeline treats
// "no data" uniformly: Decode of empty input returns an empty map and
// Encode of an empty mapping returns a zero-length slice.
//
// Decode failures unwrap to ErrDataFormat. Callers that need the underlying
// cause (for example the byte offset of a legacy syntax error) can unwrap
// further, since the cause is joined in.
//
// JSON is lossier than the legacy format: integers come back as float64 and
// there is no opaque-object passthrough. Pick it only when every reader and
// writer of the session store speaks it.
package codec
