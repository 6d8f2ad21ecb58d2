package codec

import (
	"errors"

	"github.com/dmitrymomot/sessionstore/pkg/phpserialize"
)

// Codec converts between a session mapping and its stored byte form.
type Codec interface {
	// Decode parses stored bytes into a mapping. Empty input is an empty
	// mapping; malformed input errors with ErrDataFormat in the chain.
	Decode(data []byte) (map[string]any, error)
	// Encode serializes a mapping. An empty mapping encodes to a
	// zero-length slice.
	Encode(values map[string]any) ([]byte, error)
	// Name identifies the codec in logs and diagnostics.
	Name() string
}

var (
	_ Codec = PHP{}
	_ Codec = JSON{}
)

// PHP is the legacy session format, "name|typed-value" pairs in the
// serialize() grammar. It is the default codec.
type PHP struct{}

func (PHP) Name() string { return "php" }

func (PHP) Decode(data []byte) (map[string]any, error) {
	values, err := phpserialize.Decode(data)
	if err != nil {
		return nil, errors.Join(ErrDataFormat, err)
	}
	return values, nil
}

func (PHP) Encode(values map[string]any) ([]byte, error) {
	return phpserialize.Encode(values)
}
