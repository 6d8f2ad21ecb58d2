package codec

import "errors"

var (
	// ErrDataFormat marks stored bytes that do not parse under the codec.
	// The read pipeline treats it as "no data" rather than a failure.
	ErrDataFormat = errors.New("codec.invalid_data_format")
)
