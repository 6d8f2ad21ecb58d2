package config

import "errors"

var (
	// ErrParsingConfig is returned when the source cannot be parsed into
	// the config struct, whether it came from the environment or a file.
	ErrParsingConfig = errors.New("failed to parse configuration")

	// ErrReadingFile is returned when a configuration file cannot be read.
	ErrReadingFile = errors.New("failed to read configuration file")

	// ErrNilPointer is returned when a nil destination is provided.
	ErrNilPointer = errors.New("nil pointer provided to config loader")
)
