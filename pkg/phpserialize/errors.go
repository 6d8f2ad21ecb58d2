package phpserialize

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the sentinel every *SyntaxError unwraps to.
	ErrSyntax = errors.New("phpserialize.malformed_input")

	// ErrInvalidName is returned by Encode for field names the format
	// cannot represent (names containing the '|' separator).
	ErrInvalidName = errors.New("phpserialize.invalid_field_name")

	// ErrUnsupportedType is returned by Encode for Go values outside the
	// supported set.
	ErrUnsupportedType = errors.New("phpserialize.unsupported_type")
)

// SyntaxError describes malformed input at a specific byte offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("phpserialize: %s at offset %d", e.Msg, e.Offset)
}

// Unwrap makes errors.Is(err, ErrSyntax) hold for every syntax error.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

func syntaxErrorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
