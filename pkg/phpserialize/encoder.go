package phpserialize

import (
	"bytes"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// Encode serializes a mapping into the session wire format. Field names are
// emitted in sorted order so the output is deterministic. An empty mapping
// yields a zero-length slice, the representation of an empty session.
func Encode(values map[string]any) ([]byte, error) {
	if len(values) == 0 {
		return []byte{}, nil
	}
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	slices.Sort(names)

	var buf bytes.Buffer
	for _, name := range names {
		if strings.ContainsRune(name, '|') {
			return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		buf.WriteString(name)
		buf.WriteByte('|')
		if err := encodeValue(&buf, values[name]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// EncodeValue serializes a single value as one typed token.
func EncodeValue(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeValue(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("N;")
	case bool:
		if val {
			buf.WriteString("b:1;")
		} else {
			buf.WriteString("b:0;")
		}
	case int:
		encodeInt(buf, int64(val))
	case int8:
		encodeInt(buf, int64(val))
	case int16:
		encodeInt(buf, int64(val))
	case int32:
		encodeInt(buf, int64(val))
	case int64:
		encodeInt(buf, val)
	case uint:
		if uint64(val) > math.MaxInt64 {
			return fmt.Errorf("%w: uint %d overflows the integer range", ErrUnsupportedType, val)
		}
		encodeInt(buf, int64(val))
	case uint8:
		encodeInt(buf, int64(val))
	case uint16:
		encodeInt(buf, int64(val))
	case uint32:
		encodeInt(buf, int64(val))
	case uint64:
		if val > math.MaxInt64 {
			return fmt.Errorf("%w: uint64 %d overflows the integer range", ErrUnsupportedType, val)
		}
		encodeInt(buf, int64(val))
	case float32:
		encodeFloat(buf, float64(val))
	case float64:
		encodeFloat(buf, val)
	case string:
		encodeString(buf, val)
	case []byte:
		encodeString(buf, string(val))
	case []any:
		buf.WriteString("a:")
		buf.WriteString(strconv.Itoa(len(val)))
		buf.WriteString(":{")
		for i, item := range val {
			encodeInt(buf, int64(i))
			if err := encodeValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		buf.WriteString("a:")
		buf.WriteString(strconv.Itoa(len(val)))
		buf.WriteString(":{")
		for _, k := range keys {
			encodeString(buf, k)
			if err := encodeValue(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	case Object:
		if len(val.Raw) == 0 {
			return fmt.Errorf("%w: object reference with no raw bytes", ErrUnsupportedType)
		}
		buf.Write(val.Raw)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
	return nil
}

func encodeInt(buf *bytes.Buffer, n int64) {
	buf.WriteString("i:")
	buf.WriteString(strconv.FormatInt(n, 10))
	buf.WriteByte(';')
}

// encodeFloat uses the uppercase exponent form and the INF/-INF/NAN
// spellings the decoder recognizes.
func encodeFloat(buf *bytes.Buffer, f float64) {
	buf.WriteString("d:")
	switch {
	case math.IsNaN(f):
		buf.WriteString("NAN")
	case math.IsInf(f, 1):
		buf.WriteString("INF")
	case math.IsInf(f, -1):
		buf.WriteString("-INF")
	default:
		buf.WriteString(strconv.FormatFloat(f, 'G', -1, 64))
	}
	buf.WriteByte(';')
}

// encodeString writes the byte length of the payload, not its rune count,
// so multibyte content round-trips exactly.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteString("s:")
	buf.WriteString(strconv.Itoa(len(s)))
	buf.WriteString(`:"`)
	buf.WriteString(s)
	buf.WriteString(`";`)
}
