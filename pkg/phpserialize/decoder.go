package phpserialize

import (
	"bytes"
	"strconv"
)

// Object is an opaque reference to a serialized object token (O: or C:).
// Raw preserves the complete original serialization including the tag, so
// objects survive a decode/encode round trip byte for byte.
type Object struct {
	Class string
	Raw   []byte
}

// Decode parses a session payload into a mapping of field names to values.
// Empty input yields an empty map; a whitespace-only remainder after the
// last pair is tolerated. Any other malformed input yields a *SyntaxError.
func Decode(data []byte) (map[string]any, error) {
	values := make(map[string]any)
	d := &decoder{data: data}
	for d.pos < len(d.data) {
		if len(bytes.TrimSpace(d.data[d.pos:])) == 0 {
			break
		}
		name, err := d.fieldName()
		if err != nil {
			return nil, err
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		values[name] = v
	}
	return values, nil
}

// DecodeValue parses a single typed token, e.g. `i:42;` or a full array.
// Bytes past the token must be whitespace.
func DecodeValue(data []byte) (any, error) {
	d := &decoder{data: data}
	v, err := d.value()
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(d.data[d.pos:])) != 0 {
		return nil, syntaxErrorf(d.pos, "unexpected trailing bytes")
	}
	return v, nil
}

type decoder struct {
	data []byte
	pos  int
}

type arrayEntry struct {
	key any // int or string
	val any
}

// fieldName consumes everything up to the next '|' separator.
func (d *decoder) fieldName() (string, error) {
	idx := bytes.IndexByte(d.data[d.pos:], '|')
	if idx < 0 {
		return "", syntaxErrorf(d.pos, "missing '|' after field name")
	}
	name := string(d.data[d.pos : d.pos+idx])
	d.pos += idx + 1
	return name, nil
}

// value consumes one self-describing typed token starting at the current
// offset.
func (d *decoder) value() (any, error) {
	if d.pos >= len(d.data) {
		return nil, syntaxErrorf(d.pos, "unexpected end of input, value expected")
	}
	switch tag := d.data[d.pos]; tag {
	case 'N':
		return d.null()
	case 'b':
		return d.boolean()
	case 'i':
		return d.integer()
	case 'd':
		return d.float()
	case 's':
		return d.str()
	case 'a':
		return d.array()
	case 'O', 'C':
		return d.object(tag)
	default:
		return nil, syntaxErrorf(d.pos, "unknown type tag %q", tag)
	}
}

func (d *decoder) expect(b byte) error {
	if d.pos >= len(d.data) || d.data[d.pos] != b {
		return syntaxErrorf(d.pos, "expected %q", b)
	}
	d.pos++
	return nil
}

// readUntil consumes bytes up to delim and skips the delimiter itself.
func (d *decoder) readUntil(delim byte) ([]byte, error) {
	idx := bytes.IndexByte(d.data[d.pos:], delim)
	if idx < 0 {
		return nil, syntaxErrorf(d.pos, "missing %q terminator", delim)
	}
	tok := d.data[d.pos : d.pos+idx]
	d.pos += idx + 1
	return tok, nil
}

func (d *decoder) readLength(delim byte) (int, error) {
	start := d.pos
	tok, err := d.readUntil(delim)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(string(tok))
	if err != nil || n < 0 {
		return 0, syntaxErrorf(start, "invalid length %q", tok)
	}
	return n, nil
}

func (d *decoder) null() (any, error) {
	d.pos++ // N
	if err := d.expect(';'); err != nil {
		return nil, err
	}
	return nil, nil
}

func (d *decoder) boolean() (any, error) {
	d.pos++ // b
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	start := d.pos
	tok, err := d.readUntil(';')
	if err != nil {
		return nil, err
	}
	switch string(tok) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return nil, syntaxErrorf(start, "invalid boolean %q", tok)
}

func (d *decoder) integer() (any, error) {
	d.pos++ // i
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	start := d.pos
	tok, err := d.readUntil(';')
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(string(tok), 10, 64)
	if err != nil {
		return nil, syntaxErrorf(start, "invalid integer %q", tok)
	}
	return int(n), nil
}

func (d *decoder) float() (any, error) {
	d.pos++ // d
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	start := d.pos
	tok, err := d.readUntil(';')
	if err != nil {
		return nil, err
	}
	f, err := strconv.ParseFloat(string(tok), 64)
	if err != nil {
		return nil, syntaxErrorf(start, "invalid float %q", tok)
	}
	return f, nil
}

func (d *decoder) str() (any, error) {
	s, err := d.rawString()
	if err != nil {
		return nil, err
	}
	return s, nil
}

// rawString consumes s:<len>:"<bytes>"; using the declared byte length to
// skip the payload. The payload may contain '"', ';' and '|' freely; only
// the length decides where it ends.
func (d *decoder) rawString() (string, error) {
	d.pos++ // s
	if err := d.expect(':'); err != nil {
		return "", err
	}
	n, err := d.readLength(':')
	if err != nil {
		return "", err
	}
	if err := d.expect('"'); err != nil {
		return "", err
	}
	if d.pos+n > len(d.data) {
		return "", syntaxErrorf(d.pos, "string payload truncated, want %d bytes", n)
	}
	s := string(d.data[d.pos : d.pos+n])
	d.pos += n
	if err := d.expect('"'); err != nil {
		return "", err
	}
	if err := d.expect(';'); err != nil {
		return "", err
	}
	return s, nil
}

// array consumes a:<count>:{...} and materializes either a []any, when the
// keys are exactly the sequence 0..count-1, or a map[string]any with
// integer keys stringified.
func (d *decoder) array() (any, error) {
	d.pos++ // a
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	count, err := d.readLength(':')
	if err != nil {
		return nil, err
	}
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	entries := make([]arrayEntry, 0, count)
	isList := true
	for i := 0; i < count; i++ {
		key, err := d.arrayKey()
		if err != nil {
			return nil, err
		}
		if k, ok := key.(int); !ok || k != i {
			isList = false
		}
		val, err := d.value()
		if err != nil {
			return nil, err
		}
		entries = append(entries, arrayEntry{key: key, val: val})
	}
	if d.pos >= len(d.data) || d.data[d.pos] != '}' {
		return nil, syntaxErrorf(d.pos, "unbalanced array braces")
	}
	d.pos++
	if isList {
		out := make([]any, len(entries))
		for i, e := range entries {
			out[i] = e.val
		}
		return out, nil
	}
	out := make(map[string]any, len(entries))
	for _, e := range entries {
		out[keyString(e.key)] = e.val
	}
	return out, nil
}

// arrayKey consumes a key token. Keys are integers or strings on the wire;
// boolean and float keys appear only in hand-built payloads and follow the
// producer's cast rules (bool to 0/1, float truncated toward zero).
func (d *decoder) arrayKey() (any, error) {
	if d.pos >= len(d.data) {
		return nil, syntaxErrorf(d.pos, "unexpected end of input, array key expected")
	}
	switch tag := d.data[d.pos]; tag {
	case 'i':
		return d.integer()
	case 's':
		return d.str()
	case 'b':
		v, err := d.boolean()
		if err != nil {
			return nil, err
		}
		if v.(bool) {
			return 1, nil
		}
		return 0, nil
	case 'd':
		v, err := d.float()
		if err != nil {
			return nil, err
		}
		return int(v.(float64)), nil
	default:
		return nil, syntaxErrorf(d.pos, "invalid array key tag %q", tag)
	}
}

func keyString(key any) string {
	if k, ok := key.(int); ok {
		return strconv.Itoa(k)
	}
	return key.(string)
}

// object consumes an O: or C: token and returns it as an opaque Object. An
// O: body is walked structurally (member names and values are themselves
// typed tokens, so length-prefixed strings cannot confuse the brace
// matching); a C: body is skipped by its declared byte length, the same
// rule strings follow.
func (d *decoder) object(tag byte) (any, error) {
	start := d.pos
	d.pos++ // O or C
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	nameLen, err := d.readLength(':')
	if err != nil {
		return nil, err
	}
	if err := d.expect('"'); err != nil {
		return nil, err
	}
	if d.pos+nameLen > len(d.data) {
		return nil, syntaxErrorf(d.pos, "class name truncated, want %d bytes", nameLen)
	}
	class := string(d.data[d.pos : d.pos+nameLen])
	d.pos += nameLen
	if err := d.expect('"'); err != nil {
		return nil, err
	}
	if err := d.expect(':'); err != nil {
		return nil, err
	}
	n, err := d.readLength(':') // member count for O, byte length for C
	if err != nil {
		return nil, err
	}
	if err := d.expect('{'); err != nil {
		return nil, err
	}
	if tag == 'C' {
		if d.pos+n > len(d.data) {
			return nil, syntaxErrorf(d.pos, "object payload truncated, want %d bytes", n)
		}
		d.pos += n
	} else {
		for i := 0; i < 2*n; i++ { // n member name/value token pairs
			if _, err := d.value(); err != nil {
				return nil, err
			}
		}
	}
	if d.pos >= len(d.data) || d.data[d.pos] != '}' {
		return nil, syntaxErrorf(d.pos, "unbalanced object braces")
	}
	d.pos++
	return Object{Class: class, Raw: bytes.Clone(d.data[start:d.pos])}, nil
}
