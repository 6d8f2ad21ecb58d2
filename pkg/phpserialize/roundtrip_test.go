package phpserialize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionstore/pkg/phpserialize"
)

func TestRoundTrip_CanonicalMapping(t *testing.T) {
	t.Parallel()

	original := map[string]any{
		"user_id":   12345,
		"logged_in": true,
		"balance":   10.5,
		"flash":     nil,
		"name":      "José",
		"cart":      []any{"sku-1", "sku-2"},
		"prefs": map[string]any{
			"theme": "dark",
			"limit": 50,
		},
	}

	encoded, err := phpserialize.Encode(original)
	require.NoError(t, err)

	decoded, err := phpserialize.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}

func TestRoundTrip_PayloadBytes(t *testing.T) {
	t.Parallel()

	// Field names and nested map keys already sorted, so the re-encoded
	// payload must match byte for byte.
	payload := `cart|a:2:{i:0;s:5:"sku-1";i:1;s:5:"sku-2";}state|a:2:{s:4:"lang";s:2:"en";s:4:"mode";i:3;}user|i:9;`

	decoded, err := phpserialize.Decode([]byte(payload))
	require.NoError(t, err)

	encoded, err := phpserialize.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, payload, string(encoded))
}

func TestRoundTrip_OpaqueObject(t *testing.T) {
	t.Parallel()

	payload := `cart|O:8:"CartImpl":2:{s:5:"items";a:1:{i:0;s:3:"abc";}s:5:"total";d:9.99;}user|i:1;`

	decoded, err := phpserialize.Decode([]byte(payload))
	require.NoError(t, err)

	encoded, err := phpserialize.Encode(decoded)
	require.NoError(t, err)
	assert.Equal(t, payload, string(encoded))
}
