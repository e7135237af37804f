package polymarket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcomePricesNativeArray(t *testing.T) {
	prices, err := ParseOutcomePrices(json.RawMessage(`[0.415, 0.585]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.415, 0.585}, prices)
}

func TestParseOutcomePricesNativeArrayOfStrings(t *testing.T) {
	prices, err := ParseOutcomePrices(json.RawMessage(`["0.415", "0.585"]`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.415, 0.585}, prices)
}

func TestParseOutcomePricesStringEncodedArray(t *testing.T) {
	prices, err := ParseOutcomePrices(json.RawMessage(`"[\"0.415\", \"0.585\"]"`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.415, 0.585}, prices)
}

func TestParseOutcomePricesLegacyCSV(t *testing.T) {
	prices, err := ParseOutcomePrices(json.RawMessage(`"0.415, 0.585"`))
	require.NoError(t, err)
	assert.Equal(t, []float64{0.415, 0.585}, prices)
}

func TestParseOutcomePricesBadShapes(t *testing.T) {
	cases := []string{
		``,
		`42`,
		`{"yes": 0.4}`,
		`"not a number"`,
		`[true, false]`,
		`"[0.4, oops]"`,
	}
	for _, c := range cases {
		_, err := ParseOutcomePrices(json.RawMessage(c))
		assert.Error(t, err, "input %q", c)
	}
}
