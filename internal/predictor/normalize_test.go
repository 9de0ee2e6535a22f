package predictor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_DefaultsForEmptyObject(t *testing.T) {
	out, attrs, err := Normalize(map[string]interface{}{}, 13, 14)
	require.NoError(t, err)

	assert.Equal(t, "", out["from_address"])
	assert.Equal(t, "", out["to_address"])
	assert.Equal(t, 0.0, out["transaction_value"])
	assert.Equal(t, 20.0, out["gas_price"])
	assert.Equal(t, false, out["is_contract_interaction"])
	assert.Equal(t, "", out["acc_holder"])

	features := out["features"].([]interface{})
	require.Len(t, features, FeatureCount)
	assert.Equal(t, "", features[16])
	assert.Equal(t, "", features[17])

	assert.Equal(t, 0.0, attrs.Value)
	assert.False(t, attrs.IsContract)
}

func TestNormalize_LegacyAliases(t *testing.T) {
	out, attrs, err := Normalize(map[string]interface{}{
		"from_address": "0xabc",
		"value":        "12.5",
		"is_contract":  1.0,
	}, 13, 14)
	require.NoError(t, err)

	assert.Equal(t, 12.5, out["transaction_value"])
	assert.Equal(t, true, attrs.IsContract)
	assert.Equal(t, "0xabc", out["acc_holder"], "acc_holder defaults to from_address")
	assert.Equal(t, 12.5, attrs.Value)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := map[string]interface{}{
		"from_address": "0xabc",
		"value":        "3",
		"gas_price":    "55",
	}

	once, _, err := Normalize(raw, 13, 14)
	require.NoError(t, err)
	twice, _, err := Normalize(once, 13, 14)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestNormalize_FeatureLengthForced(t *testing.T) {
	for _, n := range []int{0, 5, 18, 30} {
		in := make([]interface{}, n)
		for i := range in {
			in[i] = float64(i + 1)
		}
		out, _, err := Normalize(map[string]interface{}{
			"from_address":      "0xa",
			"to_address":        "0xb",
			"transaction_value": 2.0,
			"features":          in,
		}, 13, 14)
		require.NoError(t, err)

		features := out["features"].([]interface{})
		assert.Len(t, features, FeatureCount, "input length %d", n)
		if n == 18 {
			// Valid vectors are preserved apart from the slot overwrite
			assert.Equal(t, 1.0, features[0])
			assert.Equal(t, 2.0, features[13])
			assert.Equal(t, 20.0, features[14])
			assert.Equal(t, 17.0, features[16])
		}
	}
}

func TestNormalize_SlotOverwriteEvenOnFastPath(t *testing.T) {
	features := make([]interface{}, FeatureCount)
	for i := range features {
		features[i] = 7.0
	}
	features[16], features[17] = "dai", "usdc"

	out, _, err := Normalize(map[string]interface{}{
		"from_address":      "0xa",
		"to_address":        "0xb",
		"transaction_value": 42.0,
		"gas_price":         9.0,
		"features":          features,
	}, 13, 14)
	require.NoError(t, err)

	got := out["features"].([]interface{})
	assert.Equal(t, 42.0, got[13])
	assert.Equal(t, 9.0, got[14])
	assert.Equal(t, 7.0, got[12], "other slots untouched")
	assert.Equal(t, "dai", got[16])

	// Caller's slice must not be mutated
	assert.Equal(t, 7.0, features[13])
}

func TestNormalize_ConfigurableSlots(t *testing.T) {
	out, _, err := Normalize(map[string]interface{}{
		"transaction_value": 5.0,
		"gas_price":         30.0,
	}, 0, 1)
	require.NoError(t, err)

	features := out["features"].([]interface{})
	assert.Equal(t, 5.0, features[0])
	assert.Equal(t, 30.0, features[1])
}

func TestNormalize_BadNumericIsNamedError(t *testing.T) {
	_, _, err := Normalize(map[string]interface{}{
		"transaction_value": "not-a-number",
	}, 13, 14)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Contains(t, err.Error(), "transaction_value")

	_, _, err = Normalize(map[string]interface{}{
		"gas_price": []interface{}{1, 2},
	}, 13, 14)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestToFloat_Coercions(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
	}{
		{3.5, 3.5},
		{" 7.25 ", 7.25},
		{"10", 10},
		{true, 1},
		{false, 0},
	}
	for _, tt := range tests {
		got, err := toFloat(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := toFloat(nil)
	assert.Error(t, err)
	_, err = toFloat(map[string]interface{}{})
	assert.Error(t, err)
}

func TestTruthy(t *testing.T) {
	assert.True(t, truthy(true))
	assert.True(t, truthy(1.0))
	assert.True(t, truthy("yes"))
	assert.False(t, truthy(nil))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(""))
	assert.False(t, truthy([]interface{}{}))
}
