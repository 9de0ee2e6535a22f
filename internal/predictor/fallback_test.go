package predictor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeoutFallback_Base(t *testing.T) {
	a := TimeoutFallback(Attributes{Value: 1.0})

	assert.Equal(t, 0.3, a.RiskScore)
	assert.Equal(t, RiskMediumLow, a.RiskLevel)
	assert.Equal(t, "ML API timed out. Using fallback risk assessment.", a.Explanation)
	assert.True(t, a.Timeout)
	assert.True(t, a.Fallback)
	assert.Equal(t, "Unknown", a.Prediction)
}

func TestTimeoutFallback_ContractInteraction(t *testing.T) {
	a := TimeoutFallback(Attributes{Value: 1.0, IsContract: true})

	assert.Equal(t, 0.45, a.RiskScore)
	assert.Equal(t, RiskMedium, a.RiskLevel)
	assert.Contains(t, a.Explanation, "Contract interaction detected.")
}

func TestTimeoutFallback_LargeValue(t *testing.T) {
	a := TimeoutFallback(Attributes{Value: 15.0})

	assert.Equal(t, 0.45, a.RiskScore)
	assert.Equal(t, RiskMediumHigh, a.RiskLevel)
	assert.Contains(t, a.Explanation, "Large transaction value.")
}

func TestTimeoutFallback_ContractAndLargeValueCapped(t *testing.T) {
	a := TimeoutFallback(Attributes{Value: 15.0, IsContract: true})

	// 0.45 + 0.15 hits the 0.6 cap exactly
	assert.Equal(t, 0.6, a.RiskScore)
	assert.Equal(t, RiskMediumHigh, a.RiskLevel)
	// Clause order fixed: contract before large-value
	assert.Equal(t,
		"ML API timed out. Using fallback risk assessment. Contract interaction detected. Large transaction value.",
		a.Explanation)
}

func TestTimeoutFallback_ValueAtThresholdNotLarge(t *testing.T) {
	a := TimeoutFallback(Attributes{Value: 10.0})
	assert.Equal(t, 0.3, a.RiskScore)
	assert.Equal(t, RiskMediumLow, a.RiskLevel)
}

func TestCircuitOpenFallback(t *testing.T) {
	a := CircuitOpenFallback(Attributes{Value: 15.0, IsContract: true})

	assert.Equal(t, 0.6, a.RiskScore)
	assert.Equal(t, "circuit_open", a.ErrorType)
	assert.False(t, a.Timeout)
	assert.True(t, a.Fallback)
}

func TestTransportErrorFallback(t *testing.T) {
	a := TransportErrorFallback(errors.New("dial tcp: connection refused"))

	assert.Equal(t, 0.5, a.RiskScore)
	assert.Equal(t, RiskMedium, a.RiskLevel)
	assert.Equal(t, "ML service connection error. Using cautious assessment.", a.Explanation)
	assert.Contains(t, a.Error, "ML API Error: dial tcp: connection refused")
	assert.NotEmpty(t, a.ErrorType)
}

func TestUpstreamErrorFallback(t *testing.T) {
	a := UpstreamErrorFallback(503)

	assert.Equal(t, 0.5, a.RiskScore)
	assert.Equal(t, RiskMedium, a.RiskLevel)
	assert.Equal(t, "ML service error (HTTP 503). Using cautious assessment.", a.Explanation)
}

func TestBadResponseFallback(t *testing.T) {
	a := BadResponseFallback()
	assert.Equal(t, 0.5, a.RiskScore)
	assert.Equal(t, RiskMedium, a.RiskLevel)
}

func TestLevelFromScore(t *testing.T) {
	assert.Equal(t, RiskLow, levelFromScore(0.1))
	assert.Equal(t, RiskLow, levelFromScore(0.4))
	assert.Equal(t, RiskMedium, levelFromScore(0.41))
	assert.Equal(t, RiskMedium, levelFromScore(0.7))
	assert.Equal(t, RiskHigh, levelFromScore(0.71))
}
