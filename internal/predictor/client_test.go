package predictor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload() map[string]interface{} {
	payload, _, err := Normalize(map[string]interface{}{"transaction_value": 1.0}, 13, 14)
	if err != nil {
		panic(err)
	}
	return payload
}

func TestDeliver_Success_NumericShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"prediction": 1, "risk_score": 0.55, "features": [1, 2]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []time.Duration{time.Second})
	result := c.Deliver(context.Background(), testPayload())

	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0.55, result.Assessment.RiskScore)
	assert.Equal(t, RiskMedium, result.Assessment.RiskLevel)
	assert.Equal(t, "Transaction risk score: 0.55", result.Assessment.Explanation)
	assert.True(t, result.Assessment.Success)
	assert.Len(t, result.Assessment.Features, 2)
}

func TestDeliver_Success_BinaryShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction": "Fraud", "Type": "phishing"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []time.Duration{time.Second})
	result := c.Deliver(context.Background(), testPayload())

	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0.9, result.Assessment.RiskScore)
	assert.Equal(t, RiskHigh, result.Assessment.RiskLevel)
	assert.Equal(t, "Transaction prediction: Fraud, Type: phishing", result.Assessment.Explanation)

	// Non-fraud label maps low
	srv2 := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction": "Legit", "Type": "transfer"}`))
	}))
	defer srv2.Close()

	result = NewClient(srv2.URL, []time.Duration{time.Second}).Deliver(context.Background(), testPayload())
	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0.1, result.Assessment.RiskScore)
	assert.Equal(t, RiskLow, result.Assessment.RiskLevel)
}

func TestDeliver_NumericShape_MissingScoreDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction": 0}`))
	}))
	defer srv.Close()

	result := NewClient(srv.URL, []time.Duration{time.Second}).Deliver(context.Background(), testPayload())
	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 0.1, result.Assessment.RiskScore)
	assert.Equal(t, RiskLow, result.Assessment.RiskLevel)
}

func TestDeliver_TimeoutTierEscalation(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Outlast tier 1; the client gives up and retries
			time.Sleep(300 * time.Millisecond)
			return
		}
		w.Write([]byte(`{"prediction": 0, "risk_score": 0.2}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []time.Duration{50 * time.Millisecond, time.Second})
	result := c.Deliver(context.Background(), testPayload())

	require.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 0.2, result.Assessment.RiskScore)
}

func TestDeliver_TimeoutOnAllTiers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []time.Duration{30 * time.Millisecond, 60 * time.Millisecond})
	result := c.Deliver(context.Background(), testPayload())

	assert.Equal(t, OutcomeTimeout, result.Outcome)
	assert.Nil(t, result.Assessment)
}

func TestDeliver_Non200IsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, []time.Duration{time.Second, time.Second})
	result := c.Deliver(context.Background(), testPayload())

	assert.Equal(t, OutcomeUpstreamError, result.Outcome)
	assert.Equal(t, http.StatusBadGateway, result.StatusCode)
	assert.Equal(t, int32(1), calls.Load(), "non-200 must not escalate tiers")
}

func TestDeliver_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prediction": `))
	}))
	defer srv.Close()

	result := NewClient(srv.URL, []time.Duration{time.Second}).Deliver(context.Background(), testPayload())
	assert.Equal(t, OutcomeBadResponse, result.Outcome)
	assert.Error(t, result.Err)
}

func TestDeliver_ConnectionRefused(t *testing.T) {
	// Reserve a port, then close it so nothing is listening
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	result := NewClient(url, []time.Duration{time.Second}).Deliver(context.Background(), testPayload())
	assert.Equal(t, OutcomeTransportError, result.Outcome)
	assert.Error(t, result.Err)
}

func TestForward_RelaysStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"detail": "nope"}`))
	}))
	defer srv.Close()

	status, body, err := NewClient(srv.URL, []time.Duration{time.Second}).Forward(
		context.Background(), []byte(`{"anything": 1}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
	assert.JSONEq(t, `{"detail": "nope"}`, string(body))
}
