package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/unhackablewallet/txfirewall/internal/metrics"
	"github.com/unhackablewallet/txfirewall/internal/retry"
)

const maxResponseSize = 5 * 1024 * 1024 // 5MB

// Outcome classifies how a delivery to the scorer ended.
type Outcome string

const (
	OutcomeSuccess        Outcome = "success"
	OutcomeTimeout        Outcome = "timeout_fallback"
	OutcomeUpstreamError  Outcome = "upstream_error"
	OutcomeTransportError Outcome = "transport_error"
	OutcomeBadResponse    Outcome = "bad_response"
)

// DeliveryResult is the terminal result of a tiered delivery.
type DeliveryResult struct {
	Outcome    Outcome
	Assessment *RiskAssessment // set when Outcome == OutcomeSuccess
	StatusCode int             // set when the scorer answered at all
	Err        error
}

// Client delivers transaction payloads to the fraud-detection scorer.
type Client struct {
	url      string
	timeouts []time.Duration
	http     *http.Client
}

// NewClient creates a scorer client with the given ordered timeout tiers.
// The http.Client carries no timeout of its own; each attempt gets a
// deadline from its tier.
func NewClient(url string, timeouts []time.Duration) *Client {
	if len(timeouts) == 0 {
		timeouts = []time.Duration{30 * time.Second}
	}
	return &Client{
		url:      url,
		timeouts: timeouts,
		http:     &http.Client{},
	}
}

// Deliver posts the normalized payload to the scorer, escalating through
// the timeout tiers. The result always carries a terminal Outcome; it
// never panics or returns a half-state.
func (c *Client) Deliver(ctx context.Context, payload map[string]interface{}) *DeliveryResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return &DeliveryResult{Outcome: OutcomeTransportError, Err: fmt.Errorf("marshal payload: %w", err)}
	}

	var result *DeliveryResult
	tier := 0

	err = retry.Tiered(ctx, c.timeouts, func(attemptCtx context.Context) error {
		tier++
		tierLabel := strconv.Itoa(tier)

		req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")

		start := time.Now()
		resp, err := c.http.Do(req)
		metrics.UpstreamRequestDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "timeout").Inc()
			} else {
				metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "transport_error").Inc()
			}
			return err
		}
		defer resp.Body.Close()

		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
		if err != nil {
			metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "transport_error").Inc()
			return err
		}

		if resp.StatusCode != http.StatusOK {
			metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "http_error").Inc()
			result = &DeliveryResult{
				Outcome:    OutcomeUpstreamError,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("scorer returned HTTP %d", resp.StatusCode),
			}
			return retry.Permanent(result.Err)
		}

		assessment, perr := parseScorerResponse(raw)
		if perr != nil {
			metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "bad_response").Inc()
			result = &DeliveryResult{
				Outcome:    OutcomeBadResponse,
				StatusCode: resp.StatusCode,
				Err:        perr,
			}
			return retry.Permanent(perr)
		}

		metrics.UpstreamAttemptsTotal.WithLabelValues(tierLabel, "success").Inc()
		result = &DeliveryResult{
			Outcome:    OutcomeSuccess,
			Assessment: assessment,
			StatusCode: resp.StatusCode,
		}
		return nil
	})

	if result != nil {
		return result
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &DeliveryResult{Outcome: OutcomeTimeout, Err: err}
	}
	return &DeliveryResult{Outcome: OutcomeTransportError, Err: err}
}

// Forward posts a raw body to the scorer without normalization or tiering,
// using the most patient timeout. It backs the passthrough analyze endpoint.
func (c *Client) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	timeout := c.timeouts[len(c.timeouts)-1]
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, raw, nil
}

// parseScorerResponse maps a 200 scorer body to a RiskAssessment. The
// scorer has shipped two response formats: an older binary classifier
// ({"prediction": "Fraud", "Type": ...}) and a numeric one
// ({"prediction": n, "risk_score": x, "features": [...]}). A string
// prediction selects the binary mapping; anything else the numeric one.
func parseScorerResponse(raw []byte) (*RiskAssessment, error) {
	var parsed map[string]interface{}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse scorer response: %w", err)
	}

	if label, ok := parsed["prediction"].(string); ok {
		typeStr, _ := parsed["Type"].(string)
		score, level := 0.1, RiskLow
		if label == "Fraud" {
			score, level = 0.9, RiskHigh
		}
		return &RiskAssessment{
			RiskScore:   score,
			RiskLevel:   level,
			Explanation: fmt.Sprintf("Transaction prediction: %s, Type: %s", label, typeStr),
			Prediction:  label,
			Type:        typeStr,
			Success:     true,
		}, nil
	}

	score := 0.1
	if rs, ok := parsed["risk_score"]; ok {
		if f, err := toFloat(rs); err == nil {
			score = f
		}
	}
	features, _ := parsed["features"].([]interface{})
	return &RiskAssessment{
		RiskScore:   score,
		RiskLevel:   levelFromScore(score),
		Explanation: fmt.Sprintf("Transaction risk score: %v", score),
		Prediction:  parsed["prediction"],
		Features:    features,
		Success:     true,
	}, nil
}
