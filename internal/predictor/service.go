package predictor

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/unhackablewallet/txfirewall/internal/circuitbreaker"
	"github.com/unhackablewallet/txfirewall/internal/logging"
	"github.com/unhackablewallet/txfirewall/internal/metrics"
	"github.com/unhackablewallet/txfirewall/internal/traces"
)

// AssessmentEvent is what the realtime stream sees for each completed
// prediction.
type AssessmentEvent struct {
	FromAddress string  `json:"from_address"`
	ToAddress   string  `json:"to_address"`
	RiskScore   float64 `json:"risk_score"`
	RiskLevel   string  `json:"risk_level"`
	Provenance  string  `json:"provenance"` // delivery outcome or circuit_open
}

// Publisher receives completed assessments for fan-out.
type Publisher interface {
	PublishAssessment(ev AssessmentEvent)
}

// Service orchestrates normalize → breaker → deliver → map/fallback.
type Service struct {
	client    *Client
	breaker   *circuitbreaker.Breaker
	publisher Publisher
	valueSlot int
	gasSlot   int
}

// NewService creates the prediction service. publisher may be nil.
func NewService(client *Client, breaker *circuitbreaker.Breaker, publisher Publisher, valueSlot, gasSlot int) *Service {
	return &Service{
		client:    client,
		breaker:   breaker,
		publisher: publisher,
		valueSlot: valueSlot,
		gasSlot:   gasSlot,
	}
}

// Assess normalizes the raw payload, delivers it to the scorer, and always
// returns an assessment unless the payload itself is invalid
// (ErrInvalidPayload).
func (s *Service) Assess(ctx context.Context, raw map[string]interface{}) (*RiskAssessment, error) {
	ctx, span := traces.StartSpan(ctx, "predictor.assess")
	defer span.End()

	payload, attrs, err := Normalize(raw, s.valueSlot, s.gasSlot)
	if err != nil {
		metrics.PredictionsTotal.WithLabelValues("bad_input").Inc()
		return nil, err
	}
	span.SetAttributes(traces.FromAddress(attrs.FromAddress), traces.ToAddress(attrs.ToAddress))

	if !s.breaker.Allow() {
		logging.L(ctx).Warn("scorer circuit open, synthesizing fallback",
			"from", attrs.FromAddress, "value", attrs.Value)
		metrics.PredictionsTotal.WithLabelValues("circuit_open").Inc()
		metrics.FallbacksTotal.WithLabelValues("circuit_open").Inc()
		return s.finish(span, attrs, "circuit_open", CircuitOpenFallback(attrs)), nil
	}

	result := s.client.Deliver(ctx, payload)

	var assessment *RiskAssessment
	switch result.Outcome {
	case OutcomeSuccess:
		s.breaker.RecordSuccess()
		assessment = result.Assessment
	case OutcomeTimeout:
		s.breaker.RecordFailure()
		metrics.FallbacksTotal.WithLabelValues("timeout").Inc()
		logging.L(ctx).Warn("scorer timed out on every tier", "value", attrs.Value, "is_contract", attrs.IsContract)
		assessment = TimeoutFallback(attrs)
	case OutcomeUpstreamError:
		s.breaker.RecordFailure()
		metrics.FallbacksTotal.WithLabelValues("upstream_error").Inc()
		logging.L(ctx).Warn("scorer returned error status", "status", result.StatusCode)
		assessment = UpstreamErrorFallback(result.StatusCode)
	case OutcomeBadResponse:
		s.breaker.RecordFailure()
		metrics.FallbacksTotal.WithLabelValues("bad_response").Inc()
		logging.L(ctx).Warn("scorer returned unparseable body", "error", result.Err)
		assessment = BadResponseFallback()
	default: // OutcomeTransportError
		s.breaker.RecordFailure()
		metrics.FallbacksTotal.WithLabelValues("transport_error").Inc()
		logging.L(ctx).Error("scorer unreachable", "error", result.Err)
		assessment = TransportErrorFallback(result.Err)
	}

	metrics.PredictionsTotal.WithLabelValues(string(result.Outcome)).Inc()
	return s.finish(span, attrs, string(result.Outcome), assessment), nil
}

// finish decorates the span and fans the assessment out to subscribers.
func (s *Service) finish(span trace.Span, attrs Attributes, provenance string, a *RiskAssessment) *RiskAssessment {
	span.SetAttributes(traces.RiskScore(a.RiskScore), traces.RiskLevel(a.RiskLevel), traces.Outcome(provenance))
	if s.publisher != nil {
		s.publisher.PublishAssessment(AssessmentEvent{
			FromAddress: attrs.FromAddress,
			ToAddress:   attrs.ToAddress,
			RiskScore:   a.RiskScore,
			RiskLevel:   a.RiskLevel,
			Provenance:  provenance,
		})
	}
	return a
}
