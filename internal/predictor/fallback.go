package predictor

import "fmt"

// Fallback explanation fragments. The clause order is fixed: contract
// interaction before large value.
const (
	timeoutExplanation     = "ML API timed out. Using fallback risk assessment."
	unavailableExplanation = "ML service temporarily unavailable. Using fallback risk assessment."
	contractClause         = " Contract interaction detected."
	largeValueClause       = " Large transaction value."
)

// largeValueThreshold is the transaction value above which the fallback
// bumps the score.
const largeValueThreshold = 10.0

// attributeFallback synthesizes a conservative score from the transaction's
// own attributes when the scorer cannot answer. Base 0.3 MEDIUM-LOW;
// contract interactions raise it to 0.45 MEDIUM; large values add 0.15
// capped at 0.6 MEDIUM-HIGH.
func attributeFallback(attrs Attributes, explanation string) *RiskAssessment {
	score := 0.3
	level := RiskMediumLow

	if attrs.IsContract {
		score = 0.45
		level = RiskMedium
		explanation += contractClause
	}
	if attrs.Value > largeValueThreshold {
		score += 0.15
		if score > 0.6 {
			score = 0.6
		}
		level = RiskMediumHigh
		explanation += largeValueClause
	}

	return &RiskAssessment{
		RiskScore:   score,
		RiskLevel:   level,
		Explanation: explanation,
		Prediction:  "Unknown",
		Fallback:    true,
	}
}

// TimeoutFallback is the attribute-aware assessment used when every
// timeout tier expired.
func TimeoutFallback(attrs Attributes) *RiskAssessment {
	a := attributeFallback(attrs, timeoutExplanation)
	a.Timeout = true
	return a
}

// CircuitOpenFallback is used when the breaker rejects the request before
// any delivery attempt. Same attribute-aware scoring as a timeout, with
// circuit provenance instead of the timeout flag.
func CircuitOpenFallback(attrs Attributes) *RiskAssessment {
	a := attributeFallback(attrs, unavailableExplanation)
	a.ErrorType = "circuit_open"
	return a
}

// TransportErrorFallback is the flat cautious assessment for connection
// failures, carrying error provenance.
func TransportErrorFallback(err error) *RiskAssessment {
	return &RiskAssessment{
		RiskScore:   0.5,
		RiskLevel:   RiskMedium,
		Explanation: "ML service connection error. Using cautious assessment.",
		Error:       fmt.Sprintf("ML API Error: %v", err),
		ErrorType:   fmt.Sprintf("%T", err),
		Fallback:    true,
	}
}

// UpstreamErrorFallback covers non-200 scorer answers.
func UpstreamErrorFallback(status int) *RiskAssessment {
	return &RiskAssessment{
		RiskScore:   0.5,
		RiskLevel:   RiskMedium,
		Explanation: fmt.Sprintf("ML service error (HTTP %d). Using cautious assessment.", status),
		Fallback:    true,
	}
}

// BadResponseFallback covers 200 answers whose body could not be parsed.
func BadResponseFallback() *RiskAssessment {
	return &RiskAssessment{
		RiskScore:   0.5,
		RiskLevel:   RiskMedium,
		Explanation: "ML service returned an invalid response. Using cautious assessment.",
		Fallback:    true,
	}
}
