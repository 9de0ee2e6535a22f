// Package predictor normalizes transaction payloads, delivers them to the
// external fraud-detection scorer, and synthesizes fallback risk assessments
// when the scorer cannot answer.
package predictor

// Risk levels, ordered from benign to fraudulent.
const (
	RiskLow        = "LOW"
	RiskMediumLow  = "MEDIUM-LOW"
	RiskMedium     = "MEDIUM"
	RiskMediumHigh = "MEDIUM-HIGH"
	RiskHigh       = "HIGH"
)

// FeatureCount is the length of the feature vector the scorer expects:
// 16 numeric wallet metrics followed by 2 ERC20 token-type strings.
const FeatureCount = 18

// numericFeatureCount is the count of leading numeric slots.
const numericFeatureCount = 16

// RiskAssessment is the response shape for every prediction, whether the
// score came from the scorer or was synthesized locally.
type RiskAssessment struct {
	RiskScore   float64       `json:"risk_score"`
	RiskLevel   string        `json:"risk_level"`
	Explanation string        `json:"explanation"`
	Prediction  interface{}   `json:"prediction,omitempty"`
	Type        string        `json:"type,omitempty"`
	Features    []interface{} `json:"features,omitempty"`
	Timeout     bool          `json:"timeout,omitempty"`
	Fallback    bool          `json:"fallback_assessment,omitempty"`
	Success     bool          `json:"success,omitempty"`
	Error       string        `json:"error,omitempty"`
	ErrorType   string        `json:"error_type,omitempty"`
}

// defaultFeatures returns the canonical empty feature vector:
// 16 numeric zeros and 2 empty token-type strings.
func defaultFeatures() []interface{} {
	features := make([]interface{}, FeatureCount)
	for i := 0; i < numericFeatureCount; i++ {
		features[i] = 0.0
	}
	features[numericFeatureCount] = ""
	features[numericFeatureCount+1] = ""
	return features
}

// levelFromScore maps a numeric risk score to a coarse level.
func levelFromScore(score float64) string {
	switch {
	case score > 0.7:
		return RiskHigh
	case score > 0.4:
		return RiskMedium
	default:
		return RiskLow
	}
}
