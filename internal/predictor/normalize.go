package predictor

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidPayload marks a request whose numeric fields cannot be coerced.
// It is the caller's mistake, not an upstream failure, and handlers map it
// to its own error body.
var ErrInvalidPayload = errors.New("invalid transaction payload")

// Attributes are the transaction properties the fallback synthesizer and
// realtime stream need, extracted during normalization.
type Attributes struct {
	FromAddress string
	ToAddress   string
	Value       float64
	GasPrice    float64
	IsContract  bool
}

// Normalize accepts an arbitrary decoded JSON object and produces the
// payload the scorer expects plus the coerced transaction attributes.
//
// If all of from_address, to_address, transaction_value, and features are
// already present the object is trusted as-is. Otherwise each field is
// derived independently, honoring the legacy aliases "value" and
// "is_contract". Either way the feature vector is forced to length 18 and
// the configured value/gas slots are overwritten, so normalization is
// idempotent.
func Normalize(raw map[string]interface{}, valueSlot, gasSlot int) (map[string]interface{}, Attributes, error) {
	out := make(map[string]interface{}, len(raw)+4)
	for k, v := range raw {
		out[k] = v
	}

	_, hasFrom := out["from_address"]
	_, hasTo := out["to_address"]
	_, hasValue := out["transaction_value"]
	_, hasFeatures := out["features"]
	fastPath := hasFrom && hasTo && hasValue && hasFeatures

	if !fastPath {
		if !hasFrom {
			out["from_address"] = ""
		}
		if !hasTo {
			out["to_address"] = ""
		}
		if !hasValue {
			if legacy, ok := out["value"]; ok {
				out["transaction_value"] = legacy
			} else {
				out["transaction_value"] = 0.0
			}
		}
		if _, ok := out["gas_price"]; !ok {
			out["gas_price"] = 20.0
		}
		if _, ok := out["is_contract_interaction"]; !ok {
			if legacy, ok := out["is_contract"]; ok {
				out["is_contract_interaction"] = legacy
			} else {
				out["is_contract_interaction"] = false
			}
		}
		if _, ok := out["acc_holder"]; !ok {
			out["acc_holder"] = out["from_address"]
		}
		if !hasFeatures {
			out["features"] = defaultFeatures()
		}
	}

	value, err := toFloat(out["transaction_value"])
	if err != nil {
		return nil, Attributes{}, fmt.Errorf("%w: transaction_value: %v", ErrInvalidPayload, err)
	}
	out["transaction_value"] = value

	gasPrice := 20.0
	if g, ok := out["gas_price"]; ok {
		gasPrice, err = toFloat(g)
		if err != nil {
			return nil, Attributes{}, fmt.Errorf("%w: gas_price: %v", ErrInvalidPayload, err)
		}
		out["gas_price"] = gasPrice
	}

	// Force the vector shape regardless of path. Anything that is not a
	// length-18 array is replaced wholesale, then the configured slots are
	// overwritten with the coerced value and gas price.
	features, _ := out["features"].([]interface{})
	if len(features) != FeatureCount {
		features = defaultFeatures()
	} else {
		features = append([]interface{}(nil), features...)
	}
	features[valueSlot] = value
	features[gasSlot] = gasPrice
	out["features"] = features

	attrs := Attributes{
		FromAddress: toString(out["from_address"]),
		ToAddress:   toString(out["to_address"]),
		Value:       value,
		GasPrice:    gasPrice,
		IsContract:  truthy(out["is_contract_interaction"]),
	}
	return out, attrs, nil
}

// toFloat eagerly coerces JSON scalars to float64.
func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing value")
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case json.Number:
		return x.Float64()
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("cannot parse %q as number", x)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot coerce %T to number", v)
	}
}

// truthy applies loose truthiness: nil, false, zero, empty string, and
// empty collections are false; everything else is true. Legacy clients
// send is_contract as 0/1 or as a string.
func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case int:
		return x != 0
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		return true
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
