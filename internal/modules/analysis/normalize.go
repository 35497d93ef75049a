package analysis

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// MetricsNormalizer turns one upstream capability into canonical FaceMetrics.
// Implementations return an error for call or parse failures; the metrics stage
// owns retry and defaulting.
type MetricsNormalizer interface {
	Name() string
	Normalize(ctx context.Context, images ImageSet, validation ImageValidation) (Measurement, error)
}

const (
	StrategyLLM         = "llm"
	StrategyMeasurement = "measurement"
)

// numberOr reads r as a finite number (numeric strings included), or returns def.
func numberOr(r gjson.Result, def float64) float64 {
	var v float64
	switch r.Type {
	case gjson.Number:
		v = r.Float()
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return def
		}
		v = f
	default:
		return def
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}
