package analysis

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/tidwall/gjson"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

func assertAllInRange(t *testing.T, m scan.FaceMetrics) {
	t.Helper()
	for _, s := range scan.SubScores() {
		if v := s.Get(m); v < 0 || v > 10 {
			t.Fatalf("%s = %v, want within [0,10]", s.Path(), v)
		}
	}
	if m.OverallScore < 0 || m.OverallScore > 10 {
		t.Fatalf("overall_score = %v", m.OverallScore)
	}
	if m.ConfidenceScore < 0 || m.ConfidenceScore > 1 {
		t.Fatalf("confidence_score = %v", m.ConfidenceScore)
	}
}

func TestParseLLMMetricsStripsFence(t *testing.T) {
	reply := "```json\n{\"overall_score\": 7.5, \"jawline\": {\"definition_score\": 8}, \"confidence_score\": 0.8}\n```"
	m, err := ParseLLMMetrics(reply, DefaultValidation())
	if err != nil {
		t.Fatalf("ParseLLMMetrics: %v", err)
	}
	if m.OverallScore != 7.5 {
		t.Fatalf("overall = %v, want 7.5", m.OverallScore)
	}
	if m.Jawline.DefinitionScore != 8 {
		t.Fatalf("jawline.definition_score = %v, want 8", m.Jawline.DefinitionScore)
	}
	if m.Skin.OverallQuality != scan.MidpointScore {
		t.Fatalf("missing key should default to midpoint, got %v", m.Skin.OverallQuality)
	}
	if m.ConfidenceScore != 0.8 {
		t.Fatalf("confidence = %v", m.ConfidenceScore)
	}
	if m.ImageQualityFront != 7.0 {
		t.Fatalf("image quality should come from validation, got %v", m.ImageQualityFront)
	}
}

func TestParseLLMMetricsClampsAndDefaults(t *testing.T) {
	reply := `{"overall_score": 42, "harmony_score": "6.5", "nose": {"bridge_height": -3, "tip_projection": null}, "lips": "oops"}`
	m, err := ParseLLMMetrics(reply, DefaultValidation())
	if err != nil {
		t.Fatalf("ParseLLMMetrics: %v", err)
	}
	if m.OverallScore != 10 {
		t.Fatalf("overall = %v, want clamped 10", m.OverallScore)
	}
	if m.HarmonyScore != 6.5 {
		t.Fatalf("numeric string should parse, got %v", m.HarmonyScore)
	}
	if m.Nose.BridgeHeight != 0 {
		t.Fatalf("bridge_height = %v, want 0", m.Nose.BridgeHeight)
	}
	if m.Nose.TipProjection != scan.MidpointScore || m.Lips.UpperLipVolume != scan.MidpointScore {
		t.Fatalf("null and malformed regions should default to midpoint")
	}
	if m.ConfidenceScore != scan.DefaultConfidence {
		t.Fatalf("confidence = %v, want default", m.ConfidenceScore)
	}
	assertAllInRange(t, m)
}

func TestParseLLMMetricsRejectsNonJSON(t *testing.T) {
	for _, reply := range []string{"", "I cannot analyse this photo.", "```json\n{broken\n```", "[1,2,3]"} {
		if _, err := ParseLLMMetrics(reply, DefaultValidation()); err == nil {
			t.Fatalf("expected error for %q", reply)
		}
	}
}

func TestParseLLMMetricsToleratesProse(t *testing.T) {
	reply := "Here is the analysis:\n{\"overall_score\": 6}\nHope this helps."
	m, err := ParseLLMMetrics(reply, DefaultValidation())
	if err != nil {
		t.Fatalf("ParseLLMMetrics: %v", err)
	}
	if m.OverallScore != 6 {
		t.Fatalf("overall = %v", m.OverallScore)
	}
}

func TestMeasuredValue(t *testing.T) {
	cases := []struct {
		name string
		json string
		want float64
	}{
		{"score wins over value", `{"score": 8.2, "value": 120}`, 8.2},
		{"value clamped high", `{"value": 112.5}`, 10},
		{"value clamped low", `{"value": -35}`, 0},
		{"value in range", `{"value": 1.6}`, 1.6},
		{"score clamped", `{"score": 14}`, 10},
		{"null score falls to value", `{"score": null, "value": 3}`, 3},
		{"neither", `{"unit": "mm"}`, 5},
		{"bare number", `7.25`, 7.25},
		{"string", `"n/a"`, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := MeasuredValue(gjson.Parse(tc.json), 5); got != tc.want {
				t.Fatalf("MeasuredValue(%s) = %v, want %v", tc.json, got, tc.want)
			}
		})
	}
	if got := MeasuredValue(gjson.Result{}, 5); got != 5 {
		t.Fatalf("missing item = %v, want default", got)
	}
}

func TestMeasuredValueAlwaysInRange(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		raw := (r.Float64() - 0.5) * 2e6
		for _, doc := range []string{
			fmt.Sprintf(`{"value": %f}`, raw),
			fmt.Sprintf(`{"score": %f}`, raw),
			fmt.Sprintf(`%f`, raw),
		} {
			if v := MeasuredValue(gjson.Parse(doc), 5); v < 0 || v > 10 {
				t.Fatalf("MeasuredValue(%s) = %v out of range", doc, v)
			}
		}
	}
}

const measurementFixture = `{
  "measurements": {
    "front_view": {
      "symmetry_score": {"value": 0.93, "score": 8.6},
      "jaw_cheek_ratio": {"value": 0.82},
      "face_width_height_ratio": {"value": 1.92, "score": 6.1},
      "ear_left": {"value": 0.31},
      "facial_third_upper_mm": {"value": 61.2},
      "esr": {"value": -4}
    },
    "profile_view": {
      "nasolabial_angle": {"value": 104.0, "score": 7.4},
      "facial_convexity": {"value": 168}
    }
  },
  "scan_summary": {"overall_score": 7.1},
  "golden_ratio_analysis": {"average_score": 6.4},
  "ai_recommendations": {
    "summary": "Strong symmetry overall.",
    "strengths": ["Symmetric features", ""],
    "recommendations": [
      {"title": "Skin care", "description": "Use SPF daily"},
      {"suggestion": "Sleep more"}
    ]
  }
}`

func TestParseMeasurement(t *testing.T) {
	got, err := ParseMeasurement([]byte(measurementFixture))
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	m := got.Metrics
	checks := map[string]float64{
		"jawline.definition_score":              0.82,
		"jawline.symmetry_score":                8.6,
		"cheekbones.width_score":                6.1,
		"eye_area.upper_eyelid_exposure":        0.31,
		"proportions.upper_third_score":         10,
		"proportions.horizontal_fifths_balance": 0,
		"proportions.golden_ratio_adherence":    6.4,
		"proportions.facial_convexity":          10,
		"nose.tip_projection":                   7.4,
		"profile.nose_projection":               7.4,
		"profile.chin_projection":               5,
		"skin.overall_quality":                  5,
	}
	for path, want := range checks {
		sub, ok := scan.LookupSubScore(path)
		if !ok {
			t.Fatalf("unknown path %s", path)
		}
		if v := sub.Get(m); v != want {
			t.Errorf("%s = %v, want %v", path, v, want)
		}
	}
	if m.OverallScore != 7.1 {
		t.Fatalf("overall = %v, want 7.1", m.OverallScore)
	}
	if m.HarmonyScore != 8.6 {
		t.Fatalf("harmony = %v, want symmetry score", m.HarmonyScore)
	}
	if m.ConfidenceScore != 0.9 || m.ImageQualityLeft != 8 {
		t.Fatalf("confidence/image quality = %v/%v", m.ConfidenceScore, m.ImageQualityLeft)
	}
	assertAllInRange(t, m)

	if len(got.Hints.Suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(got.Hints.Suggestions))
	}
	first, second := got.Hints.Suggestions[0], got.Hints.Suggestions[1]
	if first.Area != "Skin care" || first.Suggestion != "Use SPF daily" || first.Priority != scan.PriorityMedium {
		t.Fatalf("first suggestion = %+v", first)
	}
	if second.Area != "General" || second.Suggestion != "Sleep more" || second.Timeframe != "3 months" {
		t.Fatalf("second suggestion = %+v", second)
	}
	if first.CurrentScore != 5 || first.PotentialScore != 7 {
		t.Fatalf("scores = %v -> %v", first.CurrentScore, first.PotentialScore)
	}
	if len(got.Hints.Strengths) != 1 || got.Hints.Strengths[0] != "Symmetric features" {
		t.Fatalf("strengths = %v", got.Hints.Strengths)
	}
	if !strings.Contains(got.Hints.Summary, "symmetry") {
		t.Fatalf("summary = %q", got.Hints.Summary)
	}
}

func TestParseMeasurementOverallFallbacks(t *testing.T) {
	got, err := ParseMeasurement([]byte(`{"golden_ratio_analysis": {"average_score": 6.4}}`))
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if got.Metrics.OverallScore != 6.4 || got.Metrics.HarmonyScore != 6.4 {
		t.Fatalf("overall/harmony = %v/%v, want golden average", got.Metrics.OverallScore, got.Metrics.HarmonyScore)
	}

	got, err = ParseMeasurement([]byte(`{}`))
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if got.Metrics.OverallScore != scan.MidpointScore {
		t.Fatalf("overall = %v, want midpoint", got.Metrics.OverallScore)
	}
	assertAllInRange(t, got.Metrics)

	got, err = ParseMeasurement([]byte(`{"scan_summary": {"overall_score": 250}}`))
	if err != nil {
		t.Fatalf("ParseMeasurement: %v", err)
	}
	if got.Metrics.OverallScore != 10 {
		t.Fatalf("overall = %v, want clamped 10", got.Metrics.OverallScore)
	}
}

func TestParseMeasurementRejectsInvalid(t *testing.T) {
	for _, raw := range []string{"", "not json", "[]"} {
		if _, err := ParseMeasurement([]byte(raw)); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}
