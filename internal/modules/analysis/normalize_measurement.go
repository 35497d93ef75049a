package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/measurement"
)

const (
	measurementConfidence   = 0.9
	measurementImageQuality = 8.0
	frameSpacingSeconds     = 0.1
)

type measurementNormalizer struct {
	log    *logger.Logger
	client measurement.Client
}

// NewMeasurementNormalizer proxies scoring to the external measurement service. Video
// scans are uploaded whole; image scans are sent as three timestamped frames.
func NewMeasurementNormalizer(log *logger.Logger, client measurement.Client) MetricsNormalizer {
	return &measurementNormalizer{log: log.With("normalizer", StrategyMeasurement), client: client}
}

func (n *measurementNormalizer) Name() string { return StrategyMeasurement }

func (n *measurementNormalizer) Normalize(ctx context.Context, images ImageSet, _ ImageValidation) (Measurement, error) {
	if n.client == nil {
		return Measurement{}, fmt.Errorf("measurement client not configured")
	}
	if len(images.Video) > 0 {
		raw, err := n.client.UploadVideo(ctx, images.Video, "scan.mp4")
		if err != nil {
			return Measurement{}, fmt.Errorf("measurement service: %w", err)
		}
		return ParseMeasurement(raw)
	}
	frames := make([]measurement.Frame, 0, 3)
	for i, v := range images.views() {
		frames = append(frames, measurement.Frame{Image: v.data, Timestamp: float64(i) * frameSpacingSeconds})
	}
	raw, err := n.client.AnalyzeFrames(ctx, frames)
	if err != nil {
		return Measurement{}, fmt.Errorf("measurement service: %w", err)
	}
	return ParseMeasurement(raw)
}

// measuredSource binds a sub-score to a measurement key in one view.
type measuredSource struct {
	path string
	view string // "front" | "profile"
	key  string
}

var measurementSources = []measuredSource{
	{"jawline.definition_score", "front", "jaw_cheek_ratio"},
	{"jawline.symmetry_score", "front", "symmetry_score"},
	{"jawline.chin_projection", "profile", "chin_projection"},
	{"cheekbones.width_score", "front", "face_width_height_ratio"},
	{"cheekbones.symmetry_score", "front", "symmetry_score"},
	{"eye_area.upper_eyelid_exposure", "front", "ear_left"},
	{"eye_area.palpebral_fissure_height", "front", "ear_right"},
	{"eye_area.symmetry_score", "front", "symmetry_score"},
	{"nose.tip_projection", "profile", "nasolabial_angle"},
	{"nose.nostril_symmetry", "front", "nose_width_ratio"},
	{"lips.philtrum_definition", "front", "philtrum_length_mm"},
	{"forehead.forehead_symmetry", "front", "symmetry_score"},
	{"proportions.facial_thirds_balance", "front", "midface_ratio"},
	{"proportions.upper_third_score", "front", "facial_third_upper_mm"},
	{"proportions.middle_third_score", "front", "facial_third_mid_mm"},
	{"proportions.lower_third_score", "front", "facial_third_lower_mm"},
	{"proportions.horizontal_fifths_balance", "front", "esr"},
	{"proportions.overall_symmetry", "front", "symmetry_score"},
	{"proportions.facial_convexity", "profile", "facial_convexity"},
	{"profile.nose_projection", "profile", "nasolabial_angle"},
	{"profile.lip_projection", "profile", "mentolabial_angle"},
	{"profile.chin_projection", "profile", "chin_projection"},
	{"profile.profile_harmony", "profile", "facial_convexity"},
}

// MeasuredValue applies the extraction rule to one measurement item: a pre-computed
// score wins, else the raw value, else def. The result is always clamped to [0,10];
// score and value are never combined.
func MeasuredValue(item gjson.Result, def float64) float64 {
	if !item.Exists() {
		return scan.ClampScore(def)
	}
	if item.IsObject() {
		if s := item.Get("score"); s.Exists() && s.Type != gjson.Null {
			return scan.ClampScore(numberOr(s, def))
		}
		if v := item.Get("value"); v.Exists() && v.Type != gjson.Null {
			return scan.ClampScore(numberOr(v, def))
		}
		return scan.ClampScore(def)
	}
	return scan.ClampScore(numberOr(item, def))
}

// ParseMeasurement maps a measurement-service response into FaceMetrics plus the
// service's own recommendations.
func ParseMeasurement(raw []byte) (Measurement, error) {
	if !gjson.ValidBytes(raw) {
		return Measurement{}, fmt.Errorf("measurement response is not valid JSON")
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return Measurement{}, fmt.Errorf("measurement response is not a JSON object")
	}
	views := map[string]gjson.Result{
		"front":   doc.Get("measurements.front_view"),
		"profile": doc.Get("measurements.profile_view"),
	}

	golden := doc.Get("golden_ratio_analysis.average_score")
	overall := scan.MidpointScore
	if s := doc.Get("scan_summary.overall_score"); s.Exists() && s.Type != gjson.Null {
		overall = numberOr(s, scan.MidpointScore)
	} else if golden.Exists() && golden.Type != gjson.Null {
		overall = numberOr(golden, scan.MidpointScore)
	}
	overall = scan.ClampScore(overall)

	m := scan.DefaultFaceMetrics()
	m.OverallScore = overall
	m.HarmonyScore = MeasuredValue(views["front"].Get("symmetry_score"), overall)
	for _, src := range measurementSources {
		sub, ok := scan.LookupSubScore(src.path)
		if !ok {
			continue
		}
		sub.Set(&m, MeasuredValue(views[src.view].Get(src.key), scan.MidpointScore))
	}
	m.Proportions.GoldenRatioAdherence = scan.ClampScore(numberOr(golden, scan.MidpointScore))
	m.ConfidenceScore = measurementConfidence
	m.ImageQualityFront = measurementImageQuality
	m.ImageQualityLeft = measurementImageQuality
	m.ImageQualityRight = measurementImageQuality

	return Measurement{Metrics: m.Clamped(), Hints: parseServiceHints(doc.Get("ai_recommendations"))}, nil
}

func parseServiceHints(recs gjson.Result) ServiceHints {
	hints := ServiceHints{}
	if !recs.IsObject() {
		return hints
	}
	recs.Get("recommendations").ForEach(func(_, rec gjson.Result) bool {
		area := strings.TrimSpace(rec.Get("title").String())
		if area == "" {
			area = "General"
		}
		text := rec.Get("description").String()
		if text == "" {
			text = rec.Get("suggestion").String()
		}
		hints.Suggestions = append(hints.Suggestions, scan.ImprovementSuggestion{
			Area:           area,
			Priority:       scan.PriorityMedium,
			CurrentScore:   scan.MidpointScore,
			PotentialScore: 7.0,
			Suggestion:     text,
			Exercises:      []string{},
			Products:       []string{},
			Timeframe:      "3 months",
		})
		return true
	})
	recs.Get("strengths").ForEach(func(_, s gjson.Result) bool {
		if v := strings.TrimSpace(s.String()); v != "" {
			hints.Strengths = append(hints.Strengths, v)
		}
		return true
	})
	hints.Summary = strings.TrimSpace(recs.Get("summary").String())
	return hints
}
