package analysis

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

type llmNormalizer struct {
	log *logger.Logger
	ai  openai.Client
}

// NewLLMNormalizer scores faces by prompting a multimodal LLM with the full rubric.
func NewLLMNormalizer(log *logger.Logger, ai openai.Client) MetricsNormalizer {
	return &llmNormalizer{log: log.With("normalizer", StrategyLLM), ai: ai}
}

func (n *llmNormalizer) Name() string { return StrategyLLM }

func (n *llmNormalizer) Normalize(ctx context.Context, images ImageSet, validation ImageValidation) (Measurement, error) {
	if n.ai == nil {
		return Measurement{}, fmt.Errorf("llm client not configured")
	}
	text, err := n.ai.GenerateTextWithImages(ctx, metricsSystemPrompt, metricsPrompt, imageInputs(images))
	if err != nil {
		return Measurement{}, fmt.Errorf("metrics llm call: %w", err)
	}
	m, err := ParseLLMMetrics(text, validation)
	if err != nil {
		return Measurement{}, err
	}
	return Measurement{Metrics: m}, nil
}

// ParseLLMMetrics reads a (possibly fenced) JSON reply into FaceMetrics. Any sub-score
// the reply omits takes the midpoint; every value is clamped. Image qualities come
// from validation, not the reply.
func ParseLLMMetrics(text string, validation ImageValidation) (scan.FaceMetrics, error) {
	payload, ok := extractJSON(text, '{', '}')
	if !ok {
		return scan.FaceMetrics{}, fmt.Errorf("metrics reply is not a JSON object")
	}
	doc := gjson.Parse(payload)

	m := scan.DefaultFaceMetrics()
	for _, s := range scan.SubScores() {
		s.Set(&m, numberOr(doc.Get(s.Path()), scan.MidpointScore))
	}
	m.OverallScore = numberOr(doc.Get("overall_score"), scan.MidpointScore)
	m.HarmonyScore = numberOr(doc.Get("harmony_score"), scan.MidpointScore)
	m.ConfidenceScore = numberOr(doc.Get("confidence_score"), scan.DefaultConfidence)
	m.ImageQualityFront = validation.FrontQuality
	m.ImageQualityLeft = validation.LeftQuality
	m.ImageQualityRight = validation.RightQuality
	return m.Clamped(), nil
}

func imageInputs(images ImageSet) []openai.ImageInput {
	out := make([]openai.ImageInput, 0, 3)
	for _, v := range images.views() {
		if len(v.data) == 0 {
			continue
		}
		out = append(out, openai.ImageInput{ImageURL: openai.ImageDataURL("image/jpeg", v.data), Detail: "high"})
	}
	return out
}
