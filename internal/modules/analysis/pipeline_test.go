package analysis

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/localmedia"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

func contains(list []string, substr string) bool {
	for _, s := range list {
		if strings.Contains(strings.ToLower(s), substr) {
			return true
		}
	}
	return false
}

func TestPipelineScoresStrengthsFocusAndCourses(t *testing.T) {
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: metricsWith(map[string]float64{
		"jawline.definition_score": 8,
		"skin.overall_quality":     4,
	})}}}}
	p := New(Deps{Log: logger.Nop(), Normalizer: norm, Suggester: &fakeSuggester{}})

	a := p.Run(context.Background(), testImages())

	if !contains(a.TopStrengths, "jawline") {
		t.Fatalf("top_strengths = %v, want a jawline label", a.TopStrengths)
	}
	if !contains(a.FocusAreas, "skin") {
		t.Fatalf("focus_areas = %v, want a skin label", a.FocusAreas)
	}
	if !contains(a.RecommendedCourses, CourseSkincareEssentials) {
		t.Fatalf("recommended_courses = %v", a.RecommendedCourses)
	}
	if a.EstimatedPotential < a.Metrics.OverallScore || a.EstimatedPotential > 10 {
		t.Fatalf("potential = %v", a.EstimatedPotential)
	}
}

func TestPipelineMetricsRetryBudget(t *testing.T) {
	measured := metricsWith(map[string]float64{"jawline.definition_score": 9})
	norm := &scriptedNormalizer{results: []normalizeResult{
		{err: errTimeout},
		{err: errTimeout},
		{m: Measurement{Metrics: measured}},
	}}
	sugg := &fakeSuggester{}
	p := New(Deps{Log: logger.Nop(), Normalizer: norm, Suggester: sugg})

	a := p.Run(context.Background(), testImages())

	if norm.calls != 2 {
		t.Fatalf("metrics calls = %d, want 2", norm.calls)
	}
	if !reflect.DeepEqual(a.Metrics, scan.DefaultFaceMetrics()) {
		t.Fatalf("expected default metrics, got %+v", a.Metrics)
	}
	if sugg.calls != 1 {
		t.Fatalf("improvements stage should still run, suggester calls = %d", sugg.calls)
	}
	if reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("defaulted metrics must not trigger the fallback analysis")
	}
	if !strings.HasPrefix(a.PersonalizedSummary, "Your overall score is 5.0/10.") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
}

func TestPipelineMetricsRetrySucceedsWithinBudget(t *testing.T) {
	measured := metricsWith(map[string]float64{"jawline.definition_score": 9})
	norm := &scriptedNormalizer{results: []normalizeResult{{err: errTimeout}, {m: Measurement{Metrics: measured}}}}
	a := New(Deps{Log: logger.Nop(), Normalizer: norm}).Run(context.Background(), testImages())
	if norm.calls != 2 {
		t.Fatalf("metrics calls = %d, want 2", norm.calls)
	}
	if a.Metrics.Jawline.DefinitionScore != 9 {
		t.Fatalf("second attempt result should be used, got %v", a.Metrics.Jawline.DefinitionScore)
	}
}

func TestPipelineInvalidSuggestionJSON(t *testing.T) {
	measured := metricsWith(map[string]float64{"jawline.definition_score": 8.5})
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: measured}}}}
	llm := &fakeLLM{reply: "Sure! Here are some tips: {not json"}
	p := New(Deps{Log: logger.Nop(), Normalizer: norm, Suggester: NewLLMSuggester(logger.Nop(), llm)})

	a := p.Run(context.Background(), testImages())

	if a.Improvements == nil || len(a.Improvements) != 0 {
		t.Fatalf("improvements = %v, want empty", a.Improvements)
	}
	if !reflect.DeepEqual(a.Metrics, measured.Clamped()) {
		t.Fatalf("metrics should survive a failed improvements stage")
	}
	if len(llm.prompts) != 1 || !strings.Contains(llm.prompts[0], "Jawline") && !strings.Contains(llm.prompts[0], "Skin") {
		t.Fatalf("prompt should embed weak areas, got %v", llm.prompts)
	}
}

func TestPipelineUsesServiceHints(t *testing.T) {
	hints := ServiceHints{
		Suggestions: []scan.ImprovementSuggestion{{Area: "Hair care", Priority: scan.PriorityMedium, Exercises: []string{}, Products: []string{}}},
		Strengths:   []string{"Symmetric features"},
		Summary:     "Nice structure.",
	}
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: scan.DefaultFaceMetrics(), Hints: hints}}}}
	sugg := &fakeSuggester{}
	a := New(Deps{Log: logger.Nop(), Normalizer: norm, Suggester: sugg}).Run(context.Background(), testImages())

	if sugg.calls != 0 {
		t.Fatalf("suggester should not be called when the service supplied suggestions")
	}
	if len(a.Improvements) != 1 || a.Improvements[0].Area != "Hair care" {
		t.Fatalf("improvements = %+v", a.Improvements)
	}
	if len(a.TopStrengths) == 0 || a.TopStrengths[0] != "Symmetric features" {
		t.Fatalf("top_strengths = %v", a.TopStrengths)
	}
	if !strings.HasSuffix(a.PersonalizedSummary, "Nice structure.") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if !contains(a.RecommendedCourses, CourseHairOptimization) {
		t.Fatalf("courses = %v", a.RecommendedCourses)
	}
}

func TestPipelineVideoExtractionFailure(t *testing.T) {
	src := &fakeFrameSource{probeErr: errors.New("invalid data found when processing input")}
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: scan.DefaultFaceMetrics()}}}}
	p := New(Deps{Log: logger.Nop(), Normalizer: norm, Frames: NewFrameExtractor(logger.Nop(), src)})

	a := p.RunVideo(context.Background(), []byte("not a video"))

	if !strings.Contains(a.PersonalizedSummary, "Video extraction failed") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if !reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("focus_areas = %v", a.FocusAreas)
	}
	if norm.calls != 0 {
		t.Fatalf("metrics should not run after extraction failure")
	}
	if src.cleanedUp != 1 {
		t.Fatalf("staged video must be removed, cleanup calls = %d", src.cleanedUp)
	}
}

func TestPipelineVideoWithoutDecodableFrames(t *testing.T) {
	src := &fakeFrameSource{info: localmedia.VideoInfo{FPS: 30, TotalFrames: 600}}
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: scan.DefaultFaceMetrics()}}}}
	p := New(Deps{Log: logger.Nop(), Normalizer: norm, Frames: NewFrameExtractor(logger.Nop(), src)})

	a := p.RunVideo(context.Background(), []byte("video"))

	if !strings.Contains(a.PersonalizedSummary, "Video extraction failed") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if !reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("focus_areas = %v", a.FocusAreas)
	}
	if norm.calls != 0 {
		t.Fatalf("metrics should not run without frames")
	}
}

func TestPipelineRecoversPanics(t *testing.T) {
	a := New(Deps{Log: logger.Nop(), Normalizer: panicNormalizer{}}).Run(context.Background(), testImages())
	if !strings.Contains(a.PersonalizedSummary, "boom") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if !reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("focus_areas = %v", a.FocusAreas)
	}
	if !reflect.DeepEqual(a.Metrics, scan.DefaultFaceMetrics()) {
		t.Fatalf("fallback metrics must be fully populated")
	}
}

func TestPipelineEmptyImageFallsBack(t *testing.T) {
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: scan.DefaultFaceMetrics()}}}}
	a := New(Deps{Log: logger.Nop(), Normalizer: norm}).Run(context.Background(), ImageSet{Front: []byte("f")})
	if !reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("focus_areas = %v", a.FocusAreas)
	}
	if norm.calls != 0 {
		t.Fatalf("metrics should not run without inputs")
	}
}

func TestPipelineValidatorFailureIsSoft(t *testing.T) {
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: scan.DefaultFaceMetrics()}}}}
	p := New(Deps{
		Log:        logger.Nop(),
		Validator:  NewLLMValidator(logger.Nop(), &fakeLLM{err: errTimeout}),
		Normalizer: norm,
	})
	a := p.Run(context.Background(), testImages())
	if norm.calls != 1 {
		t.Fatalf("metrics calls = %d, want 1", norm.calls)
	}
	if reflect.DeepEqual(a.FocusAreas, []string{scan.RetryFocusArea}) {
		t.Fatalf("validator failure must not abort the run")
	}
}

func TestPipelineCancelledContextDefaultsMetrics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	norm := &scriptedNormalizer{results: []normalizeResult{{m: Measurement{Metrics: metricsWith(map[string]float64{"skin.overall_quality": 9})}}}}
	a := New(Deps{Log: logger.Nop(), Normalizer: norm}).Run(ctx, testImages())
	if norm.calls != 0 {
		t.Fatalf("metrics calls = %d, want 0", norm.calls)
	}
	if !reflect.DeepEqual(a.Metrics, scan.DefaultFaceMetrics()) {
		t.Fatalf("expected default metrics")
	}
}

func TestPipelineLLMStrategyEndToEnd(t *testing.T) {
	llm := &fakeLLM{reply: `{"overall_score": 6.8, "skin": {"overall_quality": 3.5}, "hair": {"hairline_health": 8}, "confidence_score": 0.7}`}
	p := New(Deps{
		Log:        logger.Nop(),
		Normalizer: NewLLMNormalizer(logger.Nop(), llm),
		Suggester:  &fakeSuggester{out: []scan.ImprovementSuggestion{{Area: "Jawline", Exercises: []string{}, Products: []string{}}}},
	})
	a := p.Run(context.Background(), testImages())
	if a.Metrics.OverallScore != 6.8 || a.Metrics.Skin.OverallQuality != 3.5 {
		t.Fatalf("metrics = %+v", a.Metrics)
	}
	if a.FocusAreas[0] != "Skin improvement" {
		t.Fatalf("focus_areas = %v", a.FocusAreas)
	}
	if a.TopStrengths[0] != "Healthy hairline" {
		t.Fatalf("top_strengths = %v", a.TopStrengths)
	}
	want := []string{CourseSkincareEssentials, CourseJawlineMastery}
	if !reflect.DeepEqual(a.RecommendedCourses, want) {
		t.Fatalf("courses = %v, want %v", a.RecommendedCourses, want)
	}
}
