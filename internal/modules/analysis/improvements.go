package analysis

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

// StrengthThreshold splits strengths (>=) from focus areas (<).
const StrengthThreshold = 7.0

// Suggester produces improvement suggestions for a set of metrics.
type Suggester interface {
	Suggest(ctx context.Context, metrics scan.FaceMetrics, weakAreas []string) ([]scan.ImprovementSuggestion, error)
}

type areaLabel struct {
	path     string
	strength string
	focus    string
}

// areaLabels holds the signature sub-score of each region.
var areaLabels = []areaLabel{
	{"jawline.definition_score", "Well-defined jawline", "Jawline definition"},
	{"skin.overall_quality", "Good skin quality", "Skin improvement"},
	{"proportions.overall_symmetry", "Good facial symmetry", "Facial symmetry"},
	{"cheekbones.prominence_score", "Prominent cheekbones", "Cheekbone prominence"},
	{"eye_area.under_eye_area", "Healthy under-eye area", "Under-eye area"},
	{"nose.overall_harmony", "Harmonious nose", "Nose harmony"},
	{"lips.cupids_bow_definition", "Defined lips", "Lip definition"},
	{"forehead.brow_bone_projection", "Strong brow ridge", "Brow bone projection"},
	{"profile.profile_harmony", "Balanced profile", "Profile and posture"},
	{"hair.hairline_health", "Healthy hairline", "Hair health"},
	{"body_fat.facial_leanness", "Lean facial structure", "Facial fat reduction"},
}

type scoredLabel struct {
	label string
	score float64
}

// DeriveAreas labels the signature sub-scores. Strengths are ordered strongest first,
// focus areas weakest first; both are capped at scan.MaxListedAreas.
func DeriveAreas(m scan.FaceMetrics) (strengths, focus []string) {
	var strong, weak []scoredLabel
	for _, a := range areaLabels {
		sub, ok := scan.LookupSubScore(a.path)
		if !ok {
			continue
		}
		v := sub.Get(m)
		if v >= StrengthThreshold {
			strong = append(strong, scoredLabel{a.strength, v})
		} else {
			weak = append(weak, scoredLabel{a.focus, v})
		}
	}
	sort.SliceStable(strong, func(i, j int) bool { return strong[i].score > strong[j].score })
	sort.SliceStable(weak, func(i, j int) bool { return weak[i].score < weak[j].score })
	return labelsOf(strong), labelsOf(weak)
}

func labelsOf(in []scoredLabel) []string {
	out := make([]string, 0, scan.MaxListedAreas)
	for _, s := range in {
		if len(out) == scan.MaxListedAreas {
			break
		}
		out = append(out, s.label)
	}
	return out
}

// mergeStrengths puts hinted strengths ahead of derived ones, dropping duplicates.
func mergeStrengths(hinted, derived []string) []string {
	out := make([]string, 0, scan.MaxListedAreas)
	seen := map[string]bool{}
	for _, s := range append(append([]string{}, hinted...), derived...) {
		key := strings.ToLower(strings.TrimSpace(s))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
		if len(out) == scan.MaxListedAreas {
			break
		}
	}
	return out
}

type llmSuggester struct {
	log *logger.Logger
	ai  openai.Client
}

func NewLLMSuggester(log *logger.Logger, ai openai.Client) Suggester {
	return &llmSuggester{log: log.With("suggester", "llm"), ai: ai}
}

func (s *llmSuggester) Suggest(ctx context.Context, metrics scan.FaceMetrics, weakAreas []string) ([]scan.ImprovementSuggestion, error) {
	if s.ai == nil {
		return nil, fmt.Errorf("llm client not configured")
	}
	text, err := s.ai.GenerateText(ctx, improvementsSystemPrompt, improvementsPrompt(metrics.OverallScore, weakAreas))
	if err != nil {
		return nil, fmt.Errorf("improvements llm call: %w", err)
	}
	return ParseSuggestions(text)
}

// ParseSuggestions reads a (possibly fenced) JSON array of suggestions.
// Entries without an area are dropped.
func ParseSuggestions(text string) ([]scan.ImprovementSuggestion, error) {
	payload, ok := extractJSON(text, '[', ']')
	if !ok {
		return nil, fmt.Errorf("improvements reply is not a JSON array")
	}
	out := []scan.ImprovementSuggestion{}
	gjson.Parse(payload).ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		area := strings.TrimSpace(item.Get("area").String())
		if area == "" {
			return true
		}
		out = append(out, scan.ImprovementSuggestion{
			Area:           area,
			Priority:       scan.ParsePriority(strings.ToLower(strings.TrimSpace(item.Get("priority").String()))),
			CurrentScore:   scan.ClampScore(numberOr(item.Get("current_score"), scan.MidpointScore)),
			PotentialScore: scan.ClampScore(numberOr(item.Get("potential_score"), scan.MidpointScore)),
			Suggestion:     item.Get("suggestion").String(),
			Exercises:      stringList(item.Get("exercises")),
			Products:       stringList(item.Get("products")),
			Timeframe:      item.Get("timeframe").String(),
		})
		return true
	})
	return out, nil
}

func stringList(r gjson.Result) []string {
	out := []string{}
	r.ForEach(func(_, v gjson.Result) bool {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}
