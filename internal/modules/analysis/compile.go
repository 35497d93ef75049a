package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

const potentialPerFocusArea = 0.5

// EstimatedPotential is min(10, overall + 0.5 per focus area), never below overall.
func EstimatedPotential(overall float64, focusAreas int) float64 {
	p := math.Min(10, overall+potentialPerFocusArea*float64(focusAreas))
	return math.Max(p, overall)
}

// CompileInput is everything the compiler aggregates.
type CompileInput struct {
	Metrics      scan.FaceMetrics
	Improvements []scan.ImprovementSuggestion
	Strengths    []string
	FocusAreas   []string
	Courses      []string
	ExtraSummary string
}

// Compile assembles the final analysis. Malformed metrics yield scan.ZeroAnalysis
// carrying the reason in the summary.
func Compile(in CompileInput) scan.ScanAnalysis {
	if !in.Metrics.Finite() {
		return scan.ZeroAnalysis("Analysis could not be compiled: metrics contain non-numeric values")
	}
	m := in.Metrics.Clamped()
	focus := nonNil(in.FocusAreas)
	potential := EstimatedPotential(m.OverallScore, len(focus))

	summary := fmt.Sprintf(
		"Your overall score is %.1f/10. With consistent effort on your focus areas, you could reach %.1f/10.",
		m.OverallScore, potential,
	)
	if extra := strings.TrimSpace(in.ExtraSummary); extra != "" {
		summary += " " + extra
	}

	improvements := in.Improvements
	if improvements == nil {
		improvements = []scan.ImprovementSuggestion{}
	}
	return scan.ScanAnalysis{
		Metrics:             m,
		Improvements:        improvements,
		TopStrengths:        nonNil(in.Strengths),
		FocusAreas:          focus,
		RecommendedCourses:  dedupe(in.Courses),
		PersonalizedSummary: summary,
		EstimatedPotential:  potential,
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
