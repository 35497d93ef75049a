package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

func TestEstimatedPotentialBounds(t *testing.T) {
	for overall := 0.0; overall <= 10; overall += 0.25 {
		for focus := 0; focus <= 8; focus++ {
			p := EstimatedPotential(overall, focus)
			if p < overall || p > 10 {
				t.Fatalf("EstimatedPotential(%v, %d) = %v", overall, focus, p)
			}
		}
	}
	if got := EstimatedPotential(6, 3); got != 7.5 {
		t.Fatalf("EstimatedPotential(6, 3) = %v, want 7.5", got)
	}
	if got := EstimatedPotential(9.5, 5); got != 10 {
		t.Fatalf("EstimatedPotential(9.5, 5) = %v, want 10", got)
	}
}

func TestCompile(t *testing.T) {
	m := scan.DefaultFaceMetrics()
	m.OverallScore = 6.2
	a := Compile(CompileInput{
		Metrics:      m,
		FocusAreas:   []string{"Skin improvement", "Hair health"},
		Courses:      []string{CourseSkincareEssentials, CourseHairOptimization, CourseSkincareEssentials},
		ExtraSummary: "Keep it up.",
	})
	if a.EstimatedPotential != 7.2 {
		t.Fatalf("potential = %v, want 7.2", a.EstimatedPotential)
	}
	want := "Your overall score is 6.2/10. With consistent effort on your focus areas, you could reach 7.2/10. Keep it up."
	if a.PersonalizedSummary != want {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if len(a.RecommendedCourses) != 2 {
		t.Fatalf("courses = %v, want deduplicated", a.RecommendedCourses)
	}
	if a.Improvements == nil || a.TopStrengths == nil {
		t.Fatalf("lists must be non-nil")
	}
}

func TestCompileRejectsNonFiniteMetrics(t *testing.T) {
	m := scan.DefaultFaceMetrics()
	m.Skin.TextureScore = math.NaN()
	a := Compile(CompileInput{Metrics: m, FocusAreas: []string{"x"}})
	if a.EstimatedPotential != 0 || a.Metrics.OverallScore != 0 {
		t.Fatalf("expected zero analysis, got %+v", a)
	}
	if !strings.Contains(a.PersonalizedSummary, "could not be compiled") {
		t.Fatalf("summary = %q", a.PersonalizedSummary)
	}
	if a.FocusAreas == nil || len(a.FocusAreas) != 0 {
		t.Fatalf("focus areas = %v", a.FocusAreas)
	}
}
