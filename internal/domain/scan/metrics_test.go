package scan

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSubScoreTableCoversEveryRegion(t *testing.T) {
	seen := map[string]int{}
	paths := map[string]bool{}
	for _, s := range SubScores() {
		seen[s.Region]++
		if paths[s.Path()] {
			t.Fatalf("duplicate sub-score %s", s.Path())
		}
		paths[s.Path()] = true
	}
	want := map[string]int{
		RegionJawline: 5, RegionCheekbones: 4, RegionEyeArea: 6, RegionNose: 4, RegionLips: 6,
		RegionForehead: 4, RegionSkin: 7, RegionProportions: 8, RegionProfile: 7, RegionHair: 3, RegionBodyFat: 2,
	}
	for region, n := range want {
		if seen[region] != n {
			t.Errorf("region %s: got %d sub-scores, want %d", region, seen[region], n)
		}
	}
}

func TestSubScoreSetDoesNotAliasAcrossRegions(t *testing.T) {
	m := DefaultFaceMetrics()
	s, ok := LookupSubScore("jawline.chin_projection")
	if !ok {
		t.Fatalf("lookup failed")
	}
	s.Set(&m, 9)
	if m.Jawline.ChinProjection != 9 || m.Profile.ChinProjection != MidpointScore {
		t.Fatalf("unexpected write target: jaw=%v profile=%v", m.Jawline.ChinProjection, m.Profile.ChinProjection)
	}
	if DefaultFaceMetrics().Jawline.ChinProjection != MidpointScore {
		t.Fatalf("default metrics mutated through copy")
	}
}

func TestClamped(t *testing.T) {
	m := DefaultFaceMetrics()
	m.Skin.OverallQuality = 42
	m.Nose.BridgeHeight = -3
	m.Lips.LipSymmetry = math.NaN()
	m.ConfidenceScore = 7
	c := m.Clamped()
	if c.Skin.OverallQuality != 10 || c.Nose.BridgeHeight != 0 || c.Lips.LipSymmetry != 0 || c.ConfidenceScore != 1 {
		t.Fatalf("clamp failed: %+v", c)
	}
	if m.Skin.OverallQuality != 42 {
		t.Fatalf("Clamped mutated receiver")
	}
	if !c.Finite() {
		t.Fatalf("clamped metrics should be finite")
	}
	m.HarmonyScore = math.Inf(1)
	if m.Finite() {
		t.Fatalf("Inf should not be finite")
	}
}

func TestFallbackAnalysis(t *testing.T) {
	a := FallbackAnalysis(errors.New("disk on fire"))
	if len(a.FocusAreas) != 1 || a.FocusAreas[0] != RetryFocusArea {
		t.Fatalf("focus areas: %v", a.FocusAreas)
	}
	if !strings.Contains(a.PersonalizedSummary, "disk on fire") {
		t.Fatalf("summary missing cause: %q", a.PersonalizedSummary)
	}
	if a.Metrics.ConfidenceScore != DefaultConfidence || a.Metrics.Hair.Density != MidpointScore {
		t.Fatalf("fallback metrics not defaulted")
	}
	if a.Improvements == nil || a.RecommendedCourses == nil {
		t.Fatalf("lists must be non-nil")
	}
}

func TestStatusCanStartAnalysis(t *testing.T) {
	for s, want := range map[Status]bool{
		StatusPending: true, StatusFailed: true, StatusProcessing: false, StatusCompleted: false,
	} {
		if got := s.CanStartAnalysis(); got != want {
			t.Errorf("%s: got %v", s, got)
		}
	}
}
