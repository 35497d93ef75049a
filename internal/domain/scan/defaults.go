package scan

const (
	// MidpointScore is the value assumed for any sub-score that could not be measured.
	MidpointScore = 5.0

	DefaultConfidence = 0.5

	RetryFocusArea = "Retry analysis"
)

var defaultFaceMetrics = buildDefaultFaceMetrics()

func buildDefaultFaceMetrics() FaceMetrics {
	var m FaceMetrics
	for _, s := range subScores {
		s.Set(&m, MidpointScore)
	}
	m.OverallScore = MidpointScore
	m.HarmonyScore = MidpointScore
	m.ConfidenceScore = DefaultConfidence
	m.ImageQualityFront = MidpointScore
	m.ImageQualityLeft = MidpointScore
	m.ImageQualityRight = MidpointScore
	return m
}

// DefaultFaceMetrics returns the fully populated midpoint aggregate used whenever
// metrics cannot be obtained.
func DefaultFaceMetrics() FaceMetrics { return defaultFaceMetrics }

// FallbackAnalysis is returned when a pipeline run aborts. The cause is embedded in the summary.
func FallbackAnalysis(cause error) ScanAnalysis {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	m := DefaultFaceMetrics()
	return ScanAnalysis{
		Metrics:             m,
		Improvements:        []ImprovementSuggestion{},
		TopStrengths:        []string{},
		FocusAreas:          []string{RetryFocusArea},
		RecommendedCourses:  []string{},
		PersonalizedSummary: "Analysis encountered an issue. Please try again. Error: " + msg,
		EstimatedPotential:  m.OverallScore,
	}
}

// ZeroAnalysis is the minimal structurally valid analysis emitted when compile inputs are malformed.
func ZeroAnalysis(summary string) ScanAnalysis {
	return ScanAnalysis{
		Improvements:        []ImprovementSuggestion{},
		TopStrengths:        []string{},
		FocusAreas:          []string{},
		RecommendedCourses:  []string{},
		PersonalizedSummary: summary,
	}
}
