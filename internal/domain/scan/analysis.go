package scan

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps free text onto the three known priorities, defaulting to medium.
func ParsePriority(s string) Priority {
	switch Priority(s) {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s)
	default:
		return PriorityMedium
	}
}

type ImprovementSuggestion struct {
	Area           string   `json:"area"`
	Priority       Priority `json:"priority"`
	CurrentScore   float64  `json:"current_score"`
	PotentialScore float64  `json:"potential_score"`
	Suggestion     string   `json:"suggestion"`
	Exercises      []string `json:"exercises"`
	Products       []string `json:"products"`
	Timeframe      string   `json:"timeframe"`
}

// ScanAnalysis is the compiled result of one pipeline run. It is never patched;
// a new run replaces it wholesale.
type ScanAnalysis struct {
	Metrics             FaceMetrics             `json:"metrics"`
	Improvements        []ImprovementSuggestion `json:"improvements"`
	TopStrengths        []string                `json:"top_strengths"`
	FocusAreas          []string                `json:"focus_areas"`
	RecommendedCourses  []string                `json:"recommended_courses"`
	PersonalizedSummary string                  `json:"personalized_summary"`
	EstimatedPotential  float64                 `json:"estimated_potential"`
}

// MaxListedAreas bounds TopStrengths and FocusAreas.
const MaxListedAreas = 5
