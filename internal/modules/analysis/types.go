package analysis

import (
	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

// ImageSet is the three stills one analysis runs on. Video is set when the stills
// were extracted from an uploaded video.
type ImageSet struct {
	Front []byte
	Left  []byte
	Right []byte
	Video []byte
}

func (s ImageSet) views() [3]namedImage {
	return [3]namedImage{{"front", s.Front}, {"left", s.Left}, {"right", s.Right}}
}

type namedImage struct {
	view string
	data []byte
}

// ImageValidation is the outcome of the validate stage.
type ImageValidation struct {
	IsValid      bool     `json:"is_valid"`
	FrontQuality float64  `json:"front_quality"`
	LeftQuality  float64  `json:"left_quality"`
	RightQuality float64  `json:"right_quality"`
	Issues       []string `json:"issues"`
}

// DefaultValidation is used whenever validation cannot be performed.
func DefaultValidation() ImageValidation {
	return ImageValidation{IsValid: true, FrontQuality: 7.0, LeftQuality: 7.0, RightQuality: 7.0, Issues: []string{}}
}

// ServiceHints carries optional extra output some normalizers produce alongside metrics.
type ServiceHints struct {
	Suggestions []scan.ImprovementSuggestion
	Strengths   []string
	Summary     string
}

// Measurement is what a MetricsNormalizer returns.
type Measurement struct {
	Metrics scan.FaceMetrics
	Hints   ServiceHints
}

// Stage records. Each stage receives the previous record by value and returns a new one.

type validatedState struct {
	Images     ImageSet
	Validation ImageValidation
}

type measuredState struct {
	validatedState
	Metrics        scan.FaceMetrics
	Hints          ServiceHints
	MetricsDefault bool
}

type improvedState struct {
	measuredState
	Improvements []scan.ImprovementSuggestion
	Strengths    []string
	FocusAreas   []string
}

type mappedState struct {
	improvedState
	Courses []string
}
