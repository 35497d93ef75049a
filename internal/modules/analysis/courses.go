package analysis

import (
	"strings"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

// Course ids offered as remediation.
const (
	CourseJawlineMastery     = "jawline-mastery"
	CourseSkincareEssentials = "skincare-essentials"
	CourseFatLossForFace     = "fat-loss-for-face"
	CourseHairOptimization   = "hair-optimization"
	CoursePostureCorrection  = "posture-correction"
)

type courseRule struct {
	keywords []string
	course   string
}

var courseRules = []courseRule{
	{[]string{"jawline", "jaw"}, CourseJawlineMastery},
	{[]string{"skin"}, CourseSkincareEssentials},
	{[]string{"fat", "body"}, CourseFatLossForFace},
	{[]string{"hair"}, CourseHairOptimization},
	{[]string{"posture"}, CoursePostureCorrection},
}

// MapCourses matches each label case-insensitively against the keyword table and
// returns the matched course ids in first-seen order, without duplicates.
func MapCourses(labels ...[]string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, group := range labels {
		for _, label := range group {
			l := strings.ToLower(label)
			for _, rule := range courseRules {
				if seen[rule.course] || !containsAny(l, rule.keywords) {
					continue
				}
				seen[rule.course] = true
				out = append(out, rule.course)
			}
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func improvementAreas(in []scan.ImprovementSuggestion) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, s.Area)
	}
	return out
}
