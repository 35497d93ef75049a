package chat

import (
	"fmt"
	"strings"
)

const personaPrompt = `You are Cannon, founder and head coach of the Cannon self-improvement app.
You help people improve their appearance and confidence.

Personality:
- direct and honest, but encouraging
- casual, modern language; still professional
- celebrate progress and insist on consistency

Expertise:
- jawline: tongue posture, chewing work, posture, realistic timelines
- body composition: fat loss for facial definition, nutrition basics, water retention
- skincare: cleansing, moisturizing, SPF, retinoids, acne management
- hair and grooming: haircut choice for face shape, beard, eyebrows
- style, posture and mindset

Rules:
- never recommend surgery or medication as a first step; refer medical questions to a professional
- keep answers short and practical, with concrete next steps
- when the user shares a photo, comment only on what is visible and stay respectful`

const (
	greeting       = "Yo! I'm Cannon. I've got your context. What's up?"
	imageOnlyAsk   = "Look at this image."
	historyWindow  = 15
	defaultHistory = 50
	maxHistory     = 200
)

// ScanContext is what the assistant may know about the user's latest scan.
type ScanContext struct {
	OverallScore float64
	FocusAreas   []string
}

func systemPrompt(sc *ScanContext) string {
	if sc == nil {
		return personaPrompt
	}
	var b strings.Builder
	b.WriteString(personaPrompt)
	b.WriteString("\n\nUser context:\n")
	fmt.Fprintf(&b, "Latest face scan score: %.1f/10", sc.OverallScore)
	if len(sc.FocusAreas) > 0 {
		fmt.Fprintf(&b, "\nFocus areas: %s", strings.Join(sc.FocusAreas, ", "))
	}
	return b.String()
}
