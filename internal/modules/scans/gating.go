package scans

import (
	"encoding/json"
	"time"

	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
)

// LockedAnalysis is everything a non-payer may see of an analysis.
type LockedAnalysis struct {
	OverallScore float64 `json:"overall_score"`
	Locked       bool    `json:"locked"`
}

// GateAnalysis returns the full analysis for payers and a LockedAnalysis otherwise.
// It is evaluated on every read; nothing redacted is stored.
func GateAnalysis(a scan.ScanAnalysis, payer bool) any {
	if payer {
		return a
	}
	return LockedAnalysis{OverallScore: a.Metrics.OverallScore, Locked: true}
}

type ScanView struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Kind             string    `json:"kind"`
	ProcessingStatus string    `json:"processing_status"`
	IsUnlocked       bool      `json:"is_unlocked"`
	ErrorMessage     string    `json:"error_message,omitempty"`
	Analysis         any       `json:"analysis,omitempty"`
}

func viewOf(s *types.Scan, payer bool) (ScanView, error) {
	v := ScanView{
		ID:               s.ID.String(),
		CreatedAt:        s.CreatedAt,
		Kind:             string(s.Kind),
		ProcessingStatus: string(s.Status),
		IsUnlocked:       payer,
		ErrorMessage:     s.ErrorMessage,
	}
	if len(s.Analysis) == 0 || string(s.Analysis) == "null" {
		return v, nil
	}
	var a scan.ScanAnalysis
	if err := json.Unmarshal(s.Analysis, &a); err != nil {
		return ScanView{}, err
	}
	v.Analysis = GateAnalysis(a, payer)
	return v, nil
}
