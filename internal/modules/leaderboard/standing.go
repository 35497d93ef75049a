package leaderboard

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/cannon-backend/internal/domain"
)

// ScorePoint is one completed scan in a user's history.
type ScorePoint struct {
	Overall float64
	At      time.Time
}

// ComputeStanding derives a user's entry after a scan scoring overall completed.
// history is the user's completed scans oldest first, including that scan.
// The best score never decreases.
func ComputeStanding(userID uuid.UUID, prev *types.LeaderboardEntry, overall float64, history []ScorePoint) *types.LeaderboardEntry {
	score := overall * 10
	if prev != nil && prev.Score > score {
		score = prev.Score
	}
	e := &types.LeaderboardEntry{
		UserID:         userID,
		Score:          score,
		Level:          overall,
		ScansCount:     len(history),
		StreakDays:     StreakDays(history),
		ImprovementPct: ImprovementPct(history),
	}
	if prev != nil {
		e.ID = prev.ID
		e.Rank = prev.Rank
		e.CreatedAt = prev.CreatedAt
	}
	if n := len(history); n > 0 {
		at := history[n-1].At
		e.LastScanAt = &at
	}
	return e
}

// ImprovementPct is (latest-first)/first*100, rounded to one decimal. It is 0 with
// fewer than two scans or a zero first score.
func ImprovementPct(history []ScorePoint) float64 {
	if len(history) < 2 {
		return 0
	}
	first, latest := history[0].Overall, history[len(history)-1].Overall
	if first == 0 {
		return 0
	}
	return math.Round((latest-first)/first*1000) / 10
}

// StreakDays counts consecutive UTC calendar days with a scan, ending on the day of
// the most recent scan.
func StreakDays(history []ScorePoint) int {
	if len(history) == 0 {
		return 0
	}
	days := map[time.Time]bool{}
	for _, p := range history {
		days[utcDay(p.At)] = true
	}
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	streak := 1
	for i := 1; i < len(sorted); i++ {
		if !sorted[i].Equal(sorted[i-1].AddDate(0, 0, -1)) {
			break
		}
		streak++
	}
	return streak
}

func utcDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DenseRanks assigns ranks to scores sorted best first: equal scores share a rank
// and the next distinct score takes the following rank.
func DenseRanks(scoresDesc []float64) []int {
	out := make([]int, len(scoresDesc))
	rank := 0
	for i, s := range scoresDesc {
		if i == 0 || s != scoresDesc[i-1] {
			rank++
		}
		out[i] = rank
	}
	return out
}

// MaskEmail keeps the first three characters of an email.
func MaskEmail(email string) string {
	r := []rune(email)
	if len(r) > 3 {
		r = r[:3]
	}
	return string(r) + "***"
}
