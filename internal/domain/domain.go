package domain

import (
	"github.com/yungbote/cannon-backend/internal/domain/chat"
	"github.com/yungbote/cannon-backend/internal/domain/leaderboard"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/domain/user"
)

type (
	User = user.User

	Scan                  = scan.Scan
	ScanStatus            = scan.Status
	ScanKind              = scan.Kind
	ScanAnalysis          = scan.ScanAnalysis
	FaceMetrics           = scan.FaceMetrics
	ImprovementSuggestion = scan.ImprovementSuggestion

	LeaderboardEntry = leaderboard.Entry

	ChatMessage = chat.Message
	ChatRole    = chat.Role
)

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&User{},
		&Scan{},
		&LeaderboardEntry{},
		&ChatMessage{},
	}
}
