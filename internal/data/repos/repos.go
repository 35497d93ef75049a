package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos/chat"
	"github.com/yungbote/cannon-backend/internal/data/repos/leaderboard"
	"github.com/yungbote/cannon-backend/internal/data/repos/scans"
	"github.com/yungbote/cannon-backend/internal/data/repos/user"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type ScanRepo = scans.ScanRepo
type LeaderboardEntryRepo = leaderboard.EntryRepo
type LeaderboardRankedRow = leaderboard.RankedRow
type ChatMessageRepo = chat.ChatMessageRepo

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewScanRepo(db *gorm.DB, log *logger.Logger) ScanRepo { return scans.NewScanRepo(db, log) }
func NewLeaderboardEntryRepo(db *gorm.DB, log *logger.Logger) LeaderboardEntryRepo {
	return leaderboard.NewEntryRepo(db, log)
}
func NewChatMessageRepo(db *gorm.DB, log *logger.Logger) ChatMessageRepo {
	return chat.NewChatMessageRepo(db, log)
}
