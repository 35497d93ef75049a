package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

type Repos struct {
	User        repos.UserRepo
	Scan        repos.ScanRepo
	Leaderboard repos.LeaderboardEntryRepo
	ChatMessage repos.ChatMessageRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:        repos.NewUserRepo(db, log),
		Scan:        repos.NewScanRepo(db, log),
		Leaderboard: repos.NewLeaderboardEntryRepo(db, log),
		ChatMessage: repos.NewChatMessageRepo(db, log),
	}
}
