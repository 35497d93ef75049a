package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/domain/chat"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger

	AI openai.Client

	Users    repos.UserRepo
	Scans    repos.ScanRepo
	Messages repos.ChatMessageRepo

	Now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases {
	if deps.Now == nil {
		deps.Now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return Usecases{deps: deps}
}

func (u Usecases) WithLog(log *logger.Logger) Usecases {
	u.deps.Log = log
	return u
}

type Image struct {
	MimeType string
	Data     []byte
}

type SendInput struct {
	Message string
	Image   *Image
}

type SendResult struct {
	Response string `json:"response"`
}

type HistoryResult struct {
	Messages []*types.ChatMessage `json:"messages"`
}

// Send answers one user message in the assistant persona. Both turns are stored only
// after the model replies.
func (u Usecases) Send(ctx context.Context, userID uuid.UUID, in SendInput) (SendResult, error) {
	msg := strings.TrimSpace(in.Message)
	hasImage := in.Image != nil && len(in.Image.Data) > 0
	if msg == "" && !hasImage {
		return SendResult{}, apierr.BadRequest("empty_message", errors.New("message or image is required"))
	}
	user, err := u.loadUser(ctx, userID)
	if err != nil {
		return SendResult{}, err
	}
	dbc := dbctx.Context{Ctx: ctx}

	recent, err := u.deps.Messages.ListRecent(dbc, userID, historyWindow)
	if err != nil {
		return SendResult{}, apierr.New(http.StatusInternalServerError, "load_history_failed", err)
	}
	sc, err := u.scanContext(ctx, user)
	if err != nil {
		// Context is optional; the conversation goes on without it.
		u.deps.Log.Warn("Chat scan context unavailable", "user_id", userID, "error", err)
	}

	history := make([]openai.Message, 0, len(recent)+2)
	if len(recent) == 0 {
		history = append(history, openai.Message{Role: string(chat.RoleAssistant), Content: greeting})
	}
	for _, m := range recent {
		history = append(history, openai.Message{Role: string(m.Role), Content: m.Content})
	}

	prompt := msg
	if prompt == "" {
		prompt = imageOnlyAsk
	}
	var images []openai.ImageInput
	if hasImage {
		images = append(images, openai.ImageInput{ImageURL: openai.ImageDataURL(in.Image.MimeType, in.Image.Data), Detail: "low"})
	}

	reply, err := u.deps.AI.GenerateConversation(ctx, systemPrompt(sc), history, prompt, images)
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		u.deps.Log.Error("Chat completion failed", "user_id", userID, "error", err)
		return SendResult{}, apierr.New(http.StatusBadGateway, "chat_failed", err)
	}

	now := u.deps.Now()
	rows := []*types.ChatMessage{
		{ID: uuid.New(), UserID: userID, Role: chat.RoleUser, Content: msg, HasImage: hasImage, CreatedAt: now},
		{ID: uuid.New(), UserID: userID, Role: chat.RoleAssistant, Content: reply, CreatedAt: now.Add(time.Millisecond)},
	}
	if _, err := u.deps.Messages.Create(dbc, rows); err != nil {
		return SendResult{}, apierr.New(http.StatusInternalServerError, "save_chat_failed", err)
	}
	return SendResult{Response: reply}, nil
}

func (u Usecases) History(ctx context.Context, userID uuid.UUID, limit int) (HistoryResult, error) {
	if _, err := u.loadUser(ctx, userID); err != nil {
		return HistoryResult{}, err
	}
	if limit <= 0 {
		limit = defaultHistory
	}
	if limit > maxHistory {
		limit = maxHistory
	}
	rows, err := u.deps.Messages.ListRecent(dbctx.Context{Ctx: ctx}, userID, limit)
	if err != nil {
		return HistoryResult{}, apierr.New(http.StatusInternalServerError, "load_history_failed", err)
	}
	if rows == nil {
		rows = []*types.ChatMessage{}
	}
	return HistoryResult{Messages: rows}, nil
}

func (u Usecases) loadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	user, err := u.deps.Users.GetByID(dbctx.Context{Ctx: ctx}, userID)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "load_user_failed", err)
	}
	if user == nil {
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", nil)
	}
	return user, nil
}

// scanContext reads the latest completed analysis. Non-payers share only the score,
// matching what the scan endpoints show them.
func (u Usecases) scanContext(ctx context.Context, user *types.User) (*ScanContext, error) {
	s, err := u.deps.Scans.GetLatestByUser(dbctx.Context{Ctx: ctx}, user.ID)
	if err != nil || s == nil || s.Status != scan.StatusCompleted || len(s.Analysis) == 0 {
		return nil, err
	}
	var a scan.ScanAnalysis
	if err := json.Unmarshal(s.Analysis, &a); err != nil {
		return nil, err
	}
	sc := &ScanContext{OverallScore: a.Metrics.OverallScore}
	if user.IsPayer(u.deps.Now()) {
		sc.FocusAreas = a.FocusAreas
	}
	return sc, nil
}
