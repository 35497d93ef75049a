package chat

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/cannon-backend/internal/data/repos"
	"github.com/yungbote/cannon-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/domain/chat"
	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/apierr"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

type fakeAI struct {
	reply   string
	err     error
	system  string
	history []openai.Message
	user    string
	images  []openai.ImageInput
}

func (f *fakeAI) GenerateText(context.Context, string, string) (string, error) {
	return f.reply, f.err
}

func (f *fakeAI) GenerateTextWithImages(context.Context, string, string, []openai.ImageInput) (string, error) {
	return f.reply, f.err
}

func (f *fakeAI) GenerateConversation(_ context.Context, system string, history []openai.Message, user string, images []openai.ImageInput) (string, error) {
	f.system, f.history, f.user, f.images = system, history, user, images
	return f.reply, f.err
}

func newTestUsecases(t *testing.T, ai *fakeAI) (Usecases, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return New(UsecasesDeps{
		DB:       db,
		Log:      log,
		AI:       ai,
		Users:    repos.NewUserRepo(db, log),
		Scans:    repos.NewScanRepo(db, log),
		Messages: repos.NewChatMessageRepo(db, log),
	}), db
}

func seedAnalysis(t *testing.T, db *gorm.DB, userID uuid.UUID) {
	t.Helper()
	overall := 6.2
	now := time.Now().UTC()
	s := &types.Scan{
		ID:           uuid.New(),
		UserID:       userID,
		Kind:         scan.KindImages,
		Status:       scan.StatusCompleted,
		Analysis:     datatypes.JSON(`{"metrics":{"overall_score":6.2},"focus_areas":["Skin Quality","Jawline"]}`),
		OverallScore: &overall,
		ProcessedAt:  &now,
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed scan: %v", err)
	}
}

func TestSendStoresBothTurns(t *testing.T) {
	ai := &fakeAI{reply: "Drink more water."}
	uc, db := newTestUsecases(t, ai)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, db, "a@example.com")

	res, err := uc.Send(ctx, user.ID, SendInput{Message: "  how do I fix my skin?  "})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Response != "Drink more water." {
		t.Fatalf("response=%q", res.Response)
	}
	if ai.user != "how do I fix my skin?" {
		t.Fatalf("prompt=%q", ai.user)
	}
	if len(ai.history) != 1 || ai.history[0].Content != greeting {
		t.Fatalf("first conversation should open with the greeting, got %+v", ai.history)
	}

	hist, err := uc.History(ctx, user.ID, 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist.Messages) != 2 || hist.Messages[0].Role != chat.RoleUser || hist.Messages[1].Role != chat.RoleAssistant {
		t.Fatalf("history=%+v", hist.Messages)
	}
}

func TestSendCarriesRecentHistory(t *testing.T) {
	ai := &fakeAI{reply: "ok"}
	uc, db := newTestUsecases(t, ai)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, db, "a@example.com")

	for i := 0; i < 10; i++ {
		if _, err := uc.Send(ctx, user.ID, SendInput{Message: "hi"}); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	if len(ai.history) != historyWindow {
		t.Fatalf("history window=%d want %d", len(ai.history), historyWindow)
	}
}

func TestSendImageOnly(t *testing.T) {
	ai := &fakeAI{reply: "Nice haircut."}
	uc, db := newTestUsecases(t, ai)
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, db, "a@example.com")

	_, err := uc.Send(ctx, user.ID, SendInput{Image: &Image{MimeType: "image/png", Data: []byte{1, 2, 3}}})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if ai.user != imageOnlyAsk || len(ai.images) != 1 || !strings.HasPrefix(ai.images[0].ImageURL, "data:image/png;base64,") {
		t.Fatalf("user=%q images=%+v", ai.user, ai.images)
	}
}

func TestSendRejectsEmptyMessage(t *testing.T) {
	uc, db := newTestUsecases(t, &fakeAI{reply: "x"})
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, db, "a@example.com")
	_, err := uc.Send(ctx, user.ID, SendInput{Message: "   "})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("err=%v", err)
	}
}

func TestSendLLMFailureStoresNothing(t *testing.T) {
	uc, db := newTestUsecases(t, &fakeAI{err: errors.New("upstream 500")})
	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, db, "a@example.com")

	_, err := uc.Send(ctx, user.ID, SendInput{Message: "hello"})
	var apiErr *apierr.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway || apiErr.Code != "chat_failed" {
		t.Fatalf("err=%v", err)
	}
	var n int64
	if err := db.Model(&types.ChatMessage{}).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("stored %d messages after a failed completion", n)
	}
}

func TestScanContextIsGated(t *testing.T) {
	cases := []struct {
		name      string
		mutate    func(*types.User)
		wantFocus bool
	}{
		{"free", func(*types.User) {}, false},
		{"payer", func(u *types.User) { u.IsPaid = true }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ai := &fakeAI{reply: "ok"}
			uc, db := newTestUsecases(t, ai)
			ctx := context.Background()
			user := testutil.SeedUser(t, ctx, db, tc.name+"@example.com", tc.mutate)
			seedAnalysis(t, db, user.ID)

			if _, err := uc.Send(ctx, user.ID, SendInput{Message: "rate me"}); err != nil {
				t.Fatalf("Send: %v", err)
			}
			if !strings.Contains(ai.system, "Latest face scan score: 6.2/10") {
				t.Fatalf("system prompt missing score:\n%s", ai.system)
			}
			if got := strings.Contains(ai.system, "Focus areas: Skin Quality, Jawline"); got != tc.wantFocus {
				t.Fatalf("focus areas present=%v want %v", got, tc.wantFocus)
			}
		})
	}
}

func TestSystemPromptWithoutContext(t *testing.T) {
	if got := systemPrompt(nil); got != personaPrompt {
		t.Fatalf("unexpected prompt without context")
	}
}
