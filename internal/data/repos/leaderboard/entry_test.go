package leaderboard

import (
	"context"
	"testing"

	"github.com/yungbote/cannon-backend/internal/data/repos/testutil"
	types "github.com/yungbote/cannon-backend/internal/domain"
	"github.com/yungbote/cannon-backend/internal/platform/dbctx"
)

func TestEntryRepo(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx}
	repo := NewEntryRepo(db, testutil.Logger(t))

	alice := testutil.SeedUser(t, ctx, db, "alice@example.com")
	bob := testutil.SeedUser(t, ctx, db, "bob@example.com")
	admin := testutil.SeedUser(t, ctx, db, "admin@example.com", func(u *types.User) { u.IsAdmin = true })

	for _, e := range []*types.LeaderboardEntry{
		{UserID: alice.ID, Score: 72, Level: 7.2, ScansCount: 1},
		{UserID: bob.ID, Score: 65, Level: 6.5, ScansCount: 1},
		{UserID: admin.ID, Score: 90, Level: 9, ScansCount: 1},
	} {
		if err := repo.Upsert(dbc, e); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	// Second upsert for the same user replaces standing, keeps one row.
	if err := repo.Upsert(dbc, &types.LeaderboardEntry{UserID: bob.ID, Score: 80, Level: 8, ScansCount: 2}); err != nil {
		t.Fatalf("Upsert(update): %v", err)
	}
	got, err := repo.GetByUserID(dbc, bob.ID)
	if err != nil || got == nil || got.Score != 80 || got.ScansCount != 2 {
		t.Fatalf("GetByUserID: err=%v entry=%+v", err, got)
	}

	// A lower score landing later keeps the best score but takes the other columns.
	if err := repo.Upsert(dbc, &types.LeaderboardEntry{UserID: bob.ID, Score: 55, Level: 5.5, ScansCount: 3}); err != nil {
		t.Fatalf("Upsert(lower): %v", err)
	}
	got, err = repo.GetByUserID(dbc, bob.ID)
	if err != nil || got == nil || got.Score != 80 || got.ScansCount != 3 {
		t.Fatalf("GetByUserID after lower score: err=%v entry=%+v", err, got)
	}

	if n, err := repo.Count(dbc); err != nil || n != 3 {
		t.Fatalf("Count: n=%d err=%v", n, err)
	}

	all, err := repo.ListByScore(dbc)
	if err != nil || len(all) != 3 {
		t.Fatalf("ListByScore: err=%v len=%d", err, len(all))
	}
	for i, e := range all {
		if err := repo.UpdateRank(dbc, e.ID, i+1); err != nil {
			t.Fatalf("UpdateRank: %v", err)
		}
	}

	rows, err := repo.ListRanked(dbc, 10)
	if err != nil {
		t.Fatalf("ListRanked: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("ListRanked should exclude admins, got %d rows", len(rows))
	}
	if rows[0].Email != "bob@example.com" || rows[0].Rank != 2 || rows[1].Email != "alice@example.com" {
		t.Fatalf("ListRanked order: %+v", rows)
	}
}
