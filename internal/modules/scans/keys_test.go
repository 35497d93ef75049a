package scans

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestInputKey(t *testing.T) {
	userID := uuid.MustParse("7b1c7f3e-4f0a-4d8e-9a55-0c0d9f1e2a3b")
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	key := InputKey(userID, "front", ".jpg", now)

	prefix := "scans/" + userID.String() + "/20260314T092653_front_"
	if !strings.HasPrefix(key, prefix) {
		t.Fatalf("key=%q want prefix %q", key, prefix)
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("key=%q missing extension", key)
	}
	if other := InputKey(userID, "front", ".jpg", now); other == key {
		t.Fatalf("keys should be unique per call, got %q twice", key)
	}
}
