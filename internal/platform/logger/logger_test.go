package logger

import (
	"strings"
	"testing"
)

func TestSanitizeValueRedactsSensitiveKeys(t *testing.T) {
	if got := sanitizeValue("access_token", "abc"); got != "[REDACTED]" {
		t.Fatalf("token not redacted: %v", got)
	}
	if got := sanitizeValue("email", "a@b.c"); got != "[REDACTED]" {
		t.Fatalf("email not redacted: %v", got)
	}
	got, ok := sanitizeValue("user_id", "1234").(string)
	if !ok || !strings.HasPrefix(got, "hash:") {
		t.Fatalf("user_id not hashed: %v", got)
	}
	if got := sanitizeValue("scan_id", "s-1"); got != "s-1" {
		t.Fatalf("plain key altered: %v", got)
	}
}

func TestSanitizeValueRedactsLargeDataURL(t *testing.T) {
	payload := "data:image/jpeg;base64," + strings.Repeat("A", 400)
	if got := sanitizeValue("body", payload); got != "[REDACTED]" {
		t.Fatalf("data url leaked")
	}
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	l.With("service", "x").Info("hello", "k", "v")
}
