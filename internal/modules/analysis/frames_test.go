package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/yungbote/cannon-backend/internal/platform/localmedia"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

func TestFrameIndex(t *testing.T) {
	cases := []struct {
		offset, fps float64
		total, want int
	}{
		{0.5, 30, 600, 15},
		{14, 30, 600, 420},
		{14, 30, 100, 99},
		{5, 0, 100, 0},
		{5, 30, 0, 0},
	}
	for _, tc := range cases {
		if got := FrameIndex(tc.offset, tc.fps, tc.total); got != tc.want {
			t.Fatalf("FrameIndex(%v, %v, %d) = %d, want %d", tc.offset, tc.fps, tc.total, got, tc.want)
		}
	}
}

func TestPadFrames(t *testing.T) {
	got := PadFrames([][]byte{[]byte("a")}, 3)
	if len(got) != 3 || string(got[1]) != "a" || string(got[2]) != "a" {
		t.Fatalf("PadFrames = %q", got)
	}
	got = PadFrames(nil, 3)
	for i, f := range got {
		if f == nil || len(f) != 0 {
			t.Fatalf("frame %d = %v, want empty non-nil", i, f)
		}
	}
	if got := PadFrames([][]byte{{1}, {2}, {3}, {4}}, 3); len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestFrameExtractorSamplesOffsets(t *testing.T) {
	src := &fakeFrameSource{
		info:   localmedia.VideoInfo{FPS: 30, TotalFrames: 600},
		frames: map[int][]byte{15: []byte("f"), 150: []byte("l"), 420: []byte("r")},
	}
	images, err := NewFrameExtractor(logger.Nop(), src).Extract(context.Background(), []byte("video"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if string(images.Front) != "f" || string(images.Left) != "l" || string(images.Right) != "r" {
		t.Fatalf("images = %q/%q/%q", images.Front, images.Left, images.Right)
	}
	if src.cleanedUp != 1 {
		t.Fatalf("cleanup calls = %d, want 1", src.cleanedUp)
	}
}

func TestFrameExtractorFallsBackToFirstFrameAndPads(t *testing.T) {
	// 8 frames at 30fps: the left/right offsets clamp to 7, which fails to decode.
	src := &fakeFrameSource{
		info:   localmedia.VideoInfo{FPS: 30, TotalFrames: 8},
		frames: map[int][]byte{0: []byte("zero")},
	}
	images, err := NewFrameExtractor(logger.Nop(), src).Extract(context.Background(), []byte("video"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for _, f := range [][]byte{images.Front, images.Left, images.Right} {
		if string(f) != "zero" {
			t.Fatalf("images = %q/%q/%q", images.Front, images.Left, images.Right)
		}
	}
}

func TestFrameExtractorNoDecodableFrames(t *testing.T) {
	src := &fakeFrameSource{info: localmedia.VideoInfo{FPS: 30, TotalFrames: 600}}
	_, err := NewFrameExtractor(logger.Nop(), src).Extract(context.Background(), []byte("video"))
	if err == nil {
		t.Fatalf("expected error when no frame decodes")
	}
	if src.cleanedUp != 1 {
		t.Fatalf("cleanup calls = %d, want 1", src.cleanedUp)
	}
}

func TestFrameExtractorProbeFailureCleansUp(t *testing.T) {
	src := &fakeFrameSource{probeErr: errors.New("moov atom not found")}
	_, err := NewFrameExtractor(logger.Nop(), src).Extract(context.Background(), []byte("video"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if src.cleanedUp != 1 {
		t.Fatalf("cleanup calls = %d, want 1", src.cleanedUp)
	}
}
