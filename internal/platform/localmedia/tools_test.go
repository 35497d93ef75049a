package localmedia

import (
	"context"
	"os"
	"testing"

	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

func TestParseRate(t *testing.T) {
	cases := map[string]float64{"30/1": 30, "30000/1001": 30000.0 / 1001.0, "25": 25, "0/0": 0, "": 0, "x/1": 0}
	for in, want := range cases {
		if got := parseRate(in); got != want {
			t.Errorf("parseRate(%q)=%v want %v", in, got, want)
		}
	}
}

func TestParseProbe(t *testing.T) {
	var po probeOutput
	po.Streams = append(po.Streams, struct {
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		Duration      string `json:"duration"`
	}{RFrameRate: "30/1", AvgFrameRate: "0/0", Duration: "10.0"})
	info, err := parseProbe(po)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.FPS != 30 || info.TotalFrames != 300 {
		t.Fatalf("unexpected info: %+v", info)
	}

	po.Streams[0].Duration = ""
	if _, err := parseProbe(po); err == nil {
		t.Fatalf("expected error for a stream with no frames")
	}
}

func TestParseProbeUnknownFrameRate(t *testing.T) {
	var po probeOutput
	po.Streams = append(po.Streams, struct {
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		Duration      string `json:"duration"`
	}{RFrameRate: "0/0", AvgFrameRate: "0/0", NbFrames: "450"})
	info, err := parseProbe(po)
	if err != nil {
		t.Fatalf("parseProbe: %v", err)
	}
	if info.FPS != DefaultFPS || info.TotalFrames != 450 {
		t.Fatalf("unexpected info: %+v", info)
	}
}

func TestWriteTempFileCleanup(t *testing.T) {
	dir := t.TempDir()
	tl := New(logger.Nop(), dir)
	path, cleanup, err := tl.WriteTempFile(context.Background(), []byte("abc"), "mp4")
	if err != nil {
		t.Fatalf("WriteTempFile: %v", err)
	}
	if b, err := os.ReadFile(path); err != nil || string(b) != "abc" {
		t.Fatalf("staged file wrong: %v %q", err, b)
	}
	cleanup()
	cleanup()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file not removed: %v", err)
	}
}
