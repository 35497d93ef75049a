package localmedia

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/cannon-backend/internal/platform/ctxutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// Tools wraps the ffmpeg/ffprobe binaries used to pull stills out of scan videos.
//
// REQUIRED BINARIES: ffmpeg, ffprobe.
type Tools interface {
	AssertReady(ctx context.Context) error
	// WriteTempFile stages data on disk. cleanup removes the file and is safe to call more than once.
	WriteTempFile(ctx context.Context, data []byte, suffix string) (path string, cleanup func(), err error)
	ProbeVideo(ctx context.Context, path string) (VideoInfo, error)
	// ExtractFrame decodes the frame at index and returns it JPEG-encoded.
	ExtractFrame(ctx context.Context, path string, index int, fps float64) ([]byte, error)
}

type VideoInfo struct {
	FPS         float64
	TotalFrames int
	Duration    time.Duration
}

type tools struct {
	log         *logger.Logger
	ffmpegPath  string
	ffprobePath string
	workRoot    string
	timeout     time.Duration
}

func New(log *logger.Logger, workRoot string) Tools {
	if strings.TrimSpace(workRoot) == "" {
		workRoot = os.TempDir()
	}
	return &tools{
		log:         log.With("service", "MediaTools"),
		ffmpegPath:  "ffmpeg",
		ffprobePath: "ffprobe",
		workRoot:    workRoot,
		timeout:     60 * time.Second,
	}
}

func (m *tools) AssertReady(ctx context.Context) error {
	for _, bin := range []string{m.ffmpegPath, m.ffprobePath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("missing required binary %q in PATH: %w", bin, err)
		}
	}
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return fmt.Errorf("create workRoot: %w", err)
	}
	return nil
}

func (m *tools) WriteTempFile(ctx context.Context, data []byte, suffix string) (string, func(), error) {
	if err := os.MkdirAll(m.workRoot, 0o755); err != nil {
		return "", func() {}, fmt.Errorf("mkdir workRoot: %w", err)
	}
	if suffix != "" && !strings.HasPrefix(suffix, ".") {
		suffix = "." + suffix
	}
	f, err := os.CreateTemp(m.workRoot, "scan-*"+suffix)
	if err != nil {
		return "", func() {}, fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("close temp file: %w", err)
	}
	return path, cleanup, nil
}

// DefaultFPS is assumed when the container reports no usable frame rate.
const DefaultFPS = 30.0

type probeOutput struct {
	Streams []struct {
		RFrameRate    string `json:"r_frame_rate"`
		AvgFrameRate  string `json:"avg_frame_rate"`
		NbFrames      string `json:"nb_frames"`
		NbReadPackets string `json:"nb_read_packets"`
		Duration      string `json:"duration"`
	} `json:"streams"`
}

func (m *tools) ProbeVideo(ctx context.Context, path string) (VideoInfo, error) {
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), m.timeout)
	defer cancel()

	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=r_frame_rate,avg_frame_rate,nb_frames,nb_read_packets,duration",
		"-of", "json",
		path,
	}
	out, err := m.run(ctx, m.ffprobePath, args)
	if err != nil {
		return VideoInfo{}, err
	}
	var po probeOutput
	if err := json.Unmarshal(out, &po); err != nil {
		return VideoInfo{}, fmt.Errorf("parse ffprobe output: %w", err)
	}
	if len(po.Streams) == 0 {
		return VideoInfo{}, fmt.Errorf("no video stream found")
	}
	return parseProbe(po)
}

func parseProbe(po probeOutput) (VideoInfo, error) {
	s := po.Streams[0]
	fps := parseRate(s.AvgFrameRate)
	if fps <= 0 {
		fps = parseRate(s.RFrameRate)
	}
	if fps <= 0 {
		fps = DefaultFPS
	}
	total, _ := strconv.Atoi(strings.TrimSpace(s.NbFrames))
	if total <= 0 {
		total, _ = strconv.Atoi(strings.TrimSpace(s.NbReadPackets))
	}
	secs, _ := strconv.ParseFloat(strings.TrimSpace(s.Duration), 64)
	if total <= 0 && secs > 0 {
		total = int(math.Floor(secs * fps))
	}
	if total <= 0 {
		return VideoInfo{}, fmt.Errorf("video has no frames")
	}
	return VideoInfo{
		FPS:         fps,
		TotalFrames: total,
		Duration:    time.Duration(secs * float64(time.Second)),
	}, nil
}

// parseRate parses ffprobe rationals like "30000/1001".
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	num, den, found := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	if !found {
		return n
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0
	}
	return n / d
}

func (m *tools) ExtractFrame(ctx context.Context, path string, index int, fps float64) ([]byte, error) {
	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %v", fps)
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), m.timeout)
	defer cancel()

	// Select by frame number so the result matches the probed index exactly.
	args := []string{
		"-v", "error",
		"-i", path,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", index),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"-q:v", "2",
		"pipe:1",
	}
	out, err := m.run(ctx, m.ffmpegPath, args)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no frame decoded at index %d", index)
	}
	return out, nil
}

func (m *tools) run(ctx context.Context, bin string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 500 {
			msg = msg[:500]
		}
		return nil, fmt.Errorf("%s failed: %w: %s", bin, err, msg)
	}
	return stdout.Bytes(), nil
}
