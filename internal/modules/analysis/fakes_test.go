package analysis

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/localmedia"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

var errTimeout = errors.New("upstream timeout")

// scriptedNormalizer returns results[i] on call i, repeating the last entry.
type scriptedNormalizer struct {
	mu      sync.Mutex
	calls   int
	results []normalizeResult
}

type normalizeResult struct {
	m   Measurement
	err error
}

func (n *scriptedNormalizer) Name() string { return "scripted" }

func (n *scriptedNormalizer) Normalize(context.Context, ImageSet, ImageValidation) (Measurement, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	i := n.calls
	n.calls++
	if i >= len(n.results) {
		i = len(n.results) - 1
	}
	return n.results[i].m, n.results[i].err
}

type panicNormalizer struct{}

func (panicNormalizer) Name() string { return "panic" }

func (panicNormalizer) Normalize(context.Context, ImageSet, ImageValidation) (Measurement, error) {
	panic("boom")
}

type fakeSuggester struct {
	out   []scan.ImprovementSuggestion
	err   error
	calls int
}

func (s *fakeSuggester) Suggest(context.Context, scan.FaceMetrics, []string) ([]scan.ImprovementSuggestion, error) {
	s.calls++
	return s.out, s.err
}

// fakeLLM answers every call with reply/err and records prompts.
type fakeLLM struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeLLM) GenerateText(_ context.Context, _ string, user string) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

func (f *fakeLLM) GenerateTextWithImages(_ context.Context, _ string, user string, _ []openai.ImageInput) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

func (f *fakeLLM) GenerateConversation(_ context.Context, _ string, _ []openai.Message, user string, _ []openai.ImageInput) (string, error) {
	f.prompts = append(f.prompts, user)
	return f.reply, f.err
}

type fakeFrameSource struct {
	probeErr   error
	info       localmedia.VideoInfo
	frames     map[int][]byte
	requested  []int
	cleanedUp  int
	stageErr   error
	stagedData []byte
}

func (f *fakeFrameSource) WriteTempFile(_ context.Context, data []byte, _ string) (string, func(), error) {
	if f.stageErr != nil {
		return "", nil, f.stageErr
	}
	f.stagedData = data
	return "/tmp/fake.mp4", func() { f.cleanedUp++ }, nil
}

func (f *fakeFrameSource) ProbeVideo(context.Context, string) (localmedia.VideoInfo, error) {
	return f.info, f.probeErr
}

func (f *fakeFrameSource) ExtractFrame(_ context.Context, _ string, index int, _ float64) ([]byte, error) {
	f.requested = append(f.requested, index)
	b, ok := f.frames[index]
	if !ok {
		return nil, errors.New("seek failed")
	}
	return b, nil
}

func testImages() ImageSet {
	return ImageSet{Front: []byte("front"), Left: []byte("left"), Right: []byte("right")}
}

func metricsWith(overrides map[string]float64) scan.FaceMetrics {
	m := scan.DefaultFaceMetrics()
	for path, v := range overrides {
		sub, ok := scan.LookupSubScore(path)
		if !ok {
			panic("unknown sub-score " + path)
		}
		sub.Set(&m, v)
	}
	return m
}
