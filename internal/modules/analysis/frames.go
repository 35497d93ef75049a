package analysis

import (
	"context"
	"fmt"

	"github.com/yungbote/cannon-backend/internal/platform/localmedia"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// FrameSource is the part of localmedia.Tools the extractor needs.
type FrameSource interface {
	WriteTempFile(ctx context.Context, data []byte, suffix string) (path string, cleanup func(), err error)
	ProbeVideo(ctx context.Context, path string) (localmedia.VideoInfo, error)
	ExtractFrame(ctx context.Context, path string, index int, fps float64) ([]byte, error)
}

// FrameOffsets are the sample points, in seconds, for the front, left and right stills.
var FrameOffsets = [3]float64{0.5, 5.0, 14.0}

// FrameExtractor pulls three labelled stills out of a scan video.
type FrameExtractor struct {
	log *logger.Logger
	src FrameSource
}

func NewFrameExtractor(log *logger.Logger, src FrameSource) *FrameExtractor {
	return &FrameExtractor{log: log.With("service", "FrameExtractor"), src: src}
}

// Extract returns exactly three non-empty buffers, repeating the last decoded frame
// when some offsets fail. It errors when the video cannot be staged or probed, or when
// no frame decodes at all. The staged copy is removed on every path.
func (e *FrameExtractor) Extract(ctx context.Context, video []byte) (ImageSet, error) {
	if e.src == nil {
		return ImageSet{}, fmt.Errorf("frame source not configured")
	}
	if len(video) == 0 {
		return ImageSet{}, fmt.Errorf("video is empty")
	}
	path, cleanup, err := e.src.WriteTempFile(ctx, video, ".mp4")
	if err != nil {
		return ImageSet{}, fmt.Errorf("stage video: %w", err)
	}
	defer cleanup()

	info, err := e.src.ProbeVideo(ctx, path)
	if err != nil {
		return ImageSet{}, fmt.Errorf("probe video: %w", err)
	}

	frames := make([][]byte, 0, len(FrameOffsets))
	for _, offset := range FrameOffsets {
		idx := FrameIndex(offset, info.FPS, info.TotalFrames)
		frame, err := e.src.ExtractFrame(ctx, path, idx, info.FPS)
		if err != nil || len(frame) == 0 {
			e.log.Warn("Frame extraction failed, retrying at frame 0", "offset_seconds", offset, "frame", idx, "error", err)
			frame, err = e.src.ExtractFrame(ctx, path, 0, info.FPS)
			if err != nil || len(frame) == 0 {
				continue
			}
		}
		frames = append(frames, frame)
	}
	if len(frames) == 0 {
		return ImageSet{}, fmt.Errorf("no frame decoded from %d-frame video", info.TotalFrames)
	}
	padded := PadFrames(frames, len(FrameOffsets))
	return ImageSet{Front: padded[0], Left: padded[1], Right: padded[2], Video: video}, nil
}

// FrameIndex converts an offset in seconds to a frame index within [0, total-1].
func FrameIndex(offsetSeconds, fps float64, totalFrames int) int {
	idx := int(offsetSeconds * fps)
	if idx > totalFrames-1 {
		idx = totalFrames - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

// PadFrames repeats the last frame (or an empty buffer when there is none) until n are present.
func PadFrames(frames [][]byte, n int) [][]byte {
	out := make([][]byte, 0, n)
	for _, f := range frames {
		if len(out) == n {
			break
		}
		out = append(out, f)
	}
	for len(out) < n {
		if len(out) == 0 {
			out = append(out, []byte{})
			continue
		}
		out = append(out, out[len(out)-1])
	}
	return out
}
