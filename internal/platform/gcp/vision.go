package gcp

import (
	"context"
	"fmt"
	"time"

	vision "cloud.google.com/go/vision/v2/apiv1"
	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"

	"github.com/yungbote/cannon-backend/internal/platform/ctxutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// FaceReport summarises the most confident face detected in one image.
// Likelihoods run 0 (unknown) to 5 (very likely).
type FaceReport struct {
	Found        bool
	Confidence   float64
	Blurred      int
	UnderExposed int
}

type FaceDetector interface {
	DetectFace(ctx context.Context, img []byte) (FaceReport, error)
	Close() error
}

type faceDetector struct {
	log    *logger.Logger
	client *vision.ImageAnnotatorClient
}

func NewFaceDetector(ctx context.Context, log *logger.Logger) (FaceDetector, error) {
	client, err := vision.NewImageAnnotatorClient(ctx, ClientOptionsFromEnv()...)
	if err != nil {
		return nil, fmt.Errorf("vision client: %w", err)
	}
	return &faceDetector{log: log.With("service", "gcp.FaceDetector"), client: client}, nil
}

func (d *faceDetector) Close() error {
	if d == nil || d.client == nil {
		return nil
	}
	return d.client.Close()
}

func (d *faceDetector) DetectFace(ctx context.Context, img []byte) (FaceReport, error) {
	if len(img) == 0 {
		return FaceReport{}, fmt.Errorf("empty image")
	}
	ctx, cancel := context.WithTimeout(ctxutil.Default(ctx), 30*time.Second)
	defer cancel()

	req := &visionpb.BatchAnnotateImagesRequest{
		Requests: []*visionpb.AnnotateImageRequest{{
			Image:    &visionpb.Image{Content: img},
			Features: []*visionpb.Feature{{Type: visionpb.Feature_FACE_DETECTION, MaxResults: 3}},
		}},
	}
	resp, err := d.client.BatchAnnotateImages(ctx, req)
	if err != nil {
		return FaceReport{}, fmt.Errorf("vision BatchAnnotateImages: %w", err)
	}
	if resp == nil || len(resp.Responses) == 0 || resp.Responses[0] == nil {
		return FaceReport{}, nil
	}
	r0 := resp.Responses[0]
	if r0.Error != nil && r0.Error.Message != "" {
		return FaceReport{}, fmt.Errorf("vision annotate error: %s", r0.Error.Message)
	}
	return bestFace(r0.FaceAnnotations), nil
}

func bestFace(faces []*visionpb.FaceAnnotation) FaceReport {
	var best *visionpb.FaceAnnotation
	for _, f := range faces {
		if f == nil {
			continue
		}
		if best == nil || f.DetectionConfidence > best.DetectionConfidence {
			best = f
		}
	}
	if best == nil {
		return FaceReport{}
	}
	return FaceReport{
		Found:        true,
		Confidence:   float64(best.DetectionConfidence),
		Blurred:      int(best.BlurredLikelihood),
		UnderExposed: int(best.UnderExposedLikelihood),
	}
}
