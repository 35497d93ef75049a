package analysis

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/tidwall/gjson"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/platform/gcp"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
	"github.com/yungbote/cannon-backend/internal/platform/openai"
)

const (
	ValidatorLLM    = "llm"
	ValidatorVision = "vision"
	ValidatorNone   = "none"

	maxUploadEdge     = 1024
	uploadJPEGQuality = 85
)

// ImageValidator grades the three input images. Errors are soft-failed by the
// validate stage to DefaultValidation.
type ImageValidator interface {
	Name() string
	Validate(ctx context.Context, images ImageSet) (ImageValidation, error)
}

// PrepareImages checks that every view is present and shrinks decodable images
// for upstream calls. An empty view is a resource failure.
func PrepareImages(images ImageSet) (ImageSet, error) {
	var out [3][]byte
	for i, v := range images.views() {
		if len(v.data) == 0 {
			return ImageSet{}, fmt.Errorf("%s image is empty", v.view)
		}
		out[i] = prepareImage(v.data)
	}
	return ImageSet{Front: out[0], Left: out[1], Right: out[2], Video: images.Video}, nil
}

// prepareImage downsizes to maxUploadEdge on the long side and re-encodes as JPEG.
// Undecodable input is returned unchanged.
func prepareImage(data []byte) []byte {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return data
	}
	b := img.Bounds()
	if b.Dx() > maxUploadEdge || b.Dy() > maxUploadEdge {
		img = imaging.Fit(img, maxUploadEdge, maxUploadEdge, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(uploadJPEGQuality)); err != nil {
		return data
	}
	return buf.Bytes()
}

type noneValidator struct{}

// NewNoopValidator accepts every image set with default qualities.
func NewNoopValidator() ImageValidator { return noneValidator{} }

func (noneValidator) Name() string { return ValidatorNone }

func (noneValidator) Validate(context.Context, ImageSet) (ImageValidation, error) {
	return DefaultValidation(), nil
}

type llmValidator struct {
	log *logger.Logger
	ai  openai.Client
}

func NewLLMValidator(log *logger.Logger, ai openai.Client) ImageValidator {
	return &llmValidator{log: log.With("validator", ValidatorLLM), ai: ai}
}

func (v *llmValidator) Name() string { return ValidatorLLM }

func (v *llmValidator) Validate(ctx context.Context, images ImageSet) (ImageValidation, error) {
	if v.ai == nil {
		return ImageValidation{}, fmt.Errorf("llm client not configured")
	}
	text, err := v.ai.GenerateTextWithImages(ctx, validationSystemPrompt, validationPrompt, imageInputs(images))
	if err != nil {
		return ImageValidation{}, fmt.Errorf("validation llm call: %w", err)
	}
	return ParseValidation(text)
}

// ParseValidation reads a validation reply. Missing qualities default to 7.0.
func ParseValidation(text string) (ImageValidation, error) {
	payload, ok := extractJSON(text, '{', '}')
	if !ok {
		return ImageValidation{}, fmt.Errorf("validation reply is not a JSON object")
	}
	doc := gjson.Parse(payload)
	def := DefaultValidation()
	out := ImageValidation{
		IsValid:      def.IsValid,
		FrontQuality: scan.ClampScore(numberOr(doc.Get("front_quality"), def.FrontQuality)),
		LeftQuality:  scan.ClampScore(numberOr(doc.Get("left_quality"), def.LeftQuality)),
		RightQuality: scan.ClampScore(numberOr(doc.Get("right_quality"), def.RightQuality)),
		Issues:       []string{},
	}
	if iv := doc.Get("is_valid"); iv.IsBool() {
		out.IsValid = iv.Bool()
	}
	doc.Get("issues").ForEach(func(_, s gjson.Result) bool {
		if t := strings.TrimSpace(s.String()); t != "" {
			out.Issues = append(out.Issues, t)
		}
		return true
	})
	return out, nil
}

type visionValidator struct {
	log      *logger.Logger
	detector gcp.FaceDetector
}

// NewVisionValidator grades images with Cloud Vision face detection.
func NewVisionValidator(log *logger.Logger, detector gcp.FaceDetector) ImageValidator {
	return &visionValidator{log: log.With("validator", ValidatorVision), detector: detector}
}

func (v *visionValidator) Name() string { return ValidatorVision }

func (v *visionValidator) Validate(ctx context.Context, images ImageSet) (ImageValidation, error) {
	if v.detector == nil {
		return ImageValidation{}, fmt.Errorf("face detector not configured")
	}
	out := ImageValidation{IsValid: true, Issues: []string{}}
	var qualities [3]float64
	for i, img := range images.views() {
		report, err := v.detector.DetectFace(ctx, img.data)
		if err != nil {
			return ImageValidation{}, fmt.Errorf("detect face (%s): %w", img.view, err)
		}
		if !report.Found {
			out.IsValid = false
			out.Issues = append(out.Issues, fmt.Sprintf("no face detected (%s)", img.view))
		}
		qualities[i] = FaceQuality(report)
	}
	out.FrontQuality, out.LeftQuality, out.RightQuality = qualities[0], qualities[1], qualities[2]
	return out, nil
}

// FaceQuality converts a detection report to a 0-10 quality. Each "likely" or
// stronger blur or under-exposure rating costs two points.
func FaceQuality(r gcp.FaceReport) float64 {
	if !r.Found {
		return 0
	}
	q := r.Confidence * 10
	if r.Blurred >= 4 {
		q -= 2
	}
	if r.UnderExposed >= 4 {
		q -= 2
	}
	return scan.ClampScore(q)
}
