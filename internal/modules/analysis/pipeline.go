package analysis

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/cannon-backend/internal/domain/scan"
	"github.com/yungbote/cannon-backend/internal/observability"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

// DefaultMetricsAttempts is the total number of metrics calls made before defaulting.
const DefaultMetricsAttempts = 2

const (
	stageValidate     = "validate"
	stageMetrics      = "metrics"
	stageImprovements = "improvements"
	stageCourses      = "course_mapping"
	stageCompile      = "compile"

	statusOK       = "ok"
	statusSoftFail = "soft_fail"
	statusError    = "error"
)

type Deps struct {
	Log        *logger.Logger
	Validator  ImageValidator
	Normalizer MetricsNormalizer
	Suggester  Suggester
	Frames     *FrameExtractor
	Metrics    *observability.Metrics
	// MetricsAttempts <= 0 means DefaultMetricsAttempts.
	MetricsAttempts int
}

// Pipeline runs validate -> metrics -> improvements -> course mapping -> compile.
// It holds no per-run state; concurrent runs are independent.
type Pipeline struct {
	deps Deps
	log  *logger.Logger
}

func New(deps Deps) *Pipeline {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Validator == nil {
		deps.Validator = NewNoopValidator()
	}
	if deps.MetricsAttempts <= 0 {
		deps.MetricsAttempts = DefaultMetricsAttempts
	}
	return &Pipeline{deps: deps, log: deps.Log.With("service", "AnalysisPipeline")}
}

// Strategy names the configured metrics normalizer.
func (p *Pipeline) Strategy() string {
	if p.deps.Normalizer == nil {
		return "none"
	}
	return p.deps.Normalizer.Name()
}

// Run analyses three stills. It never fails: any error or panic becomes scan.FallbackAnalysis.
func (p *Pipeline) Run(ctx context.Context, images ImageSet) (out scan.ScanAnalysis) {
	p.deps.Metrics.IncPipelineRun(string(scan.KindImages), p.Strategy())
	defer p.recoverInto(&out)
	out, err := p.run(ctx, images)
	if err != nil {
		return p.fallback(err)
	}
	return out
}

// RunVideo extracts stills from video and analyses them. Extraction failures
// produce a fallback whose summary starts the error with "Video extraction failed".
func (p *Pipeline) RunVideo(ctx context.Context, video []byte) (out scan.ScanAnalysis) {
	p.deps.Metrics.IncPipelineRun(string(scan.KindVideo), p.Strategy())
	defer p.recoverInto(&out)
	if p.deps.Frames == nil {
		return p.fallback(fmt.Errorf("Video extraction failed: frame extractor not configured"))
	}
	images, err := p.deps.Frames.Extract(ctx, video)
	if err != nil {
		return p.fallback(fmt.Errorf("Video extraction failed: %w", err))
	}
	out, err = p.run(ctx, images)
	if err != nil {
		return p.fallback(err)
	}
	return out
}

func (p *Pipeline) recoverInto(out *scan.ScanAnalysis) {
	if r := recover(); r != nil {
		p.log.Error("Analysis pipeline panicked", "panic", r, "stack", string(debug.Stack()))
		*out = p.fallback(fmt.Errorf("internal error: %v", r))
	}
}

func (p *Pipeline) fallback(err error) scan.ScanAnalysis {
	p.log.Error("Analysis pipeline failed, returning fallback analysis", "error", err)
	p.deps.Metrics.IncFallback("pipeline")
	return scan.FallbackAnalysis(err)
}

func (p *Pipeline) run(ctx context.Context, images ImageSet) (scan.ScanAnalysis, error) {
	validated, err := p.validate(ctx, images)
	if err != nil {
		return scan.ScanAnalysis{}, err
	}
	measured := p.measure(ctx, validated)
	improved := p.improve(ctx, measured)
	mapped := p.mapCourses(ctx, improved)
	return p.compile(ctx, mapped), nil
}

// stage wraps one step in a span and a duration observation.
func (p *Pipeline) stage(ctx context.Context, name string, fn func(ctx context.Context) (string, error)) {
	ctx, span := observability.Tracer("analysis").Start(ctx, "analysis."+name)
	defer span.End()
	start := time.Now()
	status, err := fn(ctx)
	span.SetAttributes(attribute.String("analysis.stage.status", status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	p.deps.Metrics.ObserveStage(name, status, time.Since(start))
}

func (p *Pipeline) validate(ctx context.Context, images ImageSet) (validatedState, error) {
	var next validatedState
	var hard error
	p.stage(ctx, stageValidate, func(ctx context.Context) (string, error) {
		prepared, err := PrepareImages(images)
		if err != nil {
			hard = err
			return statusError, err
		}
		next = validatedState{Images: prepared}
		v, err := p.deps.Validator.Validate(ctx, prepared)
		if err != nil {
			p.log.Warn("Image validation failed, using defaults", "validator", p.deps.Validator.Name(), "error", err)
			next.Validation = DefaultValidation()
			return statusSoftFail, err
		}
		if !v.IsValid {
			p.log.Warn("Images flagged by validator", "issues", v.Issues)
		}
		next.Validation = v
		return statusOK, nil
	})
	return next, hard
}

func (p *Pipeline) measure(ctx context.Context, prev validatedState) measuredState {
	next := measuredState{validatedState: prev}
	p.stage(ctx, stageMetrics, func(ctx context.Context) (string, error) {
		if p.deps.Normalizer == nil {
			next.Metrics, next.MetricsDefault = scan.DefaultFaceMetrics(), true
			p.deps.Metrics.IncFallback("metrics_default")
			return statusSoftFail, fmt.Errorf("no metrics normalizer configured")
		}
		var lastErr error
		for attempt := 1; attempt <= p.deps.MetricsAttempts; attempt++ {
			if ctx.Err() != nil {
				lastErr = ctx.Err()
				break
			}
			m, err := p.deps.Normalizer.Normalize(ctx, prev.Images, prev.Validation)
			if err == nil {
				next.Metrics, next.Hints = m.Metrics, m.Hints
				return statusOK, nil
			}
			lastErr = err
			p.log.Warn("Metrics attempt failed",
				"strategy", p.deps.Normalizer.Name(),
				"attempt", attempt,
				"max_attempts", p.deps.MetricsAttempts,
				"error", err,
			)
		}
		next.Metrics, next.MetricsDefault = scan.DefaultFaceMetrics(), true
		p.deps.Metrics.IncFallback("metrics_default")
		return statusSoftFail, lastErr
	})
	return next
}

func (p *Pipeline) improve(ctx context.Context, prev measuredState) improvedState {
	next := improvedState{measuredState: prev, Improvements: []scan.ImprovementSuggestion{}}
	p.stage(ctx, stageImprovements, func(ctx context.Context) (string, error) {
		strengths, focus := DeriveAreas(prev.Metrics)
		next.Strengths = mergeStrengths(prev.Hints.Strengths, strengths)
		next.FocusAreas = focus
		if len(prev.Hints.Suggestions) > 0 {
			next.Improvements = append([]scan.ImprovementSuggestion{}, prev.Hints.Suggestions...)
			return statusOK, nil
		}
		if p.deps.Suggester == nil {
			return statusOK, nil
		}
		suggestions, err := p.deps.Suggester.Suggest(ctx, prev.Metrics, focus)
		if err != nil {
			p.log.Warn("Improvement suggestions failed, continuing without", "error", err)
			return statusSoftFail, err
		}
		if suggestions != nil {
			next.Improvements = suggestions
		}
		return statusOK, nil
	})
	return next
}

func (p *Pipeline) mapCourses(ctx context.Context, prev improvedState) mappedState {
	next := mappedState{improvedState: prev}
	p.stage(ctx, stageCourses, func(context.Context) (string, error) {
		next.Courses = MapCourses(prev.FocusAreas, improvementAreas(prev.Improvements))
		return statusOK, nil
	})
	return next
}

func (p *Pipeline) compile(ctx context.Context, prev mappedState) scan.ScanAnalysis {
	var out scan.ScanAnalysis
	p.stage(ctx, stageCompile, func(context.Context) (string, error) {
		out = Compile(CompileInput{
			Metrics:      prev.Metrics,
			Improvements: prev.Improvements,
			Strengths:    prev.Strengths,
			FocusAreas:   prev.FocusAreas,
			Courses:      prev.Courses,
			ExtraSummary: prev.Hints.Summary,
		})
		if !prev.Metrics.Finite() {
			return statusError, fmt.Errorf("non-finite metrics")
		}
		return statusOK, nil
	})
	return out
}
