package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/cannon-backend/internal/modules/analysis"
	"github.com/yungbote/cannon-backend/internal/platform/envutil"
	"github.com/yungbote/cannon-backend/internal/platform/logger"
)

const (
	StrategyLLM         = analysis.StrategyLLM
	StrategyMeasurement = analysis.StrategyMeasurement

	StorageModeLocal = "local"
	StorageModeGCS   = "gcs"
)

type Config struct {
	Port    string `validate:"required,numeric"`
	AppEnv  string `validate:"required"`
	Service string `validate:"required"`

	JWTSecretKey string `validate:"required,min=8"`

	AnalysisStrategy  string `validate:"oneof=llm measurement"`
	AnalysisValidator string `validate:"oneof=llm vision none"`
	MetricsAttempts   int    `validate:"min=1,max=5"`

	MeasurementURL     string        `validate:"required_if=AnalysisStrategy measurement"`
	MeasurementTimeout time.Duration `validate:"min=1s"`

	ObjectStorageMode string `validate:"oneof=local gcs"`
	LocalStorageDir   string `validate:"required_if=ObjectStorageMode local"`
	GCSScanBucket     string `validate:"required_if=ObjectStorageMode gcs"`

	MediaWorkDir string
	CORSOrigins  []string
}

func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := Config{
		Port:    envutil.String("PORT", "8080"),
		AppEnv:  envutil.String("APP_ENV", "development"),
		Service: envutil.String("OTEL_SERVICE_NAME", "cannon-backend"),

		JWTSecretKey: envutil.String("JWT_SECRET_KEY", ""),

		AnalysisStrategy:  strings.ToLower(envutil.String("ANALYSIS_STRATEGY", StrategyLLM)),
		AnalysisValidator: strings.ToLower(envutil.String("ANALYSIS_VALIDATOR", "llm")),
		MetricsAttempts:   envutil.Int("ANALYSIS_METRICS_ATTEMPTS", 2),

		MeasurementURL:     envutil.String("FACIAL_ANALYSIS_API_URL", ""),
		MeasurementTimeout: envutil.Seconds("FACIAL_ANALYSIS_TIMEOUT_SECONDS", 120*time.Second),

		ObjectStorageMode: strings.ToLower(envutil.String("OBJECT_STORAGE_MODE", StorageModeLocal)),
		LocalStorageDir:   envutil.String("LOCAL_STORAGE_DIR", "./data/blobs"),
		GCSScanBucket:     envutil.String("GCS_SCAN_BUCKET", ""),

		MediaWorkDir: envutil.String("MEDIA_WORK_DIR", ""),
		CORSOrigins:  envutil.List("CORS_ORIGINS", nil),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	log.Info("Config loaded",
		"app_env", cfg.AppEnv,
		"analysis_strategy", cfg.AnalysisStrategy,
		"analysis_validator", cfg.AnalysisValidator,
		"object_storage_mode", cfg.ObjectStorageMode,
	)
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(fields, ", "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
