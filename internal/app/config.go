package app

import (
	"github.com/openfield-labs/interview-builder-backend/internal/order"
	"github.com/openfield-labs/interview-builder-backend/internal/platform/envutil"
)

type Config struct {
	Port         string
	Environment  string
	Version      string
	AllowOrigins []string
	JWTSecret    string
	Lint         order.LintConfig
}

func LoadConfig() Config {
	lint := order.DefaultLintConfig()
	lint.EffectfulPatterns = envutil.List("LINT_EFFECTFUL_PATTERNS", lint.EffectfulPatterns)
	lint.MaxProgressMarkers = envutil.Int("LINT_MAX_PROGRESS_MARKERS", lint.MaxProgressMarkers)
	return Config{
		Port:        envutil.String("PORT", "8000"),
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
		AllowOrigins: envutil.List("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}),
		JWTSecret: envutil.String("API_JWT_SECRET", ""),
		Lint:      lint,
	}
}
