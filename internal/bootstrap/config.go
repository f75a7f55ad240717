package bootstrap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/eleven-am/calorie-advisor/internal/analysis"
	"github.com/eleven-am/calorie-advisor/internal/labels"
	"github.com/eleven-am/calorie-advisor/internal/nutrition"
	"github.com/joho/godotenv"
)

var (
	ErrMissingVisionCredentials = errors.New("GOOGLE_VISION_API_KEY_PATH is required for the google label provider")
	ErrMissingGenerationKey     = errors.New("GOOGLE_API_KEY is required")
	ErrMissingAWSRegion         = errors.New("AWS_REGION is required for the rekognition label provider")
)

type Config struct {
	ServerAddr string
	LogLevel   string

	DatabaseDriver string
	DatabaseDSN    string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	LabelProvider     string
	VisionCredentials string
	VisionMaxResults  int
	LabelMinScore     float32
	LabelTimeout      time.Duration
	AWSRegion         string

	GoogleAPIKey      string
	GenerationModel   string
	Temperature       float32
	TopP              float32
	TopK              int32
	MaxOutputTokens   int32
	GenerationTimeout time.Duration

	MaxUploadBytes int64
	CacheTTL       time.Duration

	S3Bucket string
	S3Prefix string

	RequireAPIKey  bool
	RateLimitRPS   float64
	RateLimitBurst int

	StaticDir string
	IndexHTML string
}

// LoadConfig reads configuration from the environment, after loading an
// optional .env file from the working directory.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),

		DatabaseDriver: getEnv("DATABASE_DRIVER", "postgres"),
		DatabaseDSN:    getEnv("DATABASE_DSN", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LabelProvider:     strings.ToLower(getEnv("LABEL_PROVIDER", labels.ProviderGoogle)),
		VisionCredentials: getEnv("GOOGLE_VISION_API_KEY_PATH", ""),
		VisionMaxResults:  getEnvInt("VISION_MAX_RESULTS", 10),
		LabelMinScore:     getEnvFloat32("LABEL_MIN_SCORE", 0),
		LabelTimeout:      getEnvDuration("LABEL_TIMEOUT", 15*time.Second),
		AWSRegion:         getEnv("AWS_REGION", ""),

		GoogleAPIKey:      getEnv("GOOGLE_API_KEY", ""),
		GenerationModel:   getEnv("GENERATION_MODEL", nutrition.DefaultModel),
		Temperature:       getEnvFloat32("GENERATION_TEMPERATURE", 0.4),
		TopP:              getEnvFloat32("GENERATION_TOP_P", 0.95),
		TopK:              int32(getEnvInt("GENERATION_TOP_K", 40)),
		MaxOutputTokens:   int32(getEnvInt("GENERATION_MAX_OUTPUT_TOKENS", 1024)),
		GenerationTimeout: getEnvDuration("GENERATION_TIMEOUT", 60*time.Second),

		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", analysis.DefaultMaxUploadBytes)),
		CacheTTL:       getEnvDuration("RESULT_CACHE_TTL", 24*time.Hour),

		S3Bucket: getEnv("S3_BUCKET", ""),
		S3Prefix: getEnv("S3_PREFIX", "uploads"),

		RequireAPIKey:  getEnv("REQUIRE_API_KEY", "false") == "true",
		RateLimitRPS:   getEnvFloat64("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 10),

		StaticDir: getEnv("STATIC_DIR", "./web/static"),
		IndexHTML: getEnv("INDEX_HTML", "./web/static/index.html"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.LabelProvider {
	case labels.ProviderGoogle:
		if c.VisionCredentials == "" {
			return ErrMissingVisionCredentials
		}
	case labels.ProviderRekognition:
		if c.AWSRegion == "" {
			return ErrMissingAWSRegion
		}
	default:
		return fmt.Errorf("unknown LABEL_PROVIDER %q", c.LabelProvider)
	}

	if c.GoogleAPIKey == "" {
		return ErrMissingGenerationKey
	}

	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	return nil
}

func (c *Config) LabelConfig() labels.Config {
	return labels.Config{
		Keywords: labels.DefaultKeywords,
		MinScore: c.LabelMinScore,
	}
}

func (c *Config) GoogleVisionConfig() labels.GoogleConfig {
	return labels.GoogleConfig{
		CredentialsFile: c.VisionCredentials,
		MaxResults:      c.VisionMaxResults,
		Timeout:         c.LabelTimeout,
	}
}

func (c *Config) RekognitionConfig() labels.RekognitionConfig {
	return labels.RekognitionConfig{
		Region:        c.AWSRegion,
		MaxLabels:     int32(c.VisionMaxResults),
		MinConfidence: c.LabelMinScore * 100,
		Timeout:       c.LabelTimeout,
	}
}

func (c *Config) GenerationConfig() nutrition.Config {
	return nutrition.Config{
		APIKey:          c.GoogleAPIKey,
		Model:           c.GenerationModel,
		Temperature:     c.Temperature,
		TopP:            c.TopP,
		TopK:            c.TopK,
		MaxOutputTokens: c.MaxOutputTokens,
		Timeout:         c.GenerationTimeout,
	}
}

func (c *Config) AnalysisConfig() analysis.Config {
	return analysis.Config{
		MaxUploadBytes: c.MaxUploadBytes,
		CacheTTL:       c.CacheTTL,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvFloat32(key string, defaultValue float32) float32 {
	return float32(getEnvFloat64(key, float64(defaultValue)))
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
