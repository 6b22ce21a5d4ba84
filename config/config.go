package config

import (
	"fmt"
	"strconv"
	"strings"

	"letter-analyzer-api/utils"
)

const (
	defaultModel     = "mistralai/mistral-small-3.2-24b-instruct:free"
	defaultSiteURL   = "https://letter-analyzer.vercel.app"
	defaultSiteName  = "Letter Analyzer"
	defaultMaxUpload = 10 << 20 // 10 MiB
	EnvDevelopment   = "development"
	EnvProduction    = "production"
)

// Config holds all runtime settings, resolved once at boot.
type Config struct {
	Environment string
	Port        string

	OpenRouterAPIKey string
	SiteURL          string
	SiteName         string
	Model            string

	MaxUploadBytes int64
	CORSOrigins    []string

	// History is enabled when Postgres connection settings are present.
	HistoryEnabled bool

	// Archival is enabled when S3 credentials and a bucket are present.
	ArchiveEnabled bool
	LetterBucket   string
}

// Load resolves configuration from the environment and validates required
// settings so a misconfigured deployment fails at boot, not at first request.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      utils.GetEnvOrDefault("ENVIRONMENT", EnvDevelopment),
		Port:             utils.GetEnvOrDefault("APP_PORT", "8000"),
		OpenRouterAPIKey: utils.GetEnvOrDefault("OPENROUTER_API_KEY", ""),
		SiteURL:          utils.GetEnvOrDefault("OPENROUTER_SITE_URL", defaultSiteURL),
		SiteName:         utils.GetEnvOrDefault("OPENROUTER_SITE_NAME", defaultSiteName),
		Model:            utils.GetEnvOrDefault("OPENROUTER_MODEL", defaultModel),
		LetterBucket:     utils.GetEnvOrDefault("LETTER_BUCKET", ""),
	}

	if cfg.OpenRouterAPIKey == "" {
		return nil, fmt.Errorf("OPENROUTER_API_KEY is required")
	}

	if cfg.Environment != EnvDevelopment && cfg.Environment != EnvProduction {
		return nil, fmt.Errorf("ENVIRONMENT must be %q or %q, got %q",
			EnvDevelopment, EnvProduction, cfg.Environment)
	}

	maxUpload := utils.GetEnvOrDefault("MAX_UPLOAD_BYTES", "")
	if maxUpload == "" {
		cfg.MaxUploadBytes = defaultMaxUpload
	} else {
		n, err := strconv.ParseInt(maxUpload, 10, 64)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("MAX_UPLOAD_BYTES must be a positive integer, got %q", maxUpload)
		}
		cfg.MaxUploadBytes = n
	}

	if origins := utils.GetEnvOrDefault("CORS_ALLOWED_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}
	if cfg.Environment == EnvProduction && len(cfg.CORSOrigins) == 0 {
		return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS is required in production")
	}

	cfg.HistoryEnabled = utils.GetEnvOrDefault("POSTGRES_HOST", "") != ""
	cfg.ArchiveEnabled = cfg.LetterBucket != "" &&
		utils.GetEnvOrDefault("S3_ACCESS_KEY_ID", "") != "" &&
		utils.GetEnvOrDefault("S3_SECRET_ACCESS_KEY", "") != ""

	return cfg, nil
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}
