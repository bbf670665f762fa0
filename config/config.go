package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
)

type AppConfig struct {
	Env       string // development|production|test
	Port      string
	DBPath    string
	LogLevel  string
	StaticDir string

	FirebaseProjectID   string
	FirebasePrivateKey  string
	FirebaseClientEmail string
	GoogleCloudProject  string
	VertexLocation      string
	VertexModel         string

	AuthMode auth.Mode

	AIProvider  string // mock|vertex|openai
	LLMEndpoint string
	LLMAPIKey   string
	LLMModel    string

	EmbProvider string // none|vertex|http
	EmbEndpoint string
	EmbAPIKey   string
	EmbModel    string

	WeatherProvider string // openmeteo|none
	WeatherCacheTTL time.Duration

	KBAllowedDomains []string
	KBMaxBytes       int64

	RateLimitRPS float64
}

func (c AppConfig) IsProduction() bool { return c.Env == "production" }

// Required variables have no sensible default.
var Required = []string{"FIREBASE_PROJECT_ID", "FIREBASE_PRIVATE_KEY", "FIREBASE_CLIENT_EMAIL", "GOOGLE_CLOUD_PROJECT"}

var defaults = map[string]any{
	"APP_ENV":               "development",
	"PORT":                  "3001",
	"DB_PATH":               "farmlink.db",
	"LOG_LEVEL":             "info",
	"STATIC_DIR":            "static",
	"VERTEX_AI_LOCATION":    "us-central1",
	"VERTEX_AI_MODEL_ID":    "gemini-pro",
	"AUTH_MODE":             string(auth.ModeFirebase),
	"AI_PROVIDER":           "mock",
	"LLM_MODEL":             "gpt-4o-mini",
	"EMB_PROVIDER":          "none",
	"WEATHER_PROVIDER":      "openmeteo",
	"WEATHER_CACHE_TTL":     "10m",
	"KB_MAX_BYTES_PER_PAGE": 1500000,
	"RATE_LIMIT_RPS":        10.0,
}

var enums = map[string][]string{
	"APP_ENV":          {"development", "production", "test"},
	"AI_PROVIDER":      {"mock", "vertex", "openai"},
	"EMB_PROVIDER":     {"none", "vertex", "http"},
	"WEATHER_PROVIDER": {"openmeteo", "none"},
	"LOG_LEVEL":        {"debug", "info", "warn", "error"},
}

// Load reads .env (when present) and the process environment.
func Load() (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds the config from v and checks it. Every problem is
// reported in one error.
func FromViper(v *viper.Viper) (AppConfig, error) {
	var problems []string

	var missing []string
	for _, k := range Required {
		if strings.TrimSpace(v.GetString(k)) == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		problems = append(problems, "missing required environment variables: "+strings.Join(missing, ", "))
	}

	str := func(k string) string {
		s := strings.TrimSpace(v.GetString(k))
		if allowed, ok := enums[k]; ok {
			s = strings.ToLower(s)
			if !contains(allowed, s) {
				problems = append(problems, fmt.Sprintf("%s=%q must be one of %s", k, s, strings.Join(allowed, ", ")))
			}
		}
		return s
	}

	c := AppConfig{
		Env:       str("APP_ENV"),
		Port:      str("PORT"),
		DBPath:    str("DB_PATH"),
		LogLevel:  str("LOG_LEVEL"),
		StaticDir: str("STATIC_DIR"),

		FirebaseProjectID:   str("FIREBASE_PROJECT_ID"),
		FirebasePrivateKey:  strings.ReplaceAll(v.GetString("FIREBASE_PRIVATE_KEY"), `\n`, "\n"),
		FirebaseClientEmail: str("FIREBASE_CLIENT_EMAIL"),
		GoogleCloudProject:  str("GOOGLE_CLOUD_PROJECT"),
		VertexLocation:      str("VERTEX_AI_LOCATION"),
		VertexModel:         str("VERTEX_AI_MODEL_ID"),

		AIProvider:  str("AI_PROVIDER"),
		LLMEndpoint: str("LLM_ENDPOINT"),
		LLMAPIKey:   str("LLM_API_KEY"),
		LLMModel:    str("LLM_MODEL"),

		EmbProvider: str("EMB_PROVIDER"),
		EmbEndpoint: str("EMB_ENDPOINT"),
		EmbAPIKey:   str("EMB_API_KEY"),
		EmbModel:    str("EMB_MODEL"),

		WeatherProvider: str("WEATHER_PROVIDER"),
		KBMaxBytes:      v.GetInt64("KB_MAX_BYTES_PER_PAGE"),
		RateLimitRPS:    v.GetFloat64("RATE_LIMIT_RPS"),
	}

	mode, err := auth.ParseMode(v.GetString("AUTH_MODE"))
	if err != nil {
		problems = append(problems, "AUTH_MODE: "+err.Error())
	}
	c.AuthMode = mode

	ttl, err := time.ParseDuration(strings.TrimSpace(v.GetString("WEATHER_CACHE_TTL")))
	if err != nil || ttl <= 0 {
		problems = append(problems, fmt.Sprintf("WEATHER_CACHE_TTL=%q is not a positive duration", v.GetString("WEATHER_CACHE_TTL")))
	}
	c.WeatherCacheTTL = ttl

	for _, d := range strings.Split(v.GetString("KB_ALLOWED_DOMAINS"), ",") {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			c.KBAllowedDomains = append(c.KBAllowedDomains, d)
		}
	}
	if c.KBMaxBytes <= 0 {
		problems = append(problems, "KB_MAX_BYTES_PER_PAGE must be positive")
	}
	if c.RateLimitRPS <= 0 {
		problems = append(problems, "RATE_LIMIT_RPS must be positive")
	}
	if c.AIProvider == "openai" && (c.LLMEndpoint == "" || c.LLMAPIKey == "") {
		problems = append(problems, "AI_PROVIDER=openai needs LLM_ENDPOINT and LLM_API_KEY")
	}
	if c.EmbProvider == "http" && c.EmbEndpoint == "" {
		problems = append(problems, "EMB_PROVIDER=http needs EMB_ENDPOINT")
	}

	if len(problems) > 0 {
		return c, fmt.Errorf("invalid configuration:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return c, nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
