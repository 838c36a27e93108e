package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Exam         Exam
	Sweep        Sweep
	Log          Log
	JWTSecret    string
	GeminiApiKey string
	GeminiModel  string
}

type Server struct {
	Port           string
	Mode           string
	AllowedOrigins []string
	// AdminUserIDs may call /admin routes; empty closes them.
	AdminUserIDs []uint
}

type Database struct {
	Driver        string // "postgres" or "sqlite"
	Host          string
	Port          string
	User          string
	Password      string
	Name          string
	SSLMode       string
	SQLitePath    string
	SlowThreshold time.Duration
}

type Exam struct {
	// Timezone every deadline and availability window is evaluated in.
	Timezone string
}

type Sweep struct {
	Enabled   bool
	Interval  time.Duration
	BatchSize int
}

type Log struct {
	Level  string
	Format string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Server.Mode = viper.GetString("GIN_MODE")
	config.Server.AllowedOrigins = splitCSV(viper.GetString("CORS_ALLOWED_ORIGINS"))
	config.Server.AdminUserIDs = parseIDs(viper.GetString("ADMIN_USER_IDS"))

	config.Database.Driver = strings.ToLower(viper.GetString("DATABASE_DRIVER"))
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")
	config.Database.SQLitePath = viper.GetString("SQLITE_PATH")
	config.Database.SlowThreshold = time.Duration(viper.GetInt("DATABASE_SLOW_QUERY_MS")) * time.Millisecond

	config.Exam.Timezone = viper.GetString("APP_TIMEZONE")

	config.Sweep.Enabled = viper.GetBool("EXPIRY_SWEEP_ENABLED")
	config.Sweep.Interval = viper.GetDuration("EXPIRY_SWEEP_INTERVAL")
	config.Sweep.BatchSize = viper.GetInt("EXPIRY_SWEEP_BATCH")

	config.Log.Level = viper.GetString("LOG_LEVEL")
	config.Log.Format = viper.GetString("LOG_FORMAT")

	config.JWTSecret = viper.GetString("JWT_SECRET")
	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.GeminiModel = viper.GetString("GEMINI_MODEL")

	log.Info().Interface("config", config.Redacted()).Msg("Config loaded")
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("GIN_MODE", "debug")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("SQLITE_PATH", "ascenso.db")
	viper.SetDefault("DATABASE_SLOW_QUERY_MS", 200)
	viper.SetDefault("APP_TIMEZONE", "America/Santiago")
	viper.SetDefault("EXPIRY_SWEEP_ENABLED", true)
	viper.SetDefault("EXPIRY_SWEEP_INTERVAL", "1m")
	viper.SetDefault("EXPIRY_SWEEP_BATCH", 100)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
}

// Redacted returns a copy that is safe to log.
func (c Config) Redacted() Config {
	if c.Database.Password != "" {
		c.Database.Password = "***"
	}
	if c.JWTSecret != "" {
		c.JWTSecret = "***"
	}
	if c.GeminiApiKey != "" {
		c.GeminiApiKey = "***"
	}
	return c
}

// Location resolves the configured exam timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	if c.Exam.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Exam.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", c.Exam.Timezone).Msg("Unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseIDs(v string) []uint {
	var ids []uint
	for _, p := range splitCSV(v) {
		id, err := strconv.ParseUint(p, 10, 64)
		if err != nil || id == 0 {
			log.Warn().Str("value", p).Msg("Ignoring invalid admin user id")
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}
