// Package config loads runtime settings from an optional TOML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

type ServerConfig struct {
	Port           string `toml:"port"`
	ClientOrigin   string `toml:"client_origin"`
	Production     bool   `toml:"production"`
	RateLimitRPS   int    `toml:"rate_limit_rps"`
	RateLimitBurst int    `toml:"rate_limit_burst"`
}

type AuthConfig struct {
	JWTSecret      string `toml:"jwt_secret"`
	JWTExpiresDays int    `toml:"jwt_expires_days"`
	CookieName     string `toml:"cookie_name"`
}

type GameConfig struct {
	WordsFile  string   `toml:"words_file"`
	DailySalt  string   `toml:"daily_salt"`
	MessageTTL Duration `toml:"message_ttl"`
	IdleTTL    Duration `toml:"idle_ttl"` // games without input for this long are evicted
}

// Duration reads "2s"-style strings from TOML.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

type Config struct {
	LogLevel string       `toml:"log_level"`
	DBPath   string       `toml:"db_path"`
	Server   ServerConfig `toml:"server"`
	Auth     AuthConfig   `toml:"auth"`
	Game     GameConfig   `toml:"game"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel: "info",
		DBPath:   "./data/app.db",
		Server: ServerConfig{
			Port:           "5175",
			ClientOrigin:   "http://localhost:5173",
			RateLimitRPS:   5,
			RateLimitBurst: 10,
		},
		Auth: AuthConfig{
			JWTSecret:      "dev_secret_change_me",
			JWTExpiresDays: 14,
			CookieName:     "wordle_token",
		},
		Game: GameConfig{
			DailySalt:  "local_dev_salt",
			MessageTTL: Duration(2 * time.Second),
			IdleTTL:    Duration(30 * time.Minute),
		},
	}
}

// Load builds the Config: defaults, then the TOML file named by
// WORDLE_CONFIG (if any), then .env, then the environment.
func Load() (Config, error) {
	cfg := Default()
	_ = godotenv.Load()

	if path := os.Getenv("WORDLE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file '%s': %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse TOML: %w", err)
		}
	}

	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)

	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.ClientOrigin = getEnv("CLIENT_ORIGIN", cfg.Server.ClientOrigin)
	if os.Getenv("NODE_ENV") == "production" {
		cfg.Server.Production = true
	}
	cfg.Server.RateLimitRPS = getEnvInt("RATE_LIMIT_RPS", cfg.Server.RateLimitRPS)
	cfg.Server.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", cfg.Server.RateLimitBurst)

	cfg.Auth.JWTSecret = getEnv("JWT_SECRET", cfg.Auth.JWTSecret)
	cfg.Auth.JWTExpiresDays = getEnvInt("JWT_EXPIRES_DAYS", cfg.Auth.JWTExpiresDays)
	cfg.Auth.CookieName = getEnv("COOKIE_NAME", cfg.Auth.CookieName)

	cfg.Game.WordsFile = getEnv("WORDS_FILE", cfg.Game.WordsFile)
	cfg.Game.DailySalt = getEnv("DAILY_SALT", cfg.Game.DailySalt)
	cfg.Game.MessageTTL = Duration(getEnvDuration("MESSAGE_TTL", cfg.Game.MessageTTL.Std()))
	cfg.Game.IdleTTL = Duration(getEnvDuration("GAME_IDLE_TTL", cfg.Game.IdleTTL.Std()))

	return cfg, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getEnvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid int, using default")
		return def
	}
	return n
}

func getEnvDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
