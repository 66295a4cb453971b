// Package config loads the Frontline configuration from the environment
// (optionally seeded from a .env file) and validates it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"

	"github.com/frontline-pass/frontline/internal/connector"
	"github.com/frontline-pass/frontline/internal/util"
)

const (
	DefaultDatabaseFile  = "vip-data.json"
	DefaultDatabaseTable = "vip_players"
	DefaultRconVersion   = 2
	DefaultRconTimeout   = 10 * time.Second
	DefaultHTTPTimeout   = 20 * time.Second
	DefaultCacheTTL      = 300 * time.Second
	DefaultAPIAddr       = "127.0.0.1:8080"

	// matches vip.MaxDurationHours
	maxVipDurationHours = 10 * 365 * 24
)

// databaseDirEnv lists the environment variables consulted, in order, for a
// data directory when DATABASE_PATH is unset.
var databaseDirEnv = []string{
	"RAILWAY_VOLUME_MOUNT_PATH",
	"RAILWAY_VOLUME_DIR",
	"RAILWAY_DATA_DIR",
	"DATA_DIR",
}

// Config is the validated, immutable application configuration.
type Config struct {
	DiscordToken     string
	ChannelID        int64
	VipDurationHours float64
	Timezone         *time.Location
	TimezoneName     string

	Rcon connector.RconConfig

	DatabasePath  string
	DatabaseTable string

	ModerationChannelID   int64
	ModeratorRoleID       string
	ModerationWebhookURL  string
	AnnouncementMessageID int64

	// HTTP is nil when the HTTP admin API integration is not configured.
	HTTP *connector.HTTPCredentials

	CrconDatabaseURL  string
	DirectoryCacheTTL time.Duration
	RedisURL          string

	API  APIConfig
	MQTT MQTTConfig
	Log  util.LogConfig
}

// APIConfig configures the admin HTTP API.
type APIConfig struct {
	Addr           string   `envconfig:"API_ADDR" default:"127.0.0.1:8080"`
	AdminToken     string   `envconfig:"API_ADMIN_TOKEN"`
	RateLimitRPS   int      `envconfig:"API_RATE_LIMIT_RPS" default:"20"`
	AllowedOrigins []string `envconfig:"API_ALLOWED_ORIGINS"`
	TLSCertFile    string   `envconfig:"API_TLS_CERT"`
	TLSKeyFile     string   `envconfig:"API_TLS_KEY"`
	TLSSelfSigned  bool     `envconfig:"API_TLS_SELF_SIGNED"`
}

// TLSEnabled reports whether the API should serve HTTPS.
func (a APIConfig) TLSEnabled() bool {
	return a.TLSCertFile != "" && a.TLSKeyFile != ""
}

// MQTTConfig configures grant telemetry. An empty broker disables it.
type MQTTConfig struct {
	Broker      string        `envconfig:"MQTT_BROKER"`
	ClientID    string        `envconfig:"MQTT_CLIENT_ID" default:"frontline"`
	TopicPrefix string        `envconfig:"MQTT_TOPIC_PREFIX" default:"frontline"`
	Username    string        `envconfig:"MQTT_USERNAME"`
	Password    string        `envconfig:"MQTT_PASSWORD"`
	Heartbeat   time.Duration `envconfig:"MQTT_HEARTBEAT" default:"60s"`
}

// Enabled reports whether a broker is configured.
func (m MQTTConfig) Enabled() bool {
	return m.Broker != ""
}

// environment is the raw view of the variables whose parsing errors are
// collected by Validate instead of aborting on the first one.
type environment struct {
	DiscordToken          string `envconfig:"DISCORD_TOKEN"`
	ChannelID             string `envconfig:"CHANNEL_ID"`
	VipDurationHours      string `envconfig:"VIP_DURATION_HOURS"`
	LocalTimezone         string `envconfig:"LOCAL_TIMEZONE"`
	RconHost              string `envconfig:"RCON_HOST"`
	RconPort              string `envconfig:"RCON_PORT"`
	RconPassword          string `envconfig:"RCON_PASSWORD"`
	RconVersion           string `envconfig:"RCON_VERSION" default:"2"`
	RconTimeout           string `envconfig:"RCON_TIMEOUT"`
	DatabasePath          string `envconfig:"DATABASE_PATH"`
	DatabaseTable         string `envconfig:"DATABASE_TABLE"`
	ModerationChannelID   string `envconfig:"MODERATION_CHANNEL_ID"`
	ModeratorRoleID       string `envconfig:"MODERATOR_ROLE_ID"`
	ModerationWebhookURL  string `envconfig:"MODERATION_WEBHOOK_URL"`
	AnnouncementMessageID string `envconfig:"ANNOUNCEMENT_MESSAGE_ID"`
	HTTPBaseURL           string `envconfig:"CRCON_HTTP_BASE_URL"`
	HTTPBearerToken       string `envconfig:"CRCON_HTTP_BEARER_TOKEN"`
	HTTPUsername          string `envconfig:"CRCON_HTTP_USERNAME"`
	HTTPPassword          string `envconfig:"CRCON_HTTP_PASSWORD"`
	HTTPVerify            string `envconfig:"CRCON_HTTP_VERIFY" default:"true"`
	HTTPTimeout           string `envconfig:"CRCON_HTTP_TIMEOUT"`
	CrconDatabaseURL      string `envconfig:"CRCON_DATABASE_URL"`
	DirectoryCacheTTL     string `envconfig:"DIRECTORY_CACHE_TTL"`
	RedisURL              string `envconfig:"REDIS_URL"`
}

// Error aggregates every validation failure of a load.
type Error struct {
	Errors []ValidationError
}

func (e *Error) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, ve := range e.Errors {
		msgs[i] = ve.Message
	}
	return "Configuration error(s): " + strings.Join(msgs, "; ")
}

// Load reads an optional .env file from the working directory and then
// builds the configuration from the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}
	return FromEnv()
}

// LoadFile is Load with an explicit dotenv file. Variables already present
// in the environment win over the file.
func LoadFile(path string) (*Config, error) {
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return FromEnv()
}

// FromEnv builds and validates the configuration from the process
// environment only.
func FromEnv() (*Config, error) {
	var env environment
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	cfg := &Config{}
	if err := envconfig.Process("", &cfg.API); err != nil {
		return nil, fmt.Errorf("failed to read API settings: %w", err)
	}
	if err := envconfig.Process("", &cfg.MQTT); err != nil {
		return nil, fmt.Errorf("failed to read MQTT settings: %w", err)
	}
	if err := envconfig.Process("", &cfg.Log); err != nil {
		return nil, fmt.Errorf("failed to read log settings: %w", err)
	}

	result := build(&env, cfg)
	for _, w := range result.Warnings {
		log.Warn().Str("field", w.Field).Msg(w.Message)
	}
	if !result.IsValid() {
		return nil, &Error{Errors: result.Errors}
	}
	return cfg, nil
}

// build converts env into cfg, recording every problem in the result.
func build(env *environment, cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	cfg.DiscordToken = strings.TrimSpace(env.DiscordToken)
	cfg.ChannelID = parseOptionalInt(result, "CHANNEL_ID", env.ChannelID)

	if raw := require(result, "VIP_DURATION_HOURS", env.VipDurationHours); raw != "" {
		hours, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			result.AddError("VIP_DURATION_HOURS", fmt.Sprintf("VIP_DURATION_HOURS must be a number (got %q)", raw))
		case hours <= 0:
			result.AddError("VIP_DURATION_HOURS", "VIP_DURATION_HOURS must be greater than zero")
		case hours > maxVipDurationHours:
			result.AddError("VIP_DURATION_HOURS", fmt.Sprintf("VIP_DURATION_HOURS must be at most %d", maxVipDurationHours))
		default:
			cfg.VipDurationHours = hours
		}
	}

	cfg.Timezone = time.UTC
	cfg.TimezoneName = "UTC"
	if name := strings.TrimSpace(env.LocalTimezone); name != "" {
		loc, err := time.LoadLocation(name)
		if err != nil {
			result.AddError("LOCAL_TIMEZONE", fmt.Sprintf("LOCAL_TIMEZONE must be a valid IANA timezone (got %q)", name))
		} else {
			cfg.Timezone = loc
			cfg.TimezoneName = name
		}
	}

	buildRcon(env, cfg, result)

	cfg.DatabasePath = ResolveDatabasePath(env.DatabasePath)
	cfg.DatabaseTable = DefaultDatabaseTable
	if env.DatabaseTable != "" {
		cfg.DatabaseTable = strings.TrimSpace(env.DatabaseTable)
		if cfg.DatabaseTable == "" {
			result.AddError("DATABASE_TABLE", "DATABASE_TABLE must not be empty")
		}
	}

	cfg.ModerationChannelID = parseOptionalInt(result, "MODERATION_CHANNEL_ID", env.ModerationChannelID)
	cfg.AnnouncementMessageID = parseOptionalInt(result, "ANNOUNCEMENT_MESSAGE_ID", env.AnnouncementMessageID)
	cfg.ModeratorRoleID = strings.TrimSpace(env.ModeratorRoleID)
	cfg.ModerationWebhookURL = strings.TrimSpace(env.ModerationWebhookURL)

	cfg.HTTP = buildHTTP(env, result)

	cfg.CrconDatabaseURL = strings.TrimSpace(env.CrconDatabaseURL)
	cfg.RedisURL = strings.TrimSpace(env.RedisURL)
	cfg.DirectoryCacheTTL = parseSeconds(result, "DIRECTORY_CACHE_TTL", env.DirectoryCacheTTL, DefaultCacheTTL)

	validateAncillary(cfg, result)
	return result
}

func buildRcon(env *environment, cfg *Config, result *ValidationResult) {
	cfg.Rcon.Host = require(result, "RCON_HOST", env.RconHost)
	cfg.Rcon.Password = require(result, "RCON_PASSWORD", env.RconPassword)

	if raw := require(result, "RCON_PORT", env.RconPort); raw != "" {
		port, err := strconv.Atoi(raw)
		if err != nil {
			result.AddError("RCON_PORT", fmt.Sprintf("RCON_PORT must be an integer (got %q)", raw))
		} else {
			validatePort(port, "RCON_PORT", result)
			cfg.Rcon.Port = port
		}
	}

	cfg.Rcon.Version = DefaultRconVersion
	if raw := strings.TrimSpace(env.RconVersion); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			result.AddError("RCON_VERSION", fmt.Sprintf("RCON_VERSION must be an integer (got %q)", raw))
		} else {
			cfg.Rcon.Version = v
		}
	}

	cfg.Rcon.Timeout = parseSeconds(result, "RCON_TIMEOUT", env.RconTimeout, DefaultRconTimeout)
}

// buildHTTP applies the HTTP integration rules. Any HTTP variable enables
// the integration, which then needs a base URL without /api and either a
// bearer token or a username/password pair.
func buildHTTP(env *environment, result *ValidationResult) *connector.HTTPCredentials {
	verify := true
	if v, ok := parseBool(env.HTTPVerify); ok {
		verify = v
	} else if strings.TrimSpace(env.HTTPVerify) != "" {
		result.AddError("CRCON_HTTP_VERIFY", fmt.Sprintf("CRCON_HTTP_VERIFY must be a boolean (true/false); got %q", env.HTTPVerify))
	}
	timeout := parseSeconds(result, "CRCON_HTTP_TIMEOUT", env.HTTPTimeout, DefaultHTTPTimeout)

	base := strings.TrimRight(strings.TrimSpace(env.HTTPBaseURL), "/")
	token := strings.TrimSpace(env.HTTPBearerToken)
	username := strings.TrimSpace(env.HTTPUsername)
	hasPassword := strings.TrimSpace(env.HTTPPassword) != ""

	if base == "" && token == "" && username == "" && env.HTTPPassword == "" {
		return nil
	}

	if base == "" {
		result.AddError("CRCON_HTTP_BASE_URL", "CRCON_HTTP_BASE_URL is required when using the HTTP API integration")
	} else if lower := strings.ToLower(base); strings.HasSuffix(lower, "/api") || strings.Contains(lower, "/api/") {
		result.AddError("CRCON_HTTP_BASE_URL",
			"CRCON_HTTP_BASE_URL should not include '/api'. Provide the host only (e.g. https://example.com:8010).")
	}

	hasLogin := username != "" && hasPassword
	if token == "" && !hasLogin {
		result.AddError("CRCON_HTTP_BEARER_TOKEN",
			"Provide either CRCON_HTTP_BEARER_TOKEN or both CRCON_HTTP_USERNAME and CRCON_HTTP_PASSWORD when enabling the HTTP API integration")
	}
	if username != "" && !hasPassword {
		result.AddError("CRCON_HTTP_PASSWORD", "CRCON_HTTP_PASSWORD is required when CRCON_HTTP_USERNAME is provided")
	}

	if base == "" || (token == "" && !hasLogin) {
		return nil
	}

	creds := &connector.HTTPCredentials{
		BaseURL:     base,
		BearerToken: token,
		Username:    username,
		Verify:      verify,
		Timeout:     timeout,
	}
	if hasPassword {
		creds.Password = env.HTTPPassword
	}
	if !verify {
		result.AddWarning("CRCON_HTTP_VERIFY", "TLS certificate verification for the HTTP API is disabled")
	}
	return creds
}

// HTTPCredentials returns a copy of the HTTP credentials, or nil when the
// integration is disabled.
func (c *Config) HTTPCredentials() *connector.HTTPCredentials {
	if c.HTTP == nil {
		return nil
	}
	creds := *c.HTTP
	return &creds
}

// ResolveDatabasePath returns explicit when set, otherwise vip-data.json
// inside the first configured data directory, otherwise vip-data.json in the
// working directory.
func ResolveDatabasePath(explicit string) string {
	if p := strings.TrimSpace(explicit); p != "" {
		return p
	}
	for _, name := range databaseDirEnv {
		if dir := os.Getenv(name); dir != "" {
			return filepath.Join(dir, DefaultDatabaseFile)
		}
	}
	return DefaultDatabaseFile
}

func require(result *ValidationResult, name, raw string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		result.AddError(name, name+" is required")
	}
	return v
}

func parseOptionalInt(result *ValidationResult, name, raw string) int64 {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		result.AddError(name, fmt.Sprintf("Invalid integer for %s: %s", name, v))
		return 0
	}
	return n
}

// parseSeconds reads a positive number of seconds. Go duration strings
// ("45s", "2m") are accepted as well.
func parseSeconds(result *ValidationResult, name, raw string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}

	var d time.Duration
	if secs, err := strconv.ParseFloat(v, 64); err == nil {
		d = time.Duration(secs * float64(time.Second))
	} else if parsed, err := time.ParseDuration(v); err == nil {
		d = parsed
	} else {
		result.AddError(name, fmt.Sprintf("%s must be a number (got %q)", name, v))
		return fallback
	}

	if d <= 0 {
		result.AddError(name, name+" must be greater than zero")
		return fallback
	}
	return d
}

// parseBool accepts 1/true/yes/on and 0/false/no/off, case-insensitively.
func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
