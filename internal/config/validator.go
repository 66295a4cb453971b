package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation error [%s]: %s", e.Field, e.Message)
}

// ValidationResult holds the results of configuration validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (r *ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// AddError adds a validation error.
func (r *ValidationResult) AddError(field, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (r *ValidationResult) AddWarning(field, message string) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Message: message})
}

// validateAncillary checks the settings that are not part of the grant path.
func validateAncillary(cfg *Config, result *ValidationResult) {
	if cfg.ModerationWebhookURL != "" {
		if u, err := url.Parse(cfg.ModerationWebhookURL); err != nil || u.Scheme == "" || u.Host == "" {
			result.AddError("MODERATION_WEBHOOK_URL", "MODERATION_WEBHOOK_URL must be an absolute URL")
		}
	}
	if cfg.ModeratorRoleID != "" && cfg.ModerationWebhookURL == "" {
		result.AddWarning("MODERATOR_ROLE_ID", "moderator role is set but no moderation webhook is configured")
	}

	if cfg.RedisURL != "" && cfg.CrconDatabaseURL == "" {
		result.AddWarning("REDIS_URL", "REDIS_URL has no effect without CRCON_DATABASE_URL")
	}

	validateAPI(&cfg.API, result)

	if cfg.MQTT.Enabled() && cfg.MQTT.Heartbeat <= 0 {
		result.AddError("MQTT_HEARTBEAT", "MQTT_HEARTBEAT must be greater than zero")
	}
}

func validateAPI(api *APIConfig, result *ValidationResult) {
	if api.Addr != "" {
		if _, port, err := net.SplitHostPort(api.Addr); err != nil || port == "" {
			result.AddError("API_ADDR", fmt.Sprintf("API_ADDR must be host:port (got %q)", api.Addr))
		}
	}

	if (api.TLSCertFile == "") != (api.TLSKeyFile == "") {
		result.AddError("API_TLS_CERT", "API_TLS_CERT and API_TLS_KEY must be set together")
	}
	if api.TLSSelfSigned && !api.TLSEnabled() {
		result.AddError("API_TLS_SELF_SIGNED", "API_TLS_SELF_SIGNED needs API_TLS_CERT and API_TLS_KEY paths to write to")
	}

	if strings.TrimSpace(api.AdminToken) == "" {
		result.AddWarning("API_ADMIN_TOKEN", "admin API authentication is disabled")
	}
	if api.RateLimitRPS < 1 {
		result.AddWarning("API_RATE_LIMIT_RPS",
			"rate limit is disabled (0 RPS), this may expose the API to abuse")
	}
}

func validatePort(port int, field string, result *ValidationResult) {
	if port < 1 || port > 65535 {
		result.AddError(field, fmt.Sprintf("invalid port number: %d (must be 1-65535)", port))
	}
}
