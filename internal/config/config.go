// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback for the mail dispatcher.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	// Provider selects the delivery backend: "ses" or "stdout".
	// Empty auto-detects: ses when configured, stdout otherwise.
	Provider string        `yaml:"provider"`
	SES      SESConfig     `yaml:"ses"`
	Mail     MailConfig    `yaml:"mail"`
	Logging  LoggingConfig `yaml:"logging"`
}

// SESConfig holds AWS SES connection configuration. Static credentials are
// optional; the default chain applies when they are empty.
type SESConfig struct {
	Region          string `yaml:"region"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// MailConfig holds defaults for the message the CLI composes. Every field
// can be overridden by a command-line flag.
type MailConfig struct {
	Sender       string   `yaml:"sender"`
	To           []string `yaml:"to"`
	Cc           []string `yaml:"cc"`
	Bcc          []string `yaml:"bcc"`
	Subject      string   `yaml:"subject"`
	TemplatePath string   `yaml:"template_path"`
	TextBody     string   `yaml:"text_body"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible
// defaults. Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables. Returns an error if the
// specified file path does not exist.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables always override YAML values
	cfg.applyEnvVars()

	return cfg, nil
}

// SESConfigured returns true if a region is set, which is the minimum SES
// needs; credentials may still come from the default chain.
func (c *Config) SESConfigured() bool {
	return c.SES.Region != ""
}

// applyDefaults sets sensible default values for all configuration fields.
func (c *Config) applyDefaults() {
	c.Mail.TemplatePath = "template.html"
	c.Logging.Level = "info"
}

// applyEnvVars overrides configuration with environment variable values.
// Only non-empty environment variables override existing values.
func (c *Config) applyEnvVars() {
	if v := os.Getenv("PROVIDER"); v != "" {
		c.Provider = strings.ToLower(v)
	}

	if v := os.Getenv("SES_REGION"); v != "" {
		c.SES.Region = v
	}
	if v := os.Getenv("SES_ACCESS_KEY_ID"); v != "" {
		c.SES.AccessKeyID = v
	}
	if v := os.Getenv("SES_SECRET_ACCESS_KEY"); v != "" {
		c.SES.SecretAccessKey = v
	}

	if v := os.Getenv("MAIL_SENDER"); v != "" {
		c.Mail.Sender = v
	}
	if v := os.Getenv("MAIL_TO"); v != "" {
		c.Mail.To = SplitList(v)
	}
	if v := os.Getenv("MAIL_CC"); v != "" {
		c.Mail.Cc = SplitList(v)
	}
	if v := os.Getenv("MAIL_BCC"); v != "" {
		c.Mail.Bcc = SplitList(v)
	}
	if v := os.Getenv("MAIL_SUBJECT"); v != "" {
		c.Mail.Subject = v
	}
	if v := os.Getenv("MAIL_TEMPLATE"); v != "" {
		c.Mail.TemplatePath = v
	}
	if v := os.Getenv("MAIL_TEXT_BODY"); v != "" {
		c.Mail.TextBody = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
}

// SplitList splits a comma-separated address list, trimming whitespace and
// dropping empty entries.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
