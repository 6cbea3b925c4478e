// Package config loads the server configuration from BUSINESSMAP_* environment
// variables and an optional instances file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const (
	EnvAPIURL              = "BUSINESSMAP_API_URL"
	EnvAPIToken            = "BUSINESSMAP_API_TOKEN"
	EnvInstancesFile       = "BUSINESSMAP_INSTANCES_FILE"
	EnvDefaultInstance     = "BUSINESSMAP_DEFAULT_INSTANCE"
	EnvReadOnly            = "BUSINESSMAP_READ_ONLY_MODE"
	EnvRateLimit           = "BUSINESSMAP_RATE_LIMIT"
	EnvRetryMax            = "BUSINESSMAP_RETRY_MAX"
	EnvTimeout             = "BUSINESSMAP_TIMEOUT"
	EnvAnalysisConcurrency = "BUSINESSMAP_ANALYSIS_CONCURRENCY"
	EnvOTelEnabled         = "BUSINESSMAP_OTEL_ENABLED"

	// DefaultInstanceName names the instance built from BUSINESSMAP_API_URL/TOKEN.
	DefaultInstanceName = "default"
)

// Instance is one entry of the instances file.
type Instance struct {
	Name        string `mapstructure:"name"`
	APIURL      string `mapstructure:"api_url"`
	APIToken    string `mapstructure:"api_token"`
	APITokenEnv string `mapstructure:"api_token_env"`
}

// Config is the resolved server configuration. Instance tokens are resolved.
type Config struct {
	InstancesFile       string
	Instances           []Instance
	DefaultInstance     string
	ReadOnly            bool
	RateLimit           float64
	RetryMax            int
	Timeout             time.Duration
	AnalysisConcurrency int
	OTelEnabled         bool
}

// Load reads the configuration. getenv is injected so callers and tests control the environment.
func Load(getenv func(string) string) (*Config, error) {
	v := viper.New()
	v.SetDefault("rate_limit", 10.0)
	v.SetDefault("retry_max", 3)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("analysis_concurrency", 8)
	v.SetDefault("read_only", false)
	v.SetDefault("otel_enabled", false)

	file := env(getenv, EnvInstancesFile)
	if file != "" {
		v.SetConfigFile(file)
		if filepath.Ext(file) == "" {
			v.SetConfigType("yaml")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read instances file %s: %w", file, err)
		}
	}

	if err := applyEnv(v, getenv); err != nil {
		return nil, err
	}

	cfg := &Config{
		InstancesFile:       file,
		DefaultInstance:     strings.TrimSpace(v.GetString("default_instance")),
		ReadOnly:            v.GetBool("read_only"),
		RateLimit:           v.GetFloat64("rate_limit"),
		RetryMax:            v.GetInt("retry_max"),
		Timeout:             v.GetDuration("timeout"),
		AnalysisConcurrency: v.GetInt("analysis_concurrency"),
		OTelEnabled:         v.GetBool("otel_enabled"),
	}

	if err := v.UnmarshalKey("instances", &cfg.Instances); err != nil {
		return nil, fmt.Errorf("parse instances: %w", err)
	}

	if url := env(getenv, EnvAPIURL); url != "" {
		cfg.Instances = mergeEnvInstance(cfg.Instances, url, env(getenv, EnvAPIToken))
	}

	if err := cfg.resolveTokens(getenv); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv copies set environment variables over file values, rejecting values that do not parse.
func applyEnv(v *viper.Viper, getenv func(string) string) error {
	if s := env(getenv, EnvDefaultInstance); s != "" {
		v.Set("default_instance", s)
	}

	parsers := []struct {
		name  string
		key   string
		parse func(string) (any, error)
	}{
		{EnvReadOnly, "read_only", func(s string) (any, error) { return cast.ToBoolE(s) }},
		{EnvOTelEnabled, "otel_enabled", func(s string) (any, error) { return cast.ToBoolE(s) }},
		{EnvRateLimit, "rate_limit", func(s string) (any, error) { return cast.ToFloat64E(s) }},
		{EnvRetryMax, "retry_max", func(s string) (any, error) { return cast.ToIntE(s) }},
		{EnvTimeout, "timeout", func(s string) (any, error) { return cast.ToDurationE(s) }},
		{EnvAnalysisConcurrency, "analysis_concurrency", func(s string) (any, error) { return cast.ToIntE(s) }},
	}

	for _, p := range parsers {
		raw := env(getenv, p.name)
		if raw == "" {
			continue
		}
		value, err := p.parse(raw)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", p.name, raw, err)
		}
		v.Set(p.key, value)
	}

	return nil
}

// mergeEnvInstance overrides the default-named instance with the env URL and token, or appends it.
func mergeEnvInstance(instances []Instance, url, token string) []Instance {
	for i := range instances {
		if instances[i].Name == DefaultInstanceName {
			instances[i].APIURL = url
			if token != "" {
				instances[i].APIToken = token
				instances[i].APITokenEnv = ""
			}
			return instances
		}
	}
	return append(instances, Instance{Name: DefaultInstanceName, APIURL: url, APIToken: token})
}

func (c *Config) resolveTokens(getenv func(string) string) error {
	for i := range c.Instances {
		inst := &c.Instances[i]
		inst.Name = strings.TrimSpace(inst.Name)
		inst.APIURL = strings.TrimSpace(inst.APIURL)
		if strings.TrimSpace(inst.APIToken) != "" || inst.APITokenEnv == "" {
			continue
		}
		inst.APIToken = env(getenv, inst.APITokenEnv)
		if inst.APIToken == "" {
			return fmt.Errorf("instance %q: environment variable %s is empty", inst.Name, inst.APITokenEnv)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if len(c.Instances) == 0 {
		return fmt.Errorf("no BusinessMap instance configured: set %s and %s or %s", EnvAPIURL, EnvAPIToken, EnvInstancesFile)
	}

	seen := make(map[string]bool, len(c.Instances))
	for i, inst := range c.Instances {
		switch {
		case inst.Name == "":
			return fmt.Errorf("instances[%d]: name is required", i)
		case seen[inst.Name]:
			return fmt.Errorf("instances[%d]: duplicate name %q", i, inst.Name)
		case inst.APIURL == "":
			return fmt.Errorf("instance %q: api_url is required", inst.Name)
		case strings.TrimSpace(inst.APIToken) == "":
			return fmt.Errorf("instance %q: api token is required", inst.Name)
		}
		seen[inst.Name] = true
	}

	if c.DefaultInstance != "" && !seen[c.DefaultInstance] {
		return fmt.Errorf("default instance %q is not configured", c.DefaultInstance)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("retry max must not be negative")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.AnalysisConcurrency < 1 {
		return fmt.Errorf("analysis concurrency must be at least 1")
	}

	return nil
}

// Tokens returns every configured API token, for log redaction.
func (c *Config) Tokens() []string {
	tokens := make([]string, 0, len(c.Instances))
	for _, inst := range c.Instances {
		tokens = append(tokens, inst.APIToken)
	}
	return tokens
}

func env(getenv func(string) string, key string) string {
	return strings.TrimSpace(getenv(key))
}
