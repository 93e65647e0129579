// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

// Config wires the engine's tunables. The pricing math itself has no
// knobs; everything here parameterizes the data-acquisition edges and
// the cache bounds.
type Config struct {
	RPCList                     []string `mapstructure:"rpc_list"`
	OracleURL                   string   `mapstructure:"oracle_url"`
	OracleJSONPath              string   `mapstructure:"oracle_json_path"`
	QuoteServiceURL             string   `mapstructure:"quote_service_url"`
	LaunchProgramID             string   `mapstructure:"launch_program_id"`
	PoolProgramID               string   `mapstructure:"pool_program_id"`
	GraduationThresholdLamports uint64   `mapstructure:"graduation_threshold_lamports"`
	MarketCapTTLMs              int      `mapstructure:"marketcap_ttl_ms"`
	CoalesceWindowMs            int      `mapstructure:"coalesce_window_ms"`
	HistoryLimit                int      `mapstructure:"history_limit"`
	RequestTimeoutMs            int      `mapstructure:"request_timeout_ms"`
	Retries                     int      `mapstructure:"retries"`
	DebugLogging                bool     `mapstructure:"debug_logging"`
}

const (
	DefaultGraduationThreshold = 30_000_000_000 // 30 SOL in lamports
	DefaultMarketCapTTLMs      = 15_000
	DefaultCoalesceWindowMs    = 10_000
	DefaultHistoryLimit        = 1000
	DefaultRequestTimeoutMs    = 5_000
	DefaultRetries             = 3
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"graduation_threshold_lamports": DefaultGraduationThreshold,
		"marketcap_ttl_ms":              DefaultMarketCapTTLMs,
		"coalesce_window_ms":            DefaultCoalesceWindowMs,
		"history_limit":                 DefaultHistoryLimit,
		"request_timeout_ms":            DefaultRequestTimeoutMs,
		"retries":                       DefaultRetries,
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	loadEnvironmentVariables(v, &cfg)

	return &cfg, validateConfig(&cfg)
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) {
	v.SetEnvPrefix("LAUNCHPAD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if rpc := v.GetString("rpc_url"); rpc != "" && len(cfg.RPCList) == 0 {
		cfg.RPCList = []string{rpc}
	}
	if oracleURL := v.GetString("oracle_url"); oracleURL != "" {
		cfg.OracleURL = oracleURL
	}
}

func validateConfig(cfg *Config) error {
	if len(cfg.RPCList) == 0 {
		return errors.New("rpc_list is empty")
	}
	for _, endpoint := range cfg.RPCList {
		if err := validateHTTPURL(endpoint); err != nil {
			return err
		}
	}
	if cfg.OracleURL != "" {
		if err := validateHTTPURL(cfg.OracleURL); err != nil {
			return err
		}
	}
	if cfg.QuoteServiceURL != "" {
		if err := validateHTTPURL(cfg.QuoteServiceURL); err != nil {
			return err
		}
	}
	if cfg.GraduationThresholdLamports == 0 {
		return errors.New("graduation_threshold_lamports must be positive")
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("invalid URL: " + raw)
	}
	return nil
}
