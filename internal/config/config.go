package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "HANKO_WEB"

// Config is the runtime configuration of the web server.
type Config struct {
	Addr            string        `mapstructure:"addr"`
	Env             string        `mapstructure:"env"`
	Dev             bool          `mapstructure:"dev"`
	LogLevel        string        `mapstructure:"log_level"`
	SiteConfig      string        `mapstructure:"site_config"`
	DefaultLocale   string        `mapstructure:"default_locale"`
	Locales         []string      `mapstructure:"locales"`
	H2C             bool          `mapstructure:"h2c"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	GAMeasurementID string `mapstructure:"ga_measurement_id"`
	GTMContainerID  string `mapstructure:"gtm_container_id"`
	AnalyticsDebug  bool   `mapstructure:"analytics_debug"`
}

// IsProd reports whether HANKO_WEB_ENV=prod.
func (c Config) IsProd() bool { return strings.EqualFold(c.Env, "prod") }

// Load merges defaults, an optional hanko-web.yaml, HANKO_WEB_* env vars and
// flags, in increasing precedence. flags may be nil.
func Load(flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":"+defaultPort())
	v.SetDefault("env", "dev")
	v.SetDefault("dev", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("site_config", "")
	v.SetDefault("default_locale", "en")
	v.SetDefault("locales", []string{"en", "ja"})
	v.SetDefault("h2c", false)
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("ga_measurement_id", "")
	v.SetDefault("gtm_container_id", "")
	v.SetDefault("analytics_debug", false)

	v.SetConfigName("hanko-web")
	v.SetConfigType("yaml")
	if override := os.Getenv(envPrefix + "_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("config"); f != nil && f.Value.String() != "" {
			v.SetConfigFile(f.Value.String())
		}
		for _, name := range []string{"addr", "dev", "site-config", "log-level", "h2c"} {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(strings.ReplaceAll(name, "-", "_"), f); err != nil {
					return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	// DEV is honoured as a shorthand, as in local scripts.
	if os.Getenv("DEV") != "" {
		cfg.Dev = true
	}
	if cfg.Addr == "" {
		cfg.Addr = ":" + defaultPort()
	}
	return cfg, nil
}

// defaultPort prefers HANKO_WEB_PORT, then Cloud Run's PORT, else 8080.
func defaultPort() string {
	if p := os.Getenv(envPrefix + "_PORT"); p != "" {
		return p
	}
	if p := os.Getenv("PORT"); p != "" {
		return p
	}
	return "8080"
}
