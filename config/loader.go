package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no configuration file is given and it exists.
const DefaultPath = "config.yml"

// Defaults returns the configuration used for every unset value.
func Defaults() AppConfig {
	return AppConfig{
		API: APIConfig{
			BaseURL:   "https://api-v3.mbta.com",
			TimeoutMS: 30000,
			PageLimit: 500,
		},
		Output: OutputConfig{
			Directory: ".",
		},
		Converter: ConverterConfig{
			Timezone:         "America/New_York",
			MergePolicy:      "latest",
			QueryConcurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Job: "gtfsrt_cancellations",
		},
	}
}

// LoadAppConfig builds the configuration from defaults, the yaml file at path
// and the environment, in increasing order of precedence. A .env file in the
// working directory is loaded into the environment first when present. An
// empty path reads DefaultPath if it exists.
func LoadAppConfig(path string) (AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("loading .env: %w", err)
	}

	cfg := Defaults()

	if path == "" {
		if _, err := os.Stat(DefaultPath); err == nil {
			path = DefaultPath
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return AppConfig{}, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return AppConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return AppConfig{}, err
	}

	if err := Validate(cfg); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg AppConfig) error {
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) error {
	setString(&cfg.API.BaseURL, "API_BASE_URL")
	setString(&cfg.API.Key, "API_KEY")
	setString(&cfg.API.AlertsFeedURL, "ALERTS_FEED_URL")
	if err := setInt(&cfg.API.TimeoutMS, "API_TIMEOUT_MS"); err != nil {
		return err
	}
	if err := setInt(&cfg.API.PageLimit, "API_PAGE_LIMIT"); err != nil {
		return err
	}

	setString(&cfg.Output.Directory, "OUTPUT_DIR")
	setString(&cfg.Output.Bucket, "BUCKET_NAME")
	setString(&cfg.Output.Prefix, "BUCKET_PREFIX")

	setString(&cfg.Converter.Timezone, "AGENCY_TIMEZONE")
	setString(&cfg.Converter.MergePolicy, "MERGE_POLICY")
	if err := setInt(&cfg.Converter.QueryConcurrency, "QUERY_CONCURRENCY"); err != nil {
		return err
	}

	setString(&cfg.Logging.Level, "LOG_LEVEL")
	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	if err := setBool(&cfg.Logging.Pretty, "LOG_PRETTY"); err != nil {
		return err
	}

	setString(&cfg.Metrics.PushgatewayURL, "PUSHGATEWAY_URL")
	setString(&cfg.Metrics.Job, "METRICS_JOB")
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "t", "yes", "y", "on":
		*dst = true
	case "0", "false", "f", "no", "n", "off":
		*dst = false
	default:
		return fmt.Errorf("invalid %s: %q", key, v)
	}
	return nil
}
