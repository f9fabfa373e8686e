package config

import "time"

// APIConfig contains the upstream alerts and schedules API configuration
type APIConfig struct {
	BaseURL   string `yaml:"baseURL" validate:"required,url"`
	Key       string `yaml:"key"`
	TimeoutMS int    `yaml:"timeoutMS" validate:"gt=0"`
	PageLimit int    `yaml:"pageLimit" validate:"gt=0"`

	// AlertsFeedURL, when set, reads alerts from a GTFS-RT ServiceAlerts feed
	// instead of the alerts endpoint. Schedules still come from BaseURL.
	AlertsFeedURL string `yaml:"alertsFeedURL" validate:"omitempty,url"`
}

// Timeout returns TimeoutMS as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// OutputConfig selects where feeds are published. A bucket takes precedence
// over the directory.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
}

// ConverterConfig contains converter-specific configuration
type ConverterConfig struct {
	Timezone         string `yaml:"timezone" validate:"required,timezone"`
	MergePolicy      string `yaml:"mergePolicy" validate:"oneof=latest union"`
	QueryConcurrency int    `yaml:"queryConcurrency" validate:"gte=1,lte=64"`
}

// Location loads the agency timezone.
func (c ConverterConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

// MetricsConfig contains run metrics settings. Metrics are pushed only when
// PushgatewayURL is set.
type MetricsConfig struct {
	PushgatewayURL string `yaml:"pushgatewayURL" validate:"omitempty,url"`
	Job            string `yaml:"job" validate:"required"`
}

// AppConfig is the root configuration structure
type AppConfig struct {
	API       APIConfig       `yaml:"api"`
	Output    OutputConfig    `yaml:"output"`
	Converter ConverterConfig `yaml:"converter"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}
