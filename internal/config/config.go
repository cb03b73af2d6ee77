// README: Config loader (viper) and global logger setup for all pipelines.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	AI        AIConfig        `yaml:"ai" mapstructure:"ai"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	Lookup    LookupConfig    `yaml:"lookup" mapstructure:"lookup"`
	Providers ProvidersConfig `yaml:"providers" mapstructure:"providers"`
	Itinerary ItineraryConfig `yaml:"itinerary" mapstructure:"itinerary"`
	Safety    SafetyConfig    `yaml:"safety" mapstructure:"safety"`
	Pipeline  PipelineConfig  `yaml:"pipeline" mapstructure:"pipeline"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// HTTPConfig configures the API server.
type HTTPConfig struct {
	Addr           string `yaml:"addr" mapstructure:"addr"`
	RequestTimeout int    `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

// AIConfig holds the Gemini chat settings.
type AIConfig struct {
	GeminiKey   string  `yaml:"gemini_key" mapstructure:"gemini_key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	Temperature float32 `yaml:"temperature" mapstructure:"temperature"`
}

// RedisConfig configures the optional lookup cache. Empty Addr disables it.
type RedisConfig struct {
	Addr        string `yaml:"addr" mapstructure:"addr"`
	CacheTTLMin int    `yaml:"cache_ttl_min" mapstructure:"cache_ttl_min"`
}

// LookupConfig holds keys and endpoints for the live safety data sources.
type LookupConfig struct {
	SafeBrowsingKey string `yaml:"safe_browsing_key" mapstructure:"safe_browsing_key"`
	MapsKey         string `yaml:"maps_key" mapstructure:"maps_key"`
	OpenWeatherKey  string `yaml:"openweather_key" mapstructure:"openweather_key"`
	RDAPBaseURL     string `yaml:"rdap_base_url" mapstructure:"rdap_base_url"`
	AdvisoryBaseURL string `yaml:"advisory_base_url" mapstructure:"advisory_base_url"`
	TimeoutSecs     int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ProvidersConfig holds flight/hotel provider credentials.
type ProvidersConfig struct {
	AmadeusBaseURL      string `yaml:"amadeus_base_url" mapstructure:"amadeus_base_url"`
	AmadeusClientID     string `yaml:"amadeus_client_id" mapstructure:"amadeus_client_id"`
	AmadeusClientSecret string `yaml:"amadeus_client_secret" mapstructure:"amadeus_client_secret"`
	DuffelToken         string `yaml:"duffel_token" mapstructure:"duffel_token"`
	RapidAPIKey         string `yaml:"rapidapi_key" mapstructure:"rapidapi_key"`
	TimeoutSecs         int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ItineraryConfig holds the deterministic routing/scheduling tunables.
type ItineraryConfig struct {
	SpeedKmh          float64 `yaml:"speed_kmh" mapstructure:"speed_kmh"`
	MinTravelMinutes  int     `yaml:"min_travel_minutes" mapstructure:"min_travel_minutes"`
	DefaultTravelMins int     `yaml:"default_travel_minutes" mapstructure:"default_travel_minutes"`
	BufferMinutes     int     `yaml:"buffer_minutes" mapstructure:"buffer_minutes"`
	DefaultDwellMins  int     `yaml:"default_dwell_minutes" mapstructure:"default_dwell_minutes"`
	StartTime         string  `yaml:"start_time" mapstructure:"start_time"`
}

// SafetyConfig holds the risk-scoring thresholds. The spam and cheap-price
// thresholds come from empirically tuned values; keep the defaults unless a
// dataset says otherwise.
type SafetyConfig struct {
	SpamRepeatThreshold int     `yaml:"spam_repeat_threshold" mapstructure:"spam_repeat_threshold"`
	CheapRatio          float64 `yaml:"cheap_ratio" mapstructure:"cheap_ratio"`
	YoungDomainDays     int     `yaml:"young_domain_days" mapstructure:"young_domain_days"`
	MaxConcurrentChecks int     `yaml:"max_concurrent_checks" mapstructure:"max_concurrent_checks"`
}

// PipelineConfig holds per-phase retry budgets.
type PipelineConfig struct {
	PlannerAttempts   int `yaml:"planner_attempts" mapstructure:"planner_attempts"`
	OptimizerAttempts int `yaml:"optimizer_attempts" mapstructure:"optimizer_attempts"`
	RankerAttempts    int `yaml:"ranker_attempts" mapstructure:"ranker_attempts"`
	RepairAttempts    int `yaml:"repair_attempts" mapstructure:"repair_attempts"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from an optional config file and the environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("WAYFARER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.request_timeout_secs", 90)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0.4)
	v.SetDefault("redis.cache_ttl_min", 15)
	v.SetDefault("lookup.rdap_base_url", "https://rdap.org")
	v.SetDefault("lookup.advisory_base_url", "https://www.travel-advisory.info")
	v.SetDefault("lookup.timeout_secs", 10)
	v.SetDefault("providers.amadeus_base_url", "https://test.api.amadeus.com")
	v.SetDefault("providers.timeout_secs", 25)
	v.SetDefault("itinerary.speed_kmh", 22.0)
	v.SetDefault("itinerary.min_travel_minutes", 5)
	v.SetDefault("itinerary.default_travel_minutes", 15)
	v.SetDefault("itinerary.buffer_minutes", 10)
	v.SetDefault("itinerary.default_dwell_minutes", 45)
	v.SetDefault("itinerary.start_time", "09:00")
	v.SetDefault("safety.spam_repeat_threshold", 3)
	v.SetDefault("safety.cheap_ratio", 0.5)
	v.SetDefault("safety.young_domain_days", 90)
	v.SetDefault("safety.max_concurrent_checks", 5)
	v.SetDefault("pipeline.planner_attempts", 3)
	v.SetDefault("pipeline.optimizer_attempts", 2)
	v.SetDefault("pipeline.ranker_attempts", 2)
	v.SetDefault("pipeline.repair_attempts", 1)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// GEMINI_API_KEY is the conventional name for the key; accept it as an
	// alias so a plain .env works without the WAYFARER_ prefix.
	_ = v.BindEnv("ai.gemini_key", "WAYFARER_AI_GEMINI_KEY", "GEMINI_API_KEY")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return fmt.Errorf("config: parse log level: %w", err)
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return fmt.Errorf("config: build logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	return nil
}
