package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log    Logger   `mapstructure:"logger"`
	DB     Database `mapstructure:"database"`
	API    API      `mapstructure:"api"`
	Cache  Cache    `mapstructure:"cache"`
	Market Market   `mapstructure:"market"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Market holds the knobs of the listing-coverage and analysis engine.
type Market struct {
	// Minimum comparable listings a location must hold before analysis.
	MinCoverage int `mapstructure:"min_coverage"`
	// Smaller minimum used when topping up neighbouring bedroom counts.
	NeighbourCoverage int `mapstructure:"neighbour_coverage"`
	// Analyses younger than this are reused instead of recomputed.
	AnalysisMaxAge time.Duration `mapstructure:"analysis_max_age"`
	// Hard cap on the comparable set stored with an analysis.
	ComparableCap int `mapstructure:"comparable_cap"`
	// Cap on the comparables returned for presentation.
	PresentationCap int `mapstructure:"presentation_cap"`
	// A running scrape-job lease older than this is considered dead.
	LeaseTTL time.Duration `mapstructure:"lease_ttl"`
	// Cron spec for the background coverage refresh.
	RefreshCron string `mapstructure:"refresh_cron"`
	// Analyses older than this many days are purged by the cleanup job.
	RetentionDays int `mapstructure:"retention_days"`
}

func Load() (*Config, error) {
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Market.MinCoverage == 0 {
		c.Market.MinCoverage = 15
	}
	if c.Market.NeighbourCoverage == 0 {
		c.Market.NeighbourCoverage = 5
	}
	if c.Market.AnalysisMaxAge == 0 {
		c.Market.AnalysisMaxAge = 7 * 24 * time.Hour
	}
	if c.Market.ComparableCap == 0 {
		c.Market.ComparableCap = 100
	}
	if c.Market.PresentationCap == 0 {
		c.Market.PresentationCap = 20
	}
	if c.Market.LeaseTTL == 0 {
		c.Market.LeaseTTL = 10 * time.Minute
	}
	if c.Market.RefreshCron == "" {
		c.Market.RefreshCron = "0 3 * * *"
	}
	if c.Market.RetentionDays == 0 {
		c.Market.RetentionDays = 90
	}
}
