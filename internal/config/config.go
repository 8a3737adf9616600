// Package config holds the configuration of the dashboard service.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/config"
	"github.com/Paaanciitoo/admin-ecommerce/internal/platform/config/configloader"
	"github.com/Paaanciitoo/admin-ecommerce/internal/revenue"
)

var _ configloader.Validator = (*Config)(nil)

type Config struct {
	HTTPServer config.HTTPConfig      `koanf:"server"`
	Metrics    config.MetricsConfig   `koanf:"metrics"`
	Database   config.DatabaseConfig  `koanf:"database"`
	Log        config.LogConfig       `koanf:"log"`
	PProf      config.PProfConfig     `koanf:"pprof"`
	Shutdown   config.ShutdownConfig  `koanf:"shutdown"`
	Telemetry  config.TelemetryConfig `koanf:"telemetry"`
	Cache      config.CacheConfig     `koanf:"cache"`
	Dashboard  DashboardConfig        `koanf:"dashboard"`
}

// DashboardConfig controls how calendar boundaries and month names are computed.
type DashboardConfig struct {
	// Timezone is an IANA name; empty means the process local time zone.
	Timezone string `koanf:"timezone"`
	// Locale selects the month names of the revenue graph.
	Locale string `koanf:"locale"`
}

// Location resolves Timezone.
func (c *DashboardConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid dashboard timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// MonthNames resolves Locale, defaulting to es-CL.
func (c *DashboardConfig) MonthNames() (revenue.MonthNames, error) {
	if c.Locale == "" {
		return revenue.MonthNamesFor(revenue.DefaultLocale)
	}
	return revenue.MonthNamesFor(c.Locale)
}

func (c *DashboardConfig) String() string {
	var b strings.Builder
	b.WriteString("\n--- Dashboard ---\n")
	b.WriteString(fmt.Sprintf("  timezone: %s\n", c.Timezone))
	b.WriteString(fmt.Sprintf("  locale: %s\n", c.Locale))
	return b.String()
}

func (c *DashboardConfig) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.MonthNames(); err != nil {
		return err
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString(c.HTTPServer.String())
	b.WriteString(c.Metrics.String())
	b.WriteString(c.Database.String())
	b.WriteString(c.Log.String())
	b.WriteString(c.PProf.String())
	b.WriteString(c.Shutdown.String())
	b.WriteString(c.Telemetry.String())
	b.WriteString(c.Cache.String())
	b.WriteString(c.Dashboard.String())
	return b.String()
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	validators := []configloader.Validator{
		&c.HTTPServer,
		&c.Metrics,
		&c.Database,
		&c.Log,
		&c.PProf,
		&c.Shutdown,
		&c.Telemetry,
		&c.Cache,
		&c.Dashboard,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}
