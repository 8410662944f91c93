package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// GeneratorConfig bounds the synthetic call generator. CallCountMin and
// CallCountMax are both inclusive; MaxCallDuration is the upper bound of the
// (0, max] duration draw. Timezone applies to the generation window and every
// generated instant alike.
type GeneratorConfig struct {
	CallCountMin    int           `mapstructure:"callCountMin"`
	CallCountMax    int           `mapstructure:"callCountMax"`
	MaxCallDuration time.Duration `mapstructure:"maxCallDuration"`
	Timezone        string        `mapstructure:"timezone"`
}

type ReportConfig struct {
	Dir string `mapstructure:"dir"`
}

type RoamingConfig struct {
	Generator GeneratorConfig `mapstructure:"generator"`
	Report    ReportConfig    `mapstructure:"report"`
}

func DefaultRoamingConfig() RoamingConfig {
	return RoamingConfig{
		Generator: GeneratorConfig{
			CallCountMin:    1000,
			CallCountMax:    2000,
			MaxCallDuration: 5 * time.Hour,
			Timezone:        "Europe/Moscow",
		},
		Report: ReportConfig{
			Dir: "reports",
		},
	}
}

// RoamingConfigHolder keeps the active roaming profile behind an atomic
// swap so reloads never race in-flight generation runs.
type RoamingConfigHolder struct {
	current atomic.Value // holds RoamingConfig
}

func NewRoamingConfigHolder() (*RoamingConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("roaming")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/roamagg/config")
	v.AddConfigPath("/etc/roamagg")
	v.AddConfigPath(".")

	v.SetEnvPrefix("ROAMAGG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRoamingConfig()
	v.SetDefault("roaming.generator.callCountMin", defaults.Generator.CallCountMin)
	v.SetDefault("roaming.generator.callCountMax", defaults.Generator.CallCountMax)
	v.SetDefault("roaming.generator.maxCallDuration", defaults.Generator.MaxCallDuration)
	v.SetDefault("roaming.generator.timezone", defaults.Generator.Timezone)
	v.SetDefault("roaming.report.dir", defaults.Report.Dir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg RoamingConfig
	if err := v.UnmarshalKey("roaming", &cfg); err != nil {
		return nil, err
	}
	if err := validateRoamingConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RoamingConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RoamingConfig
		if err := v.UnmarshalKey("roaming", &updated); err != nil {
			log.Printf("[roaming-config] reload failed: %v", err)
			return
		}
		if err := validateRoamingConfig(updated); err != nil {
			log.Printf("[roaming-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[roaming-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRoamingConfigHolder wraps a fixed profile, bypassing file watch.
func NewStaticRoamingConfigHolder(cfg RoamingConfig) (*RoamingConfigHolder, error) {
	if err := validateRoamingConfig(cfg); err != nil {
		return nil, err
	}
	holder := &RoamingConfigHolder{}
	holder.current.Store(cfg)
	return holder, nil
}

func (h *RoamingConfigHolder) Get() RoamingConfig {
	return h.current.Load().(RoamingConfig)
}

func validateRoamingConfig(cfg RoamingConfig) error {
	if cfg.Generator.CallCountMin < 1 {
		return errors.New("roaming.generator.callCountMin must be at least 1")
	}
	if cfg.Generator.CallCountMax < cfg.Generator.CallCountMin {
		return errors.New("roaming.generator.callCountMax must not be below callCountMin")
	}
	if cfg.Generator.MaxCallDuration <= 0 {
		return errors.New("roaming.generator.maxCallDuration must be positive")
	}
	if _, err := time.LoadLocation(cfg.Generator.Timezone); err != nil {
		return fmt.Errorf("roaming.generator.timezone: %w", err)
	}
	if strings.TrimSpace(cfg.Report.Dir) == "" {
		return errors.New("roaming.report.dir cannot be empty")
	}
	return nil
}
