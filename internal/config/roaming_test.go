package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRoamingConfig(t *testing.T) {
	cfg := DefaultRoamingConfig()
	assert.Equal(t, 1000, cfg.Generator.CallCountMin)
	assert.Equal(t, 2000, cfg.Generator.CallCountMax)
	assert.Equal(t, 5*time.Hour, cfg.Generator.MaxCallDuration)
	assert.Equal(t, "Europe/Moscow", cfg.Generator.Timezone)
	assert.Equal(t, "reports", cfg.Report.Dir)
	assert.NoError(t, validateRoamingConfig(cfg))
}

func TestStaticHolder_ReturnsStoredConfig(t *testing.T) {
	cfg := DefaultRoamingConfig()
	cfg.Generator.CallCountMin = 10
	cfg.Generator.CallCountMax = 10

	holder, err := NewStaticRoamingConfigHolder(cfg)
	assert.NoError(t, err)
	assert.Equal(t, cfg, holder.Get())
}

func TestValidateRoamingConfig(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RoamingConfig)
		ok     bool
	}{
		{"defaults", func(*RoamingConfig) {}, true},
		{"min and max equal", func(c *RoamingConfig) {
			c.Generator.CallCountMin = 5
			c.Generator.CallCountMax = 5
		}, true},
		{"zero min", func(c *RoamingConfig) { c.Generator.CallCountMin = 0 }, false},
		{"max below min", func(c *RoamingConfig) {
			c.Generator.CallCountMin = 100
			c.Generator.CallCountMax = 99
		}, false},
		{"zero duration", func(c *RoamingConfig) { c.Generator.MaxCallDuration = 0 }, false},
		{"negative duration", func(c *RoamingConfig) { c.Generator.MaxCallDuration = -time.Hour }, false},
		{"unknown timezone", func(c *RoamingConfig) { c.Generator.Timezone = "Mars/Olympus" }, false},
		{"blank report dir", func(c *RoamingConfig) { c.Report.Dir = "   " }, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultRoamingConfig()
			tc.mutate(&cfg)
			err := validateRoamingConfig(cfg)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestStaticHolder_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultRoamingConfig()
	cfg.Generator.CallCountMin = 0

	_, err := NewStaticRoamingConfigHolder(cfg)
	assert.Error(t, err)
}
