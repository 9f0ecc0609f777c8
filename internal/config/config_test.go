package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 15, cfg.Analysis.SessionGapMinutes)
	assert.Equal(t, "score", cfg.Analysis.Metric)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "gap too small", mutate: func(c *Config) { c.Analysis.SessionGapMinutes = 0 }, wantErr: true},
		{name: "gap too large", mutate: func(c *Config) { c.Analysis.SessionGapMinutes = 500 }, wantErr: true},
		{name: "acc metric", mutate: func(c *Config) { c.Analysis.Metric = "acc" }},
		{name: "unknown metric", mutate: func(c *Config) { c.Analysis.Metric = "ttk" }, wantErr: true},
		{name: "negative import cap", mutate: func(c *Config) { c.Stats.MaxImport = -1 }, wantErr: true},
		{name: "bad port", mutate: func(c *Config) { c.API.Port = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
