package pipeline_test

import (
	"testing"

	"github.com/dargueta/pzip"
	"github.com/dargueta/pzip/pipeline"
	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := pipeline.DefaultConfig()
	assert.Equal(t, 1000000, config.PageSize)
	assert.Equal(t, 10, config.QueueCapacity)
	assert.GreaterOrEqual(t, config.Workers, 1)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		Name   string
		Modify func(*pipeline.Config)
	}{
		{"zero page size", func(c *pipeline.Config) { c.PageSize = 0 }},
		{"page size too large", func(c *pipeline.Config) { c.PageSize = 1 << 33 }},
		{"zero capacity", func(c *pipeline.Config) { c.QueueCapacity = 0 }},
		{"zero workers", func(c *pipeline.Config) { c.Workers = 0 }},
	}

	for _, test := range tests {
		t.Run(
			test.Name,
			func(t *testing.T) {
				config := pipeline.DefaultConfig()
				test.Modify(&config)
				assert.ErrorIs(t, config.Validate(), pzip.ErrInvalidArgument)
			},
		)
	}
}
