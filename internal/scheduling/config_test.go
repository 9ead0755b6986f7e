package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsSumToOne(t *testing.T) {
	assert.InDelta(t, 1.0, DefaultWeights().Sum(), weightTolerance)
	require.NoError(t, DefaultWeights().Validate())
}

func TestWeightsValidateRejectsNegative(t *testing.T) {
	weights := DefaultWeights()
	weights.Travel = -0.15
	weights.Compatibility += 0.30
	assert.Error(t, weights.Validate())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cases := map[string]func(*Config){
		"zero slot interval":   func(c *Config) { c.SlotIntervalMinutes = 0 },
		"zero session":         func(c *Config) { c.SessionMinutes = 0 },
		"inverted window":      func(c *Config) { c.ServiceWindowEnd = c.ServiceWindowStart },
		"zero speed":           func(c *Config) { c.BaselineSpeedKmh = 0 },
		"fractional rush":      func(c *Config) { c.RushHourMultiplier = 0.5 },
		"unbalanced weighting": func(c *Config) { c.Weights.Urgency = 0.5 },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestIsRushHour(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IsRushHour(7))
	assert.True(t, cfg.IsRushHour(8))
	assert.False(t, cfg.IsRushHour(9))
	assert.False(t, cfg.IsRushHour(12))
	assert.True(t, cfg.IsRushHour(16))
	assert.True(t, cfg.IsRushHour(17))
	assert.False(t, cfg.IsRushHour(18))
}
