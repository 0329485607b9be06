package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songpengyi/enertalk-alwayson-calculator/core/baseline"
	"github.com/songpengyi/enertalk-alwayson-calculator/core/factory"
)

func TestBuiltinTypes(t *testing.T) {
	types := Types()
	assert.Subset(t, types["provider"], []string{"enertalk", "influx", "static"})
	assert.Subset(t, types["filter"], []string{"consistency", "daily_minimum", "sleep_window"})
	assert.Subset(t, types["sink"], []string{"influx", "mqtt", "nop", "prometheus"})
}

func TestUnknownTypes(t *testing.T) {
	_, err := NewProvider(factory.ModuleConfig{Type: "carrier-pigeon"})
	assert.ErrorIs(t, err, baseline.ErrConfiguration)
	assert.ErrorIs(t, err, factory.ErrUnknownType)

	_, err = NewSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "paper"}})
	assert.ErrorIs(t, err, baseline.ErrConfiguration)

	_, err = NewFilters([]factory.ModuleConfig{{Type: "median"}})
	assert.ErrorIs(t, err, baseline.ErrConfiguration)
}

func TestStaticProvider(t *testing.T) {
	p, err := NewProvider(factory.ModuleConfig{Type: "static"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	filters, err := NewFilters(nil)
	require.NoError(t, err)
	assert.Len(t, filters, 3)
}
