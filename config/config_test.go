package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 30*time.Minute, cfg.Result.TTL)
	assert.Equal(t, 10<<20, cfg.Result.MaxPayloadBytes)
	assert.Equal(t, 300*time.Millisecond, cfg.Table.SearchDebounce)
	assert.Equal(t, 36.0, cfg.Table.RowHeight)
	assert.Equal(t, "branch_name", cfg.Chart.DefaultIndexKey)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("TABLE_SEARCH_DEBOUNCE", "50ms")
	t.Setenv("CHART_DEFAULT_KIND", "line")

	cfg, err := NewConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 50*time.Millisecond, cfg.Table.SearchDebounce)
	assert.Equal(t, "line", cfg.Chart.DefaultKind)
}
