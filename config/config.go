package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Log    LogConfig
	Result ResultConfig
	Table  TableConfig
	Chart  ChartConfig
	Kafka  KafkaConfig
}

type ServerConfig struct {
	Port string
}

type LogConfig struct {
	Level string
}

type ResultConfig struct {
	TTL              time.Duration // Idle time before a result view is evicted
	EvictionSchedule string
	MaxPayloadBytes  int
}

type TableConfig struct {
	SearchDebounce time.Duration
	RowHeight      float64
	Overscan       int
}

type ChartConfig struct {
	DefaultKind     string
	DefaultIndexKey string
	Width           int
	Height          int
}

type KafkaConfig struct {
	Brokers       []string // Empty disables answer ingestion and result events
	AnswerTopic   string
	EventTopic    string
	ConsumerGroup string
}

func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("RESULT_TTL", "30m")
	viper.SetDefault("RESULT_EVICTION_SCHEDULE", "0 */5 * * * *") // Every 5 minutes
	viper.SetDefault("RESULT_MAX_PAYLOAD_BYTES", 10<<20)          // 10MiB
	viper.SetDefault("TABLE_SEARCH_DEBOUNCE", "300ms")
	viper.SetDefault("TABLE_ROW_HEIGHT", 36)
	viper.SetDefault("TABLE_OVERSCAN", 10)
	viper.SetDefault("CHART_DEFAULT_KIND", "bar")
	viper.SetDefault("CHART_DEFAULT_INDEX_KEY", "branch_name")
	viper.SetDefault("CHART_WIDTH", 1024)
	viper.SetDefault("CHART_HEIGHT", 512)
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_ANSWER_TOPIC", "chatbot_answers")
	viper.SetDefault("KAFKA_EVENT_TOPIC", "result_events")
	viper.SetDefault("KAFKA_CONSUMER_GROUP", "result_view_service")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Log.Level = viper.GetString("LOG_LEVEL")

	// --- Result views ---
	config.Result.TTL = viper.GetDuration("RESULT_TTL")
	config.Result.EvictionSchedule = viper.GetString("RESULT_EVICTION_SCHEDULE")
	config.Result.MaxPayloadBytes = viper.GetInt("RESULT_MAX_PAYLOAD_BYTES")

	// --- Table ---
	config.Table.SearchDebounce = viper.GetDuration("TABLE_SEARCH_DEBOUNCE")
	config.Table.RowHeight = viper.GetFloat64("TABLE_ROW_HEIGHT")
	config.Table.Overscan = viper.GetInt("TABLE_OVERSCAN")

	// --- Chart ---
	config.Chart.DefaultKind = viper.GetString("CHART_DEFAULT_KIND")
	config.Chart.DefaultIndexKey = viper.GetString("CHART_DEFAULT_INDEX_KEY")
	config.Chart.Width = viper.GetInt("CHART_WIDTH")
	config.Chart.Height = viper.GetInt("CHART_HEIGHT")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.AnswerTopic = viper.GetString("KAFKA_ANSWER_TOPIC")
	config.Kafka.EventTopic = viper.GetString("KAFKA_EVENT_TOPIC")
	config.Kafka.ConsumerGroup = viper.GetString("KAFKA_CONSUMER_GROUP")

	log.Info().Interface("config", config).Msg("Config loaded")
	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
