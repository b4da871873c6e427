package kafka

import (
	"context"
	"datachat-resultview/config"
	"datachat-resultview/internal/model"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type ResultEventProducer interface {
	Produce(ctx context.Context, events ...model.ResultEvent) error
	Close() error
}

type kafkaResultEventProducer struct {
	writer *kafka.Writer
	topic  string
}

// NewKafkaResultEventProducer returns nil when no brokers are configured.
func NewKafkaResultEventProducer(lc fx.Lifecycle, cfg *config.Config) (ResultEventProducer, error) {
	if !cfg.Kafka.Enabled() || cfg.Kafka.EventTopic == "" {
		log.Warn().Msg("Kafka brokers or event topic not configured, result events disabled")
		return nil, nil
	}
	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:      cfg.Kafka.Brokers,
		Topic:        cfg.Kafka.EventTopic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	})
	p := &kafkaResultEventProducer{
		writer: writer,
		topic:  cfg.Kafka.EventTopic,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Closing Kafka result event producer")
			return p.Close()
		},
	})
	log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.EventTopic).Msg("Kafka result event producer initialized")
	return p, nil
}

func (p *kafkaResultEventProducer) Produce(ctx context.Context, events ...model.ResultEvent) error {
	if len(events) == 0 {
		return nil
	}
	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(event)
		if err != nil {
			log.Error().Err(err).Str("result_id", event.ResultId).Msg("Failed to marshal result event for Kafka")
			continue
		}
		messages = append(messages, kafka.Message{
			Key:   []byte(event.ResultId),
			Value: value,
		})
	}
	if len(messages) == 0 {
		log.Warn().Msg("No valid messages to produce.")
		return nil
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		log.Error().Err(err).Int("message_count", len(messages)).Msg("Failed to write messages to Kafka")
		return err
	}
	log.Debug().Int("message_count", len(messages)).Str("topic", p.topic).Msg("Produced result events to Kafka")
	return nil
}

func (p *kafkaResultEventProducer) Close() error {
	return p.writer.Close()
}
