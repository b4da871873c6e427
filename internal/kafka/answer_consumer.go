package kafka

import (
	"context"
	"datachat-resultview/config"
	"datachat-resultview/internal/model"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
	"go.uber.org/fx"
)

type AnswerConsumer interface {
	FetchAnswer(ctx context.Context) (*model.Answer, kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaAnswerConsumer struct {
	reader *kafka.Reader
}

// NewKafkaAnswerConsumer returns nil when no brokers are configured.
func NewKafkaAnswerConsumer(lc fx.Lifecycle, cfg *config.Config) (AnswerConsumer, error) {
	if !cfg.Kafka.Enabled() {
		log.Warn().Msg("Kafka brokers not configured, answer ingestion disabled")
		return nil, nil
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		GroupID:        cfg.Kafka.ConsumerGroup,
		Topic:          cfg.Kafka.AnswerTopic,
		MinBytes:       1,
		MaxBytes:       cfg.Result.MaxPayloadBytes,
		MaxWait:        time.Second,
		CommitInterval: 0,
		StartOffset:    kafka.LastOffset,
	})
	c := &kafkaAnswerConsumer{
		reader: reader,
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Str("group", cfg.Kafka.ConsumerGroup).Msg("Closing Kafka answer consumer")
			return c.Close()
		},
	})
	log.Info().
		Strs("brokers", cfg.Kafka.Brokers).
		Str("topic", cfg.Kafka.AnswerTopic).
		Str("group", cfg.Kafka.ConsumerGroup).
		Msg("Kafka answer consumer initialized")
	return c, nil
}

// FetchAnswer maps a message to an answer: the key names the result view,
// the value is the raw payload.
func (c *kafkaAnswerConsumer) FetchAnswer(ctx context.Context) (*model.Answer, kafka.Message, error) {
	msg, err := c.reader.FetchMessage(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Fail when fetching Kafka message.")
		return nil, kafka.Message{}, err
	}
	log.Debug().
		Str("topic", msg.Topic).
		Int("partition", msg.Partition).
		Int64("offset", msg.Offset).
		Msg("Fetched answer from Kafka")
	return &model.Answer{ResultId: string(msg.Key), Payload: msg.Value}, msg, nil
}

func (c *kafkaAnswerConsumer) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	err := c.reader.CommitMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Int("count", len(msgs)).Msg("Failed to commit Kafka messages")
		return err
	}
	log.Debug().Int("count", len(msgs)).Int64("last_offset", msgs[len(msgs)-1].Offset).Msg("Committed Kafka messages")
	return nil
}

func (c *kafkaAnswerConsumer) Close() error {
	return c.reader.Close()
}
