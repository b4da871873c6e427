package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"datachat-resultview/internal/kafka"

	"github.com/cenkalti/backoff"
	"github.com/rs/zerolog/log"
)

type AnswerIngestService interface {
	Run(ctx context.Context, wg *sync.WaitGroup)
}

type answerIngestService struct {
	consumer kafka.AnswerConsumer
	results  ResultService
	newRetry func() backoff.BackOff
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewAnswerIngestService returns nil when there is no consumer, i.e. Kafka is
// not configured.
func NewAnswerIngestService(consumer kafka.AnswerConsumer, results ResultService) AnswerIngestService {
	if consumer == nil {
		return nil
	}
	return &answerIngestService{
		consumer: consumer,
		results:  results,
		newRetry: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 500 * time.Millisecond
			b.MaxInterval = 30 * time.Second
			b.MaxElapsedTime = 0 // Never give up
			return b
		},
		sleep: sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Run registers every answer read from Kafka and commits it once the view
// exists. Fetch errors back off exponentially.
func (s *answerIngestService) Run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	log.Info().Msg("Starting Answer Ingest Service loop...")

	retry := s.newRetry()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Answer Ingest Service loop stopping due to context cancellation.")
			return
		default:
		}

		err := s.processOne(ctx)
		if err == nil {
			retry.Reset()
			continue
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			if ctx.Err() != nil {
				log.Info().Msg("Context cancelled while ingesting answers.")
				return
			}
		}

		wait := retry.NextBackOff()
		if wait == backoff.Stop {
			wait = time.Second
		}
		log.Error().Err(err).Dur("retry_in", wait).Msg("Error ingesting answer")
		if s.sleep(ctx, wait) != nil {
			return
		}
	}
}

func (s *answerIngestService) processOne(ctx context.Context) error {
	answer, msg, err := s.consumer.FetchAnswer(ctx)
	if err != nil {
		return err
	}

	resp, err := s.results.Register(ctx, answer.ResultId, answer.Payload)
	if err != nil {
		if errors.Is(err, ErrInvalidRequest) {
			// Redelivery cannot fix a bad message; commit it and move on.
			log.Warn().Err(err).Int64("offset", msg.Offset).Msg("Skipping invalid answer")
			return s.consumer.CommitMessages(ctx, msg)
		}
		return err
	}

	if err := s.consumer.CommitMessages(ctx, msg); err != nil {
		return err
	}
	log.Debug().Str("result_id", resp.ResultId).Int64("offset", msg.Offset).Msg("Ingested answer")
	return nil
}
