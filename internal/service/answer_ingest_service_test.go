package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cenkalti/backoff"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datachat-resultview/internal/model"
	"datachat-resultview/internal/store"
)

type fetchResult struct {
	answer *model.Answer
	msg    kafkaGo.Message
	err    error
}

type fakeConsumer struct {
	mu        sync.Mutex
	queue     []fetchResult
	committed []int64
}

func (c *fakeConsumer) FetchAnswer(ctx context.Context) (*model.Answer, kafkaGo.Message, error) {
	c.mu.Lock()
	if len(c.queue) > 0 {
		next := c.queue[0]
		c.queue = c.queue[1:]
		c.mu.Unlock()
		return next.answer, next.msg, next.err
	}
	c.mu.Unlock()
	<-ctx.Done()
	return nil, kafkaGo.Message{}, ctx.Err()
}

func (c *fakeConsumer) CommitMessages(ctx context.Context, msgs ...kafkaGo.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, m := range msgs {
		c.committed = append(c.committed, m.Offset)
	}
	return nil
}

func (c *fakeConsumer) Close() error { return nil }

func (c *fakeConsumer) commits() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]int64(nil), c.committed...)
}

func TestNewAnswerIngestService_DisabledWithoutConsumer(t *testing.T) {
	assert.Nil(t, NewAnswerIngestService(nil, nil))
}

func TestAnswerIngestService_Run(t *testing.T) {
	cfg := testConfig()
	cfg.Result.MaxPayloadBytes = 200
	results := NewResultService(cfg, store.NewInMemoryResultStore(), nil)

	big := make([]byte, 300)
	for i := range big {
		big[i] = 'x'
	}
	consumer := &fakeConsumer{queue: []fetchResult{
		{answer: &model.Answer{ResultId: "answer-1", Payload: []byte(deposits)}, msg: kafkaGo.Message{Offset: 1}},
		{err: errors.New("broker unavailable")},
		{answer: &model.Answer{Payload: big}, msg: kafkaGo.Message{Offset: 2}},
		{answer: &model.Answer{ResultId: "answer-3", Payload: []byte(`[]`)}, msg: kafkaGo.Message{Offset: 3}},
	}}

	var waits []time.Duration
	var waitsMu sync.Mutex
	svc := NewAnswerIngestService(consumer, results).(*answerIngestService)
	svc.newRetry = func() backoff.BackOff { return &backoff.ConstantBackOff{Interval: time.Millisecond} }
	svc.sleep = func(ctx context.Context, d time.Duration) error {
		waitsMu.Lock()
		waits = append(waits, d)
		waitsMu.Unlock()
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go svc.Run(ctx, &wg)

	assert.Eventually(t, func() bool { return len(consumer.commits()) == 3 }, time.Second, 5*time.Millisecond)
	cancel()
	wg.Wait()

	assert.Equal(t, []int64{1, 2, 3}, consumer.commits(), "invalid answers are committed and skipped")
	waitsMu.Lock()
	assert.Equal(t, []time.Duration{time.Millisecond}, waits)
	waitsMu.Unlock()

	resp, err := results.Get(context.Background(), "answer-1")
	require.NoError(t, err)
	assert.True(t, resp.Snapshot.ChartCompatible)
	_, err = results.Get(context.Background(), "answer-3")
	assert.NoError(t, err)
}
