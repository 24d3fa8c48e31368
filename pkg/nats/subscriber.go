package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JobHandler processes one sync job. Returning an error triggers a redelivery
// with backoff, up to the consumer's MaxDeliver budget.
type JobHandler func(ctx context.Context, job SyncJobMessage) error

// Subscriber runs the durable sync worker consumer.
type Subscriber struct {
	nc  *nats.Conn
	js  jetstream.JetStream
	cfg QueueConfig

	consumeCtx jetstream.ConsumeContext
}

func NewSubscriber(cfg QueueConfig) (*Subscriber, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Subscriber{nc: nc, js: js, cfg: cfg}, nil
}

// Start registers the durable consumer and begins processing. At-least-once
// delivery: the handler must be idempotent.
func (s *Subscriber) Start(handler JobHandler) error {
	ctx := context.Background()

	maxDeliver := s.cfg.MaxAttempts
	if maxDeliver <= 0 {
		maxDeliver = 5
	}

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, s.cfg.Stream, jetstream.ConsumerConfig{
		Durable:       s.cfg.Durable,
		FilterSubject: s.cfg.Subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    maxDeliver,
		AckWait:       1 * time.Hour, // transcription of long audio is slow
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		var job SyncJobMessage
		if err := json.Unmarshal(msg.Data(), &job); err != nil {
			log.Printf("Dropping malformed sync job: %v", err)
			msg.Term()
			return
		}

		if err := handler(context.Background(), job); err != nil {
			log.Printf("Sync job %s failed: %v", job.JobId, err)
			msg.NakWithDelay(s.backoff(msg))
			return
		}
		msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	s.consumeCtx = consumeCtx
	log.Printf("Sync worker consuming %s (durable %s, max attempts %d)", s.cfg.Subject, s.cfg.Durable, maxDeliver)
	return nil
}

// backoff grows exponentially with the delivery count: 30s, 1m, 2m, 4m, ...
func (s *Subscriber) backoff(msg jetstream.Msg) time.Duration {
	delay := 30 * time.Second
	if meta, err := msg.Metadata(); err == nil {
		for i := uint64(1); i < meta.NumDelivered && delay < 10*time.Minute; i++ {
			delay *= 2
		}
	}
	return delay
}

func (s *Subscriber) Close() {
	if s.consumeCtx != nil {
		s.consumeCtx.Stop()
	}
	if s.nc != nil {
		s.nc.Close()
	}
}
