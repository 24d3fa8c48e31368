package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Publisher submits sync jobs to the durable JetStream work queue.
type Publisher struct {
	nc      *nats.Conn
	js      jetstream.JetStream
	subject string
}

func NewPublisher(cfg QueueConfig) (*Publisher, error) {
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// WorkQueuePolicy: each job is delivered to exactly one worker and
	// removed once acked.
	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      cfg.Stream,
		Subjects:  []string{cfg.Subject},
		Storage:   jetstream.FileStorage,
		Retention: jetstream.WorkQueuePolicy,
	})
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to ensure stream %s: %w", cfg.Stream, err)
	}

	return &Publisher{nc: nc, js: js, subject: cfg.Subject}, nil
}

// SubmitJob enqueues one sync job. The job id is used as the JetStream
// message id, so resubmitting the same job within the dedup window is a
// server-side no-op.
func (p *Publisher) SubmitJob(ctx context.Context, job SyncJobMessage) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal sync job: %w", err)
	}

	_, err = p.js.Publish(ctx, p.subject, data,
		jetstream.WithMsgID(job.JobId.String()),
	)
	if err != nil {
		return fmt.Errorf("failed to publish sync job to %s: %w", p.subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
