package mailer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Message is a queued outbound mail.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
	Attempt  int
}

// Sender delivers a single message.
type Sender interface {
	Send(to, subject, htmlBody string) error
}

// QueueConfig tunes the background dispatcher.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Queue delivers mail asynchronously so request handlers never block on SMTP.
// Delivery is best effort: exhausted retries are logged and dropped.
type Queue struct {
	sender     Sender
	workers    int
	maxRetries int
	retryDelay time.Duration
	logger     *zap.Logger

	messages chan Message
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.Mutex
	started  bool
}

// NewQueue builds a mail queue around the given sender.
func NewQueue(sender Sender, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 8
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return &Queue{
		sender:     sender,
		workers:    cfg.Workers,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
		messages:   make(chan Message, cfg.BufferSize),
	}
}

// Start launches the delivery workers. Safe to call once.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Sugar().Infow("mail queue started", "workers", q.workers)
}

// Stop cancels workers and waits for them to exit.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started {
		q.mu.Unlock()
		return
	}
	q.cancel()
	q.mu.Unlock()
	q.wg.Wait()
	q.logger.Sugar().Infow("mail queue stopped")
}

// Enqueue queues one message for delivery.
func (q *Queue) Enqueue(msg Message) error {
	q.mu.Lock()
	ctx := q.ctx
	started := q.started
	q.mu.Unlock()

	if !started {
		return fmt.Errorf("mail queue not started")
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("mail queue stopped: %w", ctx.Err())
	case q.messages <- msg:
		return nil
	}
}

func (q *Queue) worker() {
	defer q.wg.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case msg := <-q.messages:
			if err := q.sender.Send(msg.To, msg.Subject, msg.HTMLBody); err != nil {
				q.retry(msg, err)
			}
		}
	}
}

func (q *Queue) retry(msg Message, err error) {
	msg.Attempt++
	if msg.Attempt > q.maxRetries {
		q.logger.Sugar().Errorw("mail delivery abandoned", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	q.logger.Sugar().Warnw("mail delivery failed, retrying", "to", msg.To, "attempt", msg.Attempt, "error", err)

	go func(m Message) {
		timer := time.NewTimer(q.retryDelay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
			return
		case <-timer.C:
			if err := q.Enqueue(m); err != nil {
				q.logger.Sugar().Errorw("failed to requeue mail", "to", m.To, "error", err)
			}
		}
	}(msg)
}
