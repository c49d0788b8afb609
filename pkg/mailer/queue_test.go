package mailer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu        sync.Mutex
	delivered []Message
	failFirst int
	done      chan struct{}
}

func newRecordingSender(failFirst int) *recordingSender {
	return &recordingSender{failFirst: failFirst, done: make(chan struct{}, 16)}
}

func (s *recordingSender) Send(to, subject, htmlBody string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failFirst > 0 {
		s.failFirst--
		return errors.New("smtp unavailable")
	}
	s.delivered = append(s.delivered, Message{To: to, Subject: subject, HTMLBody: htmlBody})
	s.done <- struct{}{}
	return nil
}

func (s *recordingSender) deliveredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delivered)
}

func waitForDelivery(t *testing.T, s *recordingSender) {
	t.Helper()
	select {
	case <-s.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for mail delivery")
	}
}

func TestQueueRejectsEnqueueBeforeStart(t *testing.T) {
	q := NewQueue(newRecordingSender(0), QueueConfig{})

	err := q.Enqueue(Message{To: "jane@example.com"})
	assert.Error(t, err)
}

func TestQueueDeliversMessage(t *testing.T) {
	sender := newRecordingSender(0)
	q := NewQueue(sender, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Message{To: "jane@example.com", Subject: "hi", HTMLBody: "<p>hi</p>"}))
	waitForDelivery(t, sender)

	assert.Equal(t, 1, sender.deliveredCount())
	assert.Equal(t, "jane@example.com", sender.delivered[0].To)
}

func TestQueueRetriesFailedDelivery(t *testing.T) {
	sender := newRecordingSender(1)
	q := NewQueue(sender, QueueConfig{Workers: 1, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Message{To: "jane@example.com", Subject: "hi"}))
	waitForDelivery(t, sender)

	assert.Equal(t, 1, sender.deliveredCount())
}

func TestQueueEnqueueAfterStopFails(t *testing.T) {
	q := NewQueue(newRecordingSender(0), QueueConfig{Workers: 1})
	q.Start(context.Background())
	q.Stop()

	err := q.Enqueue(Message{To: "jane@example.com"})
	assert.Error(t, err)
}
