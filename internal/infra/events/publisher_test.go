package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

type sentMessage struct {
	key   string
	event BookingEvent
}

type fakeMQ struct {
	sent []sentMessage
	err  error
}

func (f *fakeMQ) PublishJSON(_ context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMessage{key: key, event: v.(BookingEvent)})
	return nil
}

type fakeRecorder struct {
	statuses []string
}

func (f *fakeRecorder) RecordTransition(status string) {
	f.statuses = append(f.statuses, status)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestPublisher_Publish(t *testing.T) {
	mq := &fakeMQ{}
	recorder := &fakeRecorder{}
	p := NewPublisher(mq, recorder, nopLogger{})

	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	b := &domain.Booking{ID: 7, ItemID: 3, BookerID: 2, Start: start, End: start.Add(time.Hour), Status: domain.StatusApproved}

	p.Publish(context.Background(), EventApproved, b)
	p.Publish(context.Background(), EventUpdated, b)

	require.Len(t, mq.sent, 2)
	assert.Equal(t, "booking.approved", mq.sent[0].key)
	assert.Equal(t, int64(7), mq.sent[0].event.BookingID)
	assert.Equal(t, "APPROVED", mq.sent[0].event.Status)
	assert.NotEmpty(t, mq.sent[0].event.EventID)
	assert.NotEqual(t, mq.sent[0].event.EventID, mq.sent[1].event.EventID)

	// обновление окна не считается переходом статуса
	assert.Equal(t, []string{"APPROVED"}, recorder.statuses)
}

func TestPublisher_BrokerErrorIsSwallowed(t *testing.T) {
	p := NewPublisher(&fakeMQ{err: errors.New("connection reset")}, nil, nopLogger{})

	assert.NotPanics(t, func() {
		p.Publish(context.Background(), EventDeleted, &domain.Booking{ID: 1})
	})
}

func TestForStatus(t *testing.T) {
	assert.Equal(t, EventApproved, ForStatus(domain.StatusApproved))
	assert.Equal(t, EventRejected, ForStatus(domain.StatusRejected))
	assert.Equal(t, EventCanceled, ForStatus(domain.StatusCanceled))
	assert.Equal(t, EventUpdated, ForStatus(domain.StatusWaiting))
}
