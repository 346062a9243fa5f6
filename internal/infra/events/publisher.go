package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

const publishTimeout = 5 * time.Second

// Publisher отправляет события жизненного цикла бронирований.
// Вызывается после фиксации транзакции; ошибки брокера только логируются.
type Publisher struct {
	mq      MessagePublisher
	metrics TransitionRecorder
	logger  Logger
	now     func() time.Time
}

func NewPublisher(mq MessagePublisher, metrics TransitionRecorder, logger Logger) *Publisher {
	return &Publisher{
		mq:      mq,
		metrics: metrics,
		logger:  logger,
		now:     time.Now,
	}
}

// Publish публикует событие eventType для бронирования b
func (p *Publisher) Publish(ctx context.Context, eventType EventType, b *domain.Booking) {
	if eventType != EventUpdated && eventType != EventDeleted && p.metrics != nil {
		p.metrics.RecordTransition(string(b.Status))
	}

	event := BookingEvent{
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		ItemID:     b.ItemID,
		BookerID:   b.BookerID,
		Status:     string(b.Status),
		Start:      b.Start,
		End:        b.End,
		OccurredAt: p.now().UTC(),
	}

	// запрос клиента мог уже завершиться, событие всё равно отправляем
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.mq.PublishJSON(pubCtx, string(eventType), event); err != nil {
		p.logger.Error("Publish: failed to publish %s for booking id=%d: %v", eventType, b.ID, err)
		return
	}

	p.logger.Info("Publish: %s sent for booking id=%d, event_id=%s", eventType, b.ID, event.EventID)
}
