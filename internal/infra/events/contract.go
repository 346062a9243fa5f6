package events

import "context"

// MessagePublisher публикует сообщение в брокер (pkg/mq)
type MessagePublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// TransitionRecorder считает изменения статусов бронирований
type TransitionRecorder interface {
	RecordTransition(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
