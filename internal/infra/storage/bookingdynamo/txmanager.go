package bookingdynamo

import (
	"context"
	"errors"
)

const defaultMaxRetries = 3

// TxManager заменяет SERIALIZABLE транзакцию для DynamoDB.
// Каждая попытка запоминает версии прочитанных вещей, а запись проходит
// только если версия не изменилась. При ErrItemConflict попытка повторяется.
type TxManager struct {
	maxRetries int
}

func NewTxManager() *TxManager {
	return &TxManager{maxRetries: defaultMaxRetries}
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if unitFrom(ctx) != nil {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt < m.maxRetries; attempt++ {
		err = fn(withUnit(ctx))
		if !errors.Is(err, ErrItemConflict) {
			return err
		}
	}
	return err
}
