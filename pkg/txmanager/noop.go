package txmanager

import "context"

// Noop менеджер для хранилищ без транзакций (in-memory)
// Атомарность в этом случае обеспечивается блокировкой по itemID на уровне use case
type Noop struct{}

func (Noop) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Noop) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (Noop) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
