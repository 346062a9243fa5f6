package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/events"
	itemClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	userClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/userservice"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	userClient   UserServiceClient
	itemClient   ItemServiceClient
	txManager    TransactionManager
	locker       ItemLocker
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	itemClient ItemServiceClient,
	txManager TransactionManager,
	locker ItemLocker,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		userClient:   userClient,
		itemClient:   itemClient,
		txManager:    txManager,
		locker:       locker,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case создания бронирования
// Проверка пересечений и вставка выполняются под блокировкой вещи в сериализуемой транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: booker=%d, item=%d, start=%s, end=%s",
		req.BookerID, req.ItemID, req.Start, req.End)

	now := uc.timeProvider.Now()

	// 1. Валидация входных данных
	if err := validateRequest(req, now); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем пользователя
	if _, err := uc.userClient.GetUser(ctx, req.BookerID); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			uc.logger.Warn("CreateBooking: user id=%d not found", req.BookerID)
			return nil, ErrUserNotFound
		}
		uc.logger.Error("CreateBooking: failed to get user id=%d: %v", req.BookerID, err)
		return nil, fmt.Errorf("%w: failed to get user: %v", ErrInternal, err)
	}

	// 3. Получаем вещь
	item, err := uc.itemClient.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, itemClient.ErrItemNotFound) {
			uc.logger.Warn("CreateBooking: item id=%d not found", req.ItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("CreateBooking: failed to get item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
	}

	// 4. Доступность проверяется только при создании
	if !item.Available {
		uc.logger.Warn("CreateBooking: item id=%d is unavailable", req.ItemID)
		return nil, ErrItemUnavailable
	}

	unlock := uc.locker.Lock(req.ItemID)
	defer unlock()

	var result *domain.Booking

	// 5. Проверка пересечений и вставка в одной транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		existing, err := uc.bookingRepo.GetByItemID(txCtx, req.ItemID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to get bookings of item id=%d: %v", req.ItemID, err)
			return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		if conflict := domain.FindConflict(existing, req.Start, req.End, 0); conflict != nil {
			uc.logger.Warn("CreateBooking: window overlaps approved booking id=%d", conflict.ID)
			return ErrSlotTaken
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			ItemID:   req.ItemID,
			BookerID: req.BookerID,
			Start:    req.Start,
			End:      req.End,
			Status:   domain.StatusWaiting,
		})
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotTaken) || errors.Is(err, ErrInternal) {
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	uc.publisher.Publish(ctx, events.EventCreated, result)
	uc.logger.Info("CreateBooking: successfully created booking id=%d", result.ID)

	return models.FromDomainBooking(result, now), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.BookerID <= 0 {
		return fmt.Errorf("%w: bookerID must be positive", ErrInvalidInput)
	}

	if req.ItemID <= 0 {
		return fmt.Errorf("%w: itemID must be positive", ErrInvalidInput)
	}

	if err := domain.ValidateWindow(req.Start, req.End, now); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	return nil
}
