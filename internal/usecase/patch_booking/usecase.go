package patch_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/ShareIt-BookingService/internal/infra/storage/booking"
	itemClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
	"github.com/m04kA/ShareIt-BookingService/pkg/ptr"
)

// UseCase use case изменения окна и статуса бронирования
type UseCase struct {
	bookingRepo  BookingRepository
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
	itemClient ItemServiceClient,
	txManager TransactionManager,
	locker ItemLocker,
	publisher EventPublisher,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		itemClient:   itemClient,
		txManager:    txManager,
		locker:       locker,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute применяет частичное изменение от бронирующего или владельца вещи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("PatchBooking: booking=%d, requester=%d, window=%t, status=%v",
		req.BookingID, req.RequesterID, req.changesWindow(), ptr.Deref(req.Status, ""))

	if err := validateRequest(req); err != nil {
		uc.logger.Warn("PatchBooking: validation failed: %v", err)
		return nil, err
	}

	return uc.apply(ctx, req, domain.RoleNone)
}

// Accept подтверждает или отклоняет бронирование от имени владельца вещи
func (uc *UseCase) Accept(ctx context.Context, bookingID, ownerID int64, approve bool) (*Response, error) {
	uc.logger.Info("AcceptBooking: booking=%d, owner=%d, approve=%t", bookingID, ownerID, approve)

	status := domain.StatusRejected
	if approve {
		status = domain.StatusApproved
	}

	req := &Request{BookingID: bookingID, RequesterID: ownerID, Status: &status}
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("AcceptBooking: validation failed: %v", err)
		return nil, err
	}

	return uc.apply(ctx, req, domain.RoleOwner)
}

// apply выполняет изменение; requiredRole != RoleNone ограничивает допустимую роль
func (uc *UseCase) apply(ctx context.Context, req *Request, requiredRole domain.Role) (*Response, error) {
	// 1. Бронирование нужно до блокировки, чтобы знать вещь (item_id неизменяем)
	booking, err := uc.getBooking(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}

	// 2. Владелец берется из каталога
	item, err := uc.itemClient.GetItem(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, itemClient.ErrItemNotFound) {
			uc.logger.Warn("PatchBooking: item id=%d of booking id=%d not found", booking.ItemID, booking.ID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("PatchBooking: failed to get item id=%d: %v", booking.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
	}

	// 3. Роль определяется один раз
	role := domain.ResolveRole(req.RequesterID, booking.BookerID, item.OwnerID)
	if role == domain.RoleNone || (requiredRole != domain.RoleNone && role != requiredRole) {
		uc.logger.Warn("PatchBooking: user=%d has role %s for booking id=%d", req.RequesterID, role, booking.ID)
		return nil, ErrAccessDenied
	}

	unlock := uc.locker.Lock(booking.ItemID)
	defer unlock()

	now := uc.timeProvider.Now()
	var (
		result        *domain.Booking
		statusChanged bool
	)

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		current, err := uc.getBooking(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		if req.changesWindow() {
			if err := uc.changeWindow(txCtx, current, role, req, now); err != nil {
				return err
			}
		}

		if req.Status != nil {
			if !domain.CanTransition(role, current.Status, *req.Status) {
				uc.logger.Warn("PatchBooking: %s cannot move booking id=%d from %s to %s",
					role, current.ID, current.Status, *req.Status)
				return fmt.Errorf("%w: transition %s -> %s is not allowed", ErrAccessDenied, current.Status, *req.Status)
			}
			current.Status = *req.Status
			statusChanged = true
		}

		updated, err := uc.bookingRepo.Update(txCtx, current)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			uc.logger.Error("PatchBooking: failed to update booking id=%d: %v", current.ID, err)
			return fmt.Errorf("%w: failed to update booking: %w", ErrInternal, err)
		}

		result = updated
		return nil
	})
	if err != nil {
		if isBusinessError(err) {
			return nil, err
		}
		uc.logger.Error("PatchBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: transaction failed: %w", ErrInternal, err)
	}

	eventType := events.EventUpdated
	if statusChanged {
		eventType = events.ForStatus(result.Status)
	}
	uc.publisher.Publish(ctx, eventType, result)

	uc.logger.Info("PatchBooking: booking id=%d updated by %s, status=%s", result.ID, role, result.Status)
	return models.FromDomainBooking(result, now), nil
}

// changeWindow сливает новое окно с текущим и повторяет проверки создания
func (uc *UseCase) changeWindow(ctx context.Context, current *domain.Booking, role domain.Role, req *Request, now time.Time) error {
	if !domain.CanChangeWindow(role, current.Status) {
		uc.logger.Warn("PatchBooking: %s cannot change window of booking id=%d in status %s",
			role, current.ID, current.Status)
		return fmt.Errorf("%w: window change by %s in status %s", ErrAccessDenied, role, current.Status)
	}

	start := ptr.Deref(req.Start, current.Start)
	end := ptr.Deref(req.End, current.End)

	if err := domain.ValidateWindow(start, end, now); err != nil {
		uc.logger.Warn("PatchBooking: invalid window for booking id=%d: %v", current.ID, err)
		return fmt.Errorf("%w: %v", ErrInvalidTimeRange, err)
	}

	siblings, err := uc.bookingRepo.GetByItemID(ctx, current.ItemID)
	if err != nil {
		uc.logger.Error("PatchBooking: failed to get bookings of item id=%d: %v", current.ItemID, err)
		return fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
	}

	if conflict := domain.FindConflict(siblings, start, end, current.ID); conflict != nil {
		uc.logger.Warn("PatchBooking: new window of booking id=%d overlaps approved booking id=%d", current.ID, conflict.ID)
		return ErrSlotTaken
	}

	current.Start = start
	current.End = end
	return nil
}

func (uc *UseCase) getBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	booking, err := uc.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("PatchBooking: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("PatchBooking: failed to get booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return booking, nil
}

func isBusinessError(err error) bool {
	for _, target := range []error{ErrBookingNotFound, ErrAccessDenied, ErrInvalidTimeRange, ErrSlotTaken, ErrInternal} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.RequesterID <= 0 {
		return fmt.Errorf("%w: requesterID must be positive", ErrInvalidInput)
	}
	if !req.changesWindow() && req.Status == nil {
		return fmt.Errorf("%w: nothing to change", ErrInvalidInput)
	}
	if req.Status != nil && !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *req.Status)
	}
	return nil
}
