package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/events"
	bookingRepo "github.com/m04kA/ShareIt-BookingService/internal/infra/storage/booking"
	itemClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	userClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/userservice"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

// Service сервис для чтения и удаления бронирований
type Service struct {
	bookingRepo  BookingRepository
	userClient   UserServiceClient
	itemClient   ItemServiceClient
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userClient UserServiceClient,
	itemClient ItemServiceClient,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		userClient:   userClient,
		itemClient:   itemClient,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только автор бронирования и владелец вещи
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if booking.BookerID != userID {
		item, err := s.getItem(ctx, "GetByID", booking.ItemID)
		if err != nil {
			return nil, err
		}
		if item.OwnerID != userID {
			s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, s.timeProvider.Now()), nil
}

// Delete удаляет бронирование; доступно только автору бронирования
func (s *Service) Delete(ctx context.Context, id int64, userID int64) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%d", id, userID)

	booking, err := s.getBooking(ctx, "Delete", id)
	if err != nil {
		return err
	}

	if booking.BookerID != userID {
		s.logger.Warn("Delete: user=%d is not booker of booking id=%d", userID, id)
		return ErrAccessDenied
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found during delete", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.publisher.Publish(ctx, events.EventDeleted, booking)

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// GetBookerBookings получает бронирования пользователя, новые сверху.
// Offset переводится в номер страницы (offset/limit), фильтр по state применяется к странице.
func (s *Service) GetBookerBookings(ctx context.Context, req *models.GetBookerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetBookerBookings: user=%d, state=%s, from=%d, size=%d",
		req.BookerID, req.State, req.Offset, req.Limit)

	if req.Limit <= 0 || req.Offset < 0 {
		s.logger.Warn("GetBookerBookings: invalid pagination from=%d size=%d", req.Offset, req.Limit)
		return nil, fmt.Errorf("%w: from must be >= 0 and size must be > 0", ErrInvalidInput)
	}

	if err := s.ensureUser(ctx, "GetBookerBookings", req.BookerID); err != nil {
		return nil, err
	}

	page := 0
	if req.Offset > 0 {
		page = req.Offset / req.Limit
	}
	limit := uint64(req.Limit)

	bookings, err := s.bookingRepo.GetByBookerID(ctx, req.BookerID, limit, uint64(page)*limit)
	if err != nil {
		s.logger.Error("GetBookerBookings: repository error for user=%d: %v", req.BookerID, err)
		return nil, fmt.Errorf("%w: GetBookerBookings - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	filtered := domain.FilterByState(bookings, req.State, now)

	s.logger.Info("GetBookerBookings: fetched %d bookings (%d after filter) for user=%d",
		len(bookings), len(filtered), req.BookerID)
	return models.FromDomainBookingList(filtered, now), nil
}

// GetOwnerBookings получает бронирования всех вещей владельца
func (s *Service) GetOwnerBookings(ctx context.Context, req *models.GetOwnerBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetOwnerBookings: owner=%d, state=%s", req.OwnerID, req.State)

	if err := s.ensureUser(ctx, "GetOwnerBookings", req.OwnerID); err != nil {
		return nil, err
	}

	itemIDs, err := s.itemClient.GetItemIDsByOwner(ctx, req.OwnerID)
	if err != nil {
		if errors.Is(err, itemClient.ErrOwnerNotFound) {
			s.logger.Warn("GetOwnerBookings: owner=%d not found in item service", req.OwnerID)
			return nil, ErrUserNotFound
		}
		s.logger.Error("GetOwnerBookings: failed to get items of owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - failed to get items: %v", ErrInternal, err)
	}

	if len(itemIDs) == 0 {
		s.logger.Warn("GetOwnerBookings: owner=%d has no items", req.OwnerID)
		return nil, ErrNoBookings
	}

	bookings, err := s.bookingRepo.GetByItemIDs(ctx, itemIDs)
	if err != nil {
		s.logger.Error("GetOwnerBookings: repository error for owner=%d: %v", req.OwnerID, err)
		return nil, fmt.Errorf("%w: GetOwnerBookings - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	filtered := domain.FilterByState(bookings, req.State, now)

	s.logger.Info("GetOwnerBookings: fetched %d bookings (%d after filter) for owner=%d",
		len(bookings), len(filtered), req.OwnerID)
	return models.FromDomainBookingList(filtered, now), nil
}

// CheckCommentEligibility проверяет, может ли пользователь оставить комментарий к вещи:
// нужно подтвержденное бронирование, которое уже завершилось
func (s *Service) CheckCommentEligibility(ctx context.Context, itemID, userID int64) (*models.EligibilityResponse, error) {
	s.logger.Info("CheckCommentEligibility: item=%d, user=%d", itemID, userID)

	bookings, err := s.bookingRepo.GetByItemAndBooker(ctx, itemID, userID)
	if err != nil {
		s.logger.Error("CheckCommentEligibility: repository error for item=%d user=%d: %v", itemID, userID, err)
		return nil, fmt.Errorf("%w: CheckCommentEligibility - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()
	eligible := false
	for _, b := range bookings {
		if b.Status == domain.StatusApproved && b.State(now) == domain.StatePast {
			eligible = true
			break
		}
	}

	s.logger.Info("CheckCommentEligibility: item=%d, user=%d, eligible=%t", itemID, userID, eligible)
	return &models.EligibilityResponse{
		ItemID:   itemID,
		UserID:   userID,
		Eligible: eligible,
	}, nil
}

// Вспомогательные методы

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

func (s *Service) getItem(ctx context.Context, op string, id int64) (*domain.Item, error) {
	item, err := s.itemClient.GetItem(ctx, id)
	if err != nil {
		if errors.Is(err, itemClient.ErrItemNotFound) {
			s.logger.Warn("%s: item id=%d not found", op, id)
			return nil, ErrItemNotFound
		}
		s.logger.Error("%s: failed to get item id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - failed to get item: %v", ErrInternal, op, err)
	}
	return item, nil
}

// ensureUser проверяет существование пользователя в UserService
func (s *Service) ensureUser(ctx context.Context, op string, id int64) error {
	if _, err := s.userClient.GetUser(ctx, id); err != nil {
		if errors.Is(err, userClient.ErrUserNotFound) {
			s.logger.Warn("%s: user id=%d not found", op, id)
			return ErrUserNotFound
		}
		s.logger.Error("%s: failed to get user id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - failed to get user: %v", ErrInternal, op, err)
	}
	return nil
}
