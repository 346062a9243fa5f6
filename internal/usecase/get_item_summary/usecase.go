package get_item_summary

import (
	"context"
	"errors"
	"fmt"

	itemClient "github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

// UseCase use case для сводки бронирований вещи (для карточки вещи владельца)
type UseCase struct {
	bookingRepo  BookingRepository
	itemClient   ItemServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	itemClient ItemServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		itemClient:   itemClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute возвращает lastBooking и nextBooking вещи; доступно только владельцу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetItemSummary: item=%d, requester=%d", req.ItemID, req.RequesterID)

	if req.ItemID <= 0 || req.RequesterID <= 0 {
		uc.logger.Warn("GetItemSummary: invalid ids item=%d requester=%d", req.ItemID, req.RequesterID)
		return nil, fmt.Errorf("%w: ids must be positive", ErrInvalidInput)
	}

	item, err := uc.itemClient.GetItem(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, itemClient.ErrItemNotFound) {
			uc.logger.Warn("GetItemSummary: item id=%d not found", req.ItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("GetItemSummary: failed to get item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get item: %v", ErrInternal, err)
	}

	if item.OwnerID != req.RequesterID {
		uc.logger.Warn("GetItemSummary: user=%d is not owner of item id=%d", req.RequesterID, req.ItemID)
		return nil, ErrAccessDenied
	}

	bookings, err := uc.bookingRepo.GetByItemID(ctx, req.ItemID)
	if err != nil {
		uc.logger.Error("GetItemSummary: failed to get bookings of item id=%d: %v", req.ItemID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	now := uc.timeProvider.Now()
	last, next := lastAndNext(bookings, now)

	uc.logger.Info("GetItemSummary: item id=%d has %d bookings, last=%t, next=%t",
		req.ItemID, len(bookings), last != nil, next != nil)

	return &Response{
		ItemID:      req.ItemID,
		LastBooking: models.FromDomainBooking(last, now),
		NextBooking: models.FromDomainBooking(next, now),
	}, nil
}
