package bookingmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/storage/booking"
)

// ErrBookingNotFound возвращается, когда бронирование не найдено
// Оборачивает booking.ErrBookingNotFound, чтобы сервисы не зависели от выбранного драйвера
var ErrBookingNotFound = fmt.Errorf("bookingmemory.repository: %w", booking.ErrBookingNotFound)

// Repository хранит бронирования в памяти процесса.
// Используется для локального запуска и тестов; атомарность проверки
// пересечений обеспечивает keylock в use case.
type Repository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]domain.Booking
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		bookings: make(map[int64]domain.Booking),
		now:      time.Now,
	}
}

func (r *Repository) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := r.now().UTC()
	booking.ID = r.nextID
	booking.CreatedAt = now
	booking.UpdatedAt = now
	r.bookings[booking.ID] = *booking

	return booking, nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (r *Repository) Update(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.bookings[booking.ID]
	if !ok {
		return nil, ErrBookingNotFound
	}

	stored.Start = booking.Start
	stored.End = booking.End
	stored.Status = booking.Status
	stored.UpdatedAt = r.now().UTC()
	r.bookings[booking.ID] = stored

	booking.UpdatedAt = stored.UpdatedAt
	return booking, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.bookings[id]; !ok {
		return ErrBookingNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *Repository) GetByItemID(_ context.Context, itemID int64) ([]*domain.Booking, error) {
	result := r.filter(func(b domain.Booking) bool { return b.ItemID == itemID })
	sortByStart(result, false)
	return result, nil
}

// GetByBookerID возвращает страницу бронирований пользователя, новые первыми
func (r *Repository) GetByBookerID(_ context.Context, bookerID int64, limit, offset uint64) ([]*domain.Booking, error) {
	result := r.filter(func(b domain.Booking) bool { return b.BookerID == bookerID })
	sortByStart(result, true)

	if offset >= uint64(len(result)) {
		return []*domain.Booking{}, nil
	}
	end := offset + limit
	if end > uint64(len(result)) {
		end = uint64(len(result))
	}
	return result[offset:end], nil
}

func (r *Repository) GetByItemIDs(_ context.Context, itemIDs []int64) ([]*domain.Booking, error) {
	set := make(map[int64]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		set[id] = struct{}{}
	}

	result := r.filter(func(b domain.Booking) bool {
		_, ok := set[b.ItemID]
		return ok
	})
	sortByStart(result, true)
	return result, nil
}

func (r *Repository) GetByItemAndBooker(_ context.Context, itemID, bookerID int64) ([]*domain.Booking, error) {
	result := r.filter(func(b domain.Booking) bool {
		return b.ItemID == itemID && b.BookerID == bookerID
	})
	sortByStart(result, true)
	return result, nil
}

func (r *Repository) filter(keep func(b domain.Booking) bool) []*domain.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			b := b
			result = append(result, &b)
		}
	}
	return result
}

func sortByStart(bookings []*domain.Booking, desc bool) {
	sort.Slice(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if a.Start.Equal(b.Start) {
			if desc {
				return a.ID > b.ID
			}
			return a.ID < b.ID
		}
		if desc {
			return a.Start.After(b.Start)
		}
		return a.Start.Before(b.Start)
	})
}
