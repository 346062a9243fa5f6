package bookingmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

func seed(t *testing.T, repo *Repository, itemID, bookerID int64, start time.Time) *domain.Booking {
	t.Helper()
	b, err := repo.Create(context.Background(), &domain.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      start.Add(time.Hour),
		Status:   domain.StatusWaiting,
	})
	require.NoError(t, err)
	return b
}

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	created := seed(t, repo, 1, 2, start)
	assert.Equal(t, int64(1), created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, got.Status)

	// возвращается копия, изменение не попадает в хранилище без Update
	got.Status = domain.StatusApproved
	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWaiting, stored.Status)

	_, err = repo.Update(ctx, got)
	require.NoError(t, err)
	stored, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)

	require.NoError(t, repo.Delete(ctx, created.ID))
	_, err = repo.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), ErrBookingNotFound)

	_, err = repo.Update(ctx, got)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_GetByBookerID_Pagination(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		seed(t, repo, 1, 7, start.Add(time.Duration(i)*time.Hour))
	}
	seed(t, repo, 1, 8, start)

	page, err := repo.GetByBookerID(ctx, 7, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(5), page[0].ID)
	assert.Equal(t, int64(4), page[1].ID)

	page, err = repo.GetByBookerID(ctx, 7, 2, 4)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].ID)

	page, err = repo.GetByBookerID(ctx, 7, 2, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestRepository_ItemQueries(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	start := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	seed(t, repo, 1, 7, start.Add(time.Hour))
	seed(t, repo, 1, 8, start)
	seed(t, repo, 2, 7, start)
	seed(t, repo, 3, 7, start)

	byItem, err := repo.GetByItemID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.True(t, byItem[0].Start.Before(byItem[1].Start))

	byItems, err := repo.GetByItemIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Len(t, byItems, 3)

	pair, err := repo.GetByItemAndBooker(ctx, 1, 8)
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, int64(8), pair[0].BookerID)
}
