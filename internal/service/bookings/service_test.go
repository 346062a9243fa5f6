package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/events"
	"github.com/m04kA/ShareIt-BookingService/internal/infra/storage/bookingmemory"
	"github.com/m04kA/ShareIt-BookingService/internal/integrations/itemservice"
	"github.com/m04kA/ShareIt-BookingService/internal/integrations/userservice"
	"github.com/m04kA/ShareIt-BookingService/internal/service/bookings/models"
)

const (
	ownerID  = int64(1)
	bookerID = int64(2)
	otherID  = int64(3)
	itemID   = int64(10)
)

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeUsers struct{}

func (fakeUsers) GetUser(_ context.Context, id int64) (*domain.User, error) {
	if id > 100 {
		return nil, userservice.ErrUserNotFound
	}
	return &domain.User{ID: id}, nil
}

type fakeItems struct {
	owned map[int64][]int64
}

func (fakeItems) GetItem(_ context.Context, id int64) (*domain.Item, error) {
	if id != itemID {
		return nil, itemservice.ErrItemNotFound
	}
	return &domain.Item{ID: itemID, OwnerID: ownerID, Available: true}, nil
}

func (f fakeItems) GetItemIDsByOwner(_ context.Context, id int64) ([]int64, error) {
	return f.owned[id], nil
}

type recordingPublisher struct {
	events []events.EventType
}

func (p *recordingPublisher) Publish(_ context.Context, eventType events.EventType, _ *domain.Booking) {
	p.events = append(p.events, eventType)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	svc       *Service
	repo      *bookingmemory.Repository
	publisher *recordingPublisher
}

func newFixture() *fixture {
	repo := bookingmemory.NewRepository()
	publisher := &recordingPublisher{}
	items := fakeItems{owned: map[int64][]int64{ownerID: {itemID}}}

	svc := NewService(repo, fakeUsers{}, items, publisher, nopLogger{})
	svc.timeProvider = fixedClock{t: now}

	return &fixture{svc: svc, repo: repo, publisher: publisher}
}

func (f *fixture) seed(t *testing.T, booker int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := f.repo.Create(context.Background(), &domain.Booking{
		ItemID: itemID, BookerID: booker, Start: start, End: start.Add(2 * time.Hour), Status: status,
	})
	require.NoError(t, err)
	return b
}

func TestGetByID(t *testing.T) {
	f := newFixture()
	b := f.seed(t, bookerID, now.Add(24*time.Hour), domain.StatusWaiting)
	ctx := context.Background()

	resp, err := f.svc.GetByID(ctx, b.ID, bookerID)
	require.NoError(t, err)
	assert.Equal(t, "WAITING", resp.State)

	_, err = f.svc.GetByID(ctx, b.ID, ownerID)
	assert.NoError(t, err)

	_, err = f.svc.GetByID(ctx, b.ID, otherID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = f.svc.GetByID(ctx, 999, bookerID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture()
	b := f.seed(t, bookerID, now.Add(24*time.Hour), domain.StatusWaiting)
	ctx := context.Background()

	assert.ErrorIs(t, f.svc.Delete(ctx, b.ID, ownerID), ErrAccessDenied)

	require.NoError(t, f.svc.Delete(ctx, b.ID, bookerID))
	assert.Equal(t, []events.EventType{events.EventDeleted}, f.publisher.events)

	assert.ErrorIs(t, f.svc.Delete(ctx, b.ID, bookerID), ErrBookingNotFound)
}

func TestGetBookerBookings_Pagination(t *testing.T) {
	f := newFixture()
	for i := 0; i < 5; i++ {
		f.seed(t, bookerID, now.Add(time.Duration(i+1)*24*time.Hour), domain.StatusApproved)
	}
	ctx := context.Background()

	tests := []struct {
		name   string
		offset int
		limit  int
		want   int
	}{
		{"first page", 0, 2, 2},
		{"offset rounds down to page", 3, 2, 2},
		{"last page", 4, 2, 1},
		{"beyond end", 10, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{
				BookerID: bookerID, State: domain.StateAll, Offset: tt.offset, Limit: tt.limit,
			})
			require.NoError(t, err)
			assert.Len(t, resp.Bookings, tt.want)
		})
	}
}

func TestGetBookerBookings_NewestFirstAndFiltered(t *testing.T) {
	f := newFixture()
	past := f.seed(t, bookerID, now.Add(-48*time.Hour), domain.StatusApproved)
	future := f.seed(t, bookerID, now.Add(48*time.Hour), domain.StatusApproved)
	f.seed(t, bookerID, now.Add(72*time.Hour), domain.StatusWaiting)
	f.seed(t, otherID, now.Add(96*time.Hour), domain.StatusApproved)
	ctx := context.Background()

	resp, err := f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{
		BookerID: bookerID, State: domain.StateAll, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 3)
	assert.True(t, resp.Bookings[0].Start.After(resp.Bookings[2].Start))

	resp, err = f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{
		BookerID: bookerID, State: domain.StateFuture, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, future.ID, resp.Bookings[0].ID)

	resp, err = f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{
		BookerID: bookerID, State: domain.StatePast, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, past.ID, resp.Bookings[0].ID)
}

func TestGetBookerBookings_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{BookerID: bookerID, Limit: 0})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{BookerID: bookerID, Offset: -1, Limit: 10})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.GetBookerBookings(ctx, &models.GetBookerBookingsRequest{BookerID: 500, Limit: 10})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestGetOwnerBookings(t *testing.T) {
	f := newFixture()
	f.seed(t, bookerID, now.Add(24*time.Hour), domain.StatusWaiting)
	f.seed(t, otherID, now.Add(48*time.Hour), domain.StatusRejected)
	ctx := context.Background()

	resp, err := f.svc.GetOwnerBookings(ctx, &models.GetOwnerBookingsRequest{OwnerID: ownerID, State: domain.StateAll})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 2)

	resp, err = f.svc.GetOwnerBookings(ctx, &models.GetOwnerBookingsRequest{OwnerID: ownerID, State: domain.StateRejected})
	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, "REJECTED", resp.Bookings[0].Status)

	_, err = f.svc.GetOwnerBookings(ctx, &models.GetOwnerBookingsRequest{OwnerID: bookerID, State: domain.StateAll})
	assert.ErrorIs(t, err, ErrNoBookings)

	_, err = f.svc.GetOwnerBookings(ctx, &models.GetOwnerBookingsRequest{OwnerID: 500, State: domain.StateAll})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCheckCommentEligibility(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		status domain.BookingStatus
		want   bool
	}{
		{"finished approved", now.Add(-48 * time.Hour), domain.StatusApproved, true},
		{"ongoing approved", now.Add(-time.Hour), domain.StatusApproved, false},
		{"future approved", now.Add(24 * time.Hour), domain.StatusApproved, false},
		{"finished rejected", now.Add(-48 * time.Hour), domain.StatusRejected, false},
		{"finished canceled", now.Add(-48 * time.Hour), domain.StatusCanceled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.seed(t, bookerID, tt.start, tt.status)

			resp, err := f.svc.CheckCommentEligibility(context.Background(), itemID, bookerID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Eligible)
		})
	}
}

func TestCheckCommentEligibility_NoBookings(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CheckCommentEligibility(context.Background(), itemID, otherID)
	require.NoError(t, err)
	assert.False(t, resp.Eligible)
}
