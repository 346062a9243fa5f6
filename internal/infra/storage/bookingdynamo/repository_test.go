package bookingdynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

// fakeDynamo понимает только выражения, которые строит Repository
type fakeDynamo struct {
	mu    sync.Mutex
	items map[int64]map[string]types.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[int64]map[string]types.AttributeValue)}
}

func num(av types.AttributeValue) int64 {
	n, ok := av.(*types.AttributeValueMemberN)
	if !ok {
		return 0
	}
	v, _ := strconv.ParseInt(n.Value, 10, 64)
	return v
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := num(in.Item["id"])
	if _, ok := f.items[id]; ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	f.items[id] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return &dynamodb.GetItemOutput{Item: f.items[num(in.Key["id"])]}, nil
}

func (f *fakeDynamo) UpdateItem(_ context.Context, in *dynamodb.UpdateItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := num(in.Key["id"])
	item, ok := f.items[id]
	if !ok {
		item = map[string]types.AttributeValue{"id": in.Key["id"], "seq": &types.AttributeValueMemberN{Value: "0"}}
	}
	seq := num(item["seq"]) + num(in.ExpressionAttributeValues[":one"])
	item["seq"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(seq, 10)}
	f.items[id] = item
	return &dynamodb.UpdateItemOutput{Attributes: map[string]types.AttributeValue{"seq": item["seq"]}}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := num(in.Key["id"])
	if _, ok := f.items[id]; !ok {
		return nil, &types.ConditionalCheckFailedException{}
	}
	delete(f.items, id)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	canceled := false
	for i, ti := range in.TransactItems {
		reasons[i].Code = aws.String("None")
		if !f.conditionHolds(ti) {
			reasons[i].Code = aws.String(codeConditionalCheckFailed)
			canceled = true
		}
	}
	if canceled {
		return nil, &types.TransactionCanceledException{CancellationReasons: reasons}
	}

	for _, ti := range in.TransactItems {
		f.apply(ti)
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func (f *fakeDynamo) conditionHolds(ti types.TransactWriteItem) bool {
	switch {
	case ti.Put != nil:
		_, exists := f.items[num(ti.Put.Item["id"])]
		return !exists
	case ti.Delete != nil:
		_, exists := f.items[num(ti.Delete.Key["id"])]
		return exists
	case ti.Update != nil:
		id := num(ti.Update.Key["id"])
		item, exists := f.items[id]
		if id > counterID {
			return exists
		}
		seen, ok := ti.Update.ExpressionAttributeValues[":seen"]
		if !ok {
			return true
		}
		return num(item["ver"]) == num(seen)
	}
	return true
}

func (f *fakeDynamo) apply(ti types.TransactWriteItem) {
	switch {
	case ti.Put != nil:
		f.items[num(ti.Put.Item["id"])] = ti.Put.Item
	case ti.Delete != nil:
		delete(f.items, num(ti.Delete.Key["id"]))
	case ti.Update != nil:
		id := num(ti.Update.Key["id"])
		values := ti.Update.ExpressionAttributeValues
		if id > counterID {
			item := f.items[id]
			for placeholder, value := range values {
				item[placeholder[1:]] = value
			}
			return
		}

		item, ok := f.items[id]
		if !ok {
			item = map[string]types.AttributeValue{"id": ti.Update.Key["id"]}
			f.items[id] = item
		}
		item["ver"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(num(item["ver"])+1, 10)}

		change, ok := values[":ids"].(*types.AttributeValueMemberNS)
		if !ok {
			return
		}
		ids := make(map[string]struct{})
		if current, ok := item["booking_ids"].(*types.AttributeValueMemberNS); ok {
			for _, v := range current.Value {
				ids[v] = struct{}{}
			}
		}
		for _, v := range change.Value {
			if strings.Contains(aws.ToString(ti.Update.UpdateExpression), "DELETE") {
				delete(ids, v)
			} else {
				ids[v] = struct{}{}
			}
		}
		if len(ids) == 0 {
			delete(item, "booking_ids")
			return
		}
		set := &types.AttributeValueMemberNS{}
		for v := range ids {
			set.Value = append(set.Value, v)
		}
		item["booking_ids"] = set
	}
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := in.ExpressionAttributeValues
	result := make([]map[string]types.AttributeValue, 0)
	for id, item := range f.items {
		if id <= counterID {
			continue
		}
		if v, ok := values[":item_id"]; ok && num(item["item_id"]) != num(v) {
			continue
		}
		if v, ok := values[":booker_id"]; ok && num(item["booker_id"]) != num(v) {
			continue
		}
		result = append(result, item)
	}

	forward := in.ScanIndexForward == nil || *in.ScanIndexForward
	sort.Slice(result, func(i, j int) bool {
		if forward {
			return num(result[i]["start_ts"]) < num(result[j]["start_ts"])
		}
		return num(result[i]["start_ts"]) > num(result[j]["start_ts"])
	})

	return &dynamodb.QueryOutput{Items: result}, nil
}

func create(t *testing.T, repo *Repository, itemID, bookerID int64, start time.Time) *domain.Booking {
	t.Helper()
	return createWithStatus(t, repo, itemID, bookerID, start, domain.StatusWaiting)
}

func createWithStatus(t *testing.T, repo *Repository, itemID, bookerID int64, start time.Time, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b, err := repo.Create(context.Background(), &domain.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      start.Add(time.Hour),
		Status:   status,
	})
	require.NoError(t, err)
	return b
}

func TestRepository_CRUD(t *testing.T) {
	repo := NewRepository(newFakeDynamo(), "bookings")
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	first := create(t, repo, 1, 2, start)
	second := create(t, repo, 1, 3, start)
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.BookerID)
	assert.True(t, got.Start.Equal(start))
	assert.Equal(t, domain.StatusWaiting, got.Status)

	got.Status = domain.StatusApproved
	got.End = start.Add(2 * time.Hour)
	_, err = repo.Update(ctx, got)
	require.NoError(t, err)

	got, err = repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)
	assert.True(t, got.End.Equal(start.Add(2*time.Hour)))

	require.NoError(t, repo.Delete(ctx, first.ID))
	_, err = repo.GetByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, first.ID), ErrBookingNotFound)

	_, err = repo.Update(ctx, got)
	assert.ErrorIs(t, err, ErrBookingNotFound)

	_, err = repo.GetByID(ctx, counterID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestRepository_Queries(t *testing.T) {
	repo := NewRepository(newFakeDynamo(), "bookings")
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	create(t, repo, 1, 5, start)
	create(t, repo, 1, 5, start.Add(2*time.Hour))
	create(t, repo, 2, 5, start.Add(4*time.Hour))
	create(t, repo, 1, 6, start.Add(6*time.Hour))

	byItem, err := repo.GetByItemID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, byItem, 3)
	assert.True(t, byItem[0].Start.Before(byItem[1].Start))

	page, err := repo.GetByBookerID(ctx, 5, 2, 0)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].ID)
	assert.Equal(t, int64(2), page[1].ID)

	page, err = repo.GetByBookerID(ctx, 5, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].ID)

	byItems, err := repo.GetByItemIDs(ctx, []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, byItems, 4)
	assert.Equal(t, int64(4), byItems[0].ID)

	pair, err := repo.GetByItemAndBooker(ctx, 1, 6)
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, int64(4), pair[0].ID)
}

func TestRepository_GetByItemIDsBreaksTiesByID(t *testing.T) {
	repo := NewRepository(newFakeDynamo(), "bookings")
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	create(t, repo, 1, 5, start)
	create(t, repo, 2, 5, start)
	create(t, repo, 1, 6, start)
	create(t, repo, 2, 6, start.Add(-time.Hour))

	got, err := repo.GetByItemIDs(context.Background(), []int64{1, 2})
	require.NoError(t, err)
	require.Len(t, got, 4)

	ids := make([]int64, 0, len(got))
	for _, b := range got {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{3, 2, 1, 4}, ids)
}

func TestRepository_RejectsBrokenTimestamps(t *testing.T) {
	fake := newFakeDynamo()
	repo := NewRepository(fake, "bookings")
	b := create(t, repo, 1, 5, time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))

	for _, attr := range []string{"created_at", "updated_at"} {
		t.Run(attr, func(t *testing.T) {
			fake.mu.Lock()
			original := fake.items[b.ID][attr]
			fake.items[b.ID][attr] = &types.AttributeValueMemberS{Value: "yesterday"}
			fake.mu.Unlock()
			defer func() {
				fake.mu.Lock()
				fake.items[b.ID][attr] = original
				fake.mu.Unlock()
			}()

			_, err := repo.GetByID(context.Background(), b.ID)
			require.ErrorIs(t, err, ErrMarshal)
			assert.Contains(t, err.Error(), attr)

			var parseErr *time.ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}

func TestRepository_GuardTracksBookingsOfItem(t *testing.T) {
	repo := NewRepository(newFakeDynamo(), "bookings")
	ctx := context.Background()
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	first := create(t, repo, 1, 5, start)
	second := create(t, repo, 1, 6, start)
	create(t, repo, 2, 6, start)

	guard, err := repo.readGuard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), guard.Version)
	assert.ElementsMatch(t, []int64{first.ID, second.ID}, guard.BookingIDs)

	require.NoError(t, repo.Delete(ctx, first.ID))

	guard, err = repo.readGuard(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), guard.Version)
	assert.Equal(t, []int64{second.ID}, guard.BookingIDs)

	got, err := repo.GetByItemID(withUnit(ctx), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, second.ID, got[0].ID)
}

func TestRepository_WriteAfterConcurrentChangeFails(t *testing.T) {
	fake := newFakeDynamo()
	replicaA := NewRepository(fake, "bookings")
	replicaB := NewRepository(fake, "bookings")
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	ctxA := withUnit(context.Background())
	seen, err := replicaA.GetByItemID(ctxA, 1)
	require.NoError(t, err)
	require.Empty(t, seen)

	createWithStatus(t, replicaB, 1, 7, start, domain.StatusApproved)

	_, err = replicaA.Create(ctxA, &domain.Booking{
		ItemID: 1, BookerID: 5, Start: start, End: start.Add(time.Hour), Status: domain.StatusWaiting,
	})
	require.ErrorIs(t, err, ErrItemConflict)

	var tce *types.TransactionCanceledException
	assert.ErrorAs(t, err, &tce)

	all, err := replicaA.GetByItemID(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

var errSlotTaken = errors.New("slot taken")

func TestTxManager_RetryObservesConcurrentApproval(t *testing.T) {
	fake := newFakeDynamo()
	replicaA := NewRepository(fake, "bookings")
	replicaB := NewRepository(fake, "bookings")
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	attempts := 0
	err := NewTxManager().DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		existing, err := replicaA.GetByItemID(ctx, 1)
		if err != nil {
			return err
		}
		if attempts == 1 {
			createWithStatus(t, replicaB, 1, 7, start, domain.StatusApproved)
		}
		if domain.FindConflict(existing, start, end, 0) != nil {
			return errSlotTaken
		}
		if _, err := replicaA.Create(ctx, &domain.Booking{
			ItemID: 1, BookerID: 5, Start: start, End: end, Status: domain.StatusWaiting,
		}); err != nil {
			return fmt.Errorf("create: %w", err)
		}
		return nil
	})

	require.ErrorIs(t, err, errSlotTaken)
	assert.Equal(t, 2, attempts)

	all, err := replicaA.GetByItemID(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, domain.StatusApproved, all[0].Status)
}

func TestTxManager_GivesUpAfterMaxRetries(t *testing.T) {
	attempts := 0
	err := NewTxManager().DoSerializable(context.Background(), func(ctx context.Context) error {
		attempts++
		require.NotNil(t, unitFrom(ctx))
		return fmt.Errorf("%w: always", ErrItemConflict)
	})

	assert.ErrorIs(t, err, ErrItemConflict)
	assert.Equal(t, defaultMaxRetries, attempts)
}

func TestTxManager_NestedCallReusesAttempt(t *testing.T) {
	tm := NewTxManager()
	err := tm.DoSerializable(context.Background(), func(outer context.Context) error {
		return tm.DoSerializable(outer, func(inner context.Context) error {
			assert.Same(t, unitFrom(outer), unitFrom(inner))
			return nil
		})
	})
	assert.NoError(t, err)
}
