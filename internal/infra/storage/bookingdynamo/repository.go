package bookingdynamo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

const (
	// ItemIndex GSI: PK item_id, SK start_ts
	ItemIndex = "item_id-index"
	// BookerIndex GSI: PK booker_id, SK start_ts
	BookerIndex = "booker_id-index"

	// counterID ключ служебной записи со счетчиком идентификаторов
	counterID = 0
)

type bookingItem struct {
	ID        int64  `dynamodbav:"id"`
	ItemID    int64  `dynamodbav:"item_id"`
	BookerID  int64  `dynamodbav:"booker_id"`
	StartTS   int64  `dynamodbav:"start_ts"`
	EndTS     int64  `dynamodbav:"end_ts"`
	Status    string `dynamodbav:"status"`
	CreatedAt string `dynamodbav:"created_at"`
	UpdatedAt string `dynamodbav:"updated_at"`
}

// Repository хранит бронирования в DynamoDB.
//
// Таблица: PK id (N). Идентификаторы выдаются атомарным счетчиком в записи id=0.
// Служебные записи вещей лежат по отрицательным id (см. itemGuard).
// Для выборок по вещи и по пользователю нужны GSI ItemIndex и BookerIndex.
type Repository struct {
	ddb       API
	tableName string
	now       func() time.Time
}

func NewRepository(ddb API, tableName string) *Repository {
	return &Repository{
		ddb:       ddb,
		tableName: tableName,
		now:       time.Now,
	}
}

func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	now := r.now().UTC()
	created := *booking
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now

	av, err := attributevalue.MarshalMap(toItem(&created))
	if err != nil {
		return nil, fmt.Errorf("%w: Create - %w", ErrMarshal, err)
	}

	err = r.writeGuarded(ctx, "Create", created.ItemID,
		types.TransactWriteItem{Put: &types.Put{
			TableName:           aws.String(r.tableName),
			Item:                av,
			ConditionExpression: aws.String("attribute_not_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		}},
		types.TransactWriteItem{Update: r.guardUpdate(ctx, created.ItemID, "ADD", created.ID)},
	)
	if errors.Is(err, ErrBookingNotFound) {
		return nil, fmt.Errorf("%w: Create - id=%d already taken", ErrRequest, created.ID)
	}
	if err != nil {
		return nil, err
	}

	*booking = created
	return booking, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if id <= counterID {
		return nil, ErrBookingNotFound
	}

	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - get item: %w", ErrRequest, err)
	}
	if len(out.Item) == 0 {
		return nil, ErrBookingNotFound
	}

	return fromAttributes(out.Item)
}

func (r *Repository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	now := r.now().UTC()

	err := r.writeGuarded(ctx, "Update", booking.ItemID,
		types.TransactWriteItem{Update: &types.Update{
			TableName:           aws.String(r.tableName),
			Key:                 idKey(booking.ID),
			ConditionExpression: aws.String("attribute_exists(#id)"),
			UpdateExpression:    aws.String("SET #start_ts = :start_ts, #end_ts = :end_ts, #status = :status, #updated_at = :updated_at"),
			ExpressionAttributeNames: map[string]string{
				"#id":         "id",
				"#start_ts":   "start_ts",
				"#end_ts":     "end_ts",
				"#status":     "status",
				"#updated_at": "updated_at",
			},
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":start_ts":   numberAttr(booking.Start.UnixNano()),
				":end_ts":     numberAttr(booking.End.UnixNano()),
				":status":     &types.AttributeValueMemberS{Value: string(booking.Status)},
				":updated_at": &types.AttributeValueMemberS{Value: now.Format(time.RFC3339Nano)},
			},
		}},
		types.TransactWriteItem{Update: r.guardUpdate(ctx, booking.ItemID, "", booking.ID)},
	)
	if err != nil {
		return nil, err
	}

	booking.UpdatedAt = now
	return booking, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	return r.writeGuarded(ctx, "Delete", existing.ItemID,
		types.TransactWriteItem{Delete: &types.Delete{
			TableName:           aws.String(r.tableName),
			Key:                 idKey(id),
			ConditionExpression: aws.String("attribute_exists(#id)"),
			ExpressionAttributeNames: map[string]string{
				"#id": "id",
			},
		}},
		types.TransactWriteItem{Update: r.guardUpdate(ctx, existing.ItemID, "DELETE", id)},
	)
}

// GetByItemID внутри TxManager читает бронирования консистентно через служебную запись вещи
// и запоминает её версию. Вне TxManager используется GSI.
func (r *Repository) GetByItemID(ctx context.Context, itemID int64) ([]*domain.Booking, error) {
	u := unitFrom(ctx)
	if u == nil {
		return r.queryByItem(ctx, itemID)
	}

	guard, err := r.readGuard(ctx, itemID)
	if err != nil {
		return nil, err
	}
	u.remember(itemID, guard.Version)

	indexed, err := r.queryByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	tracked := make(map[int64]struct{}, len(guard.BookingIDs))
	result := make([]*domain.Booking, 0, len(guard.BookingIDs)+len(indexed))
	for _, id := range guard.BookingIDs {
		tracked[id] = struct{}{}
		booking, err := r.GetByID(ctx, id)
		if errors.Is(err, ErrBookingNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, booking)
	}
	// Записи, созданные до появления служебной записи, видны только через GSI
	for _, booking := range indexed {
		if _, ok := tracked[booking.ID]; !ok {
			result = append(result, booking)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].ID < result[j].ID
		}
		return result[i].Start.Before(result[j].Start)
	})
	return result, nil
}

func (r *Repository) queryByItem(ctx context.Context, itemID int64) ([]*domain.Booking, error) {
	return r.query(ctx, "GetByItemID", &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ItemIndex),
		KeyConditionExpression: aws.String("#item_id = :item_id"),
		ExpressionAttributeNames: map[string]string{
			"#item_id": "item_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":item_id": numberAttr(itemID),
		},
		ScanIndexForward: aws.Bool(true),
	})
}

// GetByBookerID DynamoDB не поддерживает OFFSET, поэтому страница вырезается после выборки
func (r *Repository) GetByBookerID(ctx context.Context, bookerID int64, limit, offset uint64) ([]*domain.Booking, error) {
	bookings, err := r.query(ctx, "GetByBookerID", &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(BookerIndex),
		KeyConditionExpression: aws.String("#booker_id = :booker_id"),
		ExpressionAttributeNames: map[string]string{
			"#booker_id": "booker_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":booker_id": numberAttr(bookerID),
		},
		ScanIndexForward: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	if offset >= uint64(len(bookings)) {
		return []*domain.Booking{}, nil
	}
	end := offset + limit
	if end > uint64(len(bookings)) {
		end = uint64(len(bookings))
	}
	return bookings[offset:end], nil
}

func (r *Repository) GetByItemIDs(ctx context.Context, itemIDs []int64) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, itemID := range itemIDs {
		bookings, err := r.GetByItemID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		result = append(result, bookings...)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].Start.Equal(result[j].Start) {
			return result[i].ID > result[j].ID
		}
		return result[i].Start.After(result[j].Start)
	})
	return result, nil
}

func (r *Repository) GetByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]*domain.Booking, error) {
	return r.query(ctx, "GetByItemAndBooker", &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		IndexName:              aws.String(ItemIndex),
		KeyConditionExpression: aws.String("#item_id = :item_id"),
		FilterExpression:       aws.String("#booker_id = :booker_id"),
		ExpressionAttributeNames: map[string]string{
			"#item_id":   "item_id",
			"#booker_id": "booker_id",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":item_id":   numberAttr(itemID),
			":booker_id": numberAttr(bookerID),
		},
		ScanIndexForward: aws.Bool(false),
	})
}

func (r *Repository) query(ctx context.Context, op string, input *dynamodb.QueryInput) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)

	paginator := dynamodb.NewQueryPaginator(r.ddb, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - query: %w", ErrRequest, op, err)
		}
		for _, av := range page.Items {
			booking, err := fromAttributes(av)
			if err != nil {
				return nil, err
			}
			result = append(result, booking)
		}
	}

	return result, nil
}

// nextID атомарно увеличивает счетчик в служебной записи
func (r *Repository) nextID(ctx context.Context) (int64, error) {
	out, err := r.ddb.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:        aws.String(r.tableName),
		Key:              idKey(counterID),
		UpdateExpression: aws.String("ADD #seq :one"),
		ExpressionAttributeNames: map[string]string{
			"#seq": "seq",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one": numberAttr(1),
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: nextID - update counter: %w", ErrRequest, err)
	}

	var counter struct {
		Seq int64 `dynamodbav:"seq"`
	}
	if err := attributevalue.UnmarshalMap(out.Attributes, &counter); err != nil {
		return 0, fmt.Errorf("%w: nextID - %w", ErrMarshal, err)
	}
	return counter.Seq, nil
}

func idKey(id int64) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": numberAttr(id),
	}
}

func numberAttr(v int64) *types.AttributeValueMemberN {
	return &types.AttributeValueMemberN{Value: strconv.FormatInt(v, 10)}
}

func toItem(b *domain.Booking) bookingItem {
	return bookingItem{
		ID:        b.ID,
		ItemID:    b.ItemID,
		BookerID:  b.BookerID,
		StartTS:   b.Start.UnixNano(),
		EndTS:     b.End.UnixNano(),
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func fromAttributes(av map[string]types.AttributeValue) (*domain.Booking, error) {
	var it bookingItem
	if err := attributevalue.UnmarshalMap(av, &it); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshal, err)
	}

	createdAt, err := time.Parse(time.RFC3339Nano, it.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: booking id=%d created_at: %w", ErrMarshal, it.ID, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: booking id=%d updated_at: %w", ErrMarshal, it.ID, err)
	}

	return &domain.Booking{
		ID:        it.ID,
		ItemID:    it.ItemID,
		BookerID:  it.BookerID,
		Start:     time.Unix(0, it.StartTS).UTC(),
		End:       time.Unix(0, it.EndTS).UTC(),
		Status:    domain.BookingStatus(it.Status),
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}
