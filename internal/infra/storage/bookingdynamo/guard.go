package bookingdynamo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Служебная запись вещи лежит по ключу id = -itemID.
// ver растет при каждой записи бронирования этой вещи,
// booking_ids хранит идентификаторы её бронирований для консистентного чтения.
type itemGuard struct {
	Version    int64   `dynamodbav:"ver"`
	BookingIDs []int64 `dynamodbav:"booking_ids,numberset,omitempty"`
}

const codeConditionalCheckFailed = "ConditionalCheckFailed"

func guardID(itemID int64) int64 {
	return -itemID
}

// unit запоминает версии вещей, прочитанные внутри одной попытки TxManager
type unit struct {
	mu   sync.Mutex
	seen map[int64]int64
}

type unitKey struct{}

func withUnit(ctx context.Context) context.Context {
	return context.WithValue(ctx, unitKey{}, &unit{seen: make(map[int64]int64)})
}

func unitFrom(ctx context.Context) *unit {
	u, _ := ctx.Value(unitKey{}).(*unit)
	return u
}

func (u *unit) remember(itemID, version int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.seen[itemID]; !ok {
		u.seen[itemID] = version
	}
}

func (u *unit) version(itemID int64) (int64, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	v, ok := u.seen[itemID]
	return v, ok
}

func (u *unit) advance(itemID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if v, ok := u.seen[itemID]; ok {
		u.seen[itemID] = v + 1
	}
}

func (r *Repository) readGuard(ctx context.Context, itemID int64) (*itemGuard, error) {
	out, err := r.ddb.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            idKey(guardID(itemID)),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: readGuard - get item: %w", ErrRequest, err)
	}

	guard := &itemGuard{}
	if len(out.Item) == 0 {
		return guard, nil
	}
	if err := attributevalue.UnmarshalMap(out.Item, guard); err != nil {
		return nil, fmt.Errorf("%w: readGuard - %w", ErrMarshal, err)
	}
	return guard, nil
}

// guardUpdate поднимает версию вещи. Если версия была прочитана в текущей попытке,
// запись пройдет только при неизменной версии.
func (r *Repository) guardUpdate(ctx context.Context, itemID int64, idsAction string, bookingID int64) *types.Update {
	expr := "ADD #ver :one"
	names := map[string]string{"#ver": "ver"}
	values := map[string]types.AttributeValue{":one": numberAttr(1)}

	switch idsAction {
	case "ADD":
		expr = "ADD #ver :one, #ids :ids"
	case "DELETE":
		expr = "ADD #ver :one DELETE #ids :ids"
	}
	if idsAction != "" {
		names["#ids"] = "booking_ids"
		values[":ids"] = &types.AttributeValueMemberNS{Value: []string{strconv.FormatInt(bookingID, 10)}}
	}

	update := &types.Update{
		TableName:                 aws.String(r.tableName),
		Key:                       idKey(guardID(itemID)),
		UpdateExpression:          aws.String(expr),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
	}

	if u := unitFrom(ctx); u != nil {
		if seen, ok := u.version(itemID); ok {
			values[":seen"] = numberAttr(seen)
			if seen == 0 {
				update.ConditionExpression = aws.String("attribute_not_exists(#ver) OR #ver = :seen")
			} else {
				update.ConditionExpression = aws.String("#ver = :seen")
			}
		}
	}
	return update
}

// writeGuarded атомарно применяет запись бронирования и обновление служебной записи вещи.
// Первый элемент items относится к бронированию.
func (r *Repository) writeGuarded(ctx context.Context, op string, itemID int64, items ...types.TransactWriteItem) error {
	_, err := r.ddb.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: items,
	})
	if err == nil {
		if u := unitFrom(ctx); u != nil {
			u.advance(itemID)
		}
		return nil
	}

	var tce *types.TransactionCanceledException
	if !errors.As(err, &tce) {
		return fmt.Errorf("%w: %s - transact write: %w", ErrRequest, op, err)
	}

	reasons := tce.CancellationReasons
	if len(reasons) > 0 && aws.ToString(reasons[0].Code) == codeConditionalCheckFailed {
		return ErrBookingNotFound
	}
	return fmt.Errorf("%w: %s - item id=%d: %w", ErrItemConflict, op, itemID, err)
}
