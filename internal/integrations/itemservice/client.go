package itemservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/m04kA/ShareIt-BookingService/internal/domain"
)

// Client клиент для работы с ItemService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ItemService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetItem получает вещь по ID
func (c *Client) GetItem(ctx context.Context, itemID int64) (*domain.Item, error) {
	url := fmt.Sprintf("%s/internal/items/%d", c.baseURL, itemID)

	var item Item
	if err := c.get(ctx, url, ErrItemNotFound, &item); err != nil {
		return nil, err
	}

	return item.toDomain(), nil
}

// GetItemIDsByOwner получает идентификаторы всех вещей владельца
func (c *Client) GetItemIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	url := fmt.Sprintf("%s/internal/users/%d/items", c.baseURL, ownerID)

	var resp OwnerItems
	if err := c.get(ctx, url, ErrOwnerNotFound, &resp); err != nil {
		return nil, err
	}

	if resp.ItemIDs == nil {
		return []int64{}, nil
	}
	return resp.ItemIDs, nil
}

func (c *Client) get(ctx context.Context, url string, notFound error, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("ItemService request %s failed: %v", url, err)
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	return nil
}
