package itemservice

import "github.com/m04kA/ShareIt-BookingService/internal/domain"

// Item модель вещи из ItemService
type Item struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"ownerId"`
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// OwnerItems ответ со списком идентификаторов вещей владельца
type OwnerItems struct {
	ItemIDs []int64 `json:"itemIds"`
}

func (i Item) toDomain() *domain.Item {
	return &domain.Item{
		ID:        i.ID,
		OwnerID:   i.OwnerID,
		Name:      i.Name,
		Available: i.Available,
	}
}
