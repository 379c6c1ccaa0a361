package notifications

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

// AdminRoom receives inventory events for staff dashboards.
const AdminRoom = "admin"

const userRoomPrefix = "user:"

// UserRoom is the private room of a single shopper.
func UserRoom(userID uuid.UUID) string {
	return userRoomPrefix + userID.String()
}

// IsUserRoom reports whether room is a per-user room.
func IsUserRoom(room string) bool {
	return len(room) > len(userRoomPrefix) && room[:len(userRoomPrefix)] == userRoomPrefix
}

// Event is one push message addressed to a room.
type Event struct {
	Name   enums.EventName `json:"event"`
	Room   string          `json:"room"`
	Data   json.RawMessage `json:"data"`
	SentAt time.Time       `json:"sentAt"`
}

// OrderPayload is carried by order-notification and order-update events.
type OrderPayload struct {
	OrderID     uuid.UUID         `json:"orderId"`
	OrderNumber string            `json:"orderNumber,omitempty"`
	Status      enums.OrderStatus `json:"status"`
	Message     string            `json:"message"`
}

// StockChange is the number of units an order moved for one product.
type StockChange struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// StockPayload is carried by stock-update events.
type StockPayload struct {
	Message  string        `json:"message"`
	OrderID  uuid.UUID     `json:"orderId"`
	Products []StockChange `json:"products"`
}
