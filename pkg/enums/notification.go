package enums

// EventName identifies a push notification delivered to connected clients.
type EventName string

const (
	EventOrderNotification EventName = "order-notification"
	EventOrderUpdate       EventName = "order-update"
	EventStockUpdate       EventName = "stock-update"
)

// String implements fmt.Stringer.
func (e EventName) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventName.
func (e EventName) IsValid() bool {
	switch e {
	case EventOrderNotification, EventOrderUpdate, EventStockUpdate:
		return true
	}
	return false
}
