package enums

// PaymentStatus mirrors the payment lifecycle stored on orders. Orders are
// created pending and nothing in this service advances the value.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}
