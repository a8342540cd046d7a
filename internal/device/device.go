// Package device defines the capability contracts for the machine's
// peripherals and provides simulated adapters for dev/demo mode. Real
// hardware gets its own adapter implementing the same interfaces.
package device

import "jihanki/backend/internal/domain"

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentAuthorized PaymentStatus = "authorized"
	PaymentFailed     PaymentStatus = "failed"
	PaymentCancelled  PaymentStatus = "cancelled"
)

// Dispenser pushes the product in a slot out of the machine.
type Dispenser interface {
	Dispense(slot domain.SlotID) error
}

// CoinMech is the coin mechanism: the change oracle plus physical payout.
// It satisfies domain.ChangeOracle.
type CoinMech interface {
	CanMakeChange(amount domain.Money) bool
	Dispense(amount domain.Money) error
}

// PaymentGateway is the external electronic-payment collaborator. Requests
// resolve synchronously; the status is read back after RequestPayment.
type PaymentGateway interface {
	RequestPayment(price domain.Money) error
	CancelPayment() error
	PaymentStatus() PaymentStatus
}
