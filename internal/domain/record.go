package domain

import "time"

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentEMoney PaymentMethod = "emoney"
)

// TransactionRecord is the immutable unit stored by the transaction
// history: one completed purchase.
type TransactionRecord struct {
	ID            string        `json:"id"`
	SalesID       SalesID       `json:"sales_id"`
	SlotID        SlotID        `json:"slot_id"`
	PriceAmount   int64         `json:"price_amount"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
}

// SlotSalesEntry aggregates completed purchases for one slot.
type SlotSalesEntry struct {
	SlotID        SlotID `json:"slot_id"`
	Count         int    `json:"count"`
	RevenueAmount int64  `json:"revenue_amount"`
}

// PaymentMethodEntry aggregates completed purchases per payment method.
type PaymentMethodEntry struct {
	PaymentMethod PaymentMethod `json:"payment_method"`
	Count         int           `json:"count"`
	RevenueAmount int64         `json:"revenue_amount"`
}

// SalesReport is the rendered reporting view over the transaction history.
type SalesReport struct {
	GeneratedAt      string               `json:"generated_at"`
	TransactionCount int                  `json:"transaction_count"`
	TotalRevenue     int64                `json:"total_revenue"`
	BySlot           []SlotSalesEntry     `json:"by_slot"`
	ByPayment        []PaymentMethodEntry `json:"by_payment"`
}
