package domain

// Request/response models for the HTTP surface. The core types above know
// nothing about JSON; these are the wire shapes.

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}

type StartSessionRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type SessionResponse struct {
	SessionID     int64  `json:"session_id"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
	BalanceAmount int64  `json:"balance_amount"`
	Mode          string `json:"mode"`
}

type InsertCoinsRequest struct {
	Amount int64 `json:"amount"`
}

type EligibleProductView struct {
	SlotID      int    `json:"slot_id"`
	Name        string `json:"name"`
	PriceAmount int64  `json:"price_amount"`
}

type EligibleProductsResponse struct {
	Products []EligibleProductView `json:"products"`
}

type PurchaseRequest struct {
	SlotID int `json:"slot_id"`
}

type PurchaseResponse struct {
	SlotID        int    `json:"slot_id"`
	Name          string `json:"name"`
	PriceAmount   int64  `json:"price_amount"`
	PaymentMethod string `json:"payment_method"`
	ChangeAmount  int64  `json:"change_amount"`
	GatewayStatus string `json:"gateway_status,omitempty"`
}

type RefundResponse struct {
	RefundedAmount int64 `json:"refunded_amount"`
}

type SlotView struct {
	SlotID      int    `json:"slot_id"`
	Name        string `json:"name"`
	PriceAmount int64  `json:"price_amount"`
	Stock       int    `json:"stock"`
}

type SlotsResponse struct {
	Mode  string     `json:"mode"`
	Slots []SlotView `json:"slots"`
}

type AddSlotRequest struct {
	SlotID       int    `json:"slot_id"`
	Name         string `json:"name"`
	PriceAmount  int64  `json:"price_amount"`
	InitialStock int    `json:"initial_stock"`
}

type RefillRequest struct {
	Qty int `json:"qty"`
}

type RevenueResponse struct {
	TotalRevenue     int64 `json:"total_revenue"`
	TransactionCount int   `json:"transaction_count"`
}

type CollectCashResponse struct {
	CollectionID    string `json:"collection_id"`
	CollectedAmount int64  `json:"collected_amount"`
	CollectedAt     string `json:"collected_at"`
}

type HistoryResponse struct {
	Records []TransactionRecord `json:"records"`
}
