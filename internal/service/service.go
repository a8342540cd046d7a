// Package service orchestrates the machine aggregates, devices and the
// transaction history into the purchase and admin operations the HTTP
// layer exposes. It is the only layer that compensates after a failed
// step; domain methods just report errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jihanki/backend/internal/cache"
	"jihanki/backend/internal/device"
	"jihanki/backend/internal/domain"
	"jihanki/backend/internal/history"
)

// ErrPaymentDeclined marks an e-money purchase the gateway did not
// authorize. The response carries the gateway status for display.
var ErrPaymentDeclined = errors.New("payment declined by gateway")

const reportCacheKey = "sales_report"

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// SessionIDGenerator hands out ids for purchase sessions. Injected so the
// counter is owned by the process wiring, not a package global.
type SessionIDGenerator interface {
	Next() domain.SessionID
}

// CounterSessionIDs is a monotonic SessionIDGenerator safe for concurrent
// use.
type CounterSessionIDs struct {
	n atomic.Int64
}

func (c *CounterSessionIDs) Next() domain.SessionID {
	return domain.SessionID(c.n.Add(1))
}

// Deps bundles the collaborators a Service needs. Zero fields get safe
// defaults from New.
type Deps struct {
	Inventory   *domain.Inventory
	History     history.Repository
	Dispenser   device.Dispenser
	CoinMech    device.CoinMech
	Gateway     device.PaymentGateway
	SessionIDs  SessionIDGenerator
	ReportCache cache.ReportCache
	ReportTTL   time.Duration
	SalesID     domain.SalesID
}

// Service serializes all machine operations behind one mutex. The machine
// is a single physical unit with one front panel; a coarse lock matches
// that model and keeps the aggregates free of locking concerns.
type Service struct {
	mu        sync.Mutex
	inventory *domain.Inventory
	wallet    *domain.Wallet
	sales     *domain.Sales
	method    domain.PaymentMethod // payment method of the active session

	history   history.Repository
	dispenser device.Dispenser
	coinMech  device.CoinMech
	gateway   device.PaymentGateway
	sessions  SessionIDGenerator

	reportCache cache.ReportCache
	reportTTL   time.Duration
}

func New(deps Deps) *Service {
	if deps.Inventory == nil {
		deps.Inventory = domain.NewInventory()
	}
	if deps.SessionIDs == nil {
		deps.SessionIDs = &CounterSessionIDs{}
	}
	if deps.ReportCache == nil {
		deps.ReportCache = cache.NoopReportCache{}
	}
	if deps.ReportTTL <= 0 {
		deps.ReportTTL = 30 * time.Second
	}
	if deps.SalesID == 0 {
		deps.SalesID = 1
	}

	return &Service{
		inventory:   deps.Inventory,
		wallet:      domain.NewWallet(),
		sales:       domain.NewSales(deps.SalesID),
		history:     deps.History,
		dispenser:   deps.Dispenser,
		coinMech:    deps.CoinMech,
		gateway:     deps.Gateway,
		sessions:    deps.SessionIDs,
		reportCache: deps.ReportCache,
		reportTTL:   deps.ReportTTL,
	}
}

func parsePaymentMethod(raw string) (domain.PaymentMethod, error) {
	switch domain.PaymentMethod(raw) {
	case domain.PaymentCash, domain.PaymentEMoney:
		return domain.PaymentMethod(raw), nil
	default:
		return "", fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidArgument, raw)
	}
}

// sessionView renders the current session state. Caller holds s.mu.
func (s *Service) sessionView() domain.SessionResponse {
	resp := domain.SessionResponse{
		BalanceAmount: s.wallet.Balance().Amount(),
		Mode:          string(s.sales.Mode()),
	}
	if sess := s.sales.CurrentSession(); sess != nil {
		resp.SessionID = int64(sess.ID())
		resp.Status = string(sess.Status())
		resp.PaymentMethod = string(s.method)
	}
	return resp
}

func (s *Service) StartSession(_ context.Context, rawMethod string) (domain.SessionResponse, error) {
	method, err := parsePaymentMethod(rawMethod)
	if err != nil {
		return domain.SessionResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sales.StartSession(s.sessions.Next()); err != nil {
		return domain.SessionResponse{}, err
	}
	s.method = method
	return s.sessionView(), nil
}

func (s *Service) InsertCash(_ context.Context, amount int64) (domain.SessionResponse, error) {
	money, err := domain.NewMoney(amount)
	if err != nil {
		return domain.SessionResponse{}, err
	}
	if money.IsZero() {
		return domain.SessionResponse{}, fmt.Errorf("%w: inserted amount must be positive", domain.ErrInvalidArgument)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sales.CurrentSession() == nil {
		return domain.SessionResponse{}, domain.ErrNoActiveSession
	}
	if s.method != domain.PaymentCash {
		return domain.SessionResponse{}, fmt.Errorf("%w: session is not a cash session", domain.ErrDomainViolation)
	}
	if err := s.wallet.DepositCash(money); err != nil {
		return domain.SessionResponse{}, err
	}
	return s.sessionView(), nil
}

func (s *Service) SessionStatus(_ context.Context) domain.SessionResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessionView()
}

// EligibleProducts lists what the current session can buy. Cash sessions
// apply the balance and change-capability rules; e-money sessions only
// require stock, since the gateway owns the funds check.
func (s *Service) EligibleProducts(_ context.Context) ([]domain.EligibleProduct, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sales.CurrentSession() == nil {
		return nil, domain.ErrNoActiveSession
	}
	if s.method == domain.PaymentEMoney {
		return domain.AvailableProducts(s.inventory), nil
	}
	return domain.EligibleProducts(s.inventory, s.wallet, s.coinMech), nil
}

// Purchase runs the select-pay-dispense sequence for the active session's
// payment method. Checks that need no compensation run before the session
// records a selection, so a rejected attempt (wrong slot, sold out, short
// balance) leaves the session retryable.
func (s *Service) Purchase(ctx context.Context, rawSlotID int) (domain.PurchaseResponse, error) {
	slotID, err := domain.NewSlotID(rawSlotID)
	if err != nil {
		return domain.PurchaseResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sales.CurrentSession() == nil {
		return domain.PurchaseResponse{}, domain.ErrNoActiveSession
	}

	slot, err := s.inventory.Slot(slotID)
	if err != nil {
		return domain.PurchaseResponse{}, err
	}
	if slot.Stock().IsZero() {
		return domain.PurchaseResponse{}, fmt.Errorf("%w: slot %d is sold out", domain.ErrDomainViolation, slotID)
	}

	switch s.method {
	case domain.PaymentEMoney:
		return s.purchaseWithEMoney(ctx, slot)
	default:
		return s.purchaseWithCash(ctx, slot)
	}
}

func (s *Service) purchaseWithCash(ctx context.Context, slot *domain.ProductSlot) (domain.PurchaseResponse, error) {
	price := slot.Info().Price
	balance := s.wallet.Balance()

	if balance.Less(price) {
		return domain.PurchaseResponse{}, fmt.Errorf("%w: balance %d does not cover price %d", domain.ErrDomainViolation, balance.Amount(), price.Amount())
	}
	change, err := balance.Sub(price)
	if err != nil {
		return domain.PurchaseResponse{}, err
	}
	if !change.IsZero() && !s.coinMech.CanMakeChange(change) {
		return domain.PurchaseResponse{}, fmt.Errorf("%w: cannot return change of %d", domain.ErrDomainViolation, change.Amount())
	}

	if err := s.sales.SelectProduct(slot.ID()); err != nil {
		return domain.PurchaseResponse{}, err
	}
	if err := s.sales.MarkPaymentPending(); err != nil {
		return domain.PurchaseResponse{}, err
	}

	// Stock reservation precedes the device action.
	if err := s.inventory.Dispense(slot.ID()); err != nil {
		return domain.PurchaseResponse{}, err
	}
	if err := s.sales.MarkDispensing(); err != nil {
		s.restoreStock(slot.ID())
		return domain.PurchaseResponse{}, err
	}
	if err := s.dispenser.Dispense(slot.ID()); err != nil {
		s.restoreStock(slot.ID())
		s.payOutBalance()
		s.cancelSession()
		return domain.PurchaseResponse{}, fmt.Errorf("dispense failed: %w", err)
	}

	if err := s.wallet.Withdraw(price); err != nil {
		return domain.PurchaseResponse{}, err
	}
	if !change.IsZero() {
		if err := s.coinMech.Dispense(change); err != nil {
			log.Printf("[service] WARN: change payout of %d failed: %v", change.Amount(), err)
		}
		if err := s.wallet.Withdraw(change); err != nil {
			return domain.PurchaseResponse{}, err
		}
	}

	salesID, _ := s.sales.CurrentSessionSalesID()
	if err := s.sales.CompleteTransaction(); err != nil {
		return domain.PurchaseResponse{}, err
	}
	s.method = ""

	s.saveRecord(ctx, salesID, slot.ID(), price, domain.PaymentCash)

	return domain.PurchaseResponse{
		SlotID:        int(slot.ID()),
		Name:          slot.Info().Name,
		PriceAmount:   price.Amount(),
		PaymentMethod: string(domain.PaymentCash),
		ChangeAmount:  change.Amount(),
	}, nil
}

func (s *Service) purchaseWithEMoney(ctx context.Context, slot *domain.ProductSlot) (domain.PurchaseResponse, error) {
	price := slot.Info().Price

	if err := s.sales.SelectProduct(slot.ID()); err != nil {
		return domain.PurchaseResponse{}, err
	}
	if err := s.sales.MarkPaymentPending(); err != nil {
		return domain.PurchaseResponse{}, err
	}

	if err := s.gateway.RequestPayment(price); err != nil {
		s.cancelSession()
		return domain.PurchaseResponse{}, fmt.Errorf("payment request failed: %w", err)
	}
	status := s.gateway.PaymentStatus()
	if status != device.PaymentAuthorized {
		// Nothing dispensed yet, so stock needs no rollback.
		s.cancelSession()
		return domain.PurchaseResponse{GatewayStatus: string(status)},
			fmt.Errorf("%w: gateway status %s", ErrPaymentDeclined, status)
	}

	if err := s.wallet.AuthorizeEMoney(price); err != nil {
		s.cancelSession()
		return domain.PurchaseResponse{}, err
	}

	if err := s.inventory.Dispense(slot.ID()); err != nil {
		s.cancelSession()
		return domain.PurchaseResponse{}, err
	}
	if err := s.sales.MarkDispensing(); err != nil {
		s.restoreStock(slot.ID())
		return domain.PurchaseResponse{}, err
	}
	if err := s.dispenser.Dispense(slot.ID()); err != nil {
		s.restoreStock(slot.ID())
		if cancelErr := s.gateway.CancelPayment(); cancelErr != nil {
			log.Printf("[service] WARN: gateway cancel after failed dispense: %v", cancelErr)
		}
		// The gateway cancel reverses the charge, so the authorized
		// balance is released rather than paid out as coins.
		if wErr := s.wallet.Withdraw(price); wErr != nil {
			log.Printf("[service] WARN: wallet reversal after failed dispense: %v", wErr)
		}
		s.cancelSession()
		return domain.PurchaseResponse{}, fmt.Errorf("dispense failed: %w", err)
	}

	if err := s.wallet.Withdraw(price); err != nil {
		return domain.PurchaseResponse{}, err
	}

	salesID, _ := s.sales.CurrentSessionSalesID()
	if err := s.sales.CompleteTransaction(); err != nil {
		return domain.PurchaseResponse{}, err
	}
	s.method = ""

	s.saveRecord(ctx, salesID, slot.ID(), price, domain.PaymentEMoney)

	return domain.PurchaseResponse{
		SlotID:        int(slot.ID()),
		Name:          slot.Info().Name,
		PriceAmount:   price.Amount(),
		PaymentMethod: string(domain.PaymentEMoney),
		GatewayStatus: string(device.PaymentAuthorized),
	}, nil
}

// Refund pays out the remaining balance and cancels the active session.
func (s *Service) Refund(_ context.Context) (domain.RefundResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sales.CurrentSession() == nil {
		return domain.RefundResponse{}, domain.ErrNoActiveSession
	}

	balance := s.wallet.Balance()
	if !balance.IsZero() {
		if err := s.coinMech.Dispense(balance); err != nil {
			return domain.RefundResponse{}, fmt.Errorf("refund payout failed: %w", err)
		}
		if err := s.wallet.Withdraw(balance); err != nil {
			return domain.RefundResponse{}, err
		}
	}
	if s.method == domain.PaymentEMoney {
		if err := s.gateway.CancelPayment(); err != nil {
			log.Printf("[service] WARN: gateway cancel during refund: %v", err)
		}
	}
	if err := s.sales.CancelTransaction(); err != nil {
		return domain.RefundResponse{}, err
	}
	s.method = ""

	return domain.RefundResponse{RefundedAmount: balance.Amount()}, nil
}

// payOutBalance returns the customer's remaining funds through the coin
// mech and zeroes the wallet. A failed purchase attempt must never end
// with money retained and no product delivered. Caller holds s.mu.
func (s *Service) payOutBalance() {
	balance := s.wallet.Balance()
	if balance.IsZero() {
		return
	}
	if err := s.coinMech.Dispense(balance); err != nil {
		log.Printf("[service] WARN: compensation payout of %d failed: %v", balance.Amount(), err)
	}
	if err := s.wallet.Withdraw(balance); err != nil {
		log.Printf("[service] WARN: wallet reset after compensation payout: %v", err)
	}
}

// restoreStock is the inventory compensation after a failed dispense.
// Caller holds s.mu.
func (s *Service) restoreStock(slotID domain.SlotID) {
	if err := s.inventory.Refill(slotID, 1); err != nil {
		log.Printf("[service] WARN: stock restore for slot %d failed: %v", slotID, err)
	}
}

// cancelSession cancels the active session without touching the wallet.
// Caller holds s.mu.
func (s *Service) cancelSession() {
	if err := s.sales.CancelTransaction(); err != nil {
		log.Printf("[service] WARN: session cancel failed: %v", err)
		return
	}
	s.method = ""
}

// saveRecord appends a completed purchase to the history. A write failure
// does not undo a purchase the customer already received, so it is logged
// and swallowed. Caller holds s.mu.
func (s *Service) saveRecord(ctx context.Context, salesID domain.SalesID, slotID domain.SlotID, price domain.Money, method domain.PaymentMethod) {
	rec := domain.TransactionRecord{
		ID:            uuid.NewString(),
		SalesID:       salesID,
		SlotID:        slotID,
		PriceAmount:   price.Amount(),
		PaymentMethod: method,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.history.Save(ctx, rec); err != nil {
		log.Printf("[service] WARN: failed to save transaction record slot=%d: %v", slotID, err)
		return
	}
	if err := s.reportCache.Del(ctx, reportCacheKey); err != nil {
		log.Printf("[service] WARN: report cache invalidation: %v", err)
	}
}
