package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"jihanki/backend/internal/domain"
)

func requireAdmin(ctx context.Context) error {
	actor, ok := ActorFromContext(ctx)
	if !ok || actor.Role != "admin" {
		return fmt.Errorf("admin role required")
	}
	return nil
}

func (s *Service) Slots(ctx context.Context) (domain.SlotsResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SlotsResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	resp := domain.SlotsResponse{
		Mode:  string(s.sales.Mode()),
		Slots: make([]domain.SlotView, 0, 8),
	}
	for _, slot := range s.inventory.Slots() {
		resp.Slots = append(resp.Slots, domain.SlotView{
			SlotID:      int(slot.ID()),
			Name:        slot.Info().Name,
			PriceAmount: slot.Info().Price.Amount(),
			Stock:       slot.Stock().Value(),
		})
	}
	return resp, nil
}

func (s *Service) AddSlot(ctx context.Context, req domain.AddSlotRequest) (domain.SlotView, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SlotView{}, err
	}

	slotID, err := domain.NewSlotID(req.SlotID)
	if err != nil {
		return domain.SlotView{}, err
	}
	price, err := domain.NewMoney(req.PriceAmount)
	if err != nil {
		return domain.SlotView{}, err
	}
	info, err := domain.NewProductInfo(req.Name, price)
	if err != nil {
		return domain.SlotView{}, err
	}
	stock, err := domain.NewQuantity(req.InitialStock)
	if err != nil {
		return domain.SlotView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	slot := domain.NewProductSlot(slotID, info, stock)
	if err := s.inventory.AddSlot(slot); err != nil {
		return domain.SlotView{}, err
	}

	return domain.SlotView{
		SlotID:      int(slot.ID()),
		Name:        info.Name,
		PriceAmount: price.Amount(),
		Stock:       stock.Value(),
	}, nil
}

// Refill restocks a slot. The machine must be in maintenance mode, the
// same rule a technician follows: stop sales, open the door, restock.
func (s *Service) Refill(ctx context.Context, rawSlotID int, qty int) (domain.SlotView, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SlotView{}, err
	}

	slotID, err := domain.NewSlotID(rawSlotID)
	if err != nil {
		return domain.SlotView{}, err
	}
	if qty < 1 {
		return domain.SlotView{}, fmt.Errorf("%w: refill qty must be positive, got %d", domain.ErrInvalidArgument, qty)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sales.Mode() != domain.ModeMaintenance {
		return domain.SlotView{}, fmt.Errorf("%w: refill requires maintenance mode", domain.ErrDomainViolation)
	}
	if err := s.inventory.Refill(slotID, qty); err != nil {
		return domain.SlotView{}, err
	}

	slot, err := s.inventory.Slot(slotID)
	if err != nil {
		return domain.SlotView{}, err
	}
	return domain.SlotView{
		SlotID:      int(slot.ID()),
		Name:        slot.Info().Name,
		PriceAmount: slot.Info().Price.Amount(),
		Stock:       slot.Stock().Value(),
	}, nil
}

func (s *Service) StartMaintenance(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sales.StartMaintenance()
}

func (s *Service) EndMaintenance(ctx context.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales.EndMaintenance()
	return nil
}

// TotalRevenue is the read-only preview of what CollectCash would take.
func (s *Service) TotalRevenue(ctx context.Context) (domain.RevenueResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.RevenueResponse{}, err
	}

	total, err := s.history.TotalRevenue(ctx)
	if err != nil {
		return domain.RevenueResponse{}, err
	}
	records, err := s.history.GetAll(ctx)
	if err != nil {
		return domain.RevenueResponse{}, err
	}
	return domain.RevenueResponse{
		TotalRevenue:     total,
		TransactionCount: len(records),
	}, nil
}

// CollectCash empties the machine's takings: it reads the accumulated
// revenue, clears the history and returns a receipt.
func (s *Service) CollectCash(ctx context.Context) (domain.CollectCashResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.CollectCashResponse{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	total, err := s.history.TotalRevenue(ctx)
	if err != nil {
		return domain.CollectCashResponse{}, err
	}
	if err := s.history.Clear(ctx); err != nil {
		return domain.CollectCashResponse{}, err
	}
	if err := s.reportCache.Del(ctx, reportCacheKey); err != nil {
		log.Printf("[service] WARN: report cache invalidation: %v", err)
	}

	return domain.CollectCashResponse{
		CollectionID:    uuid.NewString(),
		CollectedAmount: total,
		CollectedAt:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// SalesReport aggregates the history per slot and per payment method. The
// rendered report is cached briefly; saves and collections invalidate it.
func (s *Service) SalesReport(ctx context.Context) (domain.SalesReport, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.SalesReport{}, err
	}

	if cached, ok, err := s.reportCache.Get(ctx, reportCacheKey); err != nil {
		log.Printf("[service] WARN: report cache read: %v", err)
	} else if ok {
		return *cached, nil
	}

	records, err := s.history.GetAll(ctx)
	if err != nil {
		return domain.SalesReport{}, err
	}

	report := buildSalesReport(records, time.Now().UTC())

	if err := s.reportCache.Set(ctx, reportCacheKey, &report, s.reportTTL); err != nil {
		log.Printf("[service] WARN: report cache write: %v", err)
	}
	return report, nil
}

func buildSalesReport(records []domain.TransactionRecord, now time.Time) domain.SalesReport {
	report := domain.SalesReport{
		GeneratedAt:      now.Format(time.RFC3339),
		TransactionCount: len(records),
		BySlot:           make([]domain.SlotSalesEntry, 0, 8),
		ByPayment:        make([]domain.PaymentMethodEntry, 0, 2),
	}

	bySlot := make(map[domain.SlotID]*domain.SlotSalesEntry)
	byPayment := make(map[domain.PaymentMethod]*domain.PaymentMethodEntry)
	for _, rec := range records {
		report.TotalRevenue += rec.PriceAmount

		entry, ok := bySlot[rec.SlotID]
		if !ok {
			entry = &domain.SlotSalesEntry{SlotID: rec.SlotID}
			bySlot[rec.SlotID] = entry
		}
		entry.Count++
		entry.RevenueAmount += rec.PriceAmount

		pay, ok := byPayment[rec.PaymentMethod]
		if !ok {
			pay = &domain.PaymentMethodEntry{PaymentMethod: rec.PaymentMethod}
			byPayment[rec.PaymentMethod] = pay
		}
		pay.Count++
		pay.RevenueAmount += rec.PriceAmount
	}

	for _, method := range []domain.PaymentMethod{domain.PaymentCash, domain.PaymentEMoney} {
		if entry, ok := byPayment[method]; ok {
			report.ByPayment = append(report.ByPayment, *entry)
		}
	}

	slotIDs := make([]int, 0, len(bySlot))
	for id := range bySlot {
		slotIDs = append(slotIDs, int(id))
	}
	sort.Ints(slotIDs)
	for _, id := range slotIDs {
		report.BySlot = append(report.BySlot, *bySlot[domain.SlotID(id)])
	}

	return report
}

// History lists all completed transactions, oldest first. A positive
// slotID narrows the listing to one slot.
func (s *Service) History(ctx context.Context, slotID int) (domain.HistoryResponse, error) {
	if err := requireAdmin(ctx); err != nil {
		return domain.HistoryResponse{}, err
	}

	var (
		records []domain.TransactionRecord
		err     error
	)
	if slotID > 0 {
		id, idErr := domain.NewSlotID(slotID)
		if idErr != nil {
			return domain.HistoryResponse{}, idErr
		}
		records, err = s.history.GetBySlot(ctx, id)
	} else {
		records, err = s.history.GetAll(ctx)
	}
	if err != nil {
		return domain.HistoryResponse{}, err
	}
	return domain.HistoryResponse{Records: records}, nil
}
