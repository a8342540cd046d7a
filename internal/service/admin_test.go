package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"jihanki/backend/internal/domain"
)

func adminCtx() context.Context {
	return WithActor(context.Background(), domain.Actor{Username: "admin", Role: "admin"})
}

func buyCola(t *testing.T, f *fixture, amount int64) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.StartSession(ctx, "cash"); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if _, err := f.svc.InsertCash(ctx, amount); err != nil {
		t.Fatalf("insert cash: %v", err)
	}
	if _, err := f.svc.Purchase(ctx, 1); err != nil {
		t.Fatalf("purchase: %v", err)
	}
}

func TestAdminOperationsRequireAdminRole(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if _, err := f.svc.Slots(ctx); err == nil {
		t.Fatalf("expected slots listing to require admin")
	}
	if _, err := f.svc.CollectCash(ctx); err == nil {
		t.Fatalf("expected collect to require admin")
	}
	if err := f.svc.StartMaintenance(ctx); err == nil {
		t.Fatalf("expected maintenance start to require admin")
	}
}

func TestRefillRequiresMaintenanceMode(t *testing.T) {
	f := newFixture(t, nil)
	ctx := adminCtx()

	if _, err := f.svc.Refill(ctx, 2, 5); !errors.Is(err, domain.ErrDomainViolation) {
		t.Fatalf("expected refill outside maintenance to fail, got %v", err)
	}

	if err := f.svc.StartMaintenance(ctx); err != nil {
		t.Fatalf("start maintenance: %v", err)
	}
	view, err := f.svc.Refill(ctx, 2, 5)
	if err != nil {
		t.Fatalf("refill: %v", err)
	}
	if view.Stock != 5 {
		t.Fatalf("expected stock 5 after refill, got %d", view.Stock)
	}
	if err := f.svc.EndMaintenance(ctx); err != nil {
		t.Fatalf("end maintenance: %v", err)
	}

	// Sessions are blocked while the door is open.
	if err := f.svc.StartMaintenance(ctx); err != nil {
		t.Fatalf("restart maintenance: %v", err)
	}
	if _, err := f.svc.StartSession(context.Background(), "cash"); !errors.Is(err, domain.ErrDomainViolation) {
		t.Fatalf("expected session start in maintenance to fail, got %v", err)
	}
}

func TestMaintenanceBlockedByActiveSession(t *testing.T) {
	f := newFixture(t, nil)

	if _, err := f.svc.StartSession(context.Background(), "cash"); err != nil {
		t.Fatalf("start session: %v", err)
	}
	if err := f.svc.StartMaintenance(adminCtx()); !errors.Is(err, domain.ErrDomainViolation) {
		t.Fatalf("expected maintenance start with active session to fail, got %v", err)
	}
}

func TestAddSlotValidationAndDuplicates(t *testing.T) {
	f := newFixture(t, nil)
	ctx := adminCtx()

	view, err := f.svc.AddSlot(ctx, domain.AddSlotRequest{SlotID: 3, Name: "Tea", PriceAmount: 130, InitialStock: 20})
	if err != nil {
		t.Fatalf("add slot: %v", err)
	}
	if view.SlotID != 3 || view.Stock != 20 {
		t.Fatalf("unexpected slot view %+v", view)
	}

	if _, err := f.svc.AddSlot(ctx, domain.AddSlotRequest{SlotID: 3, Name: "Tea", PriceAmount: 130}); !errors.Is(err, domain.ErrDuplicateSlot) {
		t.Fatalf("expected duplicate slot error, got %v", err)
	}
	if _, err := f.svc.AddSlot(ctx, domain.AddSlotRequest{SlotID: 4, Name: "", PriceAmount: 100}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument for empty name, got %v", err)
	}
}

func TestSalesReportAggregation(t *testing.T) {
	f := newFixture(t, nil)

	buyCola(t, f, 120)
	buyCola(t, f, 150)

	ctx := context.Background()
	if _, err := f.svc.StartSession(ctx, "emoney"); err != nil {
		t.Fatalf("start emoney session: %v", err)
	}
	if _, err := f.svc.Purchase(ctx, 1); err != nil {
		t.Fatalf("emoney purchase: %v", err)
	}

	report, err := f.svc.SalesReport(adminCtx())
	if err != nil {
		t.Fatalf("sales report: %v", err)
	}
	if report.TransactionCount != 3 || report.TotalRevenue != 360 {
		t.Fatalf("expected 3 transactions revenue 360, got %+v", report)
	}
	if len(report.BySlot) != 1 || report.BySlot[0].SlotID != 1 || report.BySlot[0].Count != 3 {
		t.Fatalf("unexpected slot aggregation %+v", report.BySlot)
	}
	if len(report.ByPayment) != 2 {
		t.Fatalf("expected cash and emoney entries, got %+v", report.ByPayment)
	}
	if report.ByPayment[0].PaymentMethod != domain.PaymentCash || report.ByPayment[0].Count != 2 {
		t.Fatalf("unexpected cash entry %+v", report.ByPayment[0])
	}
	if report.ByPayment[1].PaymentMethod != domain.PaymentEMoney || report.ByPayment[1].RevenueAmount != 120 {
		t.Fatalf("unexpected emoney entry %+v", report.ByPayment[1])
	}
}

func TestBuildSalesReportOrdersSlots(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []domain.TransactionRecord{
		{ID: "a", SlotID: 5, PriceAmount: 100, PaymentMethod: domain.PaymentCash},
		{ID: "b", SlotID: 2, PriceAmount: 130, PaymentMethod: domain.PaymentCash},
		{ID: "c", SlotID: 5, PriceAmount: 100, PaymentMethod: domain.PaymentEMoney},
	}

	report := buildSalesReport(records, now)
	if report.GeneratedAt != "2026-03-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp %s", report.GeneratedAt)
	}
	if len(report.BySlot) != 2 || report.BySlot[0].SlotID != 2 || report.BySlot[1].SlotID != 5 {
		t.Fatalf("expected slots in ascending order, got %+v", report.BySlot)
	}
	if report.BySlot[1].Count != 2 || report.BySlot[1].RevenueAmount != 200 {
		t.Fatalf("unexpected slot 5 aggregation %+v", report.BySlot[1])
	}
}

func TestCollectCashDrainsRevenue(t *testing.T) {
	f := newFixture(t, nil)
	buyCola(t, f, 120)
	ctx := adminCtx()

	revenue, err := f.svc.TotalRevenue(ctx)
	if err != nil {
		t.Fatalf("total revenue: %v", err)
	}
	if revenue.TotalRevenue != 120 || revenue.TransactionCount != 1 {
		t.Fatalf("unexpected revenue %+v", revenue)
	}

	receipt, err := f.svc.CollectCash(ctx)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	if receipt.CollectedAmount != 120 || receipt.CollectionID == "" {
		t.Fatalf("unexpected receipt %+v", receipt)
	}

	revenue, err = f.svc.TotalRevenue(ctx)
	if err != nil {
		t.Fatalf("total revenue after collect: %v", err)
	}
	if revenue.TotalRevenue != 0 || revenue.TransactionCount != 0 {
		t.Fatalf("expected empty history after collect, got %+v", revenue)
	}
}

func TestHistoryFiltersBySlot(t *testing.T) {
	f := newFixture(t, nil)
	buyCola(t, f, 120)

	ctx := adminCtx()
	all, err := f.svc.History(ctx, 0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(all.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(all.Records))
	}

	none, err := f.svc.History(ctx, 2)
	if err != nil {
		t.Fatalf("history by slot: %v", err)
	}
	if len(none.Records) != 0 {
		t.Fatalf("expected no records for slot 2, got %d", len(none.Records))
	}
}
