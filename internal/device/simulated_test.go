package device

import (
	"testing"

	"jihanki/backend/internal/domain"
)

func mustMoney(t *testing.T, amount int64) domain.Money {
	t.Helper()
	m, err := domain.NewMoney(amount)
	if err != nil {
		t.Fatalf("money: %v", err)
	}
	return m
}

func TestSimulatedGatewayAuthorizesByDefault(t *testing.T) {
	g := NewSimulatedPaymentGateway()

	if got := g.PaymentStatus(); got != PaymentPending {
		t.Fatalf("expected initial status pending, got %s", got)
	}

	money := mustMoney(t, 120)
	if err := g.RequestPayment(money); err != nil {
		t.Fatalf("request payment: %v", err)
	}
	if got := g.PaymentStatus(); got != PaymentAuthorized {
		t.Fatalf("expected authorized, got %s", got)
	}
}

func TestSimulatedGatewayScriptedStatusIsOneShot(t *testing.T) {
	g := NewSimulatedPaymentGateway()
	money := mustMoney(t, 120)

	g.ScriptNextStatus(PaymentFailed)
	if err := g.RequestPayment(money); err != nil {
		t.Fatalf("request payment: %v", err)
	}
	if got := g.PaymentStatus(); got != PaymentFailed {
		t.Fatalf("expected scripted failure, got %s", got)
	}

	if err := g.RequestPayment(money); err != nil {
		t.Fatalf("request payment: %v", err)
	}
	if got := g.PaymentStatus(); got != PaymentAuthorized {
		t.Fatalf("expected authorize after script consumed, got %s", got)
	}
}

func TestSimulatedGatewayCancel(t *testing.T) {
	g := NewSimulatedPaymentGateway()
	if err := g.CancelPayment(); err != nil {
		t.Fatalf("cancel payment: %v", err)
	}
	if got := g.PaymentStatus(); got != PaymentCancelled {
		t.Fatalf("expected cancelled, got %s", got)
	}
}
