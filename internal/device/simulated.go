package device

import (
	"log"
	"sync"

	"jihanki/backend/internal/domain"
)

// SimulatedDispenser logs dispense actions instead of driving hardware.
type SimulatedDispenser struct{}

func NewSimulatedDispenser() *SimulatedDispenser {
	return &SimulatedDispenser{}
}

func (d *SimulatedDispenser) Dispense(slot domain.SlotID) error {
	log.Printf("[dispenser] dispensing product from slot %d", slot)
	return nil
}

// SimulatedCoinMech always claims it can make change, like a freshly
// stocked coin tube set.
type SimulatedCoinMech struct{}

func NewSimulatedCoinMech() *SimulatedCoinMech {
	return &SimulatedCoinMech{}
}

func (c *SimulatedCoinMech) CanMakeChange(domain.Money) bool {
	return true
}

func (c *SimulatedCoinMech) Dispense(amount domain.Money) error {
	log.Printf("[coinmech] paying out %d", amount.Amount())
	return nil
}

// SimulatedPaymentGateway authorizes every request by default. The next
// outcome can be scripted for demos and tests.
type SimulatedPaymentGateway struct {
	mu     sync.Mutex
	status PaymentStatus
	next   *PaymentStatus
}

func NewSimulatedPaymentGateway() *SimulatedPaymentGateway {
	return &SimulatedPaymentGateway{status: PaymentPending}
}

// ScriptNextStatus sets the status the next RequestPayment resolves to.
func (g *SimulatedPaymentGateway) ScriptNextStatus(status PaymentStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next = &status
}

func (g *SimulatedPaymentGateway) RequestPayment(price domain.Money) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Printf("[gateway] payment requested for %d", price.Amount())
	if g.next != nil {
		g.status = *g.next
		g.next = nil
		return nil
	}
	g.status = PaymentAuthorized
	return nil
}

func (g *SimulatedPaymentGateway) CancelPayment() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	log.Printf("[gateway] payment cancelled")
	g.status = PaymentCancelled
	return nil
}

func (g *SimulatedPaymentGateway) PaymentStatus() PaymentStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}
