package domain

import "testing"

// oracleStub records the change amounts it was asked about.
type oracleStub struct {
	canMake bool
	asked   []int64
}

func (o *oracleStub) CanMakeChange(amount Money) bool {
	o.asked = append(o.asked, amount.Amount())
	return o.canMake
}

func newEligibilityInventory(t *testing.T) *Inventory {
	t.Helper()
	inv := NewInventory()
	for _, s := range []struct {
		id    int
		name  string
		price int64
		stock int
	}{
		{1, "Cola", 120, 10},
		{2, "Water", 100, 0},
		{3, "Coffee", 150, 3},
	} {
		if err := inv.AddSlot(newTestSlot(t, s.id, s.name, s.price, s.stock)); err != nil {
			t.Fatalf("AddSlot(%d) failed: %v", s.id, err)
		}
	}
	return inv
}

func TestEligibleProductsExcludesSoldOutAndUnaffordable(t *testing.T) {
	inv := newEligibilityInventory(t)
	w := NewWallet()
	if err := w.DepositCash(mustMoney(t, 130)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	got := EligibleProducts(inv, w, &oracleStub{canMake: true})
	// Slot 2 is sold out, slot 3 costs more than the balance.
	if len(got) != 1 || got[0].SlotID != 1 {
		t.Fatalf("eligible = %+v, want only slot 1", got)
	}
}

func TestEligibleProductsConsultsOracleForChange(t *testing.T) {
	inv := newEligibilityInventory(t)
	w := NewWallet()
	if err := w.DepositCash(mustMoney(t, 150)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	oracle := &oracleStub{canMake: false}
	got := EligibleProducts(inv, w, oracle)

	// Slot 1 needs 30 in change and the oracle says no; slot 3 is an exact
	// payment and must not consult the oracle at all.
	if len(got) != 1 || got[0].SlotID != 3 {
		t.Fatalf("eligible = %+v, want only slot 3", got)
	}
	if len(oracle.asked) != 1 || oracle.asked[0] != 30 {
		t.Fatalf("oracle asked about %v, want [30]", oracle.asked)
	}
}

func TestEligibleProductsDeterministicOrder(t *testing.T) {
	inv := NewInventory()
	for _, id := range []int{5, 2, 9, 1} {
		if err := inv.AddSlot(newTestSlot(t, id, "Drink", 100, 1)); err != nil {
			t.Fatalf("AddSlot(%d) failed: %v", id, err)
		}
	}
	w := NewWallet()
	if err := w.DepositCash(mustMoney(t, 100)); err != nil {
		t.Fatalf("deposit failed: %v", err)
	}

	got := EligibleProducts(inv, w, &oracleStub{canMake: true})
	want := []SlotID{1, 2, 5, 9}
	if len(got) != len(want) {
		t.Fatalf("eligible count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].SlotID != want[i] {
			t.Fatalf("eligible[%d].SlotID = %d, want %d", i, got[i].SlotID, want[i])
		}
	}
}

func TestAvailableProductsIgnoresBalance(t *testing.T) {
	inv := newEligibilityInventory(t)

	got := AvailableProducts(inv)
	want := []SlotID{1, 3}
	if len(got) != len(want) {
		t.Fatalf("available = %+v, want slots 1 and 3", got)
	}
	for i := range want {
		if got[i].SlotID != want[i] {
			t.Fatalf("available[%d].SlotID = %d, want %d", i, got[i].SlotID, want[i])
		}
	}
}
