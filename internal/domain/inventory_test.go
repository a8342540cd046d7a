package domain

import (
	"errors"
	"testing"
)

func newTestSlot(t *testing.T, id int, name string, price int64, stock int) *ProductSlot {
	t.Helper()
	slotID, err := NewSlotID(id)
	if err != nil {
		t.Fatalf("NewSlotID(%d) failed: %v", id, err)
	}
	info, err := NewProductInfo(name, mustMoney(t, price))
	if err != nil {
		t.Fatalf("NewProductInfo(%q) failed: %v", name, err)
	}
	return NewProductSlot(slotID, info, mustQuantity(t, stock))
}

func TestNewSlotIDRejectsNonPositive(t *testing.T) {
	for _, v := range []int{0, -1} {
		if _, err := NewSlotID(v); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("NewSlotID(%d): expected ErrInvalidArgument, got %v", v, err)
		}
	}
}

func TestNewProductInfoRejectsEmptyName(t *testing.T) {
	if _, err := NewProductInfo("   ", mustMoney(t, 100)); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestInventoryRejectsDuplicateSlot(t *testing.T) {
	inv := NewInventory()
	if err := inv.AddSlot(newTestSlot(t, 1, "Cola", 120, 10)); err != nil {
		t.Fatalf("first AddSlot failed: %v", err)
	}
	if err := inv.AddSlot(newTestSlot(t, 1, "Water", 100, 5)); !errors.Is(err, ErrDuplicateSlot) {
		t.Fatalf("expected ErrDuplicateSlot, got %v", err)
	}
}

func TestInventorySlotNotFound(t *testing.T) {
	inv := NewInventory()
	if _, err := inv.Slot(9); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
	if err := inv.Dispense(9); !errors.Is(err, ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound on dispense, got %v", err)
	}
}

func TestInventoryDispenseDecrementsStock(t *testing.T) {
	inv := NewInventory()
	if err := inv.AddSlot(newTestSlot(t, 1, "Cola", 120, 2)); err != nil {
		t.Fatalf("AddSlot failed: %v", err)
	}

	if err := inv.Dispense(1); err != nil {
		t.Fatalf("dispense failed: %v", err)
	}
	slot, _ := inv.Slot(1)
	if slot.Stock().Value() != 1 {
		t.Fatalf("stock = %d, want 1", slot.Stock().Value())
	}

	if err := inv.Dispense(1); err != nil {
		t.Fatalf("second dispense failed: %v", err)
	}
	if err := inv.Dispense(1); !errors.Is(err, ErrDomainViolation) {
		t.Fatalf("expected ErrDomainViolation on sold-out slot, got %v", err)
	}
}

func TestInventoryRefillBoundedByCapacity(t *testing.T) {
	inv := NewInventory()
	if err := inv.AddSlot(newTestSlot(t, 2, "Tea", 130, MaxSlotCapacity-1)); err != nil {
		t.Fatalf("AddSlot failed: %v", err)
	}

	if err := inv.Refill(2, 2); !errors.Is(err, ErrDomainViolation) {
		t.Fatalf("expected ErrDomainViolation over capacity, got %v", err)
	}
	if err := inv.Refill(2, 1); err != nil {
		t.Fatalf("refill to capacity failed: %v", err)
	}
	slot, _ := inv.Slot(2)
	if slot.Stock().Value() != MaxSlotCapacity {
		t.Fatalf("stock = %d, want %d", slot.Stock().Value(), MaxSlotCapacity)
	}
}

func TestInventorySlotsSortedBySlotID(t *testing.T) {
	inv := NewInventory()
	for _, id := range []int{3, 1, 2} {
		if err := inv.AddSlot(newTestSlot(t, id, "Drink", 100, 1)); err != nil {
			t.Fatalf("AddSlot(%d) failed: %v", id, err)
		}
	}

	slots := inv.Slots()
	if len(slots) != 3 {
		t.Fatalf("expected 3 slots, got %d", len(slots))
	}
	for i, want := range []SlotID{1, 2, 3} {
		if slots[i].ID() != want {
			t.Fatalf("slots[%d].ID() = %d, want %d", i, slots[i].ID(), want)
		}
	}
}
