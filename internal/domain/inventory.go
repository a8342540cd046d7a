package domain

import (
	"fmt"
	"sort"
)

// Inventory owns the machine's product slots, keyed by slot id. Each slot
// has exactly one owner; duplicate ids are rejected on insertion.
type Inventory struct {
	slots map[SlotID]*ProductSlot
}

func NewInventory() *Inventory {
	return &Inventory{slots: make(map[SlotID]*ProductSlot)}
}

func (inv *Inventory) AddSlot(slot *ProductSlot) error {
	if _, exists := inv.slots[slot.ID()]; exists {
		return fmt.Errorf("%w: slot %d", ErrDuplicateSlot, slot.ID())
	}
	inv.slots[slot.ID()] = slot
	return nil
}

func (inv *Inventory) Slot(id SlotID) (*ProductSlot, error) {
	slot, exists := inv.slots[id]
	if !exists {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotNotFound, id)
	}
	return slot, nil
}

func (inv *Inventory) Dispense(id SlotID) error {
	slot, err := inv.Slot(id)
	if err != nil {
		return err
	}
	return slot.Dispense()
}

func (inv *Inventory) Refill(id SlotID, qty int) error {
	slot, err := inv.Slot(id)
	if err != nil {
		return err
	}
	return slot.Refill(qty)
}

// Slots returns the slots in ascending id order. Read view for
// cross-aggregate services; callers must not mutate stock through it.
func (inv *Inventory) Slots() []*ProductSlot {
	out := make([]*ProductSlot, 0, len(inv.slots))
	for _, slot := range inv.slots {
		out = append(out, slot)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
