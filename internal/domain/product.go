package domain

import (
	"fmt"
	"strings"
)

// SlotID identifies a physical dispensing position. Always positive; the
// zero value means "no slot".
type SlotID int

func NewSlotID(value int) (SlotID, error) {
	if value < 1 {
		return 0, fmt.Errorf("%w: slot id must be positive, got %d", ErrInvalidArgument, value)
	}
	return SlotID(value), nil
}

// ProductInfo describes the product loaded in a slot. Shared by value
// across slots carrying the same product.
type ProductInfo struct {
	Name  string
	Price Money
}

func NewProductInfo(name string, price Money) (ProductInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProductInfo{}, fmt.Errorf("%w: product name must not be empty", ErrInvalidArgument)
	}
	return ProductInfo{Name: name, Price: price}, nil
}

// ProductSlot is one dispensing position: a slot id, the product it holds
// and a bounded stock count. Stock changes only through Dispense and Refill
// so it can never go negative or exceed capacity.
type ProductSlot struct {
	id    SlotID
	info  ProductInfo
	stock Quantity
}

func NewProductSlot(id SlotID, info ProductInfo, stock Quantity) *ProductSlot {
	return &ProductSlot{id: id, info: info, stock: stock}
}

func (s *ProductSlot) ID() SlotID {
	return s.id
}

func (s *ProductSlot) Info() ProductInfo {
	return s.info
}

func (s *ProductSlot) Stock() Quantity {
	return s.stock
}

// Dispense removes one unit of stock. Fails when the slot is sold out.
func (s *ProductSlot) Dispense() error {
	next, err := s.stock.Decrease(1)
	if err != nil {
		return fmt.Errorf("slot %d: %w", s.id, err)
	}
	s.stock = next
	return nil
}

// Refill adds qty units of stock, bounded by the slot capacity.
func (s *ProductSlot) Refill(qty int) error {
	next, err := s.stock.Increase(qty)
	if err != nil {
		return fmt.Errorf("slot %d: %w", s.id, err)
	}
	s.stock = next
	return nil
}
