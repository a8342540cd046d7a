package domain

import "fmt"

// MaxSlotCapacity is the physical limit of a single dispensing slot.
const MaxSlotCapacity = 50

// Quantity is a stock count in [0, MaxSlotCapacity]. Increase and Decrease
// return new values and never leave the bounds.
type Quantity struct {
	value int
}

func NewQuantity(value int) (Quantity, error) {
	if value < 0 {
		return Quantity{}, fmt.Errorf("%w: quantity must not be negative, got %d", ErrInvalidArgument, value)
	}
	if value > MaxSlotCapacity {
		return Quantity{}, fmt.Errorf("%w: quantity %d exceeds slot capacity %d", ErrInvalidArgument, value, MaxSlotCapacity)
	}
	return Quantity{value: value}, nil
}

func (q Quantity) Value() int {
	return q.value
}

func (q Quantity) IsZero() bool {
	return q.value == 0
}

func (q Quantity) Increase(amount int) (Quantity, error) {
	if amount < 0 {
		return Quantity{}, fmt.Errorf("%w: cannot increase by negative amount %d", ErrInvalidArgument, amount)
	}
	if q.value+amount > MaxSlotCapacity {
		return Quantity{}, fmt.Errorf("%w: increase by %d would exceed slot capacity %d", ErrDomainViolation, amount, MaxSlotCapacity)
	}
	return Quantity{value: q.value + amount}, nil
}

func (q Quantity) Decrease(amount int) (Quantity, error) {
	if amount < 0 {
		return Quantity{}, fmt.Errorf("%w: cannot decrease by negative amount %d", ErrInvalidArgument, amount)
	}
	if q.value < amount {
		return Quantity{}, fmt.Errorf("%w: decrease by %d would make stock negative", ErrDomainViolation, amount)
	}
	return Quantity{value: q.value - amount}, nil
}
