package domain

import "fmt"

// Money is a non-negative integer amount of currency. The zero value is
// zero yen. Arithmetic never mutates; every result is a fresh value.
type Money struct {
	amount int64
}

func NewMoney(amount int64) (Money, error) {
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: money amount must not be negative, got %d", ErrInvalidArgument, amount)
	}
	return Money{amount: amount}, nil
}

func (m Money) Amount() int64 {
	return m.amount
}

func (m Money) IsZero() bool {
	return m.amount == 0
}

// Add always succeeds: the sum of two non-negative amounts is valid.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount + other.amount}
}

func (m Money) Sub(other Money) (Money, error) {
	if m.amount < other.amount {
		return Money{}, fmt.Errorf("%w: subtracting %d from %d would go negative", ErrDomainViolation, other.amount, m.amount)
	}
	return Money{amount: m.amount - other.amount}, nil
}

func (m Money) Less(other Money) bool {
	return m.amount < other.amount
}
