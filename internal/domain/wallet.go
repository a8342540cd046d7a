package domain

import "fmt"

// FundingSource records how the current session's balance was funded. A
// session is either cash or e-money, never both; the wallet rejects a
// mismatched second funding call rather than relying on caller discipline.
type FundingSource string

const (
	FundingNone   FundingSource = ""
	FundingCash   FundingSource = "cash"
	FundingEMoney FundingSource = "emoney"
)

// Wallet accumulates the funds available to the current purchase session.
// The balance never goes negative; withdrawing the full balance resets the
// funding source so the next session starts clean.
type Wallet struct {
	balance Money
	source  FundingSource
}

func NewWallet() *Wallet {
	return &Wallet{}
}

func (w *Wallet) Balance() Money {
	return w.balance
}

func (w *Wallet) Source() FundingSource {
	return w.source
}

func (w *Wallet) DepositCash(amount Money) error {
	return w.fund(amount, FundingCash)
}

func (w *Wallet) AuthorizeEMoney(amount Money) error {
	return w.fund(amount, FundingEMoney)
}

func (w *Wallet) fund(amount Money, source FundingSource) error {
	if w.source != FundingNone && w.source != source {
		return fmt.Errorf("%w: wallet already funded via %s", ErrDomainViolation, w.source)
	}
	w.balance = w.balance.Add(amount)
	w.source = source
	return nil
}

func (w *Wallet) Withdraw(amount Money) error {
	next, err := w.balance.Sub(amount)
	if err != nil {
		return fmt.Errorf("wallet: %w", err)
	}
	w.balance = next
	if w.balance.IsZero() {
		w.source = FundingNone
	}
	return nil
}
