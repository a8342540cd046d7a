package domain

import "fmt"

// SalesID tags transaction records with the machine's sales counter.
type SalesID int

// Mode is the machine's operating mode. Maintenance blocks new sessions.
type Mode string

const (
	ModeNormal      Mode = "normal"
	ModeMaintenance Mode = "maintenance"
)

// ErrNoActiveSession is returned by session operations on the Sales
// aggregate when no purchase attempt is in progress. It is a domain
// violation, so errors.Is(err, ErrDomainViolation) also holds.
var ErrNoActiveSession = fmt.Errorf("%w: no active session", ErrDomainViolation)

// Sales owns at most one active TransactionSession and the machine mode.
// Completing or cancelling a transaction always clears the session, so an
// existing session is always non-terminal and always blocks a new one.
type Sales struct {
	id      SalesID
	mode    Mode
	session *TransactionSession
}

func NewSales(id SalesID) *Sales {
	return &Sales{id: id, mode: ModeNormal}
}

func (s *Sales) ID() SalesID {
	return s.id
}

func (s *Sales) Mode() Mode {
	return s.mode
}

func (s *Sales) CurrentSession() *TransactionSession {
	return s.session
}

// CurrentSessionSalesID returns the sales id while a session is active.
// Used to tag the transaction record; callers must capture it before
// completing the transaction, which clears the session.
func (s *Sales) CurrentSessionSalesID() (SalesID, bool) {
	if s.session == nil {
		return 0, false
	}
	return s.id, true
}

func (s *Sales) StartSession(id SessionID) error {
	if s.mode == ModeMaintenance {
		return fmt.Errorf("%w: machine is in maintenance mode", ErrDomainViolation)
	}
	if s.session != nil {
		return fmt.Errorf("%w: session already exists", ErrDomainViolation)
	}
	s.session = NewTransactionSession(id)
	return nil
}

func (s *Sales) SelectProduct(slot SlotID) error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	return s.session.SelectProduct(slot)
}

func (s *Sales) MarkPaymentPending() error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	return s.session.MarkPaymentPending()
}

func (s *Sales) MarkDispensing() error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	return s.session.MarkDispensing()
}

func (s *Sales) CompleteTransaction() error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	if err := s.session.Complete(); err != nil {
		return err
	}
	s.session = nil
	return nil
}

func (s *Sales) CancelTransaction() error {
	if s.session == nil {
		return ErrNoActiveSession
	}
	if err := s.session.Cancel(); err != nil {
		return err
	}
	s.session = nil
	return nil
}

func (s *Sales) StartMaintenance() error {
	if s.session != nil && !s.session.IsFinished() {
		return fmt.Errorf("%w: cannot start maintenance with an active session", ErrDomainViolation)
	}
	s.mode = ModeMaintenance
	return nil
}

func (s *Sales) EndMaintenance() {
	s.mode = ModeNormal
}
