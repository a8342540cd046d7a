package domain

import "fmt"

// SessionID identifies one purchase attempt. Ids come from a monotonic
// generator owned by the service layer.
type SessionID int64

type SessionStatus string

const (
	StatusSelecting      SessionStatus = "selecting"
	StatusPaymentPending SessionStatus = "payment_pending"
	StatusDispensing     SessionStatus = "dispensing"
	StatusCompleted      SessionStatus = "completed"
	StatusCancelled      SessionStatus = "cancelled"
)

// TransactionSession is the per-purchase state machine:
//
//	Selecting -> PaymentPending -> Dispensing -> Completed
//	any non-terminal state      -> Cancelled
//
// Product selection happens during Selecting and records the slot without
// changing state; PaymentPending requires a selection to exist.
type TransactionSession struct {
	id       SessionID
	status   SessionStatus
	selected SlotID // zero when nothing selected yet
}

func NewTransactionSession(id SessionID) *TransactionSession {
	return &TransactionSession{id: id, status: StatusSelecting}
}

func (s *TransactionSession) ID() SessionID {
	return s.id
}

func (s *TransactionSession) Status() SessionStatus {
	return s.status
}

// SelectedSlot returns the chosen slot and whether one has been chosen.
func (s *TransactionSession) SelectedSlot() (SlotID, bool) {
	return s.selected, s.selected != 0
}

func (s *TransactionSession) IsFinished() bool {
	return s.status == StatusCompleted || s.status == StatusCancelled
}

// SelectProduct records the slot for this session. One product per
// session: selecting twice is an ordering error.
func (s *TransactionSession) SelectProduct(slot SlotID) error {
	if s.status != StatusSelecting {
		return fmt.Errorf("%w: cannot select product in state %s", ErrInvalidStateTransition, s.status)
	}
	if s.selected != 0 {
		return fmt.Errorf("%w: product already selected", ErrInvalidStateTransition)
	}
	s.selected = slot
	return nil
}

func (s *TransactionSession) MarkPaymentPending() error {
	if s.status != StatusSelecting {
		return fmt.Errorf("%w: cannot enter payment_pending from %s", ErrInvalidStateTransition, s.status)
	}
	if s.selected == 0 {
		return fmt.Errorf("%w: no product selected", ErrInvalidStateTransition)
	}
	s.status = StatusPaymentPending
	return nil
}

func (s *TransactionSession) MarkDispensing() error {
	if s.status != StatusPaymentPending {
		return fmt.Errorf("%w: cannot enter dispensing from %s", ErrInvalidStateTransition, s.status)
	}
	s.status = StatusDispensing
	return nil
}

func (s *TransactionSession) Complete() error {
	if s.status != StatusDispensing {
		return fmt.Errorf("%w: cannot complete from %s", ErrInvalidStateTransition, s.status)
	}
	s.status = StatusCompleted
	return nil
}

// Cancel moves any non-terminal session to Cancelled.
func (s *TransactionSession) Cancel() error {
	if s.IsFinished() {
		return fmt.Errorf("%w: session already finished", ErrInvalidStateTransition)
	}
	s.status = StatusCancelled
	return nil
}
