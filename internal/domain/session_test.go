package domain

import (
	"errors"
	"testing"
)

func TestSessionHappyPath(t *testing.T) {
	s := NewTransactionSession(1)
	if s.Status() != StatusSelecting {
		t.Fatalf("new session status = %s, want selecting", s.Status())
	}

	if err := s.SelectProduct(3); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if slot, ok := s.SelectedSlot(); !ok || slot != 3 {
		t.Fatalf("selected slot = %d/%t, want 3/true", slot, ok)
	}
	if err := s.MarkPaymentPending(); err != nil {
		t.Fatalf("markPaymentPending failed: %v", err)
	}
	if err := s.MarkDispensing(); err != nil {
		t.Fatalf("markDispensing failed: %v", err)
	}
	if err := s.Complete(); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if !s.IsFinished() {
		t.Fatalf("completed session should be finished")
	}
}

func TestSessionRejectsSecondSelection(t *testing.T) {
	s := NewTransactionSession(1)
	if err := s.SelectProduct(1); err != nil {
		t.Fatalf("select failed: %v", err)
	}
	if err := s.SelectProduct(2); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestSessionPaymentPendingRequiresSelection(t *testing.T) {
	s := NewTransactionSession(1)
	if err := s.MarkPaymentPending(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestSessionTransitionsEnforceOrder(t *testing.T) {
	s := NewTransactionSession(1)

	if err := s.MarkDispensing(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("dispensing before payment: expected ErrInvalidStateTransition, got %v", err)
	}
	if err := s.Complete(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("complete before dispensing: expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestSessionCancelFromAnyNonTerminalState(t *testing.T) {
	advance := map[string]func(*TransactionSession){
		"selecting": func(*TransactionSession) {},
		"payment_pending": func(s *TransactionSession) {
			_ = s.SelectProduct(1)
			_ = s.MarkPaymentPending()
		},
		"dispensing": func(s *TransactionSession) {
			_ = s.SelectProduct(1)
			_ = s.MarkPaymentPending()
			_ = s.MarkDispensing()
		},
	}

	for name, setup := range advance {
		t.Run(name, func(t *testing.T) {
			s := NewTransactionSession(1)
			setup(s)
			if err := s.Cancel(); err != nil {
				t.Fatalf("cancel from %s failed: %v", name, err)
			}
			if s.Status() != StatusCancelled {
				t.Fatalf("status = %s, want cancelled", s.Status())
			}
		})
	}
}

func TestSessionTerminalStatesRejectAllTransitions(t *testing.T) {
	s := NewTransactionSession(1)
	_ = s.SelectProduct(1)
	_ = s.MarkPaymentPending()
	_ = s.MarkDispensing()
	_ = s.Complete()

	if err := s.Cancel(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("cancel after complete: expected ErrInvalidStateTransition, got %v", err)
	}
	if err := s.MarkDispensing(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("dispense after complete: expected ErrInvalidStateTransition, got %v", err)
	}

	cancelled := NewTransactionSession(2)
	_ = cancelled.Cancel()
	if err := cancelled.Cancel(); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("double cancel: expected ErrInvalidStateTransition, got %v", err)
	}
}
