package domain

import "errors"

var (
	// ErrInvalidArgument marks malformed input to a constructor: negative
	// money, an empty product name, a non-positive id. Always a caller bug.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDomainViolation marks an operation that would break a business
	// rule: insufficient stock or balance, capacity exceeded, wrong machine
	// mode. The service layer may compensate and retry or refund.
	ErrDomainViolation = errors.New("domain rule violated")

	ErrSlotNotFound  = errors.New("slot not found")
	ErrDuplicateSlot = errors.New("slot already exists")

	// ErrInvalidStateTransition marks a session method called out of order.
	// Never silently corrected.
	ErrInvalidStateTransition = errors.New("invalid session state transition")
)
