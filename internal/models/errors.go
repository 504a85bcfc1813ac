package models

import "errors"

var (
	// ErrInvalidAmount means the monetary string was unparsable, negative, or
	// carried more than two significant fractional digits.
	ErrInvalidAmount = errors.New("amount must be zero or a positive monetary value with at most 2 decimals")

	// ErrInvalidDirection means the debit/credit marker was not DEBIT or CREDIT.
	ErrInvalidDirection = errors.New("debitOrCredit must be DEBIT or CREDIT")

	// ErrAmountTypeMismatch means the amount direction does not match the
	// operation: loads credit, authorizations debit.
	ErrAmountTypeMismatch = errors.New("transaction type does not match amount type: a load must be CREDIT and an authorization must be DEBIT")

	// ErrBlankIdentifier means userId or messageId was empty.
	ErrBlankIdentifier = errors.New("userId and messageId must not be blank")

	// ErrMessageConflict means the messageId was already used by an event of a
	// different kind for this user, so the request can be neither applied nor
	// replayed.
	ErrMessageConflict = errors.New("messageId was already used by a different transaction type")
)
