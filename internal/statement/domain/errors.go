package statement

import "errors"

var (
	// ErrEmptyCompanyID is returned when the agency company id is missing.
	ErrEmptyCompanyID = errors.New("statement: empty agency company id")
	// ErrInvalidPeriod is returned when the period is not "YYYY-MM".
	ErrInvalidPeriod = errors.New("statement: period must be YYYY-MM")
	// ErrNotFound is returned when no statement exists for (company, period).
	ErrNotFound = errors.New("statement: not found")
	// ErrInvalidTransition is returned for backward or skipping transitions.
	ErrInvalidTransition = errors.New("statement: invalid status transition")
	// ErrNotReconciled is returned when orders in scope miss actual costs
	// or receipts at transition time.
	ErrNotReconciled = errors.New("statement: orders missing actuals or receipts")
	// ErrNotDraft is returned when regenerating a statement past draft.
	ErrNotDraft = errors.New("statement: statement not draft")
	// ErrNilStatement is returned when persisting a nil statement.
	ErrNilStatement = errors.New("statement: nil statement")
	// ErrStaleUpdate is returned when a write carries a stale version token.
	ErrStaleUpdate = errors.New("statement: stale update")
)
