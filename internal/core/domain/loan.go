package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultLoanEditWindow bounds how long after DateTaken a loan may change.
const DefaultLoanEditWindow = 10 * time.Minute

type LoanType string

const (
	LoanTypeAdvance LoanType = "ADVANCE"
	LoanTypeLoan    LoanType = "LOAN"
)

func ParseLoanType(s string) (LoanType, error) {
	t := LoanType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case LoanTypeAdvance, LoanTypeLoan:
		return t, nil
	}
	return "", fmt.Errorf("%w: unknown loan type %q", ErrInvalidInput, s)
}

type LoanStatus string

const (
	LoanInConsideration LoanStatus = "in_consideration"
	LoanApproved        LoanStatus = "approved"
	LoanRejected        LoanStatus = "rejected"
	LoanPaid            LoanStatus = "paid"
)

func ParseLoanStatus(s string) (LoanStatus, error) {
	st := LoanStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case LoanInConsideration, LoanApproved, LoanRejected, LoanPaid:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown loan status %q", ErrInvalidInput, s)
}

// CanTransitionTo reports whether next is reachable from s in one update.
// Staying in the same status is always allowed.
func (s LoanStatus) CanTransitionTo(next LoanStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case LoanInConsideration:
		return next == LoanApproved || next == LoanRejected
	case LoanApproved:
		return next == LoanPaid
	case LoanRejected, LoanPaid:
		return false
	}
	return false
}

type AdvanceLoan struct {
	ID        int64      `json:"id"`
	Amount    int64      `json:"amount"`
	Type      LoanType   `json:"type"`
	TakenBy   int64      `json:"taken_by"`
	Status    LoanStatus `json:"status"`
	Comment   *string    `json:"comment"`
	DateTaken time.Time  `json:"date_taken"`
}

type NewLoanParams struct {
	Amount    int64
	Type      string
	TakenBy   int64
	Comment   *string
	DateTaken time.Time
}

func NewAdvanceLoan(p NewLoanParams) (*AdvanceLoan, error) {
	if p.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	t, err := ParseLoanType(p.Type)
	if err != nil {
		return nil, err
	}
	if p.TakenBy <= 0 {
		return nil, fmt.Errorf("%w: taken_by is required", ErrInvalidInput)
	}
	return &AdvanceLoan{
		Amount:    p.Amount,
		Type:      t,
		TakenBy:   p.TakenBy,
		Status:    LoanInConsideration,
		Comment:   p.Comment,
		DateTaken: p.DateTaken,
	}, nil
}

// EditableAt reports whether the loan is still inside its edit window at now.
func (l *AdvanceLoan) EditableAt(now time.Time, window time.Duration) bool {
	return now.Sub(l.DateTaken) <= window
}

type LoanPatch struct {
	Amount  *int64
	Status  *string
	Comment *string
}

// Apply mutates the loan if now is inside the edit window. Once the window has
// closed the loan is frozen for good.
func (l *AdvanceLoan) Apply(p LoanPatch, now time.Time, window time.Duration) error {
	if !l.EditableAt(now, window) {
		return fmt.Errorf("%w: loan %d was taken at %s", ErrEditWindowExpired, l.ID, l.DateTaken.UTC().Format(time.RFC3339))
	}

	next := *l
	if p.Amount != nil {
		if *p.Amount <= 0 {
			return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
		}
		next.Amount = *p.Amount
	}
	if p.Status != nil {
		st, err := ParseLoanStatus(*p.Status)
		if err != nil {
			return err
		}
		if !l.Status.CanTransitionTo(st) {
			return fmt.Errorf("%w: cannot move loan from %s to %s", ErrInvalidInput, l.Status, st)
		}
		next.Status = st
	}
	if p.Comment != nil {
		next.Comment = p.Comment
	}

	*l = next
	return nil
}
