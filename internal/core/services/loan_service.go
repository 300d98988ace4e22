package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

type LoanService struct {
	base
	repo   ports.LoanRepository
	staff  ports.StaffRepository
	window time.Duration
}

var _ ports.LoanService = (*LoanService)(nil)

// NewLoanService uses domain.DefaultLoanEditWindow when window is not positive.
func NewLoanService(d Deps, repo ports.LoanRepository, staff ports.StaffRepository, window time.Duration) *LoanService {
	if window <= 0 {
		window = domain.DefaultLoanEditWindow
	}
	return &LoanService{
		base:   newBase(d, "loan"),
		repo:   repo,
		staff:  staff,
		window: window,
	}
}

// Create records a loan taken now. Only management may record one on behalf
// of another staff member.
func (s *LoanService) Create(ctx context.Context, sess *domain.Session, in ports.CreateLoanInput) (*domain.AdvanceLoan, error) {
	if err := s.authorize(sess, domain.EntityLoan, policy.OpCreate); err != nil {
		return nil, err
	}

	takenBy := in.TakenBy
	if takenBy == 0 {
		takenBy = sess.PrincipalID
	}
	if takenBy != sess.PrincipalID && !sess.EffectiveRole().IsManagement() {
		return nil, fmt.Errorf("%w: only management may record loans for other staff", domain.ErrUnauthorized)
	}
	if _, err := s.staff.GetStaff(ctx, takenBy); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: taken_by %d is not a staff member", domain.ErrInvalidInput, takenBy)
		}
		return nil, err
	}

	loan, err := domain.NewAdvanceLoan(domain.NewLoanParams{
		Amount:    in.Amount,
		Type:      in.Type,
		TakenBy:   takenBy,
		Comment:   in.Comment,
		DateTaken: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateLoan(ctx, loan)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityLoan, actionCreated, created.ID)
	return created, nil
}

func (s *LoanService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.AdvanceLoan, error) {
	if err := s.authorize(sess, domain.EntityLoan, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.GetLoan(ctx, id)
}

func (s *LoanService) List(ctx context.Context, sess *domain.Session, f ports.LoanFilter) ([]domain.AdvanceLoan, error) {
	if err := s.authorize(sess, domain.EntityLoan, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.ListLoans(ctx, f)
}

// Update applies the patch if the loan is still inside its edit window,
// judged against the clock at the moment of this call.
func (s *LoanService) Update(ctx context.Context, sess *domain.Session, id int64, in domain.LoanPatch) (*domain.AdvanceLoan, error) {
	if err := s.authorize(sess, domain.EntityLoan, policy.OpUpdate); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.repo.UpdateLoan(ctx, id, func(l *domain.AdvanceLoan) error {
		return l.Apply(in, now, s.window)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityLoan, actionUpdated, id)
	return updated, nil
}

func (s *LoanService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.authorize(sess, domain.EntityLoan, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteLoan(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sess, domain.EntityLoan, actionDeleted, id)
	return nil
}
