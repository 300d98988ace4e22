package services

import (
	"context"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

type StaffService struct {
	base
	repo   ports.StaffRepository
	hasher ports.PasswordHasher
	emails ports.EmailValidator
}

var _ ports.StaffService = (*StaffService)(nil)

func NewStaffService(d Deps, repo ports.StaffRepository, hasher ports.PasswordHasher, emails ports.EmailValidator) *StaffService {
	return &StaffService{
		base:   newBase(d, "staff"),
		repo:   repo,
		hasher: hasher,
		emails: emails,
	}
}

func (s *StaffService) Create(ctx context.Context, sess *domain.Session, in ports.CreateStaffInput) (*domain.Staff, error) {
	if err := s.authorize(sess, domain.EntityStaff, policy.OpCreate); err != nil {
		return nil, err
	}
	if err := requirePassword(in.Password); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	staff, err := domain.NewStaff(domain.NewStaffParams{
		Username:     in.Username,
		NationalID:   in.NationalID,
		Phone:        in.Phone,
		Email:        in.Email,
		Passport:     in.Passport,
		Role:         in.Role,
		Salary:       in.Salary,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}, s.emails)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateStaff(ctx, staff)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityStaff, actionCreated, created.ID)
	return created, nil
}

func (s *StaffService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Staff, error) {
	if err := s.authorize(sess, domain.EntityStaff, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.GetStaff(ctx, id)
}

func (s *StaffService) List(ctx context.Context, sess *domain.Session, f ports.StaffFilter) ([]domain.Staff, error) {
	if err := s.authorize(sess, domain.EntityStaff, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.ListStaff(ctx, f)
}

func (s *StaffService) Update(ctx context.Context, sess *domain.Session, id int64, in ports.UpdateStaffInput) (*domain.Staff, error) {
	if err := s.authorize(sess, domain.EntityStaff, policy.OpUpdate); err != nil {
		return nil, err
	}

	patch := domain.StaffPatch{
		Username:   in.Username,
		NationalID: in.NationalID,
		Phone:      in.Phone,
		Email:      in.Email,
		Passport:   in.Passport,
		Role:       in.Role,
		Salary:     in.Salary,
	}
	if in.Password != nil {
		if err := requirePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}

	updated, err := s.repo.UpdateStaff(ctx, id, func(st *domain.Staff) error {
		return st.Apply(patch, s.emails)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityStaff, actionUpdated, id)
	return updated, nil
}

func (s *StaffService) Delete(ctx context.Context, sess *domain.Session, id int64) error {
	if err := s.authorize(sess, domain.EntityStaff, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteStaff(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, sess, domain.EntityStaff, actionDeleted, id)
	return nil
}
