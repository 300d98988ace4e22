package services

import (
	"context"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

// MeasurementService serves all four garment variants through one code path.
type MeasurementService struct {
	base
	repo ports.MeasurementRepository
}

var _ ports.MeasurementService = (*MeasurementService)(nil)

func NewMeasurementService(d Deps, repo ports.MeasurementRepository) *MeasurementService {
	return &MeasurementService{
		base: newBase(d, "measurement"),
		repo: repo,
	}
}

func (s *MeasurementService) Create(ctx context.Context, sess *domain.Session, variant domain.Variant, in ports.CreateMeasurementInput) (*domain.Measurement, error) {
	if err := s.authorize(sess, domain.EntityMeasurement, policy.OpCreate); err != nil {
		return nil, err
	}

	m, err := domain.NewMeasurement(domain.NewMeasurementParams{
		Variant:     variant,
		Fabric:      in.Fabric,
		Values:      in.Values,
		Description: in.Description,
		ClientID:    in.ClientID,
		AssignedTo:  in.AssignedTo,
		CreatedBy:   sess.PrincipalID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	created, err := s.repo.CreateMeasurement(ctx, m)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityMeasurement, actionCreated, created.ID)
	return created, nil
}

func (s *MeasurementService) Get(ctx context.Context, sess *domain.Session, variant domain.Variant, id int64) (*domain.Measurement, error) {
	if err := s.authorize(sess, domain.EntityMeasurement, policy.OpRead); err != nil {
		return nil, err
	}
	return s.repo.GetMeasurement(ctx, variant, id)
}

func (s *MeasurementService) List(ctx context.Context, sess *domain.Session, f ports.MeasurementFilter) ([]domain.Measurement, error) {
	if err := s.authorize(sess, domain.EntityMeasurement, policy.OpRead); err != nil {
		return nil, err
	}
	if _, err := domain.ParseVariant(string(f.Variant)); err != nil {
		return nil, err
	}
	return s.repo.ListMeasurements(ctx, f)
}

func (s *MeasurementService) Update(ctx context.Context, sess *domain.Session, variant domain.Variant, id int64, in domain.MeasurementPatch) (*domain.Measurement, error) {
	if err := s.authorize(sess, domain.EntityMeasurement, policy.OpUpdate); err != nil {
		return nil, err
	}
	updated, err := s.repo.UpdateMeasurement(ctx, variant, id, func(m *domain.Measurement) error {
		return m.Apply(in)
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, sess, domain.EntityMeasurement, actionUpdated, id)
	return updated, nil
}

func (s *MeasurementService) Delete(ctx context.Context, sess *domain.Session, variant domain.Variant, id int64) error {
	if err := s.authorize(sess, domain.EntityMeasurement, policy.OpDelete); err != nil {
		return err
	}
	if err := s.repo.DeleteMeasurement(ctx, variant, id); err != nil {
		return err
	}
	s.publish(ctx, sess, domain.EntityMeasurement, actionDeleted, id)
	return nil
}
