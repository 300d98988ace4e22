package services_test

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/services"
	"github.com/startailored/records-service/internal/mocks"
)

type fixture struct {
	repo   *mocks.MockRepository
	events *mocks.MockEventPublisher
	clock  *mocks.FixedClock
	deps   services.Deps
}

func newFixture() *fixture {
	clock := &mocks.FixedClock{T: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
	events := mocks.NewMockEventPublisher()
	return &fixture{
		repo:   mocks.NewMockRepository(),
		events: events,
		clock:  clock,
		deps: services.Deps{
			Policy: policy.New(zerolog.Nop(), nil),
			Events: events,
			Log:    zerolog.Nop(),
			Now:    clock.Now,
		},
	}
}

func ptr[T any](v T) *T { return &v }
