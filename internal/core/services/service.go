package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/startailored/records-service/internal/core/domain"
	"github.com/startailored/records-service/internal/core/policy"
	"github.com/startailored/records-service/internal/core/ports"
)

// Deps are the collaborators every entity service shares.
type Deps struct {
	Policy *policy.Policy
	// Events may be nil, in which case no events are published.
	Events ports.EventPublisher
	Log    zerolog.Logger
	// Now defaults to time.Now. Edit windows are always measured against it
	// at request time.
	Now func() time.Time
}

type base struct {
	policy *policy.Policy
	events ports.EventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

func newBase(d Deps, component string) base {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return base{
		policy: d.Policy,
		events: d.Events,
		log:    d.Log.With().Str("component", component).Logger(),
		now:    now,
	}
}

func (b *base) authorize(s *domain.Session, entity domain.EntityKind, op policy.Operation) error {
	return b.policy.Authorize(s, entity, op)
}

// publish runs after the mutation committed, so a broker failure is logged
// rather than returned.
func (b *base) publish(ctx context.Context, s *domain.Session, entity domain.EntityKind, action string, id int64) {
	if b.events == nil {
		return
	}
	evt := domain.Event{
		ID:         uuid.NewString(),
		Type:       fmt.Sprintf("%s.%s", entity, action),
		Entity:     entity,
		EntityID:   id,
		ActorID:    s.PrincipalID,
		OccurredAt: b.now().UTC(),
	}
	if err := b.events.Publish(ctx, evt); err != nil {
		b.log.Warn().Err(err).
			Str("event_type", evt.Type).
			Int64("entity_id", id).
			Msg("failed to publish event")
	}
}

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

func requirePassword(p string) error {
	if p == "" {
		return fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}
	return nil
}
