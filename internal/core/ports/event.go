package ports

import (
	"context"

	"github.com/startailored/records-service/internal/core/domain"
)

type EventPublisher interface {
	Publish(ctx context.Context, evt domain.Event) error
}
