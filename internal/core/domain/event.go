package domain

import "time"

type EntityKind string

const (
	EntityStaff       EntityKind = "staff"
	EntityClient      EntityKind = "client"
	EntityLoan        EntityKind = "loan"
	EntityMeasurement EntityKind = "measurement"
	EntityInventory   EntityKind = "inventory"
)

// Event records a committed mutation; Type is "<entity>.<created|updated|deleted>".
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	Entity     EntityKind `json:"entity"`
	EntityID   int64      `json:"entity_id"`
	ActorID    int64      `json:"actor_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}
