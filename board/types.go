package board

import (
	"context"

	"github.com/0n0123/kanban/domain"
)

// Storage abstracts the task store for the synchronization engine.
type Storage interface {
	ListAll(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, candidate domain.Task) (domain.Task, error)
	Delete(ctx context.Context, id string) error
	SetColor(ctx context.Context, id string, color domain.Color) error
	SetText(ctx context.Context, id string, text string) error
	SetPosition(ctx context.Context, id string, pos domain.Position) error
	RaiseToFront(ctx context.Context, id string) error
}

// Broadcaster delivers an event to every connected client, including the
// one that triggered it. Delivery is fire-and-forget.
type Broadcaster interface {
	Broadcast(event string, msg domain.Message)
}
