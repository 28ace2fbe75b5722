package board

import (
	"context"

	"github.com/0n0123/kanban/domain"
)

// updater binds one inbound event name to one store mutation. Create is not
// an updater: it mints a new identity instead of mutating an existing one.
type updater interface {
	Apply(ctx context.Context, task domain.Task) error
	Event() string
}

type colorChanger struct{ st Storage }

func (u colorChanger) Apply(ctx context.Context, task domain.Task) error {
	return u.st.SetColor(ctx, task.ID, task.Color)
}

func (u colorChanger) Event() string { return domain.EventColor }

type textEditor struct{ st Storage }

func (u textEditor) Apply(ctx context.Context, task domain.Task) error {
	return u.st.SetText(ctx, task.ID, task.Text)
}

func (u textEditor) Event() string { return domain.EventText }

type posMover struct{ st Storage }

func (u posMover) Apply(ctx context.Context, task domain.Task) error {
	return u.st.SetPosition(ctx, task.ID, task.Pos)
}

func (u posMover) Event() string { return domain.EventMove }

type taskDeleter struct{ st Storage }

func (u taskDeleter) Apply(ctx context.Context, task domain.Task) error {
	return u.st.Delete(ctx, task.ID)
}

func (u taskDeleter) Event() string { return domain.EventDelete }

type taskRaiser struct{ st Storage }

func (u taskRaiser) Apply(ctx context.Context, task domain.Task) error {
	return u.st.RaiseToFront(ctx, task.ID)
}

func (u taskRaiser) Event() string { return domain.EventToFront }

func newUpdaters(st Storage) map[string]updater {
	all := []updater{
		colorChanger{st: st},
		textEditor{st: st},
		posMover{st: st},
		taskDeleter{st: st},
		taskRaiser{st: st},
	}
	byEvent := make(map[string]updater, len(all))
	for _, u := range all {
		byEvent[u.Event()] = u
	}
	return byEvent
}
