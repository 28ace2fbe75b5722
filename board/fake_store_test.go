package board

import (
	"context"
	"fmt"
	"sync"

	"github.com/0n0123/kanban/domain"
)

// fakeStore is a map-backed Storage with the same visible semantics as the
// SQLite store: updates on missing ids succeed silently, raise-to-front
// reports domain.ErrTaskNotFound, insertion order is observable.
type fakeStore struct {
	tasks  map[string]domain.Task
	order  []string
	failOn map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{tasks: map[string]domain.Task{}, failOn: map[string]error{}}
}

func (f *fakeStore) add(task domain.Task) {
	f.tasks[task.ID] = task
	f.order = append(f.order, task.ID)
}

func (f *fakeStore) ListAll(ctx context.Context) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(f.order))
	for _, id := range f.order {
		tasks = append(tasks, f.tasks[id])
	}
	return tasks, nil
}

func (f *fakeStore) Create(ctx context.Context, candidate domain.Task) (domain.Task, error) {
	if err := f.failOn["create"]; err != nil {
		return domain.Task{}, err
	}
	task := domain.Task{
		ID:    domain.NewTaskID(),
		Pos:   candidate.Pos,
		Text:  candidate.Text,
		Color: domain.NormalizeColor(candidate.Color),
	}
	f.add(task)
	return task, nil
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	if _, ok := f.tasks[id]; !ok {
		return nil
	}
	delete(f.tasks, id)
	for i, existing := range f.order {
		if existing == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeStore) SetColor(ctx context.Context, id string, color domain.Color) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	if task, ok := f.tasks[id]; ok {
		task.Color = domain.NormalizeColor(color)
		f.tasks[id] = task
	}
	return nil
}

func (f *fakeStore) SetText(ctx context.Context, id string, text string) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	if task, ok := f.tasks[id]; ok {
		task.Text = text
		f.tasks[id] = task
	}
	return nil
}

func (f *fakeStore) SetPosition(ctx context.Context, id string, pos domain.Position) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	if task, ok := f.tasks[id]; ok {
		task.Pos = pos
		f.tasks[id] = task
	}
	return nil
}

func (f *fakeStore) RaiseToFront(ctx context.Context, id string) error {
	if err := f.failOn[id]; err != nil {
		return err
	}
	task, ok := f.tasks[id]
	if !ok {
		return fmt.Errorf("raise task %s: %w", id, domain.ErrTaskNotFound)
	}
	if err := f.Delete(ctx, id); err != nil {
		return err
	}
	f.add(task)
	return nil
}

type recordedBroadcast struct {
	event string
	msg   domain.Message
}

type fakeBroadcaster struct {
	mu  sync.Mutex
	got []recordedBroadcast
}

func (f *fakeBroadcaster) Broadcast(event string, msg domain.Message) {
	f.mu.Lock()
	f.got = append(f.got, recordedBroadcast{event: event, msg: msg})
	f.mu.Unlock()
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.got)
}

func (f *fakeBroadcaster) last() recordedBroadcast {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.got[len(f.got)-1]
}
