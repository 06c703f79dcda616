package calendar

import (
	"context"
	"sync"

	"school-calendar/app/eventstore"
	"school-calendar/app/models"
)

// Session owns the in-memory copy of the event list. All mutations go
// through the remote store first and only land here once they succeed.
// Handlers run concurrently, so access is serialized with a mutex; a slow
// refresh resolving after a newer mutation still overwrites the list
// (last writer wins, a known and accepted gap).
type Session struct {
	mu     sync.Mutex
	store  *eventstore.Client
	events []models.CalendarEvent
}

func NewSession(store *eventstore.Client) *Session {
	return &Session{store: store}
}

// Refresh replaces the in-memory list with the store's current state.
func (s *Session) Refresh(ctx context.Context) {
	events := s.store.ListEvents(ctx)
	s.mu.Lock()
	s.events = events
	s.mu.Unlock()
}

// Events returns a copy of the current event list.
func (s *Session) Events() []models.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CalendarEvent, len(s.events))
	copy(out, s.events)
	return out
}

// Create stores the draft remotely and appends the server-assigned event.
func (s *Session) Create(ctx context.Context, draft models.EventDraft) (models.CalendarEvent, error) {
	event, err := s.store.CreateEvent(ctx, draft)
	if err != nil {
		return models.CalendarEvent{}, err
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
	return event, nil
}

// Update applies the patch to the identified event, sends the full new
// state to the store, and swaps in the canonical record it returns.
// ok is false when the id is not in the session list.
func (s *Session) Update(ctx context.Context, id string, patch models.EventPatch) (models.CalendarEvent, bool, error) {
	s.mu.Lock()
	idx := -1
	for i, e := range s.events {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.CalendarEvent{}, false, nil
	}
	updated := s.events[idx]
	s.mu.Unlock()

	patch.Apply(&updated)
	updated.ID = id

	canonical, err := s.store.UpdateEvent(ctx, updated)
	if err != nil {
		return models.CalendarEvent{}, true, err
	}

	s.mu.Lock()
	for i, e := range s.events {
		if e.ID == id {
			s.events[i] = canonical
			break
		}
	}
	s.mu.Unlock()
	return canonical, true, nil
}

// Delete removes the event remotely and locally. A not-found from the
// store still removes any local copy, so the list reconciles either way;
// only a transport error leaves local state untouched.
func (s *Session) Delete(ctx context.Context, id string) (bool, error) {
	found, err := s.store.DeleteEvent(ctx, id)
	if err != nil {
		return false, err
	}

	s.removeLocal(id)
	return found, nil
}

// ResetAll clears the remote collection and the local list.
func (s *Session) ResetAll(ctx context.Context) {
	s.store.ResetAll(ctx)
	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
}

func (s *Session) removeLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == id {
			s.events = append(s.events[:i], s.events[i+1:]...)
			return
		}
	}
}
