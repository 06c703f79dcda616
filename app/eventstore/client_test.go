package eventstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"school-calendar/app/models"
)

// fakeStore is an in-memory stand-in for the remote events collection,
// serving the backend-native _id field the client has to normalize.
type fakeStore struct {
	mu     sync.Mutex
	events []eventRecord
	nextID int

	failList   bool
	failCreate bool
}

func (f *fakeStore) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failList {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"events":  f.events,
		})
	})

	mux.HandleFunc("POST /api/events", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failCreate {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "insert failed"})
			return
		}

		var rec eventRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.nextID++
		rec.ID = fmt.Sprintf("srv-%d", f.nextID)
		f.events = append(f.events, rec)

		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"event":   rec,
		})
	})

	mux.HandleFunc("PUT /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		var rec eventRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		rec.ID = r.PathValue("id")
		for i := range f.events {
			if f.events[i].ID == rec.ID {
				f.events[i] = rec
				json.NewEncoder(w).Encode(map[string]any{"success": true, "event": rec})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Event not found"})
	})

	mux.HandleFunc("DELETE /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		id := r.PathValue("id")
		for i := range f.events {
			if f.events[i].ID == id {
				f.events = append(f.events[:i], f.events[i+1:]...)
				json.NewEncoder(w).Encode(map[string]any{"success": true})
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "Event not found"})
	})

	return mux
}

// fakeStats records the side-effect calls the client fires after creates.
type fakeStats struct {
	mu         sync.Mutex
	increments map[string]int
	resyncs    int
	fail       bool
}

func (f *fakeStats) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/stats/increment/{name}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			http.Error(w, "stats down", http.StatusInternalServerError)
			return
		}
		if f.increments == nil {
			f.increments = map[string]int{}
		}
		f.increments[r.PathValue("name")]++
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/stats/resync", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail {
			http.Error(w, "stats down", http.StatusInternalServerError)
			return
		}
		f.resyncs++
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func (f *fakeStats) snapshot() (map[string]int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.increments))
	for k, v := range f.increments {
		out[k] = v
	}
	return out, f.resyncs
}

func newTestClient(t *testing.T, store *fakeStore, stats *fakeStats) *Client {
	t.Helper()

	storeSrv := httptest.NewServer(store.handler())
	t.Cleanup(storeSrv.Close)

	var statsClient *StatsClient
	if stats != nil {
		statsSrv := httptest.NewServer(stats.handler())
		t.Cleanup(statsSrv.Close)
		statsClient = NewStatsClient(statsSrv.URL)
	}

	return NewClient(storeSrv.URL, statsClient)
}

func draft(title, day string) models.EventDraft {
	return models.EventDraft{Title: title, Date: day, Category: "meeting", ClassLabel: "Staff"}
}

func TestListNormalizesBackendID(t *testing.T) {
	store := &fakeStore{events: []eventRecord{
		{ID: "abc-123", Title: "Team meeting", Date: "2024-06-10", Category: "meeting"},
	}}
	client := newTestClient(t, store, nil)

	events := client.ListEvents(context.Background())
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].ID != "abc-123" {
		t.Errorf("ID = %q, want backend _id value", events[0].ID)
	}
}

func TestListSoftFailsToEmpty(t *testing.T) {
	client := newTestClient(t, &fakeStore{failList: true}, nil)

	events := client.ListEvents(context.Background())
	if len(events) != 0 {
		t.Errorf("got %d events from a failing store, want 0", len(events))
	}
}

func TestListUnreachableStore(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)

	events := client.ListEvents(context.Background())
	if len(events) != 0 {
		t.Errorf("got %d events from an unreachable store, want 0", len(events))
	}
}

func TestCreateRoundTrip(t *testing.T) {
	store := &fakeStore{}
	client := newTestClient(t, store, nil)
	ctx := context.Background()

	created, err := client.CreateEvent(ctx, draft("Math test", "2024-06-11"))
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if created.ID == "" {
		t.Fatal("created event has no server-assigned id")
	}

	events := client.ListEvents(ctx)
	var matches int
	for _, e := range events {
		if e.ID == created.ID {
			matches++
			if e.Title != "Math test" {
				t.Errorf("Title = %q, want Math test", e.Title)
			}
		}
	}
	if matches != 1 {
		t.Errorf("created event appears %d times in list, want exactly once", matches)
	}
}

func TestCreateFailureIsRemoteError(t *testing.T) {
	client := newTestClient(t, &fakeStore{failCreate: true}, nil)

	_, err := client.CreateEvent(context.Background(), draft("Math test", "2024-06-11"))
	if err == nil {
		t.Fatal("expected an error")
	}
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error %T is not a RemoteError", err)
	}
	if re.Op != "create" {
		t.Errorf("Op = %q, want create", re.Op)
	}
}

func TestUpdateReturnsCanonicalState(t *testing.T) {
	store := &fakeStore{events: []eventRecord{
		{ID: "srv-1", Title: "Old title", Date: "2024-06-10", Category: "meeting"},
	}}
	client := newTestClient(t, store, nil)

	updated, err := client.UpdateEvent(context.Background(), models.CalendarEvent{
		ID: "srv-1", Title: "New title", Date: "2024-06-10", Category: "meeting",
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if updated.ID != "srv-1" || updated.Title != "New title" {
		t.Errorf("unexpected canonical state: %+v", updated)
	}
}

func TestUpdateUnknownIDFails(t *testing.T) {
	client := newTestClient(t, &fakeStore{}, nil)

	_, err := client.UpdateEvent(context.Background(), models.CalendarEvent{ID: "nope", Title: "x", Date: "2024-06-10"})
	var re *RemoteError
	if !errors.As(err, &re) {
		t.Fatalf("error %T is not a RemoteError", err)
	}
	if re.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", re.Status)
	}
}

func TestDeleteDistinguishesNotFoundFromTransport(t *testing.T) {
	store := &fakeStore{events: []eventRecord{
		{ID: "srv-1", Title: "Team meeting", Date: "2024-06-10"},
	}}
	client := newTestClient(t, store, nil)
	ctx := context.Background()

	found, err := client.DeleteEvent(ctx, "srv-1")
	if err != nil || !found {
		t.Errorf("existing id: found=%v err=%v, want true, nil", found, err)
	}

	found, err = client.DeleteEvent(ctx, "srv-1")
	if err != nil || found {
		t.Errorf("missing id: found=%v err=%v, want false, nil", found, err)
	}

	down := NewClient("http://127.0.0.1:1", nil)
	if _, err := down.DeleteEvent(ctx, "srv-1"); err == nil {
		t.Error("unreachable store: want a transport error")
	}
}

func TestCreateFiresStatsSideEffects(t *testing.T) {
	stats := &fakeStats{}
	client := newTestClient(t, &fakeStore{}, stats)

	if _, err := client.CreateEvent(context.Background(), draft("Math test", "2024-06-11")); err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	// The side effects run detached; give them a moment.
	deadline := time.Now().Add(2 * time.Second)
	for {
		incs, resyncs := stats.snapshot()
		if incs[createdStat] == 1 && resyncs == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("stats side effects not observed: increments=%v resyncs=%d", incs, resyncs)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestCreateSucceedsWhenStatsDown(t *testing.T) {
	stats := &fakeStats{fail: true}
	store := &fakeStore{}
	client := newTestClient(t, store, stats)

	created, err := client.CreateEvent(context.Background(), draft("Math test", "2024-06-11"))
	if err != nil {
		t.Fatalf("create must not fail on stats errors, got: %v", err)
	}
	if created.ID == "" {
		t.Error("created event has no id")
	}
}

func TestResetAllDeletesEverything(t *testing.T) {
	store := &fakeStore{events: []eventRecord{
		{ID: "srv-1", Title: "One", Date: "2024-06-10"},
		{ID: "srv-2", Title: "Two", Date: "2024-06-11"},
		{ID: "srv-3", Title: "Three", Date: "2024-06-12"},
	}}
	stats := &fakeStats{}
	client := newTestClient(t, store, stats)

	client.ResetAll(context.Background())

	if remaining := client.ListEvents(context.Background()); len(remaining) != 0 {
		t.Errorf("%d events left after reset, want 0", len(remaining))
	}
	if _, resyncs := stats.snapshot(); resyncs != 1 {
		t.Errorf("resyncs = %d, want 1 after reset", resyncs)
	}
}
