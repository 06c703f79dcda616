// Package eventstore is the REST client for the remote events collection
// and the statistics collaborator. The backend keeps its own identifier
// field (_id); this package renames it to a uniform id so nothing
// downstream ever sees the backend-native name.
package eventstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"school-calendar/app/models"
)

// createdStat is the counter bumped on the stats collaborator after every
// successful create.
const createdStat = "calendar_events"

// RemoteError reports a failed mutation against the event store. Callers
// surface these to the user; the local event list stays untouched.
type RemoteError struct {
	Op     string
	Status int
	Err    error
}

func (e *RemoteError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("event store: %s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("event store: %s failed: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// Client talks to the remote events collection.
type Client struct {
	baseURL    string
	httpClient *http.Client
	stats      *StatsClient
}

// NewClient creates an event store client. stats may be nil, in which case
// the create side effects are skipped.
func NewClient(baseURL string, stats *StatsClient) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		stats: stats,
	}
}

// eventRecord is the backend's wire shape. The only difference from the
// model is the identifier field name.
type eventRecord struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Category    string `json:"category"`
	ClassLabel  string `json:"class_label"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
	AllDay      bool   `json:"all_day"`
	Reminder    bool   `json:"reminder"`
	Color       string `json:"color,omitempty"`
}

func (r eventRecord) toEvent() models.CalendarEvent {
	return models.CalendarEvent{
		ID:          r.ID,
		Title:       r.Title,
		Date:        r.Date,
		Category:    r.Category,
		ClassLabel:  r.ClassLabel,
		Description: r.Description,
		Location:    r.Location,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		AllDay:      r.AllDay,
		Reminder:    r.Reminder,
		Color:       r.Color,
	}
}

func recordFromEvent(e models.CalendarEvent) eventRecord {
	return eventRecord{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Category:    e.Category,
		ClassLabel:  e.ClassLabel,
		Description: e.Description,
		Location:    e.Location,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		AllDay:      e.AllDay,
		Reminder:    e.Reminder,
		Color:       e.Color,
	}
}

type listEnvelope struct {
	Success bool          `json:"success"`
	Events  []eventRecord `json:"events"`
	Error   string        `json:"error"`
}

type eventEnvelope struct {
	Success bool        `json:"success"`
	Event   eventRecord `json:"event"`
	Error   string      `json:"error"`
}

type statusEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// ListEvents fetches every event in the collection. Transport or server
// failures degrade to an empty list; the error is logged, never returned,
// so the calendar renders empty rather than failing the page.
func (c *Client) ListEvents(ctx context.Context) []models.CalendarEvent {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/events", nil)
	if err != nil {
		log.Printf("event store: list request failed: %v", err)
		return nil
	}

	var env listEnvelope
	if err := c.do(req, &env); err != nil {
		log.Printf("event store: list failed, rendering empty calendar: %v", err)
		return nil
	}

	events := make([]models.CalendarEvent, 0, len(env.Events))
	for _, rec := range env.Events {
		events = append(events, rec.toEvent())
	}
	return events
}

// CreateEvent sends the draft and returns the stored event with its
// server-assigned identifier. On success the stats side effects run as a
// detached task; their failure cannot fail the create.
func (c *Client) CreateEvent(ctx context.Context, draft models.EventDraft) (models.CalendarEvent, error) {
	body, err := json.Marshal(draft)
	if err != nil {
		return models.CalendarEvent{}, &RemoteError{Op: "create", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/events", bytes.NewReader(body))
	if err != nil {
		return models.CalendarEvent{}, &RemoteError{Op: "create", Err: err}
	}

	var env eventEnvelope
	if err := c.do(req, &env); err != nil {
		return models.CalendarEvent{}, wrapRemote("create", err)
	}

	c.notifyCreated()
	return env.Event.toEvent(), nil
}

// UpdateEvent sends the full event state keyed by its identifier and
// returns the canonical stored record.
func (c *Client) UpdateEvent(ctx context.Context, event models.CalendarEvent) (models.CalendarEvent, error) {
	body, err := json.Marshal(recordFromEvent(event))
	if err != nil {
		return models.CalendarEvent{}, &RemoteError{Op: "update", Err: err}
	}

	req, err := c.newRequest(ctx, http.MethodPut, "/api/events/"+event.ID, bytes.NewReader(body))
	if err != nil {
		return models.CalendarEvent{}, &RemoteError{Op: "update", Err: err}
	}

	var env eventEnvelope
	if err := c.do(req, &env); err != nil {
		return models.CalendarEvent{}, wrapRemote("update", err)
	}
	return env.Event.toEvent(), nil
}

// DeleteEvent removes an event. It returns false without an error when the
// store reports the id unknown; the error path is reserved for transport
// and server failures, so callers can tell "gone already" from "could not
// reach the store".
func (c *Client) DeleteEvent(ctx context.Context, id string) (bool, error) {
	req, err := c.newRequest(ctx, http.MethodDelete, "/api/events/"+id, nil)
	if err != nil {
		return false, &RemoteError{Op: "delete", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &RemoteError{Op: "delete", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(resp.Body)
		return false, &RemoteError{
			Op:     "delete",
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", msg),
		}
	}

	var env statusEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return false, &RemoteError{Op: "delete", Err: err}
	}
	return env.Success, nil
}

// ResetAll deletes every event currently in the collection, one by one,
// then asks the stats collaborator to resync. Best-effort maintenance: a
// failure partway leaves a partial deletion and is only logged.
func (c *Client) ResetAll(ctx context.Context) {
	events := c.ListEvents(ctx)
	for _, e := range events {
		if _, err := c.DeleteEvent(ctx, e.ID); err != nil {
			log.Printf("event store: reset: delete %s failed: %v", e.ID, err)
		}
	}
	if c.stats != nil {
		if err := c.stats.ResyncStats(ctx); err != nil {
			log.Printf("stats: resync after reset failed: %v", err)
		}
	}
}

// notifyCreated runs the post-create stats side effects as a detached
// task so they are structurally incapable of affecting the create result.
func (c *Client) notifyCreated() {
	if c.stats == nil {
		return
	}
	stats := c.stats
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := stats.IncrementStat(ctx, createdStat); err != nil {
			log.Printf("stats: increment %s failed: %v", createdStat, err)
		}
		if err := stats.ResyncStats(ctx); err != nil {
			log.Printf("stats: resync failed: %v", err)
		}
	}()
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do executes the request and decodes the envelope, turning non-2xx
// statuses and success:false envelopes into errors.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(resp.Body)
		return &RemoteError{
			Op:     req.Method + " " + req.URL.Path,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("%s", msg),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return err
	}

	if env, ok := out.(interface{ failed() (bool, string) }); ok {
		if bad, msg := env.failed(); bad {
			return fmt.Errorf("server rejected request: %s", msg)
		}
	}
	return nil
}

func (e listEnvelope) failed() (bool, string)   { return !e.Success, e.Error }
func (e eventEnvelope) failed() (bool, string)  { return !e.Success, e.Error }
func (e statusEnvelope) failed() (bool, string) { return !e.Success, e.Error }

func wrapRemote(op string, err error) error {
	if re, ok := err.(*RemoteError); ok {
		re.Op = op
		return re
	}
	return &RemoteError{Op: op, Err: err}
}
