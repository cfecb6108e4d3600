// Package firstlogin records the first time each identity signs in and keeps a
// rolling "new today" log for the admin dashboard.
package firstlogin

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dimitrije/tripvote-api/internal/kvstore"
	"github.com/sirupsen/logrus"
)

const (
	logKey     = "firstLogins"
	flagPrefix = "hasLoggedIn_"

	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

type Event struct {
	User      string `json:"user"`
	Date      string `json:"date"`
	Timestamp string `json:"timestamp"`
	Time      string `json:"time"`
}

func (e Event) at() time.Time {
	t, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}

type Tracker struct {
	store kvstore.Store
	log   logrus.FieldLogger
	now   func() time.Time
	// mu serializes read-modify-write of the event log within this process.
	mu sync.Mutex
}

type Option func(*Tracker)

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func NewTracker(store kvstore.Store, log logrus.FieldLogger, opts ...Option) *Tracker {
	t := &Tracker{store: store, log: log, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Track records user's first ever login. It reports whether a new event was
// written. Store failures are logged and never reach the caller.
func (t *Tracker) Track(ctx context.Context, user string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	recorded, err := t.track(ctx, user)
	if err != nil {
		t.log.WithError(err).WithField("user", user).Warn("failed to track first login")
		return false
	}
	return recorded
}

func (t *Tracker) track(ctx context.Context, user string) (bool, error) {
	flag := flagPrefix + user
	_, seen, err := t.store.Get(ctx, flag)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}
	if err := t.store.Set(ctx, flag, "true"); err != nil {
		return false, err
	}

	now := t.now()
	today := now.Format(dateLayout)

	events, err := t.load(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range events {
		if e.User == user && e.Date == today {
			return false, nil
		}
	}

	events = append(events, Event{
		User:      user,
		Date:      today,
		Timestamp: now.Format(time.RFC3339Nano),
		Time:      now.Format(timeLayout),
	})
	return true, t.save(ctx, events)
}

// TodayEvents prunes older events and returns today's, most recent first.
func (t *Tracker) TodayEvents(ctx context.Context) ([]Event, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	events, err := t.cleanup(ctx)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].at().After(events[j].at())
	})
	return events, nil
}

// Cleanup drops every event not dated today.
func (t *Tracker) Cleanup(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, err := t.cleanup(ctx)
	return err
}

func (t *Tracker) cleanup(ctx context.Context) ([]Event, error) {
	events, err := t.load(ctx)
	if err != nil {
		return nil, err
	}

	today := t.now().Format(dateLayout)
	kept := make([]Event, 0, len(events))
	for _, e := range events {
		if e.Date == today {
			kept = append(kept, e)
		}
	}
	if len(kept) != len(events) {
		if err := t.save(ctx, kept); err != nil {
			return nil, err
		}
	}
	return kept, nil
}

// Reset forgets every event and every first-login flag.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.store.Delete(ctx, logKey); err != nil {
		return err
	}
	keys, err := t.store.Keys(ctx, flagPrefix)
	if err != nil {
		return err
	}
	for _, k := range keys {
		if err := t.store.Delete(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) load(ctx context.Context) ([]Event, error) {
	raw, ok, err := t.store.Get(ctx, logKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read first login log: %w", err)
	}
	if !ok || raw == "" {
		return []Event{}, nil
	}

	var events []Event
	if err := json.Unmarshal([]byte(raw), &events); err != nil {
		t.log.WithError(err).Warn("discarding unreadable first login log")
		return []Event{}, nil
	}
	return events, nil
}

func (t *Tracker) save(ctx context.Context, events []Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}
	if err := t.store.Set(ctx, logKey, string(data)); err != nil {
		return fmt.Errorf("failed to write first login log: %w", err)
	}
	return nil
}
