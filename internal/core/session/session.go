// Package session tracks the last resumable assistant session so the
// loop can decide whether to pass a resume flag to the next invocation.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/colonyops/ralph/internal/core/timeutil"
	"github.com/colonyops/ralph/internal/store/slot"
	"github.com/rs/zerolog"
)

// MaxAge is the resume window. A session exactly this old is expired:
// the comparison is strictly less-than.
const MaxAge = 24 * time.Hour

// ErrEmptySessionID is returned when storing a blank session id.
var ErrEmptySessionID = errors.New("session id is empty")

// Record is the durable session file content. Older files wrote the
// creation time under "timestamp"; both keys are accepted on read.
type Record struct {
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"created_at,omitempty"`
}

// createdAt returns whichever timestamp field is populated.
func (r Record) createdAt() string {
	if r.Timestamp != "" {
		return r.Timestamp
	}
	return r.CreatedAt
}

// Tracker persists one session record in a slot. Reads never error:
// anything malformed or expired just means "do not resume".
type Tracker struct {
	store slot.Slot
	now   func() time.Time
	log   zerolog.Logger
}

// NewTracker creates a session tracker over the given slot.
func NewTracker(store slot.Slot, log zerolog.Logger) *Tracker {
	return &Tracker{store: store, now: time.Now, log: log}
}

// WithClock overrides the clock. Used by tests to pin the boundary.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
	t.now = now
	return t
}

// ShouldResume reports whether the stored session is recent enough to
// resume. Missing file, corrupt JSON, blank id, or an unparseable
// timestamp all answer false, never an error.
func (t *Tracker) ShouldResume() bool {
	rec, ok := t.read()
	if !ok || rec.SessionID == "" {
		return false
	}

	created, err := timeutil.ParseISO(rec.createdAt())
	if err != nil {
		t.log.Debug().Str("timestamp", rec.createdAt()).Msg("unparseable session timestamp")
		return false
	}

	return t.now().Sub(created) < MaxAge
}

// Store replaces the session record wholesale with the given id and the
// current timestamp.
func (t *Tracker) Store(id string) error {
	if id == "" {
		return ErrEmptySessionID
	}

	rec := Record{
		SessionID: id,
		Timestamp: timeutil.ISOTimestamp(t.now()),
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session record: %w", err)
	}
	if err := t.store.Write(data); err != nil {
		return fmt.Errorf("write session record: %w", err)
	}
	t.log.Info().Str("session_id", id).Msg("stored session")
	return nil
}

// LastID returns the stored session id, or empty when there is no
// readable record.
func (t *Tracker) LastID() string {
	rec, ok := t.read()
	if !ok {
		return ""
	}
	return rec.SessionID
}

func (t *Tracker) read() (Record, bool) {
	data, err := t.store.Read()
	if err != nil || len(data) == 0 {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.log.Debug().Err(err).Msg("corrupt session record")
		return Record{}, false
	}
	return rec, true
}
