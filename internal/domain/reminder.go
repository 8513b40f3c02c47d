package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Reminder is one pending delivery: send Message to ChatID once wall-clock
// time reaches FireAt, then drop the row. Persisted rows are the source of
// truth; armed timers are rebuilt from them at startup.
type Reminder struct {
	ID      string    `json:"id"`
	FireAt  time.Time `json:"fire_at"`
	ChatID  int64     `json:"chat_id"`
	Message string    `json:"message"`
}

// NewReminder assigns a fresh id so two reminders resolving to the same
// instant stay distinguishable.
func NewReminder(chatID int64, fireAt time.Time, message string) Reminder {
	return Reminder{
		ID:      uuid.NewString(),
		FireAt:  fireAt.UTC(),
		ChatID:  chatID,
		Message: message,
	}
}

// Layouts older rows were written in, besides RFC 3339. Naive timestamps are
// read as UTC.
var legacyLayouts = []string{
	"2006-01-02 15:04:05.999999-07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

// UnmarshalJSON accepts the current object form as well as the legacy
// 3-element [instant, user, message] array. Legacy rows get a fresh id; a
// legacy instant that no layout matches is left at the zero time, which makes
// the scheduler fire it immediately (catch-up delivery).
func (r *Reminder) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return r.unmarshalLegacy(trimmed)
	}

	type plain Reminder
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Reminder(p)
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (r *Reminder) unmarshalLegacy(data []byte) error {
	var row [3]json.RawMessage
	if err := json.Unmarshal(data, &row); err != nil {
		return fmt.Errorf("legacy reminder row: %w", err)
	}

	var instant, message string
	if err := json.Unmarshal(row[0], &instant); err != nil {
		return fmt.Errorf("legacy reminder instant: %w", err)
	}
	if err := json.Unmarshal(row[2], &message); err != nil {
		return fmt.Errorf("legacy reminder message: %w", err)
	}
	chatID, err := legacyChatID(row[1])
	if err != nil {
		return err
	}

	r.ID = uuid.NewString()
	r.FireAt = parseLegacyInstant(instant)
	r.ChatID = chatID
	r.Message = message
	return nil
}

// legacyChatID reads a user identifier that may be a JSON number or string.
func legacyChatID(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("legacy reminder user: %w", err)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("legacy reminder user %q: %w", s, err)
	}
	return n, nil
}

func parseLegacyInstant(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	for _, layout := range legacyLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
