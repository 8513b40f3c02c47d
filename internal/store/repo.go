package store

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/milena-kos/good-morning/internal/domain"
)

// remindersKey is the reserved key holding the list of pending reminders.
const remindersKey = "remind"

// noteDateLayout keeps the historical space-padded key format
// ("March  5 2024", not "March 5 2024") so existing notes stay readable.
const noteDateLayout = "January _2 2006"

// Repo defines the typed persistence operations for timezone preferences,
// daily notes and pending reminders.
type Repo interface {
	Timezone(chatID int64) (string, bool)
	SetTimezone(chatID int64, tz string) error
	Note(chatID int64, date time.Time) (string, bool)
	SetNote(chatID int64, date time.Time, text string) error
	Reminders() ([]domain.Reminder, error)
	AddReminder(r domain.Reminder) error
	RemoveReminder(id string) error
}

// Repository implements Repo over a KV store.
type Repository struct {
	kv KV
}

func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// Timezone returns the user's stored IANA zone name, or false when unset.
func (r *Repository) Timezone(chatID int64) (string, bool) {
	raw, ok := r.kv.Get(userKey(chatID))
	if !ok {
		return "", false
	}
	var tz string
	if err := json.Unmarshal(raw, &tz); err != nil || tz == "" {
		return "", false
	}
	return tz, true
}

func (r *Repository) SetTimezone(chatID int64, tz string) error {
	return r.kv.Set(userKey(chatID), tz)
}

// Note returns the user's note for the given calendar date, or false when
// none was saved. An empty note is a valid stored value.
func (r *Repository) Note(chatID int64, date time.Time) (string, bool) {
	raw, ok := r.kv.Get(NoteKey(chatID, date))
	if !ok {
		return "", false
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return "", false
	}
	return text, true
}

func (r *Repository) SetNote(chatID int64, date time.Time, text string) error {
	return r.kv.Set(NoteKey(chatID, date), text)
}

// Reminders returns all pending reminder rows, oldest first. No rows is an
// empty slice, not an error.
func (r *Repository) Reminders() ([]domain.Reminder, error) {
	raw, _ := r.kv.Get(remindersKey)
	return decodeReminders(raw)
}

// AddReminder appends a row and persists the list. The append runs inside
// Update so a firing task's removal cannot interleave and drop the new row.
func (r *Repository) AddReminder(rem domain.Reminder) error {
	return r.kv.Update(remindersKey, func(cur json.RawMessage) (any, error) {
		rows, err := decodeReminders(cur)
		if err != nil {
			return nil, err
		}
		return append(rows, rem), nil
	})
}

// RemoveReminder drops the row with the given id. Unknown ids are a no-op:
// the row may already have fired. Like AddReminder, the whole
// read-modify-write holds the store lock, so a removed row cannot be
// resurrected by a concurrent stale rewrite.
func (r *Repository) RemoveReminder(id string) error {
	return r.kv.Update(remindersKey, func(cur json.RawMessage) (any, error) {
		rows, err := decodeReminders(cur)
		if err != nil {
			return nil, err
		}
		for i, row := range rows {
			if row.ID == id {
				return append(rows[:i], rows[i+1:]...), nil
			}
		}
		return rows, nil
	})
}

func decodeReminders(raw json.RawMessage) ([]domain.Reminder, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []domain.Reminder
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	return rows, nil
}

func userKey(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

// NoteKey builds the "<Month Day Year> <user>" key for a daily note.
func NoteKey(chatID int64, date time.Time) string {
	return date.Format(noteDateLayout) + " " + userKey(chatID)
}
