package store

import (
	"sync"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milena-kos/good-morning/internal/domain"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	s, err := Create(afero.NewMemMapFs(), "/db.json")
	require.NoError(t, err)
	return NewRepository(s)
}

func TestTimezoneRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	_, ok := repo.Timezone(42)
	assert.False(t, ok)

	require.NoError(t, repo.SetTimezone(42, "America/New_York"))
	tz, ok := repo.Timezone(42)
	require.True(t, ok)
	assert.Equal(t, "America/New_York", tz)
}

func TestNoteRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	date := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)

	_, ok := repo.Note(42, date)
	assert.False(t, ok)

	require.NoError(t, repo.SetNote(42, date, "买牛奶 🥛"))
	text, ok := repo.Note(42, date)
	require.True(t, ok)
	assert.Equal(t, "买牛奶 🥛", text)

	// Empty string is a stored value, not absence.
	require.NoError(t, repo.SetNote(42, date, ""))
	text, ok = repo.Note(42, date)
	require.True(t, ok)
	assert.Equal(t, "", text)
}

func TestNoteKeyFormat(t *testing.T) {
	// Day-of-month is space-padded, matching the historical key format.
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "March  5 2024 42", NoteKey(42, date))

	date = time.Date(2024, time.December, 25, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "December 25 2024 42", NoteKey(42, date))
}

func TestNoteKeysSeparateUsersAndDates(t *testing.T) {
	repo := newTestRepo(t)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SetNote(1, date, "mine"))
	require.NoError(t, repo.SetNote(2, date, "yours"))
	require.NoError(t, repo.SetNote(1, date.AddDate(0, 0, 1), "tomorrow"))

	got, _ := repo.Note(1, date)
	assert.Equal(t, "mine", got)
	got, _ = repo.Note(2, date)
	assert.Equal(t, "yours", got)
}

func TestReminderLifecycle(t *testing.T) {
	repo := newTestRepo(t)

	rows, err := repo.Reminders()
	require.NoError(t, err)
	assert.Empty(t, rows)

	rem := domain.NewReminder(42, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "hi")
	require.NoError(t, repo.AddReminder(rem))

	rows, err = repo.Reminders()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rem.ID, rows[0].ID)
	assert.True(t, rows[0].FireAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(42), rows[0].ChatID)
	assert.Equal(t, "hi", rows[0].Message)

	require.NoError(t, repo.RemoveReminder(rem.ID))
	rows, err = repo.Reminders()
	require.NoError(t, err)
	assert.Empty(t, rows)

	// Removing again is a no-op, never an error.
	require.NoError(t, repo.RemoveReminder(rem.ID))
}

func TestRemoveReminderKeepsOthers(t *testing.T) {
	repo := newTestRepo(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Two reminders with the identical fire instant stay distinguishable.
	first := domain.NewReminder(1, at, "one")
	second := domain.NewReminder(2, at, "two")
	require.NoError(t, repo.AddReminder(first))
	require.NoError(t, repo.AddReminder(second))

	require.NoError(t, repo.RemoveReminder(first.ID))
	rows, err := repo.Reminders()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, second.ID, rows[0].ID)
	assert.Equal(t, "two", rows[0].Message)
}

func TestConcurrentAddAndRemoveLoseNothing(t *testing.T) {
	repo := newTestRepo(t)
	at := time.Now().Add(time.Hour)

	// Pre-seeded rows play the part of reminders whose firing tasks remove
	// them while the router loop keeps scheduling new ones.
	const n = 200
	fired := make([]domain.Reminder, n)
	for i := range fired {
		fired[i] = domain.NewReminder(int64(i), at, "fired")
		require.NoError(t, repo.AddReminder(fired[i]))
	}

	added := make([]domain.Reminder, n)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range added {
			added[i] = domain.NewReminder(int64(1000+i), at, "kept")
			assert.NoError(t, repo.AddReminder(added[i]))
		}
	}()
	go func() {
		defer wg.Done()
		for _, rem := range fired {
			assert.NoError(t, repo.RemoveReminder(rem.ID))
		}
	}()
	wg.Wait()

	rows, err := repo.Reminders()
	require.NoError(t, err)
	require.Len(t, rows, n)

	byID := make(map[string]bool, len(rows))
	for _, row := range rows {
		byID[row.ID] = true
	}
	for _, rem := range fired {
		assert.False(t, byID[rem.ID], "removed row must not be resurrected")
	}
	for _, rem := range added {
		assert.True(t, byID[rem.ID], "scheduled row must not be lost")
	}
}

func TestRemindersSurviveReopen(t *testing.T) {
	fs := afero.NewMemMapFs()
	s, err := Create(fs, "/db.json")
	require.NoError(t, err)
	repo := NewRepository(s)

	rem := domain.NewReminder(42, time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC), "future")
	require.NoError(t, repo.AddReminder(rem))

	reopened, err := Open(fs, "/db.json")
	require.NoError(t, err)
	rows, err := NewRepository(reopened).Reminders()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, rem.ID, rows[0].ID)
}

func TestRemindersDecodeLegacyRows(t *testing.T) {
	fs := afero.NewMemMapFs()
	seed := `{"42":"Europe/Tallinn","remind":[["2024-01-01 15:04:05+03:00",42,"hi"]]}`
	require.NoError(t, afero.WriteFile(fs, "/db.json", []byte(seed), 0o644))

	s, err := Open(fs, "/db.json")
	require.NoError(t, err)
	repo := NewRepository(s)

	tz, ok := repo.Timezone(42)
	require.True(t, ok)
	assert.Equal(t, "Europe/Tallinn", tz)

	rows, err := repo.Reminders()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(42), rows[0].ChatID)
	assert.Equal(t, "hi", rows[0].Message)
	assert.NotEmpty(t, rows[0].ID)
}
