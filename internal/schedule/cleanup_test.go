package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"alcyxob/trainer-scheduler/internal/domain"
)

func TestSweepOneSecondAfterEnd(t *testing.T) {
	policy := CleanupPolicy{Enabled: true}
	end := at(10, 0, 0)

	scheduled := sampleSession(domain.SessionScheduled)
	assert.Equal(t, []string{"s1"}, policy.Sweep([]domain.Session{scheduled}, end.Add(time.Second)))
	assert.Empty(t, policy.Sweep([]domain.Session{scheduled}, end))

	started := sampleSession(domain.SessionStarted)
	assert.Empty(t, policy.Sweep([]domain.Session{started}, end.Add(time.Second)))
	assert.Empty(t, policy.Sweep([]domain.Session{started}, end.Add(30*24*time.Hour)))
}

func TestSweepSelection(t *testing.T) {
	now := time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)

	absent := sampleSession("")
	absent.ID = "absent"
	completed := sampleSession(domain.SessionCompleted)
	completed.ID = "completed"
	future := sampleSession(domain.SessionScheduled)
	future.ID = "future"
	future.Date = domain.NewDate(2024, time.January, 3)
	noID := sampleSession(domain.SessionScheduled)
	noID.ID = ""

	policy := CleanupPolicy{Enabled: true}
	ids := policy.Sweep([]domain.Session{absent, completed, future, noID}, now)
	assert.Equal(t, []string{"absent"}, ids)
}

func TestSweepDisabled(t *testing.T) {
	now := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	policy := CleanupPolicy{Enabled: false}
	assert.Nil(t, policy.Sweep([]domain.Session{sampleSession(domain.SessionScheduled)}, now))
}

func TestSummarize(t *testing.T) {
	now := time.Date(2024, time.January, 1, 9, 30, 0, 0, time.UTC)

	elapsed := sessionOn("elapsed", "2024-01-01", "07:00")
	ongoing := sessionOn("ongoing", "2024-01-01", "09:15")
	started := sessionOn("started", "2024-01-01", "09:00")
	started.Status = domain.SessionStarted
	done := sessionOn("done", "2024-01-02", "09:00")
	done.Status = domain.SessionCompleted
	tomorrow := sessionOn("tomorrow", "2024-01-02", "10:00")
	yesterday := sessionOn("yesterday", "2023-12-31", "10:00")
	yesterday.Status = domain.SessionStarted

	st := Summarize([]domain.Session{elapsed, ongoing, started, done, tomorrow, yesterday}, now)
	assert.Equal(t, Stats{Total: 6, Upcoming: 3, Started: 2, Completed: 2}, st)
}
