package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"alcyxob/trainer-scheduler/internal/domain"
)

func TestExportCalendar(t *testing.T) {
	repo := newMemSessionRepo()
	s := session("s1", "t1", "2024-01-08", "09:00", domain.SessionStarted)
	s.Description = "Legs, core; stretch"
	repo.put(s)

	store := newMemStorage()
	svc := NewExportService(repo, store, 10*time.Minute, time.UTC, zap.NewNop()).(*exportService)
	svc.now = fixedClock(testNow)

	export, err := svc.ExportCalendar(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, export.Count)
	assert.True(t, strings.HasPrefix(export.ObjectKey, "exports/t1/"))
	assert.True(t, strings.HasSuffix(export.ObjectKey, ".ics"))
	assert.Contains(t, export.URL, export.ObjectKey)
	assert.Equal(t, testNow.Add(10*time.Minute), export.ExpiresAt)

	body := string(store.objects[export.ObjectKey])
	assert.Equal(t, icsContentType, store.types[export.ObjectKey])
	assert.Contains(t, body, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, body, "UID:s1@trainer-scheduler\r\n")
	assert.Contains(t, body, "DTSTART:20240108T090000\r\n")
	assert.Contains(t, body, "DTEND:20240108T100000\r\n")
	assert.Contains(t, body, "SUMMARY:Strength - Alex\r\n")
	assert.Contains(t, body, `DESCRIPTION:Legs\, core\; stretch`)
	assert.Contains(t, body, "STATUS:CONFIRMED\r\n")
}

func TestExportDisabledAndFailures(t *testing.T) {
	repo := newMemSessionRepo()
	svc := NewExportService(repo, nil, 0, time.UTC, zap.NewNop())
	_, err := svc.ExportCalendar(context.Background(), "t1")
	assert.ErrorIs(t, err, ErrExportDisabled)

	store := newMemStorage()
	store.failPut = errors.New("bucket gone")
	svc = NewExportService(repo, store, 0, time.UTC, zap.NewNop())
	_, err = svc.ExportCalendar(context.Background(), "t1")
	var serr *StoreError
	assert.ErrorAs(t, err, &serr)
}

func TestExportRemovesObjectWhenPresignFails(t *testing.T) {
	repo := newMemSessionRepo()
	repo.put(session("s1", "t1", "2024-01-08", "09:00", ""))

	store := newMemStorage()
	store.failPresign = errors.New("signer unavailable")
	svc := NewExportService(repo, store, 0, time.UTC, zap.NewNop())

	_, err := svc.ExportCalendar(context.Background(), "t1")
	var serr *StoreError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "presign export", serr.Op)
	require.Len(t, store.deletedKeys, 1)
	assert.True(t, strings.HasPrefix(store.deletedKeys[0], "exports/t1/"))
	assert.Empty(t, store.objects)

	// A failed cleanup still reports the presign error.
	store.failDelete = errors.New("delete denied")
	_, err = svc.ExportCalendar(context.Background(), "t1")
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "presign export", serr.Op)
	assert.Len(t, store.deletedKeys, 2)
	assert.Len(t, store.objects, 1)
}

func TestWriteFolded(t *testing.T) {
	var b strings.Builder
	writeFolded(&b, "DESCRIPTION:"+strings.Repeat("é", 60))
	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75)
	}
	unfolded := strings.ReplaceAll(b.String(), "\r\n ", "")
	assert.Equal(t, "DESCRIPTION:"+strings.Repeat("é", 60)+"\r\n", unfolded)
}
