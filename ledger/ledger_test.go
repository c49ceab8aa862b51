package ledger

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLedger(t *testing.T, runID uuid.UUID) *Ledger {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "ledger.db"), runID)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l
}

func TestRecordAndGet(t *testing.T) {
	runID := uuid.New()
	l := setupTestLedger(t, runID)

	require.NoError(t, l.Record("https://www.lemonde.fr/sport/article/a.html", "sport", "corpus/sport/a.txt", StatusScraped, nil))

	entry, err := l.Get("https://www.lemonde.fr/sport/article/a.html")
	require.NoError(t, err)

	assert.Equal(t, "sport", entry.Theme)
	assert.Equal(t, "corpus/sport/a.txt", entry.Path)
	assert.Equal(t, StatusScraped, entry.Status)
	assert.Equal(t, runID, entry.RunID)
	assert.Nil(t, entry.LastError)
	assert.False(t, entry.UpdatedAt.IsZero())
}

func TestRecord_UpdatesExisting(t *testing.T) {
	l := setupTestLedger(t, uuid.New())

	require.NoError(t, l.Record("u", "sport", "p", StatusFailed, errors.New("HTTP error: 500")))
	require.NoError(t, l.Record("u", "sport", "p", StatusScraped, nil))

	entry, err := l.Get("u")
	require.NoError(t, err)
	assert.Equal(t, StatusScraped, entry.Status)
	assert.Nil(t, entry.LastError, "success clears the previous error")

	all, err := l.List("")
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecord_StoresError(t *testing.T) {
	l := setupTestLedger(t, uuid.New())

	require.NoError(t, l.Record("u", "sport", "p", StatusFailed, errors.New("HTTP error: 404")))

	entry, err := l.Get("u")
	require.NoError(t, err)
	require.NotNil(t, entry.LastError)
	assert.Equal(t, "HTTP error: 404", *entry.LastError)
}

func TestGet_NotFound(t *testing.T) {
	l := setupTestLedger(t, uuid.New())

	_, err := l.Get("missing")

	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestList_FilterByStatus(t *testing.T) {
	l := setupTestLedger(t, uuid.New())
	require.NoError(t, l.Record("b", "sport", "p", StatusFailed, errors.New("x")))
	require.NoError(t, l.Record("a", "sport", "p", StatusFailed, errors.New("y")))
	require.NoError(t, l.Record("c", "sport", "p", StatusScraped, nil))

	failed, err := l.List(StatusFailed)
	require.NoError(t, err)

	require.Len(t, failed, 2)
	assert.Equal(t, "a", failed[0].URL)
	assert.Equal(t, "b", failed[1].URL)
}

func TestCounts_CurrentRunOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")

	first, err := Open(path, uuid.New())
	require.NoError(t, err)
	require.NoError(t, first.Record("old", "sport", "p", StatusScraped, nil))
	require.NoError(t, first.Close())

	second, err := Open(path, uuid.New())
	require.NoError(t, err)
	defer second.Close()
	require.NoError(t, second.Record("new1", "sport", "p", StatusSkipped, nil))
	require.NoError(t, second.Record("new2", "sport", "p", StatusScraped, nil))

	counts, err := second.Counts()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{StatusSkipped: 1, StatusScraped: 1}, counts)
}
