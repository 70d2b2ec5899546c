package requests

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mark3labs/lmsenv/internal/api"
	"github.com/mark3labs/lmsenv/internal/tui"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu         sync.Mutex
	records    []api.RequestRecord
	listErr    error
	cleanupErr error
	cleaned    []string
}

func (f *fakeBackend) ListRequests(context.Context) ([]api.RequestRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.records, f.listErr
}

func (f *fakeBackend) CleanupRequest(_ context.Context, id string) (*api.CleanupResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cleanupErr != nil {
		return nil, f.cleanupErr
	}
	f.cleaned = append(f.cleaned, id)
	return &api.CleanupResult{DeletedCourses: 2, DeletedUsers: 10}, nil
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func testRecords() []api.RequestRecord {
	return []api.RequestRecord{
		{ID: "r1", Requester: "Jan", Environment: "test", ScenarioName: "Bulk Testing", StartDate: "2024-03-01", EndDate: "2024-12-31"},
		{ID: "r2", Requester: "Piet", Environment: "acceptatie", Scenario: "app-integration", EndDate: "2024-01-01", Cleaned: true},
	}
}

func newLoadedModel(t *testing.T, b *fakeBackend) *Model {
	t.Helper()
	m := New(b)
	m.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	m.Init()
	m.Update(LoadedMsg{Records: b.records})
	require.Len(t, m.Records(), len(b.records))
	return m
}

func TestModel_LoadsRecords(t *testing.T) {
	b := &fakeBackend{records: testRecords()}
	m := New(b)
	m.Init()
	require.Contains(t, ansi.Strip(m.Body()), "Loading requests")

	m.Update(LoadedMsg{Records: b.records})
	body := ansi.Strip(m.Body())
	require.Contains(t, body, "Bulk Testing")
	require.Contains(t, body, "app-integration", "a record without a scenario name shows its id")
	require.Contains(t, body, "1-3-2024 - 31-12-2024")
}

func TestModel_LoadFailure(t *testing.T) {
	m := New(&fakeBackend{})
	m.Update(LoadedMsg{Err: errors.New("connection refused")})
	require.Contains(t, ansi.Strip(m.Body()), "Failed to load requests: connection refused")
}

func TestModel_Empty(t *testing.T) {
	m := New(&fakeBackend{})
	m.Update(LoadedMsg{Records: []api.RequestRecord{}})
	require.Contains(t, ansi.Strip(m.Body()), "No active requests found")
}

func TestModel_CleanupFlow(t *testing.T) {
	b := &fakeBackend{records: testRecords()}
	m := newLoadedModel(t, b)

	m.Update(key("c"))
	require.True(t, m.confirm.IsVisible())

	_, cmd := m.Update(key("y"))
	require.NotNil(t, cmd)
	require.Equal(t, "r1", m.cleaning)

	res, err := b.CleanupRequest(context.Background(), "r1")
	require.NoError(t, err)
	_, cmd = m.Update(CleanedMsg{ID: "r1", Result: res})
	require.NotNil(t, cmd, "a successful cleanup reloads the list")
	require.Empty(t, m.cleaning)
	require.Equal(t, tui.ToastSuccess, m.toast.Kind())
	require.Equal(t, "Cleaned up: 2 courses, 10 users", m.toast.GetMessage())
}

func TestModel_CleanupDeclined(t *testing.T) {
	b := &fakeBackend{records: testRecords()}
	m := newLoadedModel(t, b)

	m.Update(key("c"))
	_, cmd := m.Update(key("n"))
	require.Nil(t, cmd)
	require.False(t, m.confirm.IsVisible())
	require.Empty(t, m.cleaning)
}

func TestModel_CleanupFailure(t *testing.T) {
	m := newLoadedModel(t, &fakeBackend{records: testRecords()})
	m.Update(CleanedMsg{ID: "r1", Err: errors.New("server returned 404")})
	require.Equal(t, tui.ToastError, m.toast.Kind())
	require.Equal(t, "Failed to cleanup request: server returned 404", m.toast.GetMessage())
}

func TestModel_CleanedRecordCannotBeCleanedAgain(t *testing.T) {
	m := newLoadedModel(t, &fakeBackend{records: testRecords()})
	m.Update(key("down"))
	rec, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "r2", rec.ID)

	m.Update(key("c"))
	require.False(t, m.confirm.IsVisible())
}

func TestModel_Navigation(t *testing.T) {
	m := newLoadedModel(t, &fakeBackend{records: testRecords()})
	m.Update(key("up"))
	rec, _ := m.Selected()
	require.Equal(t, "r1", rec.ID)
	m.Update(key("j"))
	m.Update(key("j"))
	rec, _ = m.Selected()
	require.Equal(t, "r2", rec.ID)
}

func TestModel_ReloadClampsSelection(t *testing.T) {
	m := newLoadedModel(t, &fakeBackend{records: testRecords()})
	m.Update(key("down"))
	m.Update(LoadedMsg{Records: testRecords()[:1]})
	rec, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "r1", rec.ID)
}

func TestModel_LoadCommandCallsBackend(t *testing.T) {
	b := &fakeBackend{records: testRecords()}
	m := New(b)
	m.loading = false
	_, cmd := m.Update(key("r"))
	require.NotNil(t, cmd)
	require.True(t, m.loading)
}
