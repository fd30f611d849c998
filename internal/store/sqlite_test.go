package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homedash/homedash/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testResult(passID string, ts int64) model.RefreshResult {
	return model.RefreshResult{
		PassID:    passID,
		Timestamp: ts,
		Fragments: []model.Fragment{
			{Module: "weather", Title: "Weather", Text: "12°, Clear", OK: true, FetchedAt: ts},
			{Module: "stocks", Title: "Stocks", Text: "unavailable", OK: false, Err: "module stocks: timeout", FetchedAt: ts},
		},
	}
}

func TestInsertAndLatestPass(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Unix()

	require.NoError(t, s.InsertFragments(testResult("pass-1", now-60)))
	require.NoError(t, s.InsertFragments(testResult("pass-2", now)))

	samples, err := s.LatestPass()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	for _, smp := range samples {
		require.Equal(t, "pass-2", smp.PassID)
	}
	// Insertion order within the pass is preserved
	require.Equal(t, "weather", samples[0].Module)
	require.Equal(t, "stocks", samples[1].Module)
	require.True(t, samples[0].OK)
	require.False(t, samples[1].OK)
	require.Equal(t, "module stocks: timeout", samples[1].Err)
}

func TestLatestPassEmpty(t *testing.T) {
	s := newTestStore(t)
	samples, err := s.LatestPass()
	require.NoError(t, err)
	require.Nil(t, samples)
}

func TestQueryHistory(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Unix()

	require.NoError(t, s.InsertFragments(testResult("pass-1", now-7200)))
	require.NoError(t, s.InsertFragments(testResult("pass-2", now-60)))

	samples, err := s.QueryHistory("weather", now-3600, now)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	require.Equal(t, "pass-2", samples[0].PassID)
	require.Equal(t, "12°, Clear", samples[0].Text)
}

func TestPurgeOlderThan(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().Unix()

	require.NoError(t, s.InsertFragments(testResult("old", now-48*3600)))
	require.NoError(t, s.InsertFragments(testResult("new", now)))

	n, err := s.PurgeOlderThan(24)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	samples, err := s.LatestPass()
	require.NoError(t, err)
	require.Len(t, samples, 2)
	require.Equal(t, "new", samples[0].PassID)
}

func TestModuleState(t *testing.T) {
	s := newTestStore(t)

	states, err := s.GetAllModuleStates()
	require.NoError(t, err)
	require.Empty(t, states)

	require.NoError(t, s.SetModuleEnabled("weather", false))
	require.NoError(t, s.SetModuleEnabled("stocks", true))
	require.NoError(t, s.SetModuleEnabled("weather", false)) // upsert

	states, err = s.GetAllModuleStates()
	require.NoError(t, err)
	require.Len(t, states, 2)

	byID := map[string]bool{}
	for _, st := range states {
		byID[st.ModuleID] = st.Enabled
	}
	require.False(t, byID["weather"])
	require.True(t, byID["stocks"])
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetSetting("missing")
	require.NoError(t, err)
	require.Empty(t, v)

	require.NoError(t, s.SetSetting("refresh_interval", "120"))
	require.NoError(t, s.SetSetting("refresh_interval", "300")) // upsert

	v, err = s.GetSetting("refresh_interval")
	require.NoError(t, err)
	require.Equal(t, "300", v)

	all, err := s.GetAllSettings()
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestDashboardLayoutCRUD(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateDashboardLayout(&model.DashboardLayout{Name: "Default", Layout: `{"cols":2}`})
	require.NoError(t, err)
	require.Positive(t, id)

	dl, err := s.GetDashboardLayout(id)
	require.NoError(t, err)
	require.NotNil(t, dl)
	require.Equal(t, "Default", dl.Name)
	require.NotZero(t, dl.Updated)

	dl.Name = "Renamed"
	require.NoError(t, s.UpdateDashboardLayout(dl))

	layouts, err := s.ListDashboardLayouts()
	require.NoError(t, err)
	require.Len(t, layouts, 1)
	require.Equal(t, "Renamed", layouts[0].Name)

	require.NoError(t, s.DeleteDashboardLayout(id))
	dl, err = s.GetDashboardLayout(id)
	require.NoError(t, err)
	require.Nil(t, dl)
}
