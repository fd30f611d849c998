package module

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/homedash/homedash/internal/config"
	"github.com/homedash/homedash/internal/model"
)

func TestRunPassUpdatesLatestAndBroadcasts(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
		{Name: "b", Module: "static"},
	}))

	sched := NewScheduler(r, nil, 60)
	require.Nil(t, sched.Latest())

	var got []model.RefreshResult
	sched.SetBroadcast(func(res model.RefreshResult) {
		got = append(got, res)
	})

	res := sched.RunPass(context.Background())
	require.Len(t, res.Fragments, 2)

	latest := sched.Latest()
	require.NotNil(t, latest)
	require.Equal(t, res.PassID, latest.PassID)

	require.Len(t, got, 1)
	require.Equal(t, res.PassID, got[0].PassID)
}

func TestRunPassSkipsDisabled(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
		{Name: "b", Module: "static"},
		{Name: "c", Module: "static"},
	}))
	require.NoError(t, r.Disable("b"))

	sched := NewScheduler(r, nil, 60)
	res := sched.RunPass(context.Background())

	require.Len(t, res.Fragments, 2)
	require.Equal(t, "a", res.Fragments[0].Module)
	require.Equal(t, "c", res.Fragments[1].Module)
}

func TestSchedulerLoopRunsImmediately(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
	}))

	sched := NewScheduler(r, nil, 3600)

	done := make(chan model.RefreshResult, 1)
	sched.SetBroadcast(func(res model.RefreshResult) {
		select {
		case done <- res:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	select {
	case res := <-done:
		require.Len(t, res.Fragments, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not run an immediate first pass")
	}
}

func TestNewSchedulerClampsInterval(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
	}))

	sched := NewScheduler(r, nil, 0)

	sched.mu.Lock()
	got := sched.interval
	sched.mu.Unlock()
	require.Equal(t, time.Second, got)

	// The loop must come up with the clamped interval.
	done := make(chan model.RefreshResult, 1)
	sched.SetBroadcast(func(res model.RefreshResult) {
		select {
		case done <- res:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sched.Start(ctx)
	defer sched.Stop()

	select {
	case res := <-done:
		require.Len(t, res.Fragments, 1)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not start with a zero configured interval")
	}
}

func TestUpdateIntervalClampsToOneSecond(t *testing.T) {
	r := newTestRegistry(t)
	require.NoError(t, r.Configure([]config.ModuleSettings{
		{Name: "a", Module: "static"},
	}))

	sched := NewScheduler(r, nil, 60)
	sched.UpdateInterval(0)

	sched.mu.Lock()
	got := sched.interval
	sched.mu.Unlock()
	require.Equal(t, time.Second, got)
}
