package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newthinker/signaldeck/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	all    func(ctx context.Context) ([]core.Signal, error)
	latest func(ctx context.Context) ([]core.Signal, error)
	status func(ctx context.Context) (core.SystemStatus, error)
	calls  atomic.Int32
}

func (f *fakeFetcher) FetchAllSignals(ctx context.Context) ([]core.Signal, error) {
	f.calls.Add(1)
	return f.all(ctx)
}

func (f *fakeFetcher) FetchLatestSignals(ctx context.Context) ([]core.Signal, error) {
	return f.latest(ctx)
}

func (f *fakeFetcher) FetchSystemStatus(ctx context.Context) (core.SystemStatus, error) {
	return f.status(ctx)
}

func staticFetcher(all, latest []core.Signal, status core.SystemStatus) *fakeFetcher {
	return &fakeFetcher{
		all:    func(context.Context) ([]core.Signal, error) { return all, nil },
		latest: func(context.Context) ([]core.Signal, error) { return latest, nil },
		status: func(context.Context) (core.SystemStatus, error) { return status, nil },
	}
}

type fakeRecorder struct {
	mu        sync.Mutex
	refreshes []bool
	signals   map[string]int
	winRate   float64
	online    map[string]bool
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{signals: map[string]int{}, online: map[string]bool{}}
}

func (r *fakeRecorder) RecordRefresh(ok bool, _ float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes = append(r.refreshes, ok)
}

func (r *fakeRecorder) SetSignals(collection string, count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals[collection] = count
}

func (r *fakeRecorder) SetWinRate(rate float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.winRate = rate
}

func (r *fakeRecorder) SetSubsystemOnline(name string, online bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.online[name] = online
}

func signals(ids ...string) []core.Signal {
	out := make([]core.Signal, len(ids))
	for i, id := range ids {
		out[i] = core.Signal{ID: id, Pair: "XAUUSD", Type: core.SignalBuy, Status: core.StatusPending}
	}
	return out
}

func TestNew_InitialState(t *testing.T) {
	s := New(staticFetcher(nil, nil, nil), Options{})

	st := s.State()
	assert.Empty(t, st.AllSignals)
	assert.NotNil(t, st.AllSignals)
	assert.Empty(t, st.LatestSignals)
	assert.Equal(t, core.DefaultSystemStatus(), st.SystemStatus)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.True(t, st.UpdatedAt.IsZero())
	assert.Equal(t, DefaultInterval, s.Interval())
}

func TestLoad_Success(t *testing.T) {
	all := []core.Signal{
		{ID: "1", Pair: "XAUUSD", Status: core.StatusHitTP},
		{ID: "2", Pair: "XAUUSD", Status: core.StatusHitSL},
		{ID: "3", Pair: "EURUSD", Status: core.StatusHitTP},
	}
	latest := all[:1]
	status := core.SystemStatus{core.SubsystemNode: core.Online, core.SubsystemPython: core.Offline}
	rec := newFakeRecorder()

	s := New(staticFetcher(all, latest, status), Options{Recorder: rec})
	s.Load(context.Background())

	st := s.State()
	assert.Equal(t, all, st.AllSignals)
	assert.Equal(t, latest, st.LatestSignals)
	assert.Equal(t, status, st.SystemStatus)
	assert.False(t, st.IsLoading)
	assert.Empty(t, st.Error)
	assert.False(t, st.UpdatedAt.IsZero())

	assert.Equal(t, []bool{true}, rec.refreshes)
	assert.Equal(t, 3, rec.signals["all"])
	assert.Equal(t, 1, rec.signals["latest"])
	assert.Equal(t, 66.7, rec.winRate)
	assert.True(t, rec.online[core.SubsystemNode])
	assert.False(t, rec.online[core.SubsystemPython])
}

func TestLoad_NullPayloadsCommitEmpty(t *testing.T) {
	s := New(staticFetcher(nil, nil, nil), Options{})
	s.Load(context.Background())

	st := s.State()
	assert.NotNil(t, st.AllSignals)
	assert.Empty(t, st.AllSignals)
	assert.NotNil(t, st.LatestSignals)
	assert.Equal(t, core.DefaultSystemStatus(), st.SystemStatus)
	assert.Empty(t, st.Error)
}

func TestLoad_PartialFailureKeepsPreviousData(t *testing.T) {
	f := staticFetcher(signals("a", "b"), signals("a"), core.SystemStatus{core.SubsystemNode: core.Online})
	rec := newFakeRecorder()
	s := New(f, Options{Recorder: rec})
	s.Load(context.Background())
	before := s.State()

	// all and status succeed with new data, latest fails
	f.all = func(context.Context) ([]core.Signal, error) { return signals("x", "y", "z"), nil }
	f.status = func(context.Context) (core.SystemStatus, error) {
		return core.SystemStatus{core.SubsystemNode: core.Offline}, nil
	}
	f.latest = func(context.Context) ([]core.Signal, error) {
		return nil, fmt.Errorf("fetching latest signals: %w", core.BackendError("Network Error", nil))
	}

	s.Load(context.Background())

	st := s.State()
	assert.Equal(t, before.AllSignals, st.AllSignals)
	assert.Equal(t, before.LatestSignals, st.LatestSignals)
	assert.Equal(t, before.SystemStatus, st.SystemStatus)
	assert.Equal(t, before.UpdatedAt, st.UpdatedAt)
	assert.Equal(t, "Network Error", st.Error)
	assert.False(t, st.IsLoading)
	assert.Equal(t, []bool{true, false}, rec.refreshes)
}

func TestLoad_ErrorClearedOnNextAttempt(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)

	f := staticFetcher(signals("a"), nil, nil)
	f.status = func(context.Context) (core.SystemStatus, error) {
		if fail.Load() {
			return nil, errors.New("boom")
		}
		return core.SystemStatus{core.SubsystemNode: core.Online}, nil
	}
	s := New(f, Options{})

	s.Load(context.Background())
	assert.Equal(t, DefaultErrorMessage, s.State().Error)

	fail.Store(false)
	s.Load(context.Background())
	st := s.State()
	assert.Empty(t, st.Error)
	assert.Len(t, st.AllSignals, 1)
	assert.True(t, st.SystemStatus.IsOnline(core.SubsystemNode))
}

func TestLoad_FetchesConcurrently(t *testing.T) {
	var wg sync.WaitGroup
	wg.Add(3)
	barrier := func() {
		wg.Done()
		wg.Wait()
	}

	f := &fakeFetcher{
		all:    func(context.Context) ([]core.Signal, error) { barrier(); return signals("a"), nil },
		latest: func(context.Context) ([]core.Signal, error) { barrier(); return signals("a"), nil },
		status: func(context.Context) (core.SystemStatus, error) { barrier(); return nil, nil },
	}
	s := New(f, Options{})

	done := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("requests were not issued concurrently")
	}
	assert.Len(t, s.State().AllSignals, 1)
}

func TestLoad_IsLoadingWhileInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})

	f := staticFetcher(signals("a"), nil, nil)
	f.all = func(context.Context) ([]core.Signal, error) {
		close(entered)
		<-release
		return signals("a"), nil
	}
	s := New(f, Options{})

	done := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(done)
	}()

	<-entered
	assert.True(t, s.State().IsLoading)

	close(release)
	<-done
	assert.False(t, s.State().IsLoading)
}

func TestLoad_OverlappingLoadsLastCommitWins(t *testing.T) {
	slowRelease := make(chan struct{})
	slowEntered := make(chan struct{})
	var n atomic.Int32

	f := staticFetcher(nil, nil, nil)
	f.all = func(context.Context) ([]core.Signal, error) {
		if n.Add(1) == 1 {
			close(slowEntered)
			<-slowRelease
			return signals("stale"), nil
		}
		return signals("fresh"), nil
	}
	s := New(f, Options{})

	slowDone := make(chan struct{})
	go func() {
		s.Load(context.Background())
		close(slowDone)
	}()
	<-slowEntered

	s.Load(context.Background())
	st := s.State()
	assert.Equal(t, "fresh", st.AllSignals[0].ID)
	assert.True(t, st.IsLoading, "the slow load is still in flight")

	close(slowRelease)
	<-slowDone

	st = s.State()
	assert.Equal(t, "stale", st.AllSignals[0].ID)
	assert.False(t, st.IsLoading)
}

func TestState_ReturnsCopy(t *testing.T) {
	s := New(staticFetcher(signals("a"), signals("a"), core.SystemStatus{core.SubsystemNode: core.Online}), Options{})
	s.Load(context.Background())

	st := s.State()
	st.AllSignals[0].ID = "mutated"
	st.SystemStatus[core.SubsystemNode] = core.Offline

	again := s.State()
	assert.Equal(t, "a", again.AllSignals[0].ID)
	assert.True(t, again.SystemStatus.IsOnline(core.SubsystemNode))
}

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	s := New(staticFetcher(signals("a", "b"), nil, nil), Options{})

	ch, unsubscribe := s.Subscribe()
	defer unsubscribe()

	initial := <-ch
	assert.Empty(t, initial.AllSignals)

	go s.Load(context.Background())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case st := <-ch:
			if !st.IsLoading && len(st.AllSignals) == 2 {
				return
			}
		case <-deadline:
			t.Fatal("no committed state received")
		}
	}
}

func TestSubscribe_ConcurrentWithLoadsEndsOnLatestState(t *testing.T) {
	var n atomic.Int32
	f := staticFetcher(nil, nil, nil)
	f.all = func(context.Context) ([]core.Signal, error) {
		return signals(fmt.Sprintf("load-%d", n.Add(1))), nil
	}
	s := New(f, Options{})

	const workers = 20
	chans := make([]<-chan State, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.Load(context.Background())
		}()
		go func(i int) {
			defer wg.Done()
			ch, unsubscribe := s.Subscribe()
			t.Cleanup(unsubscribe)
			chans[i] = ch
		}(i)
	}
	wg.Wait()

	want := s.State()
	require.False(t, want.IsLoading)
	for i, ch := range chans {
		var last State
		for drained := false; !drained; {
			select {
			case st := <-ch:
				last = st
			default:
				drained = true
			}
		}
		assert.Equal(t, want.AllSignals, last.AllSignals, "subscriber %d", i)
		assert.False(t, last.IsLoading, "subscriber %d", i)
	}
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	s := New(staticFetcher(nil, nil, nil), Options{})

	ch, unsubscribe := s.Subscribe()
	<-ch
	unsubscribe()
	unsubscribe()

	_, ok := <-ch
	assert.False(t, ok)

	s.Load(context.Background())
}

func TestOnRefresh_RunsOnSuccessOnly(t *testing.T) {
	var fail atomic.Bool
	f := staticFetcher(signals("a"), nil, nil)
	f.latest = func(context.Context) ([]core.Signal, error) {
		if fail.Load() {
			return nil, errors.New("down")
		}
		return nil, nil
	}
	s := New(f, Options{})

	var got []State
	s.OnRefresh(func(_ context.Context, st State) {
		got = append(got, st)
	})

	s.Load(context.Background())
	fail.Store(true)
	s.Load(context.Background())

	require.Len(t, got, 1)
	assert.Len(t, got[0].AllSignals, 1)
}

func TestStart_LoadsAndSchedules(t *testing.T) {
	f := staticFetcher(signals("a"), nil, nil)
	s := New(f, Options{Interval: time.Second})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.State().IsLoading)
	assert.Error(t, s.Start(context.Background()))

	require.Eventually(t, func() bool {
		return f.calls.Load() >= 2
	}, 5*time.Second, 20*time.Millisecond)

	s.Close()

	calls := f.calls.Load()
	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, calls, f.calls.Load(), "no refresh after Close")
	assert.Len(t, s.State().AllSignals, 1)
}

func TestClose_CancelsInFlightAndClosesSubscribers(t *testing.T) {
	entered := make(chan struct{})
	f := staticFetcher(nil, nil, nil)
	f.all = func(ctx context.Context) ([]core.Signal, error) {
		close(entered)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	s := New(f, Options{})
	ch, _ := s.Subscribe()

	require.NoError(t, s.Start(context.Background()))
	<-entered
	s.Close()

	st := s.State()
	assert.False(t, st.IsLoading)
	assert.Equal(t, DefaultErrorMessage, st.Error)

	for range ch {
	}
}
