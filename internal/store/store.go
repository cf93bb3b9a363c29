// Package store holds the shared signal state used by every view and keeps
// it fresh by polling the backend.
package store

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/newthinker/signaldeck/internal/analytics"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the polling period when Options.Interval is zero.
const DefaultInterval = 15 * time.Minute

// DefaultErrorMessage is used when a failure carries no text.
const DefaultErrorMessage = "Failed to fetch data"

// Fetcher retrieves the three collections the store holds.
// *service.Service satisfies it.
type Fetcher interface {
	FetchAllSignals(ctx context.Context) ([]core.Signal, error)
	FetchLatestSignals(ctx context.Context) ([]core.Signal, error)
	FetchSystemStatus(ctx context.Context) (core.SystemStatus, error)
}

// Recorder receives refresh metrics. *metrics.Registry satisfies it.
type Recorder interface {
	RecordRefresh(ok bool, duration float64)
	SetSignals(collection string, count int)
	SetWinRate(rate float64)
	SetSubsystemOnline(name string, online bool)
}

// State is a point-in-time copy of the store.
type State struct {
	AllSignals    []core.Signal     `json:"allSignals"`
	LatestSignals []core.Signal     `json:"latestSignals"`
	SystemStatus  core.SystemStatus `json:"systemStatus"`
	IsLoading     bool              `json:"isLoading"`
	Error         string            `json:"error,omitempty"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// Options configures a Store
type Options struct {
	Interval time.Duration
	Logger   *zap.Logger
	Recorder Recorder
}

// Store is the single source of truth for signal and status data.
// Build it once, Start it, and Close it on shutdown.
type Store struct {
	fetcher  Fetcher
	logger   *zap.Logger
	recorder Recorder
	interval time.Duration

	mu       sync.RWMutex
	state    State
	inFlight int

	subMu   sync.Mutex
	subs    map[int]chan State
	nextSub int

	hooks []func(context.Context, State)

	runMu  sync.Mutex
	cron   *cron.Cron
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a store. Nothing is fetched until Start or Load is called.
func New(fetcher Fetcher, opts Options) *Store {
	if opts.Interval <= 0 {
		opts.Interval = DefaultInterval
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Store{
		fetcher:  fetcher,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		interval: opts.Interval,
		state: State{
			AllSignals:    []core.Signal{},
			LatestSignals: []core.Signal{},
			SystemStatus:  core.DefaultSystemStatus(),
		},
		subs: make(map[int]chan State),
	}
}

// Interval returns the polling period.
func (s *Store) Interval() time.Duration {
	return s.interval
}

// OnRefresh registers fn to run after every successful load. Hooks run on
// the loading goroutine. Register hooks before Start.
func (s *Store) OnRefresh(fn func(ctx context.Context, st State)) {
	s.hooks = append(s.hooks, fn)
}

// Start kicks off the initial load and schedules Refresh every interval.
// The initial load runs in the background; IsLoading is already true when
// Start returns.
func (s *Store) Start(ctx context.Context) error {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("store already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	c := cron.New()
	c.Schedule(cron.Every(s.interval), cron.FuncJob(func() {
		s.Refresh(ctx)
	}))
	s.cron = c

	s.logger.Info("store starting", zap.Duration("interval", s.interval))

	start := s.begin()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx, start)
	}()

	c.Start()
	return nil
}

// Close stops the refresh schedule, cancels in-flight requests and closes
// every subscription channel.
func (s *Store) Close() {
	s.runMu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.runMu.Unlock()

	s.wg.Wait()

	s.subMu.Lock()
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.subMu.Unlock()

	s.logger.Info("store closed")
}

// Load fetches all signals, latest signals and system status concurrently
// and commits them together. If any request fails the held data is left
// untouched and State().Error carries the failure message.
func (s *Store) Load(ctx context.Context) {
	s.run(ctx, s.begin())
}

// Refresh re-runs Load. It is what manual triggers and the schedule call.
func (s *Store) Refresh(ctx context.Context) {
	s.logger.Debug("refreshing store")
	s.Load(ctx)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives the state after every
// transition, starting with the current one. Slow readers only see the
// most recent state. Call the returned func to unsubscribe.
func (s *Store) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	// Commits publish under mu, so no transition can land between the
	// initial send and registration.
	s.mu.RLock()
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	ch <- s.snapshotLocked()
	s.subMu.Unlock()
	s.mu.RUnlock()

	return ch, func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		if c, ok := s.subs[id]; ok {
			close(c)
			delete(s.subs, id)
		}
	}
}

func (s *Store) begin() time.Time {
	s.mu.Lock()
	s.inFlight++
	s.state.Error = ""
	s.publish(s.snapshotLocked())
	s.mu.Unlock()

	return time.Now()
}

func (s *Store) run(ctx context.Context, start time.Time) {
	var (
		all    []core.Signal
		latest []core.Signal
		status core.SystemStatus
		g      errgroup.Group
	)

	g.Go(func() error {
		var err error
		all, err = s.fetcher.FetchAllSignals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		latest, err = s.fetcher.FetchLatestSignals(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		status, err = s.fetcher.FetchSystemStatus(ctx)
		return err
	})

	err := g.Wait()
	duration := time.Since(start)

	s.mu.Lock()
	s.inFlight--
	if err != nil {
		s.state.Error = core.Message(err, DefaultErrorMessage)
	} else {
		if all == nil {
			all = []core.Signal{}
		}
		if latest == nil {
			latest = []core.Signal{}
		}
		if status == nil {
			status = core.DefaultSystemStatus()
		}
		s.state.AllSignals = all
		s.state.LatestSignals = latest
		s.state.SystemStatus = status
		s.state.UpdatedAt = time.Now()
	}
	st := s.snapshotLocked()
	s.publish(st)
	s.mu.Unlock()

	if s.recorder != nil {
		s.recorder.RecordRefresh(err == nil, duration.Seconds())
	}

	if err != nil {
		s.logger.Error("store load failed", zap.Error(err), zap.Duration("duration", duration))
		return
	}

	s.logger.Info("store loaded",
		zap.Int("signals", len(all)),
		zap.Int("latest", len(latest)),
		zap.Duration("duration", duration),
	)
	s.record(st)

	for _, hook := range s.hooks {
		hook(ctx, st)
	}
}

func (s *Store) record(st State) {
	if s.recorder == nil {
		return
	}
	s.recorder.SetSignals("all", len(st.AllSignals))
	s.recorder.SetSignals("latest", len(st.LatestSignals))
	s.recorder.SetWinRate(analytics.Compute(st.AllSignals).WinRate)
	for name, v := range st.SystemStatus {
		s.recorder.SetSubsystemOnline(name, v == core.Online)
	}
}

func (s *Store) snapshotLocked() State {
	st := s.state
	st.AllSignals = slices.Clone(s.state.AllSignals)
	st.LatestSignals = slices.Clone(s.state.LatestSignals)
	st.SystemStatus = s.state.SystemStatus.Clone()
	st.IsLoading = s.inFlight > 0
	return st
}

// publish must be called with mu held so subscribers see transitions in
// commit order.
func (s *Store) publish(st State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- st:
		default:
			// drop the stale value so the reader sees the latest one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}
