// Package archive writes point-in-time copies of the dashboard data to
// local disk or S3-compatible object storage.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strconv"
	"time"

	"github.com/newthinker/signaldeck/internal/analytics"
	"github.com/newthinker/signaldeck/internal/core"
	"github.com/newthinker/signaldeck/internal/store"
	"go.uber.org/zap"
)

// Root is the top-level directory of every snapshot.
const Root = "snapshots"

// Snapshot is one archived copy of the store plus its aggregation.
type Snapshot struct {
	TakenAt   time.Time         `json:"taken_at"`
	Signals   []core.Signal     `json:"signals"`
	Latest    []core.Signal     `json:"latest"`
	Status    core.SystemStatus `json:"status"`
	Analytics analytics.Report  `json:"analytics"`
}

// NewSnapshot captures st at takenAt.
func NewSnapshot(st store.State, takenAt time.Time) Snapshot {
	return Snapshot{
		TakenAt:   takenAt.UTC(),
		Signals:   st.AllSignals,
		Latest:    st.LatestSignals,
		Status:    st.SystemStatus,
		Analytics: analytics.Compute(st.AllSignals),
	}
}

// Path returns snapshots/YYYY/MM/DD/<unixnano>.json for t in UTC.
func Path(t time.Time) string {
	t = t.UTC()
	return path.Join(Root, t.Format("2006"), t.Format("01"), t.Format("02"),
		strconv.FormatInt(t.UnixNano(), 10)+".json")
}

// Recorder counts archive writes. *metrics.Registry satisfies it.
type Recorder interface {
	RecordSnapshotArchived(status string)
}

// Archiver serializes snapshots into a Storage.
type Archiver struct {
	storage  Storage
	logger   *zap.Logger
	recorder Recorder
	now      func() time.Time
}

// NewArchiver creates an archiver. logger may be nil.
func NewArchiver(storage Storage, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{storage: storage, logger: logger, now: time.Now}
}

// SetRecorder sets the metrics recorder
func (a *Archiver) SetRecorder(r Recorder) {
	a.recorder = r
}

// Archive writes st and returns the path it was stored under.
func (a *Archiver) Archive(ctx context.Context, st store.State) (string, error) {
	snap := NewSnapshot(st, a.now())
	p := Path(snap.TakenAt)

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		a.record("failure")
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("encoding snapshot: %w", err))
	}

	if err := a.storage.Write(ctx, p, data); err != nil {
		a.record("failure")
		a.logger.Error("snapshot archive failed", zap.String("path", p), zap.Error(err))
		return "", core.WrapError(core.ErrArchiveFailed, fmt.Errorf("writing %s: %w", p, err))
	}

	a.record("success")
	a.logger.Info("snapshot archived",
		zap.String("path", p),
		zap.Int("signals", len(snap.Signals)),
	)
	return p, nil
}

// OnRefresh adapts Archive to store.Store.OnRefresh. Failures are logged
// and do not affect the store.
func (a *Archiver) OnRefresh(ctx context.Context, st store.State) {
	_, _ = a.Archive(ctx, st)
}

// List returns every archived snapshot path, oldest first.
func (a *Archiver) List(ctx context.Context) ([]string, error) {
	paths, err := a.storage.List(ctx, Root)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("listing snapshots: %w", err))
	}
	return paths, nil
}

// Load reads the snapshot stored at p.
func (a *Archiver) Load(ctx context.Context, p string) (*Snapshot, error) {
	data, err := a.storage.Read(ctx, p)
	if err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("reading %s: %w", p, err))
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, core.WrapError(core.ErrArchiveFailed, fmt.Errorf("decoding %s: %w", p, err))
	}
	return &snap, nil
}

func (a *Archiver) record(status string) {
	if a.recorder != nil {
		a.recorder.RecordSnapshotArchived(status)
	}
}
