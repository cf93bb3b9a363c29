// Package service exposes one typed accessor per backend resource.
package service

import (
	"context"
	"fmt"

	"github.com/newthinker/signaldeck/internal/core"
	"go.uber.org/zap"
)

// Backend paths
const (
	PathSignals       = "/signals"
	PathLatestSignals = "/signals/latest"
	PathSystemStatus  = "/system-status"
	PathLogs          = "/logs"
	PathSettings      = "/settings"
)

// Requester performs enveloped JSON requests. *client.Client satisfies it.
type Requester interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, body, out any) error
}

// Service is the signal data service
type Service struct {
	api    Requester
	logger *zap.Logger
}

// New creates a service on top of the given requester.
func New(api Requester, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, logger: logger}
}

// FetchAllSignals returns every signal stored by the backend.
func (s *Service) FetchAllSignals(ctx context.Context) ([]core.Signal, error) {
	var signals []core.Signal
	if err := s.get(ctx, "all signals", PathSignals, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// FetchLatestSignals returns the latest signal per tracked pair.
func (s *Service) FetchLatestSignals(ctx context.Context) ([]core.Signal, error) {
	var signals []core.Signal
	if err := s.get(ctx, "latest signals", PathLatestSignals, &signals); err != nil {
		return nil, err
	}
	return signals, nil
}

// FetchSystemStatus returns the health of each backend subsystem.
func (s *Service) FetchSystemStatus(ctx context.Context) (core.SystemStatus, error) {
	var status core.SystemStatus
	if err := s.get(ctx, "system status", PathSystemStatus, &status); err != nil {
		return nil, err
	}
	return status, nil
}

// FetchLogs returns backend log entries in backend order.
func (s *Service) FetchLogs(ctx context.Context) ([]core.LogEntry, error) {
	var logs []core.LogEntry
	if err := s.get(ctx, "logs", PathLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// FetchSettings returns the current bot settings.
func (s *Service) FetchSettings(ctx context.Context) (*core.Settings, error) {
	var settings core.Settings
	if err := s.get(ctx, "settings", PathSettings, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings persists settings and returns what the backend stored.
func (s *Service) UpdateSettings(ctx context.Context, settings core.Settings) (*core.Settings, error) {
	var updated core.Settings
	if err := s.api.Post(ctx, PathSettings, settings, &updated); err != nil {
		s.logger.Error("error updating settings", zap.Error(err))
		return nil, fmt.Errorf("updating settings: %w", err)
	}

	s.logger.Info("settings updated",
		zap.Strings("tracked_pairs", updated.TrackedPairs),
		zap.String("interval", string(updated.SchedulerInterval)),
	)
	return &updated, nil
}

func (s *Service) get(ctx context.Context, resource, path string, out any) error {
	if err := s.api.Get(ctx, path, out); err != nil {
		s.logger.Error("error fetching "+resource, zap.String("path", path), zap.Error(err))
		return fmt.Errorf("fetching %s: %w", resource, err)
	}
	return nil
}
