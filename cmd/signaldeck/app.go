package main

import (
	"fmt"

	"github.com/newthinker/signaldeck/internal/archive"
	"github.com/newthinker/signaldeck/internal/client"
	"github.com/newthinker/signaldeck/internal/config"
	"github.com/newthinker/signaldeck/internal/logger"
	"github.com/newthinker/signaldeck/internal/metrics"
	"github.com/newthinker/signaldeck/internal/service"
	"github.com/newthinker/signaldeck/internal/store"
	"go.uber.org/zap"
)

// app is the wiring shared by every command.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	metrics *metrics.Registry
	svc     *service.Service
	store   *store.Store
}

// newApp loads and validates config, then builds the client, service and
// store. fileOnly keeps log output off the terminal.
func newApp(fileOnly bool) (*app, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log, err := newLogger(cfg, fileOnly)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	reg := metrics.NewRegistry()

	c, err := client.New(client.Config{
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, log.Named("client"))
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	c.SetObserver(reg)

	svc := service.New(c, log.Named("service"))
	st := store.New(svc, store.Options{
		Interval: cfg.Store.RefreshInterval,
		Logger:   log.Named("store"),
		Recorder: reg,
	})

	return &app{cfg: cfg, log: log, metrics: reg, svc: svc, store: st}, nil
}

func newLogger(cfg *config.Config, fileOnly bool) (*zap.Logger, error) {
	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	return logger.NewWithOptions(logger.Options{
		Development: debug || cfg.Log.Development,
		Level:       level,
		File:        cfg.Log.File,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		MaxBackups:  cfg.Log.MaxBackups,
		MaxAgeDays:  cfg.Log.MaxAgeDays,
		FileOnly:    fileOnly,
	})
}

// archiver builds the snapshot archiver from the archive section.
func (a *app) archiver() (*archive.Archiver, error) {
	s3 := a.cfg.Archive.S3
	storage, err := archive.NewStorage(a.cfg.Archive.Type, a.cfg.Archive.Path, archive.S3Config{
		Bucket:    s3.Bucket,
		Endpoint:  s3.Endpoint,
		Region:    s3.Region,
		AccessKey: s3.AccessKey,
		SecretKey: s3.SecretKey,
		Prefix:    s3.Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("creating archive storage: %w", err)
	}

	arch := archive.NewArchiver(storage, a.log.Named("archive"))
	arch.SetRecorder(a.metrics)
	return arch, nil
}

func (a *app) Close() {
	a.store.Close()
	_ = a.log.Sync()
}
