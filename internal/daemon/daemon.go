// Package daemon drives the engine passes on cron schedules.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"

	"github.com/julianstephens/cadence/internal/arbiter"
	"github.com/julianstephens/cadence/internal/config"
	"github.com/julianstephens/cadence/internal/engine"
	"github.com/julianstephens/cadence/internal/logger"
	"github.com/julianstephens/cadence/internal/models"
)

// Engine is the set of passes the daemon schedules.
type Engine interface {
	Today() (string, error)
	Location() (*time.Location, error)
	RunExpansion(ctx context.Context, today string) (engine.ExpansionResult, error)
	RecomputeMode(ctx context.Context, date string) (models.Day, error)
	RunArbitration(ctx context.Context, date string) (engine.ArbitrationReport, error)
	SelectNextImportant(ctx context.Context, date string, announce bool) (arbiter.Scored, bool, error)
	PruneNotificationLog(ctx context.Context, today string) (int64, error)
}

const (
	JobExpansion   = "expansion"
	JobMode        = "mode"
	JobArbitration = "arbitration"
	JobSummary     = "summary"
	JobPrune       = "prune"
)

type Daemon struct {
	cfg    *config.Config
	engine Engine
	cron   *cron.Cron
	jobs   map[string]func(context.Context) error

	mu          sync.Mutex
	ctx         context.Context
	metricsAddr net.Addr
}

// New builds a daemon whose schedules run in the engine's configured timezone.
func New(cfg *config.Config, eng Engine) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := eng.Location()
	if err != nil {
		return nil, err
	}

	cl := cronLogger{}
	d := &Daemon{
		cfg:    cfg,
		engine: eng,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		ctx: context.Background(),
	}
	d.jobs = map[string]func(context.Context) error{
		JobExpansion:   d.expand,
		JobMode:        d.mode,
		JobArbitration: d.arbitrate,
		JobSummary:     d.summary,
		JobPrune:       d.prune,
	}

	for name, spec := range map[string]string{
		JobExpansion:   cfg.Schedules.Expansion,
		JobMode:        cfg.Schedules.Mode,
		JobArbitration: cfg.Schedules.Arbitration,
		JobSummary:     cfg.Schedules.Summary,
		JobPrune:       cfg.Schedules.Prune,
	} {
		if _, err := d.cron.AddFunc(spec, func() { d.run(name) }); err != nil {
			return nil, fmt.Errorf("failed to schedule %s: %w", name, err)
		}
		logger.Debug("Scheduled job", "job", name, "spec", spec)
	}
	return d, nil
}

// Entries lists the scheduled jobs.
func (d *Daemon) Entries() []cron.Entry {
	return d.cron.Entries()
}

// MetricsAddr is the bound metrics listener address, or nil when not serving.
func (d *Daemon) MetricsAddr() net.Addr {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.metricsAddr
}

// Run primes expansion and mode, starts the scheduler and blocks until ctx is
// done. Running jobs are waited for before it returns.
func (d *Daemon) Run(ctx context.Context) error {
	d.mu.Lock()
	d.ctx = ctx
	d.mu.Unlock()

	if d.cfg.ShouldRunOnStart() {
		d.run(JobExpansion)
		d.run(JobMode)
	}

	var srv *http.Server
	if d.cfg.MetricsAddr != "" {
		ln, err := net.Listen("tcp", d.cfg.MetricsAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", d.cfg.MetricsAddr, err)
		}
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		d.mu.Lock()
		d.metricsAddr = ln.Addr()
		d.mu.Unlock()

		go func() {
			if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server stopped", "error", err)
			}
		}()
		logger.Info("Serving metrics", "addr", ln.Addr().String())
	}

	d.cron.Start()
	logger.Info("Daemon started", "jobs", len(d.cron.Entries()))

	<-ctx.Done()
	logger.Info("Daemon stopping")
	<-d.cron.Stop().Done()

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to stop metrics server: %w", err)
		}
	}
	return nil
}

// run executes one job and logs its failure.
func (d *Daemon) run(name string) {
	d.mu.Lock()
	ctx := d.ctx
	d.mu.Unlock()

	if err := d.jobs[name](ctx); err != nil {
		logger.Error("Job failed", "job", name, "error", err)
	}
}

func (d *Daemon) expand(ctx context.Context) error {
	today, err := d.engine.Today()
	if err != nil {
		return err
	}
	_, err = d.engine.RunExpansion(ctx, today)
	return err
}

func (d *Daemon) mode(ctx context.Context) error {
	today, err := d.engine.Today()
	if err != nil {
		return err
	}
	_, err = d.engine.RecomputeMode(ctx, today)
	return err
}

func (d *Daemon) arbitrate(ctx context.Context) error {
	today, err := d.engine.Today()
	if err != nil {
		return err
	}
	_, err = d.engine.RunArbitration(ctx, today)
	return err
}

func (d *Daemon) summary(ctx context.Context) error {
	today, err := d.engine.Today()
	if err != nil {
		return err
	}
	_, _, err = d.engine.SelectNextImportant(ctx, today, true)
	return err
}

func (d *Daemon) prune(ctx context.Context) error {
	today, err := d.engine.Today()
	if err != nil {
		return err
	}
	n, err := d.engine.PruneNotificationLog(ctx, today)
	if err == nil && n > 0 {
		logger.Info("Pruned notification log", "removed", n)
	}
	return err
}

// cronLogger routes cron's own logging to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
