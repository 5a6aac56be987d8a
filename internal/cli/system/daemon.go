package system

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/cadence/internal/cli"
	"github.com/julianstephens/cadence/internal/config"
	"github.com/julianstephens/cadence/internal/daemon"
	"github.com/julianstephens/cadence/internal/logger"
)

type DaemonCmd struct {
	DaemonConfig string `name:"daemon-config" help:"YAML file with job schedules and metrics_addr." type:"path"`
	MetricsAddr  string `help:"Serve Prometheus metrics on this address (overrides the config file)."`
}

func (c *DaemonCmd) Run(ctx *cli.Context) error {
	cfg, err := config.Load(c.DaemonConfig)
	if err != nil {
		return err
	}
	if c.MetricsAddr != "" {
		cfg.MetricsAddr = c.MetricsAddr
	}

	d, err := daemon.New(cfg, ctx.TrayEngine())
	if err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}

	runCtx, stop := signal.NotifyContext(ctx.RunContext(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting daemon", "config", c.DaemonConfig, "metrics_addr", cfg.MetricsAddr)
	fmt.Println("cadence daemon running. Press Ctrl+C to stop.")
	return d.Run(runCtx)
}
