package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"thinfilm/archive"
	"thinfilm/config"
	"thinfilm/logging"
	"thinfilm/plotting"
	"thinfilm/sweep"
)

const (
	runLogFile  = "run.log"
	chartFile   = "spectra.html"
	spectraFile = "spectra.csv"
)

type runOptions struct {
	output string
	serve  string
}

func newRunCommand(configFlag *string) *cobra.Command {
	var ro runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the wavelength sweep described by the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configFlag)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if dir := strings.TrimSpace(ro.output); dir != "" {
				cfg.Output.Dir = dir
			}
			return runSweep(cmd, cfg, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "Override the output directory")
	cmd.Flags().StringVar(&ro.serve, "serve", "", "Serve the spectra chart on this address after the sweep (e.g. :8081)")
	return cmd
}

func runSweep(cmd *cobra.Command, cfg *config.Config, ro runOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()

	dir := cfg.Output.Dir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory %q: %w", dir, err)
	}
	if cfg.Output.ClearPrevious {
		if _, err := plotting.ClearPrevious(dir); err != nil {
			return fmt.Errorf("clear previous output: %w", err)
		}
	}

	logger, closer, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", filepath.Join(dir, runLogFile)},
	})
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer closer.Close()

	sim, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build stack: %w", err)
	}
	lights, err := cfg.Lights()
	if err != nil {
		return fmt.Errorf("wavelengths: %w", err)
	}
	logger.Info("sweep starting",
		"stack", cfg.Stack,
		"polarization", sim.Pol.String(),
		"wavelengths", len(lights),
		"workers", cfg.Simulation.Workers,
	)

	outcomes, err := sim.Sweep(ctx, lights, sweep.Options{
		Workers: cfg.Simulation.Workers,
		OnDone: func(o sweep.Outcome) {
			if o.OK() {
				logger.Debug("wavelength done", "wavelength_nm", o.Light.Wavelength, "R", o.Result.R, "T", o.Result.T, "A", o.Result.A)
				return
			}
			logger.Warn("wavelength failed", "wavelength_nm", o.Light.Wavelength, "error", o.Err)
		},
	})
	if err != nil && outcomes == nil {
		return fmt.Errorf("sweep: %w", err)
	}
	cancelled := err

	report := sweep.Summarize(outcomes, time.Since(started))
	plotting.Summary(cmd.OutOrStdout(), outcomes, report)

	rec := plotting.NewRecord(outcomes)
	if rec.Len() > 0 {
		if err := writeSpectra(dir, cfg, rec, logger); err != nil {
			return err
		}
	}

	if cfg.Output.Archive != "none" {
		raw, err := cfg.Marshal()
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		run := archive.NewRun(archive.Metadata{
			Started:      started,
			Elapsed:      report.Elapsed,
			Polarization: sim.Pol.String(),
			Stack:        cfg.Stack,
			Config:       string(raw),
		}, outcomes)
		path, err := archive.Write(ctx, dir, cfg.Output.Archive, run, started)
		if err != nil {
			return fmt.Errorf("archive results: %w", err)
		}
		logger.Info("results archived", "path", path, "run_id", run.Metadata.RunID)
	}

	logger.Info("sweep finished", "summary", report.String(), "elapsed", report.Elapsed)
	if cancelled != nil {
		return cancelled
	}
	if err := report.Err(); err != nil {
		return fmt.Errorf("sweep: %w", err)
	}

	if ro.serve != "" && cfg.Output.Chart && rec.Len() > 0 {
		return serveCharts(ctx, ro.serve, &plotting.Charts{Record: rec, Title: strings.Join(cfg.Stack, " / "), Logger: logger}, logger)
	}
	return nil
}

func writeSpectra(dir string, cfg *config.Config, rec *plotting.Record, logger *slog.Logger) error {
	csvFile, err := os.Create(filepath.Join(dir, spectraFile))
	if err != nil {
		return fmt.Errorf("create spectra csv: %w", err)
	}
	if err := rec.WriteCSV(csvFile); err != nil {
		csvFile.Close()
		return fmt.Errorf("write spectra csv: %w", err)
	}
	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("close spectra csv: %w", err)
	}

	if cfg.Output.Plot {
		paths, err := plotting.TRAPlots(dir, rec)
		if err != nil {
			return fmt.Errorf("plot spectra: %w", err)
		}
		logger.Info("plots written", "paths", paths)
	}

	if cfg.Output.Chart {
		html, err := os.Create(filepath.Join(dir, chartFile))
		if err != nil {
			return fmt.Errorf("create chart: %w", err)
		}
		c := &plotting.Charts{Record: rec, Title: strings.Join(cfg.Stack, " / "), Logger: logger}
		if err := c.Render(html); err != nil {
			html.Close()
			return fmt.Errorf("render chart: %w", err)
		}
		if err := html.Close(); err != nil {
			return fmt.Errorf("close chart: %w", err)
		}
	}
	return nil
}

func serveCharts(ctx context.Context, addr string, c *plotting.Charts, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", c.Handler)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("serving charts", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve charts: %w", err)
	}
	return nil
}
