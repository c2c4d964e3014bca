package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"legisync/internal/config"
	"legisync/internal/http"
	"legisync/internal/ingest"
	"legisync/internal/storage"
)

// app carries the configuration shared by every subcommand.
type app struct {
	cfg *config.Config

	dbPath      string
	oldFilesLog string
	workers     int
	reportPath  string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "legisync",
		Short:         "Incrementally ingest LEGI archives into SQLite",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database file (overrides DB_PATH)")

	ingestCmd := &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Apply every eligible archive of a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.runIngest,
	}
	ingestCmd.Flags().StringVar(&a.oldFilesLog, "old-files-log", "", "old-path log file (overrides OLD_FILES_LOG)")
	ingestCmd.Flags().IntVar(&a.workers, "workers", 0, "concurrent XML decoders (overrides DECODE_WORKERS)")
	ingestCmd.Flags().StringVar(&a.reportPath, "report", "", "also write the JSON run report to this file")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run ingestion in the background and serve the status API",
		Args:  cobra.NoArgs,
		RunE:  a.runServe,
	}
	serveCmd.Flags().StringVar(&a.oldFilesLog, "old-files-log", "", "old-path log file (overrides OLD_FILES_LOG)")

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Print the watermark and table sizes",
		Args:  cobra.NoArgs,
		RunE:  a.runStatus,
	}

	root.AddCommand(ingestCmd, serveCmd, statusCmd)
	return root
}

// setup loads the configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.dbPath != "" {
		if os.Getenv("OLD_FILES_LOG") == "" {
			cfg.OldFilesLog = a.dbPath + ".old_files.dat"
		}
		cfg.DBPath = a.dbPath
	}
	if a.oldFilesLog != "" {
		cfg.OldFilesLog = a.oldFilesLog
	}
	if a.workers > 0 {
		cfg.DecodeWorkers = a.workers
	}
	a.cfg = cfg

	// Stdout carries JSON reports, so logs go to stderr.
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)
	return nil
}

func (a *app) openStore() (*sql.DB, *storage.SQLStore, error) {
	db, err := storage.New(a.cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", a.cfg.DBPath)
	return db, storage.NewSQLStore(db), nil
}

func (a *app) newPipeline(store storage.Store) (*ingest.Pipeline, io.Closer, error) {
	oldFiles, err := os.OpenFile(a.cfg.OldFilesLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open old-path log: %w", err)
	}
	p := ingest.NewPipeline(store, ingest.Options{
		Workers:   a.cfg.DecodeWorkers,
		BatchSize: a.cfg.DecodeBatchSize,
		OldPaths:  oldFiles,
	})
	return p, oldFiles, nil
}

func (a *app) runIngest(cmd *cobra.Command, args []string) error {
	dir := a.cfg.ArchivesDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no archive directory: pass one or set ARCHIVES_DIR")
	}

	db, store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	p, oldFiles, err := a.newPipeline(store)
	if err != nil {
		return err
	}
	defer func() {
		_ = oldFiles.Close()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, runErr := p.Run(ctx, dir)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	out = append(out, '\n')
	if _, err := cmd.OutOrStdout().Write(out); err != nil {
		return err
	}
	if a.reportPath != "" {
		if err := os.WriteFile(a.reportPath, out, 0o644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return runErr
}

func (a *app) runServe(cmd *cobra.Command, _ []string) error {
	db, store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	p, oldFiles, err := a.newPipeline(store)
	if err != nil {
		return err
	}
	defer func() {
		_ = oldFiles.Close()
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	router := http.NewRouter(&http.Deps{
		DB:          store,
		Store:       store,
		Ingester:    p,
		ArchivesDir: a.cfg.ArchivesDir,
	})

	if a.cfg.ArchivesDir != "" {
		go a.ingestLoop(ctx, p)
	} else {
		slog.Warn("ARCHIVES_DIR not set, background ingestion disabled")
	}

	srv := &nethttp.Server{
		Addr:              ":" + a.cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("Starting API server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// ingestLoop runs the pipeline once, then every IngestInterval if set.
func (a *app) ingestLoop(ctx context.Context, p *ingest.Pipeline) {
	run := func() {
		slog.Info("Starting background ingestion", "dir", a.cfg.ArchivesDir)
		if _, err := p.Run(ctx, a.cfg.ArchivesDir); err != nil {
			slog.Error("Ingestion completed with errors", "error", err)
		}
	}

	run()
	if a.cfg.IngestInterval == 0 {
		return
	}
	ticker := time.NewTicker(a.cfg.IngestInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run()
		}
	}
}

// StatusOutput is printed by the status command.
type StatusOutput struct {
	Database  string         `json:"database"`
	Watermark string         `json:"watermark"`
	Counts    map[string]int `json:"counts"`
}

func (a *app) runStatus(cmd *cobra.Command, _ []string) error {
	db, store, err := a.openStore()
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	ctx := cmd.Context()
	watermark, err := store.Watermark(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(StatusOutput{Database: a.cfg.DBPath, Watermark: watermark, Counts: counts})
}
