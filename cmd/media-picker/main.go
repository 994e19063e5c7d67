package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"media-picker/internal/assets"
	"media-picker/internal/crop"
	"media-picker/internal/export"
	"media-picker/internal/logging"
	"media-picker/internal/metrics"
	"media-picker/internal/sampler"
	"media-picker/internal/startup"
	"media-picker/internal/store"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	startTime := time.Now()

	// A .env file is optional; real environment variables win.
	if err := godotenv.Load(); err == nil {
		logging.Debug("Loaded configuration from .env")
	}

	config, err := startup.LoadConfig()
	if err != nil {
		startup.LogFatal("Configuration error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ratios, err := crop.NewRatioSet(config.Ratios...)
	if err != nil {
		startup.LogFatal("Invalid ratio configuration: %v", err)
	}

	// Persistent session slot, if configured.
	var opts []crop.Option
	if config.SessionsEnabled {
		sessionStore, err := store.New(ctx, config.SessionDB)
		if err != nil {
			startup.LogFatal("Failed to open session store: %v", err)
		}
		defer func() {
			if err := sessionStore.Close(); err != nil {
				logging.Error("Failed to close session store: %v", err)
			}
		}()
		opts = append(opts, crop.WithPersistentSlot(sessionStore))
	}

	controller := crop.NewController(ratios, opts...)
	defer controller.Close()

	smp, cleanup, err := buildSampler(config)
	if err != nil {
		startup.LogFatal("Sampler error: %v", err)
	}
	defer cleanup()

	selection, err := assets.ScanDir(config.AssetDir)
	if err != nil {
		startup.LogFatal("Failed to scan assets: %v", err)
	}
	if len(selection) == 0 {
		logging.Warn("No media assets found in %s", config.AssetDir)
	}
	logging.Info("Selected %d assets from %s", len(selection), config.AssetDir)

	if err := controller.Commit(nil, nil, selection); err != nil {
		startup.LogFatal("Failed to build crop session: %v", err)
	}

	if config.SessionFile != "" {
		session, err := loadSession(config.SessionFile)
		if err != nil {
			startup.LogFatal("Session file error: %v", err)
		}
		applySession(controller, session, selection)
		logging.Info("Applied %d session entries (ratio %s)", len(session.Entries), controller.RatioLabel())
	}

	var metricsServer *http.Server
	if config.MetricsEnabled {
		metricsServer = startMetricsServer(config.MetricsPort)
		defer stopMetricsServer(metricsServer)
	}

	pipeline := export.New(controller, smp)
	pipeline.PreferredSize = config.PreferredSize
	pipeline.SkipCrop = config.SkipCrop

	seq, err := pipeline.Run(ctx, selection)
	if err != nil {
		startup.LogFatal("Failed to start export: %v", err)
	}

	final, err := drain(ctx, seq)
	if err != nil {
		startup.LogFatal("Export failed: %v", err)
	}

	summarize(final)
	logging.Info("Done in %s", time.Since(startTime).Round(time.Millisecond))
}

func buildSampler(config *startup.Config) (sampler.Sampler, func(), error) {
	opts := sampler.Options{
		Dir:     config.OutputDir,
		Format:  config.Format,
		Quality: config.Quality,
	}

	if config.UseVips {
		sampler.InitVips()
		smp, err := sampler.NewVipsSampler(opts)
		if err != nil {
			sampler.ShutdownVips()
			return nil, nil, err
		}
		return smp, sampler.ShutdownVips, nil
	}

	smp, err := sampler.NewImagingSampler(opts)
	if err != nil {
		return nil, nil, err
	}
	return smp, func() {}, nil
}

// drain consumes the export sequence to completion, logging progress,
// and returns the terminal snapshot.
func drain(ctx context.Context, seq *export.Sequence) (*export.Snapshot, error) {
	var last *export.Snapshot
	for {
		snap, err := seq.Next(ctx)
		if err != nil {
			return nil, err
		}
		if snap == nil {
			return last, nil
		}
		last = snap
		logging.Info("Export progress: %3.0f%% (%d/%d)",
			snap.Progress*100, len(snap.Records), len(snap.Selection))
	}
}

func summarize(final *export.Snapshot) {
	if final == nil {
		return
	}
	for _, record := range final.Records {
		switch {
		case record.HasOutput():
			logging.Info("  %s -> %s", record.Asset().ID(), record.OutputPath)
		default:
			logging.Info("  %s (pass-through)", record.Asset().ID())
			if filter, ok := record.CropFilter(); ok {
				logging.Info("    crop filter:  %s", filter)
			}
			if filter, ok := record.ScaleFilter(); ok {
				logging.Info("    scale filter: %s", filter)
			}
		}
	}
}

func startMetricsServer(port string) *http.Server {
	metrics.InitializeMetrics()

	router := mux.NewRouter()
	router.Handle("/metrics", metrics.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			logging.Debug("healthz write failed: %v", err)
		}
	}).Methods("GET")

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info("Metrics listening on :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Metrics server error: %v", err)
		}
	}()
	return srv
}

func stopMetricsServer(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("Metrics server shutdown: %v", err)
	}
}
