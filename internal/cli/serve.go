package cli

import (
	"context"
	"fmt"
	"time"

	httpadapter "cvcraft/internal/adapter/http"
	"cvcraft/internal/adapter/repository"
	"cvcraft/internal/model"
	"cvcraft/internal/render"
	"cvcraft/internal/usecase"
	"cvcraft/internal/watch"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the editor API and live preview",
		Long: `Start an HTTP server holding one CV session.

Available endpoints:
- GET /: live preview page
- GET, PUT /api/cv and PUT /api/cv/:section: read, import and edit the CV
- POST /api/cv/profile-image: upload a profile picture
- POST /api/export: download the preview as a PDF
- GET /api/events: recent notifications
- GET /health and GET /metrics`,
		RunE: runServe,
	}
	cmd.Flags().String("cv", "", "CV JSON file to load at startup")
	cmd.Flags().Bool("watch", false, "Reload the CV file when it changes on disk")
	cmd.Flags().StringP("port", "p", "", "Port to listen on (default from config)")
	cmd.Flags().String("host", "", "Host to bind to (default from config)")
	cmd.Flags().Bool("dark", false, "Render the preview page chrome in a dark theme")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := *getConfigFromContext(ctx)
	logger := getLoggerFromContext(ctx)

	if p, _ := cmd.Flags().GetString("port"); p != "" {
		cfg.Server.Port = p
	}
	if h, _ := cmd.Flags().GetString("host"); h != "" {
		cfg.Server.Host = h
	}
	cvFile, _ := cmd.Flags().GetString("cv")
	watchFile, _ := cmd.Flags().GetBool("watch")
	dark, _ := cmd.Flags().GetBool("dark")
	if watchFile && cvFile == "" {
		return fmt.Errorf("--watch needs --cv")
	}

	metrics := newMetrics(&cfg)
	events := usecase.NewEventLog(0)
	notifier := usecase.MultiNotifier{events, usecase.NewLogNotifier(logger.Named("notify"))}
	jobs := repository.NewJobsRepo(0)
	session := usecase.NewSession(usecase.SessionConfig{
		Exporter: newExporter(&cfg, logger,
			usecase.WithJobsRepo(jobs),
			usecase.WithNotifier(notifier),
			usecase.WithMetrics(metrics),
		),
		Notifier: notifier,
		Metrics:  metrics,
		Logger:   logger.Named("session"),
		Page:     render.PageOptions{Toolbar: true, Dark: dark},
	})

	if cvFile != "" {
		doc, err := model.LoadFile(cvFile)
		if err != nil {
			return err
		}
		session.Load(doc)
	}
	if watchFile {
		w := watch.NewFileWatcher(cvFile, func(path string) {
			doc, err := model.LoadFile(path)
			if err != nil {
				logger.Warn("reload failed, keeping current document", zap.String("path", path), zap.Error(err))
				return
			}
			session.Load(doc)
		}, watch.WithLogger(logger.Named("watch")))
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("watch %s: %w", cvFile, err)
		}
		defer w.Stop()
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	h := httpadapter.NewHandler(session, events, jobs, metrics, logger.Named("http"))
	app := httpadapter.NewApp(h, httpadapter.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		MetricsPath:  metricsPath,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return app.ShutdownWithContext(shutdownCtx)
	}
}
