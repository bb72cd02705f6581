package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"jobmatch/internal/scheduler"
	"jobmatch/internal/scraper"
	"jobmatch/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API with the periodic scrape + reindex scheduler",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Bool("no-scheduler", false, "serve the API without the background scrape loop")
}

func serve(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApplication(ctx, true)
	if err != nil {
		return err
	}
	defer a.Close()

	noScheduler, _ := cmd.Flags().GetBool("no-scheduler")
	if !noScheduler {
		worker := scraper.NewWorker(a.jobs, a.rdb, defaultScrapers(), nil, a.logger)
		sched := scheduler.New(worker, a.indexer, a.cfg.ScrapeIntervalHours, a.logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("starting scheduler: %w", err)
		}
		defer sched.Stop()
	}

	mux := http.NewServeMux()
	h := server.NewHandler(a.matcher, a.indexer, a.jobs, a.embs, a.rdb, a.logger)
	h.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%s", a.cfg.Port),
		Handler:     mux,
		ReadTimeout: 10 * time.Second,
	}

	go func() {
		a.logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.logger.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Warn("shutdown error", zap.Error(err))
	}
	a.logger.Info("stopped")
	return nil
}

// defaultScrapers lists every configured job board.
func defaultScrapers() []scraper.Scraper {
	return []scraper.Scraper{
		scraper.NewRemotive(),
		scraper.NewArbeitnow(),
		scraper.NewRemoteOK(),
		scraper.NewHimalayas(),
	}
}
