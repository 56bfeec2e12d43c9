package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"digdug/server/config"
	"digdug/server/handlers"
	"digdug/server/persistence"
	"digdug/server/services"
)

const shutdownTimeout = 5 * time.Second

var log = logrus.WithField("logger", "server")

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Dig Dug game server",
	Long: `server runs Dig Dug matches for players connecting over websockets.

Players join on /player and are served one at a time in arrival order,
viewers on /viewer watch whatever match is running.

Settings come from the defaults, then the --config YAML file, then the
environment (PORT, DB_TYPE, DATABASE_URL, DB_FILE, GRADING_URL), then flags.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		return run(cmd.Context(), cfg)
	},
}

func init() {
	config.RegisterFlags(rootCmd.Flags())
}

func openStorage(cfg *config.Config) (persistence.Storage, error) {
	if cfg.DBType == config.DBTypePostgres {
		return persistence.NewPostgresStore(cfg.DatabaseURL)
	}
	return persistence.NewJSONStore(cfg.DBFile)
}

func run(ctx context.Context, cfg *config.Config) error {
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	logrus.SetLevel(level)

	db, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize persistence: %w", err)
	}
	defer db.Close()

	playerService, err := services.NewPlayerService(db)
	if err != nil {
		return err
	}
	clientManager := handlers.NewClientManager()
	matchService := services.NewMatchService(cfg, playerService, clientManager, db, services.NewGradingClient(cfg.GradingURL))

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handlers.NewRouter(playerService, matchService, clientManager),
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	matchDone := make(chan error, 1)
	go func() { matchDone <- matchService.Run(ctx) }()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("Server starting on %s", cfg.Addr())
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		stop()
		<-matchDone
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// the match loop says goodbye to the player before connections are torn down
	if err := <-matchDone; err != nil {
		log.WithError(err).Error("Match loop failed")
	}
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func main() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
