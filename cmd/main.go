package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floorwatch/internal/handlers"
	"floorwatch/internal/logger"
	"floorwatch/internal/render"
	"floorwatch/internal/repository"
	"floorwatch/internal/server"
	"floorwatch/internal/service"

	"github.com/spf13/viper"
)

func main() {
	// init logger
	log := logger.Get(logger.InfoLevel)

	// load config.yml
	if err := loadConfig(); err != nil {
		log.Fatalw("error reading config", "err", err)
	}

	// open DB
	db, err := openDB(log)
	if err != nil {
		log.Fatalw("failed to init sqlite", "err", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			log.Fatalw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(db)
	services := service.NewService(service.Deps{
		Repos:    repos,
		Renderer: render.NewLogRenderer(log.Named("render")),
		Config:   engineConfig(),
		Log:      log.Named("engine"),
	})
	apiHandler := handlers.NewHandler(services, log.Named("http"))

	// context for background work
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// load the mapping table before the engine starts admitting statuses
	if err := services.Mappings.Load(ctx); err != nil {
		log.Fatalw("failed to load mapping table", "err", err)
	}

	// start the synchronization engine
	if err := services.Engine.Start(ctx); err != nil {
		log.Fatalw("failed to start sync engine", "err", err)
	}
	defer services.Engine.Stop()

	// start HTTP server
	srv := &server.Server{}
	runHTTPServer(srv, viper.GetString("port"), apiHandler, log)

	// graceful shutdown
	waitForShutdown(cancel, srv, log)
}

func loadConfig() error {
	viper.AddConfigPath("configs") // configs/config.yml
	viper.SetConfigName("config")
	return viper.ReadInConfig()
}

// engineConfig builds the engine configuration from viper keys.
func engineConfig() service.EngineConfig {
	return service.EngineConfig{
		APIBase:          viper.GetString("engine.api_base"),
		WSBase:           viper.GetString("engine.ws_base"),
		BatchInterval:    time.Duration(viper.GetInt("engine.batch_interval_ms")) * time.Millisecond,
		RetryDelay:       time.Duration(viper.GetInt("engine.reconnect_delay_ms")) * time.Millisecond,
		MaxAttempts:      viper.GetInt("engine.max_reconnect_attempts"),
		DevFallback:      viper.GetBool("engine.dev_fallback"),
		DevFallbackCount: viper.GetInt("engine.dev_fallback_count"),
	}
}

// openDB initializes the SQLite database using configuration.
func openDB(log *logger.Logger) (*sql.DB, error) {
	dbPath := viper.GetString("db.path")
	if dbPath == "" {
		log.Infow("db.path not set in config; using default file", "default", "app.db")
		dbPath = "app.db"
	}
	return repository.InitDB(dbPath)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		if err := srv.Run(port, handler.InitRoutes()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalw("server forced to shutdown", "err", err)
	}
}
