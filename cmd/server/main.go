package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/npezzotti/homeease/internal/api"
	"github.com/npezzotti/homeease/internal/booking"
	"github.com/npezzotti/homeease/internal/config"
	"github.com/npezzotti/homeease/internal/database"
	"github.com/npezzotti/homeease/internal/server"
	"github.com/npezzotti/homeease/internal/stats"
)

func main() {
	logger := log.New(os.Stderr, "[homeease] ", log.LstdFlags)

	cfg, err := config.Load(os.Args[1:], ".env")
	if err != nil {
		logger.Fatal("config: ", err)
	}

	if cfg.MigrateOnStart {
		logger.Println("applying migrations")
		if err := database.Migrate(cfg.DatabaseDSN); err != nil {
			logger.Fatal("migrate: ", err)
		}
	}

	dbConn, err := database.NewPgHomeEaseRepository(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("db open: ", err)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Println("db close:", err)
		}
	}()

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(mux)

	chatServer := server.NewChatServer(logger, statsUpdater)
	bookings := booking.NewManager(logger, dbConn, statsUpdater)

	srv := api.NewHomeEaseApp(mux, logger, chatServer, dbConn, bookings, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	go chatServer.Run()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Println("HTTP server shutdown:", err)
	}

	logger.Println("shutting down chat server...")
	if err := chatServer.Shutdown(shutDownCtx); err != nil {
		logger.Println("chat server shutdown:", err)
	}

	logger.Println("shutdown complete")
}
