package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/0n0123/kanban/board"
	"github.com/0n0123/kanban/storage"
	"github.com/0n0123/kanban/web"
)

const relayChannel = "kanban.broadcast"

func main() {
	if dbg, err := strconv.ParseBool(os.Getenv("DEBUG")); err == nil && dbg {
		log.SetLevel(log.DebugLevel)
	}
	logger := log.New()
	logger.Info("application is starting")

	dbPath := os.Getenv("KANBAN_DB")
	if dbPath == "" {
		dbPath = "./database/db.sqlite"
	}
	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	port := 3000
	if v := os.Getenv("KANBAN_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Fatalf("invalid KANBAN_PORT: %s", v)
		}
		port = n
	}
	mode := web.ParseMode(os.Getenv("KANBAN_MODE"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := board.NewHub(logger)
	var out board.Broadcaster = hub
	if relayURL := os.Getenv("KANBAN_RELAY_URL"); relayURL != "" {
		opts, err := redis.ParseURL(relayURL)
		if err != nil {
			log.Fatalf("invalid KANBAN_RELAY_URL: %v", err)
		}
		relay := board.NewRelay(redis.NewClient(opts), relayChannel, hub, logger)
		go relay.Run(ctx)
		out = relay
		logger.Info("relay enabled")
	}
	coord := board.NewCoordinator(store, out, logger)

	if dir := os.Getenv("KANBAN_BACKUP_DIR"); dir != "" {
		minutes, err := strconv.Atoi(os.Getenv("KANBAN_BACKUP_INTERVAL_MINUTES"))
		if err != nil || minutes <= 0 {
			log.Fatalf("invalid KANBAN_BACKUP_INTERVAL_MINUTES: %s", os.Getenv("KANBAN_BACKUP_INTERVAL_MINUTES"))
		}
		go runBackups(ctx, store, dir, time.Duration(minutes)*time.Minute, logger)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	if err := web.Register(e, mode, logger); err != nil {
		log.Fatalf("web: %v", err)
	}
	board.Register(e, store, hub, coord, logger)

	go func() {
		logger.Infof("listening on port %d", port)
		if err := e.Start(":" + strconv.Itoa(port)); err != nil {
			logger.WithError(err).Info("server stopped")
		}
	}()

	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-exit
	logger.WithField("signal", sig.String()).Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("shutdown failed")
	}
}

func runBackups(ctx context.Context, store *storage.Store, dir string, interval time.Duration, logger *log.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			dest, err := store.Backup(ctx, dir)
			if err != nil {
				logger.WithError(err).Error("failed to backup")
				continue
			}
			logger.WithField("dest", dest).Info("database backed up")
		case <-ctx.Done():
			return
		}
	}
}
