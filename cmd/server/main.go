package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	appdownload "vidfetch/internal/application/download"
	"vidfetch/internal/config"
	dldomain "vidfetch/internal/domain/download"
	"vidfetch/internal/infrastructure/cookiejar"
	"vidfetch/internal/infrastructure/ffmpeg"
	"vidfetch/internal/infrastructure/filesystem"
	"vidfetch/internal/infrastructure/ytdlp"
	httptransport "vidfetch/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	logger := log.New(os.Stdout, "", log.LstdFlags)

	store := filesystem.NewStore(cfg.OutputDir, logger)
	if err := store.EnsureDir(); err != nil {
		logger.Fatalf("storage init failed: %v", err)
	}

	jar := cookiejar.New(cfg.CookiesFile)
	if err := jar.EnsurePlaceholder(); err != nil {
		logger.Fatalf("cookie jar init failed: %v", err)
	}

	muxer := ffmpeg.NewMuxer(cfg.FFmpegPath)
	if err := muxer.Locate(); err != nil {
		// Jobs re-check per invocation; a late install is picked up without restart.
		logger.Printf("ffmpeg not found at %q, jobs will fail until it is available", cfg.FFmpegPath)
	}

	resolver := ytdlp.NewResolver(cfg.YtdlpPath, cfg.FFmpegPath)
	auth := dldomain.AuthContext{CookiesFile: cfg.CookiesFile}
	downloadService := appdownload.NewService(resolver, muxer, store, auth, logger)

	handler := httptransport.NewHandler(downloadService, jar, logger)
	router := httptransport.NewRouter(handler, cfg.StaticDir)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store.StartReaper(ctx, cfg.SweepInterval)

	srv := &http.Server{Addr: cfg.ServerAddr, Handler: c.Handler(router)}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Println("shutting down")
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("Server started on %s", cfg.ServerAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("server failed: %v", err)
	}
}
