package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/proposal-desk/casing"
	"github.com/danielhkuo/proposal-desk/client"
	"github.com/danielhkuo/proposal-desk/cliparse"
	"github.com/danielhkuo/proposal-desk/middleware"
	"github.com/danielhkuo/proposal-desk/router"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	codec, err := casing.New(cfg.WireCase)
	if err != nil {
		slog.Error("unknown wire case", "error", err)
		os.Exit(1)
	}

	api := client.New(cfg.APIBaseURL,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithConvention(codec),
		client.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limiter := middleware.NewIPRateLimiter(cfg.SubmitRPS, cfg.SubmitBurst)
	if limiter != nil {
		go limiter.RunJanitor(ctx, 5*time.Minute, 10*time.Minute)
	}

	mux := router.NewRouter(api, limiter)

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		// Wait for Ctrl-C signal
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening",
		"port", cfg.Port,
		"api", cfg.APIBaseURL,
		"wire_case", cfg.WireCase,
		"submit_rps", cfg.SubmitRPS,
	)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server closed")
}
