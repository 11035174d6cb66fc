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

	"github.com/zappabad/pctmarket/internal/client"
	"github.com/zappabad/pctmarket/internal/config"
	"github.com/zappabad/pctmarket/internal/logger"
	"github.com/zappabad/pctmarket/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := client.NewLogger(cfg.Log, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.New(client.FromEnv(cfg), log)
	defer c.Close()
	go func() {
		if err := c.Run(ctx); err != nil {
			log.Error(err)
		}
	}()

	webCfg := web.DefaultConfig()
	webCfg.Framing = cfg.Market.Framing
	srv := &http.Server{
		Addr:              cfg.Web.Addr,
		Handler:           web.NewServer(webCfg, c.Session, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error(err)
		}
	}()

	log.Info("web client listening",
		logger.NewField("addr", cfg.Web.Addr),
		logger.NewField("participant", cfg.Participant.ID),
		logger.NewField("session", c.Session.ID()),
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error(err)
		os.Exit(1)
	}
}
