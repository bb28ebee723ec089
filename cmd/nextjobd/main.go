// Command nextjobd runs the NextJob API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nextjob/nextjob/internal/auth"
	"github.com/nextjob/nextjob/internal/config"
	"github.com/nextjob/nextjob/internal/httpapi"
	"github.com/nextjob/nextjob/internal/job"
	"github.com/nextjob/nextjob/internal/mailer"
	"github.com/nextjob/nextjob/internal/store"
	"github.com/nextjob/nextjob/internal/token"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := newLogger(cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return err
	}

	tokens, err := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		return err
	}

	var sender mailer.Sender
	if cfg.MailConfigured() {
		sender, err = mailer.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.MailUsername, cfg.MailPassword, cfg.MailFrom)
		if err != nil {
			return err
		}
	} else {
		sender = mailer.NewLogSender(log)
	}

	users := store.NewUserStore(rdb)
	otps := store.NewOTPStore(rdb, cfg.OTPTTL)
	authSvc := auth.NewService(users, otps, tokens, sender, log)
	jobSvc := job.NewService(job.NewStore(rdb), users)

	api := httpapi.New(cfg, authSvc, jobSvc, users, tokens, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func newLogger(cfg config.Config) *slog.Logger {
	if cfg.Production() {
		return slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
