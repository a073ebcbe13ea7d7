// Command promise-server starts the pinkie-promises HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/promiselab/pinkie/internal/crypto"
	"github.com/promiselab/pinkie/internal/limiter"
	"github.com/promiselab/pinkie/internal/pcd"
	"github.com/promiselab/pinkie/internal/server/httpapi"
	"github.com/promiselab/pinkie/internal/service"
	"github.com/promiselab/pinkie/internal/watermark"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// main parses configuration, validates keys, and starts the HTTP server.
func main() {
	// Flags (env fallbacks for secrets)
	addr := flag.String("addr", ":8080", "listen address")
	signingKey := flag.String("signing-key", envOr("PINKIE_SIGNING_KEY", ""), "hex ed25519 seed for issuing promise credentials (required)")
	authPubKey := flag.String("auth-pubkey", envOr("PINKIE_AUTH_PUBKEY", ""), "hex ed25519 public key of the credential service, for login verification (required)")
	loginWindow := flag.Duration("login-window", 15*time.Minute, "failed-login counting window")
	loginMaxFails := flag.Int("login-max-fails", 5, "failed logins before temporary block")
	loginBlock := flag.Duration("login-block", 15*time.Minute, "temporary block duration")
	genKey := flag.Bool("genkey", false, "print a fresh signing seed and public key, then exit")
	flag.Parse()

	if *genKey {
		seed, pub, err := crypto.NewSigningSeed()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Printf("seed:   %s\npubkey: %s\n", seed, pub)
		return
	}

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", *addr),
	)

	// Configuration errors are fatal at startup, never at request time.
	if *signingKey == "" {
		logger.Fatal("missing signing key (--signing-key or PINKIE_SIGNING_KEY)")
	}
	if *authPubKey == "" {
		logger.Fatal("missing auth verification key (--auth-pubkey or PINKIE_AUTH_PUBKEY)")
	}
	key, err := crypto.ParseSigningSeed(*signingKey)
	if err != nil {
		logger.Fatal("bad signing key", zap.Error(err))
	}
	verifyKey, err := crypto.ParseVerifyKey(*authPubKey)
	if err != nil {
		logger.Fatal("bad auth verification key", zap.Error(err))
	}

	prover, err := pcd.NewProver(key)
	if err != nil {
		logger.Fatal("prover", zap.Error(err))
	}
	verifier, err := pcd.NewVerifier(verifyKey)
	if err != nil {
		logger.Fatal("verifier", zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Services
	watermarks := watermark.NewService()
	loginSvc := service.NewLoginService(verifier)
	promiseSvc := service.NewPromiseService(prover)
	lim := limiter.NewMemory(*loginWindow, *loginMaxFails, *loginBlock)

	api := httpapi.New(watermarks, loginSvc, promiseSvc, lim, logger)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", *addr))
		errCh <- srv.ListenAndServe()
	}()

	// Wait for stop
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}

	logger.Info("shutdown complete")
}
