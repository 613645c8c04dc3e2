package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/LavaJover/shvark-fx-quote/internal/app/setup"
	"github.com/LavaJover/shvark-fx-quote/internal/config"
	"github.com/joho/godotenv"
)

func main() {
	os.Exit(run())
}

func run() int {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}
	// Reading config
	cfg := config.MustLoad()

	deps, err := setup.InitializeDependencies(cfg)
	if err != nil {
		log.Printf("failed to init dependencies: %v", err)
		return 1
	}
	defer func() {
		if err := deps.Close(); err != nil {
			deps.Logger.Error("shutdown failed", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	quote, err := deps.ExchangeUsecase.Convert(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "It failed: %v\n", err)
		return 1
	}

	fmt.Println(quote)
	return 0
}
