package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := initializeApp()
	if err != nil {
		log.Printf("failed to wire application: %v", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("application stopped with error: %v", err)
		os.Exit(1)
	}
}
