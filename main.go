// Package main is the entry point for the Radar Whisper playlist engine.
//
// The engine runs headless: it restores the playlist library, applies the
// configured playback settings and then serves playback until interrupted.
//
// Build:
//
//	go build -o build/radarwhisper .
//
// Run:
//
//	./build/radarwhisper
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/radarwhisper/radarwhisper/internal/app"
	"github.com/radarwhisper/radarwhisper/internal/config"
	"github.com/radarwhisper/radarwhisper/internal/domain"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Ensure a graceful shutdown
	defer func() {
		fmt.Println("\nShutting down...")
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
		fmt.Println("Shutdown complete")
	}()

	// Trace every event at debug level so a host process can follow
	// what the engine is doing.
	application.Bus().SubscribeAll(func(event domain.Event) {
		application.Logger().Debug("event",
			slog.String("type", string(event.Type())))
	})

	// Block until interrupted
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
}
