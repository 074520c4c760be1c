// Package main is the entry point for the tapedeck music player.
//
// tapedeck is a terminal music player with a real-time decode pipeline
// and spectrum visualizer:
// - Event-driven communication (no callbacks)
// - Dependency injection for testability
// - Repository pattern for the music catalog
//
// Build:
//
//	go build -o build/tapedeck ./cmd
//
// Run:
//
//	./build/tapedeck -dir ~/Music
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/tapedeck-audio/tapedeck/internal/app"
)

func main() {
	config := app.DefaultConfig()

	dir := flag.String("dir", "", "music directory to scan at startup")
	mockAudio := flag.Bool("mock-audio", false, "use the mock audio engine (no output device)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println(app.GetVersionInfo().FullString())
		return
	}

	config.MusicDir = *dir
	config.UseMockAudio = *mockAudio

	application, err := app.NewApplication(config)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	defer func() {
		if err := application.Shutdown(); err != nil {
			fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		}
	}()

	if err := application.Run(); err != nil {
		log.Printf("Application error: %v", err)
	}
}
