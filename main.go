package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/vocabquiz/internal/database"
	"github.com/example/vocabquiz/internal/importer"
	"github.com/example/vocabquiz/internal/notify"
	"github.com/example/vocabquiz/internal/scheduler"
	"github.com/example/vocabquiz/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Auto-seed the catalog on first run
	if result, err := importer.SeedIfEmpty(os.Getenv("WORDS_FILE")); err != nil {
		log.Printf("Could not seed words: %v", err)
	} else if result != nil {
		log.Printf("Seeded %d words (%d rows skipped)", result.Imported, result.Skipped)
	}

	// Reminder sweep; Telegram delivery is optional
	var notifier scheduler.Notifier = notify.LogOnly{}
	if token := os.Getenv("TELEGRAM_BOT_TOKEN"); token != "" {
		tg, err := notify.NewTelegram(token)
		if err != nil {
			log.Printf("Telegram notifier disabled: %v", err)
		} else {
			notifier = tg
		}
	}
	sched := scheduler.New(notifier)
	sched.Start()
	defer sched.Stop()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{
		Addr:    addr,
		Handler: server.New().Routes(),
	}

	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Printf("Received signal: %v", sig)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server stopped")
}
