// cmd/historian/main.go runs the asynchronous turn-record historian.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/unoarena/unoarena/internal/config"
	"github.com/unoarena/unoarena/internal/database"
	"github.com/unoarena/unoarena/internal/historian"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	database.ConnectDB(cfg)
	defer database.DB.Close()

	hs := historian.NewService(cfg)
	go hs.Run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	hs.Stop()
	log.Println("Historian shutdown complete.")
}
