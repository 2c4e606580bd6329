package main

import (
	"log"

	"knowledgehub-server/internal/app"
	"knowledgehub-server/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(cfg); err != nil {
		log.Fatal(err)
	}
}
