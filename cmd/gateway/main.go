package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/authgate/internal/gateway"
	"github.com/dmitrijs2005/authgate/internal/gateway/config"
	"github.com/joho/godotenv"
)

func main() {

	_ = godotenv.Load()

	cfg := config.LoadConfig()
	app, err := gateway.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
