package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/authgate/internal/client/cli"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/joho/godotenv"
)

func main() {

	_ = godotenv.Load()

	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	code := app.Run(context.Background(), os.Args[1:])
	_ = app.Close()
	os.Exit(code)
}
