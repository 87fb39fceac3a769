package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"simplesearch/internal/cli"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], cli.IO{})
	stop()
	os.Exit(code)
}
