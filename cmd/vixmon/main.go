package main

import (
	"github.com/joho/godotenv"
	"github.com/ogulcanaydogan/vix-monitor/internal/cli"
)

func main() {
	// Credentials may live in a local .env; real environment variables win.
	_ = godotenv.Load()
	cli.Execute()
}
