package main

import (
	"os"

	"github.com/joho/godotenv"

	"terragen/internal/cli"
)

func main() {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	os.Exit(cli.Execute())
}
