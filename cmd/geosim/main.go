package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/tfontaine/geosim/internal/cli"
)

func main() {
	// Loads GEOSIM_* overrides from a .env file when one is present.
	_ = godotenv.Load()

	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
