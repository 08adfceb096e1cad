package main

import (
	"os"

	"github.com/rustyeddy/papertrade/cmd/papertrader/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
