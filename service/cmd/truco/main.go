package main

import (
	"os"

	"github.com/jason-s-yu/truco/service/cmd/truco/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
