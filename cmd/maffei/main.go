package main

import (
	"context"
	"errors"
	"os"

	"github.com/woodfordbl/maffei-design/internal/cli"
)

func main() {
	// fang prints the error and handles SIGINT/SIGTERM.
	if err := cli.Execute(context.Background()); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130) // Standard shell convention for SIGINT
		}
		os.Exit(1)
	}
}
