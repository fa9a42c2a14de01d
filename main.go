package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tphakala/simple-notes/cmd"
	"github.com/tphakala/simple-notes/internal/conf"
)

func main() {
	settings := &conf.Settings{}

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
