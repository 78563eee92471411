// Command snapfix repairs exported memory archives: it pairs each
// bundle's primary media with its caption overlay, merges them through
// ffmpeg, and restores the oldest known creation timestamp.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "snapfix: %v\n", err)
		}
		os.Exit(1)
	}
}
