package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Ctrl-C during a scan loop is a normal exit, not a reportable error.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "cardbox:", err)
		}
		os.Exit(1)
	}
}
