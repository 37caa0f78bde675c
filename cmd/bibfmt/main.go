package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-bibfmt/pkg/tui"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) && !errors.Is(err, tui.ErrAborted) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
