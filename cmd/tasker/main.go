// Command tasker is a console to-do list kept in a JSON file.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nibzard/tasker-go/cmd"
)

// exitInterrupted is the exit code after SIGINT or SIGTERM.
const exitInterrupted = 130

// interruptGrace is how long the command may take to return after an
// interrupt before the process exits anyway.
const interruptGrace = time.Second

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go handleInterrupt(sigCh, cancel, interruptGrace, os.Stderr, os.Exit)

	if err := cmd.Run(ctx, os.Args[1:]); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
			os.Exit(exitInterrupted)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// handleInterrupt cancels the run on the first signal and calls exit with
// exitInterrupted once grace has passed. A blocked stdin read cannot be
// interrupted, so the loop may never see the cancellation.
func handleInterrupt(sigCh <-chan os.Signal, cancel context.CancelFunc, grace time.Duration, stderr io.Writer, exit func(int)) {
	if _, ok := <-sigCh; !ok {
		return
	}
	cancel()
	time.AfterFunc(grace, func() {
		fmt.Fprintf(stderr, "\nInterrupted\n")
		exit(exitInterrupted)
	})
}
