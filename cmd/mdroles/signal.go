package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

// notifyContext returns a context canceled by the first shutdown signal.
// In-flight documents finish; the handler is then released so a second
// signal terminates the process. Call stop() to release resources.
func notifyContext(parent context.Context, w io.Writer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, shutdownSignals...)

	go func() {
		select {
		case sig := <-ch:
			signal.Stop(ch)
			fmt.Fprintf(w, "\n%v: finishing in-flight files, interrupt again to abort\n", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(ch)
		cancel()
	}
}
