package main

import (
	"context"
	"os"
	"os/signal"
)

// signalExitCtx returns a context that is cancelled when one of the signals is received.
// Deferred commands still run after the first signal. A second signal exits immediately with a non-zero exit code.
func signalExitCtx(parent context.Context, signals ...os.Signal) context.Context {
	if len(signals) == 0 {
		panic("no signals passed to signalExitCtx")
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, signals...)
	go func() {
		<-sigs
		cancel()
		<-sigs
		os.Exit(1)
	}()
	return ctx
}
