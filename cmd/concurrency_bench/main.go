// File: cmd/concurrency_bench/main.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// concurrency_bench measures ref_ptr against shared_ptr under contention.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "concurrency_bench:", err)
		stop()
		os.Exit(1)
	}
}
