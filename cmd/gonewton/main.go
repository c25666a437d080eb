// Command gonewton finds roots of polynomials with Newton-Raphson iteration.
//
// Usage:
//
//	gonewton solve --coeffs=3,5,-7 --x0=0 --trace
//	gonewton eval --coeffs=3,5,-7 --at=0,1 --check
//	gonewton serve --port 8080
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/njchilds90/gonewton/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
