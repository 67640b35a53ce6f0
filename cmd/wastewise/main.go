// Command wastewise is the terminal client of the WasteWise API.
//
//	wastewise login -email you@example.com -password ...
//	wastewise submit -image bins.jpg -location "Main Street" -description "Overflowing bins"
//	wastewise reports -all -status pending
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/wastewise/wastewise/internal/client/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
