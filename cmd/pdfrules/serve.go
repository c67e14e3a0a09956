package main

import (
	"math"
	"os"
	"os/signal"
	"syscall"

	pdfhttp "github.com/fwojciec/pdfrules/http"
)

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	addr := c.Addr
	if addr == "" {
		addr = deps.Config.Addr
	}

	opts := []pdfhttp.Option{
		pdfhttp.WithLogger(deps.Logger),
		pdfhttp.WithMaxUploadSize(deps.Config.MaxUploadSize),
		pdfhttp.WithClientLimiter(pdfhttp.NewClientLimiter(
			deps.Config.UploadRate,
			int(math.Ceil(deps.Config.UploadRate)),
		)),
	}
	if len(c.Origins) > 0 {
		opts = append(opts, pdfhttp.WithAllowedOrigins(c.Origins...))
	}
	srv := pdfhttp.NewServer(deps.Text, deps.Extractions, opts...)

	ctx, stop := signal.NotifyContext(deps.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Serve(ctx, addr)
}
