package commands

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/iov-one/pswap/api"
	"github.com/iov-one/pswap/errors"
)

func newServeCommand(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return e.withNode(func(n *node) error {
				opts := []api.Option{api.WithLogger(e.logger)}
				if n.audit != nil {
					opts = append(opts, api.WithHistory(n.audit))
				}
				srv := &http.Server{
					Addr:              e.conf.HTTPAddr,
					Handler:           api.NewServer(n.engine, n.ledger, opts...).Router(),
					ReadHeaderTimeout: 5 * time.Second,
				}
				return serve(ctx, srv, e)
			})
		},
	}
	cmd.Flags().String(flagHTTPAddr, ":8080", "address the HTTP server listens on")
	return cmd
}

// serve runs the server until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, e *env) error {
	errc := make(chan error, 1)
	go func() {
		e.logger.Info("http server listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(errors.ErrHuman, err.Error())
	case <-ctx.Done():
	}

	e.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(errors.ErrHuman, err.Error())
	}
	return nil
}
