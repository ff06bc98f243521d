package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/philjestin/pathresolver/internal/lookup"
)

var (
	serveAddr  string
	serveWatch bool
)

// serveCmd answers lookups over a websocket for editor integrations.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups over websocket (/ws) and HTTP (/lookup)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           lookup.NewServer(a.session, a.log).Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
		if serveWatch {
			go func() {
				if err := watchLaunch(ctx, a, nil); err != nil {
					a.log.WithError(err).Error("watch launch configuration")
				}
			}()
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		a.log.WithField("addr", serveAddr).Info("lookup server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "address to listen on")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", true, "reload when the launch configuration changes")
}
