package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"go.miloapis.com/email-provider-pure360/internal/cmdutil"
	webhook "go.miloapis.com/email-provider-pure360/internal/webhook"
)

// CreateWebhookCommand returns a cobra command that starts the list upload
// notification server.
func CreateWebhookCommand() *cobra.Command {
	var (
		addr            string
		shutdownTimeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "webhook",
		Short: "Runs the list upload notification server",
		Long: "Runs an HTTP server receiving the notifications Pure360 posts to the responseUri " +
			"of list uploads made with --response-type HTTP.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			log := env.Log.WithName("webhook")

			addr = cmdutil.Or(addr, env.Config.WebhookAddr)
			if env.Config.WebhookSecret == "" {
				log.Info("PURE360_WEBHOOK_SECRET is not set; notifications are accepted without a key")
			}

			store := webhook.NewStore()
			wh := webhook.NewUploadNotificationWebhook(store, env.Config.WebhookSecret)
			wh.Observer = env.Metrics

			srv := &http.Server{
				Addr:              addr,
				Handler:           webhook.NewRouter(log, wh, store, env.Registry),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("Starting webhook server", "addr", addr, "endpoint", wh.Endpoint)
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return fmt.Errorf("webhook server failed: %w", err)
			case <-ctx.Done():
			}

			log.Info("Shutting down webhook server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("failed to shut down webhook server: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Address the server binds to (default $PURE360_WEBHOOK_ADDR or :8080)")
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "Grace period for in-flight requests on shutdown")

	return cmd
}
