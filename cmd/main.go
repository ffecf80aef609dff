package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	contacts "go.miloapis.com/email-provider-pure360/cmd/contacts"
	list "go.miloapis.com/email-provider-pure360/cmd/list"
	send "go.miloapis.com/email-provider-pure360/cmd/send"
	version "go.miloapis.com/email-provider-pure360/cmd/version"
	"go.miloapis.com/email-provider-pure360/cmd/webhook"
	"go.miloapis.com/email-provider-pure360/internal/cmdutil"
)

func main() {
	var (
		envFile         string
		verbosity       int
		metricsTextfile string
	)

	rootCmd := &cobra.Command{
		Use:           "email-provider-pure360",
		Short:         "Pure360 list, signup and one-to-one messaging client",
		Long:          "A command line client for the Pure360 list upload, list signup/optout and one-to-one APIs.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.NewEnv(envFile, verbosity)
			if err != nil {
				return err
			}
			cmd.SetContext(cmdutil.WithEnv(cmd.Context(), env))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if metricsTextfile == "" {
				return nil
			}
			env, err := cmdutil.FromContext(cmd.Context())
			if err != nil {
				return err
			}
			if err := prometheus.WriteToTextfile(metricsTextfile, env.Registry); err != nil {
				return fmt.Errorf("failed to write metrics textfile: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file read before the environment")
	rootCmd.PersistentFlags().IntVarP(&verbosity, "verbosity", "v", -1, "Log verbosity; overrides LOG_VERBOSITY when >= 0")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "",
		"Write request metrics in Prometheus textfile format to this path on exit")

	rootCmd.AddCommand(list.CreateListCommand())
	rootCmd.AddCommand(contacts.CreateSignupCommand())
	rootCmd.AddCommand(contacts.CreateOptoutCommand())
	rootCmd.AddCommand(send.CreateSendCommand())
	rootCmd.AddCommand(webhook.CreateWebhookCommand())
	rootCmd.AddCommand(version.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
