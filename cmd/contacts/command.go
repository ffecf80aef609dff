package contacts

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.miloapis.com/email-provider-pure360/internal/cmdutil"
	"go.miloapis.com/email-provider-pure360/pkg/pure360"
)

// CreateSignupCommand creates the signup subcommand.
func CreateSignupCommand() *cobra.Command {
	var (
		account, listName, recipient string
		fields                       map[string]string
		doubleOptIn                  bool
	)

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Sign a recipient up to a list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			req := pure360.SignupRequest{
				AccountName:  cmdutil.Or(account, env.Config.Account),
				ListName:     listName,
				Recipient:    recipient,
				CustomFields: fields,
				DoubleOptIn:  doubleOptIn,
			}
			if err := cmdutil.Required(map[string]string{
				"account":   req.AccountName,
				"list":      req.ListName,
				"recipient": req.Recipient,
			}); err != nil {
				return err
			}

			client, err := pure360.NewListClient(env.ClientOptions()...)
			if err != nil {
				return err
			}
			resp, err := client.Signup(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account (profile) name (default $PURE360_ACCOUNT)")
	cmd.Flags().StringVar(&listName, "list", "", "List to sign the recipient up to")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Email address or mobile number")
	cmd.Flags().StringToStringVar(&fields, "field", nil, "Custom list field as key=value; repeatable")
	cmd.Flags().BoolVar(&doubleOptIn, "double-optin", false, "Require the recipient to confirm the signup")

	return cmd
}

// CreateOptoutCommand creates the optout subcommand.
func CreateOptoutCommand() *cobra.Command {
	var account, recipient string

	cmd := &cobra.Command{
		Use:   "optout",
		Short: "Opt a recipient out of the whole profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			account = cmdutil.Or(account, env.Config.Account)
			if err := cmdutil.Required(map[string]string{
				"account":   account,
				"recipient": recipient,
			}); err != nil {
				return err
			}

			client, err := pure360.NewListClient(env.ClientOptions()...)
			if err != nil {
				return err
			}
			resp, err := client.Optout(cmd.Context(), account, recipient)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
			return err
		},
	}

	cmd.Flags().StringVar(&account, "account", "", "Account (profile) name (default $PURE360_ACCOUNT)")
	cmd.Flags().StringVar(&recipient, "recipient", "", "Email address or mobile number")

	return cmd
}
