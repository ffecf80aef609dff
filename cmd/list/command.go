package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"go.miloapis.com/email-provider-pure360/internal/cmdutil"
	"go.miloapis.com/email-provider-pure360/pkg/pure360"
)

type uploadOptions struct {
	profile      string
	token        string
	responseType string
	responseURI  string
	listName     string
	file         string
	delimiter    string
	quote        string
}

// CreateListCommand creates the list command with its create, replace and
// append subcommands.
func CreateListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Upload contact lists from CSV files",
	}

	cmd.AddCommand(newUploadCommand("create", "Create a new contact list", pure360.Create))
	cmd.AddCommand(newUploadCommand("replace", "Replace an existing contact list", pure360.Replace))
	cmd.AddCommand(newUploadCommand("append", "Append to an existing contact list", pure360.Append))

	return cmd
}

func newUploadCommand(use, short string, tx pure360.TransactionType) *cobra.Command {
	var o uploadOptions

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpload(cmd, tx, o)
		},
	}

	cmd.Flags().StringVar(&o.profile, "profile", "", "Profile name (default $PURE360_PROFILE)")
	cmd.Flags().StringVar(&o.token, "token", "", "List upload security token (default $PURE360_TOKEN)")
	cmd.Flags().StringVar(&o.responseType, "response-type", "", "Upload notification type: HTTP, EMAIL or REST (default $PURE360_RESPONSE_TYPE)")
	cmd.Flags().StringVar(&o.responseURI, "response-uri", "", "Where to send the upload notification (default $PURE360_RESPONSE_URI)")
	cmd.Flags().StringVar(&o.listName, "list", "", "Name of the list in the platform")
	cmd.Flags().StringVarP(&o.file, "file", "f", "", "CSV file to upload")
	cmd.Flags().StringVar(&o.delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().StringVar(&o.quote, "quote", `"`, "CSV quote character")

	return cmd
}

func runUpload(cmd *cobra.Command, tx pure360.TransactionType, o uploadOptions) error {
	env, err := cmdutil.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	req := pure360.ListUploadRequest{
		ProfileName: cmdutil.Or(o.profile, env.Config.Profile),
		Token:       cmdutil.Or(o.token, env.Config.Token),
		ResponseURI: cmdutil.Or(o.responseURI, env.Config.ResponseURI),
		ListName:    o.listName,
	}
	if err := cmdutil.Required(map[string]string{
		"profile": req.ProfileName,
		"token":   req.Token,
		"list":    req.ListName,
		"file":    o.file,
	}); err != nil {
		return err
	}

	req.ResponseType, err = pure360.ParseResponseType(cmdutil.Or(o.responseType, env.Config.ResponseType))
	if err != nil {
		return err
	}

	delimiter, err := singleRune("delimiter", o.delimiter)
	if err != nil {
		return err
	}
	quote, err := singleRune("quote", o.quote)
	if err != nil {
		return err
	}

	client, err := pure360.NewListUploadClient(append(env.ClientOptions(), pure360.WithCSVDialect(delimiter, quote))...)
	if err != nil {
		return err
	}

	var resp string
	switch tx {
	case pure360.Create:
		resp, err = client.CreateList(cmd.Context(), req, o.file)
	case pure360.Replace:
		resp, err = client.ReplaceList(cmd.Context(), req, o.file)
	case pure360.Append:
		resp, err = client.AppendList(cmd.Context(), req, o.file)
	}
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
	return err
}

func singleRune(name, s string) (rune, error) {
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("--%s must be a single character, got %q", name, s)
	}
	return r[0], nil
}
