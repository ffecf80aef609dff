package send

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"go.miloapis.com/email-provider-pure360/internal/cmdutil"
	"go.miloapis.com/email-provider-pure360/pkg/pure360"
)

type sendOptions struct {
	username   string
	password   string
	channel    string
	to         string
	template   string
	subject    string
	bodyPlain  string
	bodyHTML   string
	trackHTML  bool
	trackPlain bool
	smsBody    string
	at         string
	json       bool
	data       map[string]string
}

// CreateSendCommand creates the send subcommand for one-to-one messages.
func CreateSendCommand() *cobra.Command {
	var o sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a one-to-one EMAIL or SMS message",
		Long: "Send a one-to-one message. Use --template to send a message stored in the platform, " +
			"or supply inline content: --subject, --body-plain and --body-html for EMAIL, --sms-body for SMS.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := cmdutil.FromContext(cmd.Context())
			if err != nil {
				return err
			}

			req, err := o.request(env)
			if err != nil {
				return err
			}

			client, err := pure360.NewOneToOneClient(env.ClientOptions()...)
			if err != nil {
				return err
			}
			resp, err := client.Send(cmd.Context(), req)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), resp)
			return err
		},
	}

	cmd.Flags().StringVar(&o.username, "username", "", "API system username (default $PURE360_USERNAME)")
	cmd.Flags().StringVar(&o.password, "password", "", "API system password (default $PURE360_PASSWORD)")
	cmd.Flags().StringVar(&o.channel, "channel", "EMAIL", "Message channel: EMAIL or SMS")
	cmd.Flags().StringVar(&o.to, "to", "", "Recipient email address or mobile number")
	cmd.Flags().StringVar(&o.template, "template", "", "Name of a message stored in the platform")
	cmd.Flags().StringVar(&o.subject, "subject", "", "Email subject")
	cmd.Flags().StringVar(&o.bodyPlain, "body-plain", "", "Plain text email body")
	cmd.Flags().StringVar(&o.bodyHTML, "body-html", "", "HTML email body")
	cmd.Flags().BoolVar(&o.trackHTML, "track-html", false, "Track opens and clicks of the HTML body")
	cmd.Flags().BoolVar(&o.trackPlain, "track-plain", false, "Track clicks of the plain body")
	cmd.Flags().StringVar(&o.smsBody, "sms-body", "", "SMS body")
	cmd.Flags().StringVar(&o.at, "at", "", "Delivery time as dd/mm/yyyy hh:mm:ss in local time; default now")
	cmd.Flags().BoolVar(&o.json, "json", true, "Ask for a JSON response")
	cmd.Flags().StringToStringVar(&o.data, "data", nil, "Personalisation data as key=value; repeatable")

	for _, inline := range []string{"subject", "body-plain", "body-html", "track-html", "track-plain", "sms-body"} {
		cmd.MarkFlagsMutuallyExclusive("template", inline)
	}

	return cmd
}

func (o sendOptions) request(env *cmdutil.Env) (pure360.SendRequest, error) {
	channel, err := pure360.ParseChannel(o.channel)
	if err != nil {
		return pure360.SendRequest{}, err
	}

	req := pure360.SendRequest{
		Username:   cmdutil.Or(o.username, env.Config.Username),
		Password:   cmdutil.Or(o.password, env.Config.Password),
		Channel:    channel,
		Recipient:  o.to,
		JSON:       o.json,
		CustomData: o.data,
	}
	if err := cmdutil.Required(map[string]string{
		"username": req.Username,
		"password": req.Password,
		"to":       req.Recipient,
	}); err != nil {
		return pure360.SendRequest{}, err
	}

	switch {
	case o.template != "":
		req.Content = pure360.TemplateContent{Name: o.template}
	case channel == pure360.ChannelEmail:
		req.Content, err = pure360.NewEmailContent(o.subject, o.bodyPlain, o.bodyHTML, o.trackHTML, o.trackPlain)
	default:
		req.Content, err = pure360.NewSMSContent(o.smsBody)
	}
	if err != nil {
		return pure360.SendRequest{}, err
	}

	if o.at != "" {
		at, err := time.ParseInLocation(pure360.DeliveryTimeLayout, o.at, time.Local)
		if err != nil {
			return pure360.SendRequest{}, fmt.Errorf("invalid --at: %w", err)
		}
		req.DeliveryTime = &at
	}

	return req, nil
}
