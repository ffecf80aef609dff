package pure360

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"k8s.io/utils/ptr"
)

// DeliveryTimeLayout is the wire format of deliveryDtTm.
const DeliveryTimeLayout = "02/01/2006 15:04:05"

// SendRequest represents a one-to-one message.
type SendRequest struct {
	// Username is an API system user, usually ending in .sys.
	Username string
	Password string
	Channel  Channel
	// Recipient is an email address for EMAIL or a mobile number for SMS.
	Recipient string
	Content   MessageContent
	// DeliveryTime schedules the message. Nil sends it now.
	DeliveryTime *time.Time
	// JSON asks the platform to answer with a JSON document.
	JSON bool
	// CustomData personalises the message. Each entry is sent as
	// customData[key].
	CustomData map[string]string
}

// OneToOneClient sends single transactional messages.
type OneToOneClient struct {
	c *client
}

// NewOneToOneClient creates a new one-to-one client.
func NewOneToOneClient(opts ...ClientOption) (*OneToOneClient, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, err
	}
	return &OneToOneClient{c: c}, nil
}

// Send delivers a one-to-one message. Every validation error is returned
// before a request is built.
//
// API: POST /common/one2OneCreate.php
//
// Idempotency: Not idempotent
//
// Errors:
//   - ErrUnsupportedChannel: If the channel is not EMAIL or SMS.
//   - ErrInvalidRecipient: If the recipient is neither an email nor a mobile number.
//   - ErrChannelMismatch: If the recipient or content does not suit the channel.
//   - ErrMissingMessageFields: If inline content lacks a required field.
func (o *OneToOneClient) Send(ctx context.Context, req SendRequest) (string, error) {
	params, err := o.sendParams(req)
	if err != nil {
		return "", err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues(
		"operation", "Send",
		"operationID", uuid.NewString(),
		"channel", req.Channel.String(),
		"deliveryDtTm", params.Get("deliveryDtTm"),
	)
	log.Info("Sending one-to-one message")

	resp, err := o.c.postForm(logr.NewContext(ctx, log), oneToOnePath, params)
	if err != nil {
		log.Error(err, "Failed to send one-to-one message")
		return "", fmt.Errorf("failed to send one-to-one message: %w", err)
	}
	return resp, nil
}

func (o *OneToOneClient) sendParams(req SendRequest) (url.Values, error) {
	if !req.Channel.valid() {
		return nil, fmt.Errorf("%w: got %s", ErrUnsupportedChannel, req.Channel)
	}

	kind, err := ClassifyRecipient(req.Recipient)
	if err != nil {
		return nil, err
	}
	switch {
	case req.Channel == ChannelSMS && kind == RecipientEmail:
		return nil, fmt.Errorf("%w: cannot send SMS to email address", ErrChannelMismatch)
	case req.Channel == ChannelEmail && kind != RecipientEmail:
		return nil, fmt.Errorf("%w: cannot send EMAIL to mobile number", ErrChannelMismatch)
	}

	if req.Content == nil {
		return nil, fmt.Errorf("%w: no message name or content given", ErrMissingMessageFields)
	}
	if err := req.Content.validate(req.Channel); err != nil {
		return nil, err
	}

	deliverAt := ptr.Deref(req.DeliveryTime, o.c.now())

	params := url.Values{}
	params.Set("userName", req.Username)
	params.Set("password", req.Password)
	params.Set("message_contentType", req.Channel.String())
	params.Set("toAddress", req.Recipient)
	params.Set("deliveryDtTm", deliverAt.Format(DeliveryTimeLayout))
	params.Set("json", lowerBool(req.JSON))
	for k, v := range req.Content.fields() {
		params.Set(k, v)
	}
	for k, v := range req.CustomData {
		params.Set(fmt.Sprintf("customData[%s]", k), v)
	}
	return params, nil
}
