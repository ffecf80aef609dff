package pure360

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

const noRedirect = "NO-REDIRECT"

// SignupRequest represents a signup of one recipient to a list.
type SignupRequest struct {
	AccountName string
	ListName    string
	// Recipient is an email address or a mobile number.
	Recipient string
	// CustomFields are extra list fields. They cannot set email or mobile.
	CustomFields map[string]string
	// DoubleOptIn requires the recipient to confirm the signup.
	DoubleOptIn bool
}

// ListClient signs recipients up to lists and opts them out of profiles.
type ListClient struct {
	c *client
}

// NewListClient creates a new list signup/optout client.
func NewListClient(opts ...ClientOption) (*ListClient, error) {
	c, err := newClient(opts...)
	if err != nil {
		return nil, err
	}
	return &ListClient{c: c}, nil
}

// Signup adds a recipient to a list.
//
// API: POST /list.php
//
// Errors:
//   - ErrInvalidRecipient: If the recipient is neither an email nor a mobile number.
func (l *ListClient) Signup(ctx context.Context, req SignupRequest) (string, error) {
	params, err := signupParams(req)
	if err != nil {
		return "", err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues(
		"operation", "Signup",
		"operationID", uuid.NewString(),
		"account", req.AccountName,
		"list", req.ListName,
	)
	log.Info("Signing up recipient")

	resp, err := l.c.postForm(logr.NewContext(ctx, log), listPath, params)
	if err != nil {
		log.Error(err, "Failed to sign up recipient")
		return "", fmt.Errorf("failed to sign up recipient: %w", err)
	}
	return resp, nil
}

// Optout opts a recipient out of the whole profile.
//
// API: POST /list.php
//
// Errors:
//   - ErrInvalidRecipient: If the recipient is neither an email nor a mobile number.
func (l *ListClient) Optout(ctx context.Context, accountName, recipient string) (string, error) {
	params, err := optoutParams(accountName, recipient)
	if err != nil {
		return "", err
	}

	log := logr.FromContextOrDiscard(ctx).WithValues(
		"operation", "Optout",
		"operationID", uuid.NewString(),
		"account", accountName,
	)
	log.Info("Opting out recipient")

	resp, err := l.c.postForm(logr.NewContext(ctx, log), listPath, params)
	if err != nil {
		log.Error(err, "Failed to opt out recipient")
		return "", fmt.Errorf("failed to opt out recipient: %w", err)
	}
	return resp, nil
}

func signupParams(req SignupRequest) (url.Values, error) {
	kind, err := ClassifyRecipient(req.Recipient)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("accName", req.AccountName)
	params.Set("listName", req.ListName)
	params.Set("doubleOptin", upperBool(req.DoubleOptIn))
	params.Set("successUrl", noRedirect)
	params.Set("errorUrl", noRedirect)
	for k, v := range req.CustomFields {
		params.Set(k, v)
	}
	setRecipient(params, kind, req.Recipient)
	return params, nil
}

func optoutParams(accountName, recipient string) (url.Values, error) {
	kind, err := ClassifyRecipient(recipient)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("accName", accountName)
	params.Set("mode", "OPTOUT")
	setRecipient(params, kind, recipient)
	return params, nil
}

// setRecipient leaves exactly one of email and mobile in params.
func setRecipient(params url.Values, kind RecipientKind, recipient string) {
	params.Del(RecipientEmail.field())
	params.Del(RecipientMobile.field())
	params.Set(kind.field(), recipient)
}
