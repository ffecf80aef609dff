package webhook

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-logr/logr"
)

const maxBodyBytes = 1 << 20

// Webhook receives list upload notifications posted by Pure360 to the
// responseUri of an upload made with responseType HTTP.
type Webhook struct {
	Handler  Handler
	Endpoint string
	// Observer, when set, is told the status of every response.
	Observer Observer

	secret string // shared secret expected in the key query parameter
	now    func() time.Time
}

// Notification is one upload outcome report.
type Notification struct {
	TransactionID string              `json:"transactionId"`
	Fields        map[string][]string `json:"fields"`
	ReceivedAt    time.Time           `json:"receivedAt"`
}

type Request struct {
	Notification *Notification
}

type Response struct {
	HttpStatus int `json:"HttpStatus"`
}

type HandlerFunc func(context.Context, Request) Response

func (f HandlerFunc) Handle(ctx context.Context, req Request) Response {
	return f(ctx, req)
}

type Handler interface {
	Handle(context.Context, Request) Response
}

// Observer records the status returned for each notification.
type Observer interface {
	ObserveNotification(status string)
}

// WebhookVerificationError represents errors that can occur during webhook verification
type WebhookVerificationError struct {
	Code    string
	Message string
	Err     error
}

func (e *WebhookVerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *WebhookVerificationError) Unwrap() error {
	return e.Err
}

var (
	ErrMissingKey = errors.New("missing key query parameter")
	ErrInvalidKey = errors.New("invalid key")
)

// verifyWebhook checks the key query parameter against the shared secret.
// An empty secret disables the check.
func verifyWebhook(r *http.Request, secret string) error {
	if secret == "" {
		return nil
	}

	key := r.URL.Query().Get("key")
	if key == "" {
		return &WebhookVerificationError{
			Code:    "MISSING_KEY",
			Message: "Missing key query parameter",
			Err:     ErrMissingKey,
		}
	}

	if subtle.ConstantTimeCompare([]byte(key), []byte(secret)) != 1 {
		return &WebhookVerificationError{
			Code:    "INVALID_KEY",
			Message: "Invalid key",
			Err:     ErrInvalidKey,
		}
	}

	return nil
}

func (wh *Webhook) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := logr.FromContextOrDiscard(r.Context()).WithName("upload-notification-webhook")
	log.Info("Handling request", "method", r.Method, "remoteAddr", r.RemoteAddr)

	// panic recovery
	defer func() {
		if rec := recover(); rec != nil {
			log.Error(nil, "Panic in webhook handler", "panic", rec)
			wh.writeResponse(w, InternalServerErrorResponse())
		}
	}()

	if r.Method != http.MethodPost {
		log.Info("Method not allowed", "method", r.Method)
		w.Header().Set("Allow", http.MethodPost)
		wh.writeResponse(w, MethodNotAllowedResponse())
		return
	}

	if err := verifyWebhook(r, wh.secret); err != nil {
		var verifyErr *WebhookVerificationError
		if errors.As(err, &verifyErr) {
			log.Error(err, "Webhook verification failed", "code", verifyErr.Code)
		} else {
			log.Error(err, "Webhook verification failed")
		}
		wh.writeResponse(w, UnauthorizedResponse())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		log.Error(err, "Failed to parse notification")
		wh.writeResponse(w, BadRequestResponse())
		return
	}

	fields := make(map[string][]string, len(r.Form))
	for k, v := range r.Form {
		if k == "key" {
			continue
		}
		fields[k] = v
	}

	transactionID := r.Form.Get("transactionId")
	if transactionID == "" {
		log.Info("Notification carries no transactionId", "fields", fields)
		wh.writeResponse(w, BadRequestResponse())
		return
	}

	log.Info("Parsed notification", "transactionId", transactionID)
	response := wh.Handler.Handle(logr.NewContext(r.Context(), log), Request{
		Notification: &Notification{
			TransactionID: transactionID,
			Fields:        fields,
			ReceivedAt:    wh.now(),
		},
	})
	wh.writeResponse(w, response)
}

func (wh *Webhook) writeResponse(w http.ResponseWriter, response Response) {
	if wh.Observer != nil {
		wh.Observer.ObserveNotification(strconv.Itoa(response.HttpStatus))
	}
	w.WriteHeader(response.HttpStatus)
}

func OkResponse() Response {
	return Response{HttpStatus: http.StatusOK}
}

func BadRequestResponse() Response {
	return Response{HttpStatus: http.StatusBadRequest}
}

func UnauthorizedResponse() Response {
	return Response{HttpStatus: http.StatusUnauthorized}
}

func MethodNotAllowedResponse() Response {
	return Response{HttpStatus: http.StatusMethodNotAllowed}
}

func InternalServerErrorResponse() Response {
	return Response{HttpStatus: http.StatusInternalServerError}
}
