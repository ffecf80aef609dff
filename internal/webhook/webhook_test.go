package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
)

type statusCounter map[string]int

func (s statusCounter) ObserveNotification(status string) {
	s[status]++
}

var _ = Describe("Upload notification webhook", func() {
	var (
		store    *Store
		wh       *Webhook
		observed statusCounter
		router   http.Handler
		received = time.Date(2026, time.October, 16, 12, 0, 0, 0, time.UTC)
	)

	post := func(target string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	BeforeEach(func() {
		store = NewStore()
		wh = NewUploadNotificationWebhook(store, "s3cret")
		wh.now = func() time.Time { return received }
		observed = statusCounter{}
		wh.Observer = observed
		router = NewRouter(logr.Discard(), wh, store, prometheus.NewRegistry())
	})

	It("records a notification with a valid key", func() {
		rec := post("/notifications?key=s3cret", url.Values{
			"transactionId": {"77231"},
			"status":        {"COMPLETE"},
		})
		Expect(rec.Code).To(Equal(http.StatusOK))

		n, ok := store.Get("77231")
		Expect(ok).To(BeTrue())
		Expect(n.Fields).To(HaveKeyWithValue("status", []string{"COMPLETE"}))
		Expect(n.Fields).NotTo(HaveKey("key"))
		Expect(n.ReceivedAt).To(Equal(received))
		Expect(observed).To(HaveKeyWithValue("200", 1))
	})

	It("accepts the transaction id in the query string", func() {
		rec := post("/notifications?key=s3cret&transactionId=555", url.Values{})
		Expect(rec.Code).To(Equal(http.StatusOK))
		_, ok := store.Get("555")
		Expect(ok).To(BeTrue())
	})

	It("rejects a missing key", func() {
		rec := post("/notifications", url.Values{"transactionId": {"1"}})
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		_, ok := store.Get("1")
		Expect(ok).To(BeFalse())
	})

	It("rejects a wrong key", func() {
		rec := post("/notifications?key=nope", url.Values{"transactionId": {"1"}})
		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(observed).To(HaveKeyWithValue("401", 1))
	})

	It("rejects a notification without transaction id", func() {
		rec := post("/notifications?key=s3cret", url.Values{"status": {"COMPLETE"}})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("only allows POST", func() {
		req := httptest.NewRequest(http.MethodPut, "/notifications?key=s3cret", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
		Expect(rec.Header().Get("Allow")).To(Equal(http.MethodPost))
	})

	It("serves recorded notifications", func() {
		Expect(post("/notifications?key=s3cret", url.Values{"transactionId": {"42"}}).Code).To(Equal(http.StatusOK))

		req := httptest.NewRequest(http.MethodGet, "/notifications/42", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusOK))

		var n Notification
		Expect(json.Unmarshal(rec.Body.Bytes(), &n)).To(Succeed())
		Expect(n.TransactionID).To(Equal("42"))
	})

	It("returns 404 for unknown transactions", func() {
		req := httptest.NewRequest(http.MethodGet, "/notifications/unknown", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("recovers from a panicking handler", func() {
		wh.Handler = HandlerFunc(func(context.Context, Request) Response {
			panic("boom")
		})
		rec := post("/notifications?key=s3cret", url.Values{"transactionId": {"1"}})
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
	})

	It("serves health and metrics", func() {
		for _, path := range []string{"/healthz", "/metrics"} {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			Expect(rec.Code).To(Equal(http.StatusOK), path)
		}
	})
})

var _ = Describe("verifyWebhook", func() {
	It("passes every request when no secret is configured", func() {
		req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
		Expect(verifyWebhook(req, "")).To(Succeed())
	})

	It("reports the failure code", func() {
		req := httptest.NewRequest(http.MethodPost, "/notifications?key=x", nil)
		err := verifyWebhook(req, "y")
		var verr *WebhookVerificationError
		Expect(err).To(BeAssignableToTypeOf(verr))
		Expect(err.(*WebhookVerificationError).Code).To(Equal("INVALID_KEY"))
		Expect(err).To(MatchError(ErrInvalidKey))
	})
})
