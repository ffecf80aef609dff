package webhook

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter serves the webhook at its endpoint, the recorded notifications
// at <endpoint>/{transactionId}, plus /metrics and /healthz.
func NewRouter(log logr.Logger, wh *Webhook, store *Store, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(withLogger(log))

	r.Handle(wh.Endpoint, wh)
	r.Get(wh.Endpoint+"/{transactionId}", func(w http.ResponseWriter, req *http.Request) {
		n, ok := store.Get(chi.URLParam(req, "transactionId"))
		if !ok {
			http.Error(w, "notification not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(n); err != nil {
			logr.FromContextOrDiscard(req.Context()).Error(err, "Failed to write notification")
		}
	})
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

func withLogger(log logr.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := log.WithValues("requestID", middleware.GetReqID(r.Context()), "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(logr.NewContext(r.Context(), l)))
		})
	}
}
