package webhook

import (
	"context"
	"sync"
	"time"

	"github.com/go-logr/logr"
)

// Store keeps the latest notification per transaction id in memory.
type Store struct {
	mu            sync.RWMutex
	notifications map[string]Notification
}

func NewStore() *Store {
	return &Store{notifications: make(map[string]Notification)}
}

// Record stores n, replacing any earlier notification for the same
// transaction.
func (s *Store) Record(n Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.TransactionID] = n
}

// Get returns the latest notification for transactionID.
func (s *Store) Get(transactionID string) (Notification, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.notifications[transactionID]
	return n, ok
}

// NewUploadNotificationWebhook returns a webhook that logs every upload
// notification and records it in store.
func NewUploadNotificationWebhook(store *Store, secret string) *Webhook {
	return &Webhook{
		Handler: HandlerFunc(func(ctx context.Context, req Request) Response {
			log := logr.FromContextOrDiscard(ctx).WithName("upload-notification-handler")

			if req.Notification == nil {
				log.Info("No notification in request")
				return BadRequestResponse()
			}

			if prev, ok := store.Get(req.Notification.TransactionID); ok {
				log.Info("Replacing earlier notification", "transactionId", prev.TransactionID, "previousReceivedAt", prev.ReceivedAt)
			}
			store.Record(*req.Notification)

			log.Info("Upload notification recorded", "transactionId", req.Notification.TransactionID, "fields", req.Notification.Fields)
			return OkResponse()
		}),
		Endpoint: "/notifications",
		secret:   secret,
		now:      time.Now,
	}
}
