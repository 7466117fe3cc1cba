package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/store"
)

// statusTransitions encodes the one-way moderation workflow: once a
// transaction leaves pending there is no route back. Same-status submission
// is allowed so the account fields can be corrected without a status change.
var statusTransitions = map[domain.TransactionStatus]map[domain.TransactionStatus]struct{}{
	domain.StatusPending: {
		domain.StatusPending:  {},
		domain.StatusReceived: {},
		domain.StatusRejected: {},
	},
	domain.StatusReceived: {
		domain.StatusReceived: {},
	},
	domain.StatusRejected: {
		domain.StatusRejected: {},
	},
}

func canTransition(current, next domain.TransactionStatus) bool {
	nextStates, ok := statusTransitions[current]
	if !ok {
		return false
	}
	_, ok = nextStates[next]
	return ok
}

// TransitionPayload is the narrow mutation sent to the backend. Immutable
// fields (amount, paymentType, createdAt, the embedded user) are never sent,
// so stale client copies cannot overwrite server-computed values. The note
// key is omitted entirely unless the transaction is being rejected.
type TransitionPayload struct {
	TransactionUserID     string                   `json:"transactionUserId"`
	Status                domain.TransactionStatus `json:"status"`
	UserAccountNumber     string                   `json:"userAccountNumber"`
	UserAccountHolderName string                   `json:"userAccountHolderName"`
	RejectionNote         string                   `json:"rejectionNote,omitempty"`
}

// ReviewService validates and submits status transitions for transactions
// under review.
type ReviewService struct {
	transactions *store.Collection[models.Transaction]
	log          *zap.Logger
}

func NewReviewService(transactions *store.Collection[models.Transaction], log *zap.Logger) *ReviewService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReviewService{transactions: transactions, log: log}
}

// SubmitTransition moves tx to nextStatus. The transaction carries the
// reviewer's (possibly edited) bank reference and user account fields; those
// travel with the status. All validation happens before any network call.
// On success the updated record has been applied to the cache and is
// returned so the caller can close its editor.
func (s *ReviewService) SubmitTransition(ctx context.Context, tx models.Transaction, nextStatus domain.TransactionStatus, rejectionNote string) (models.Transaction, error) {
	if !nextStatus.Valid() {
		return models.Transaction{}, &domain.ValidationError{Field: "status", Reason: "unknown status " + string(nextStatus)}
	}
	if !canTransition(tx.Status, nextStatus) {
		return models.Transaction{}, &domain.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("cannot move %s transaction to %s", tx.Status, nextStatus),
		}
	}

	payload := TransitionPayload{
		TransactionUserID:     tx.TransactionUserID,
		Status:                nextStatus,
		UserAccountNumber:     tx.UserAccountNumber,
		UserAccountHolderName: tx.UserAccountHolderName,
	}
	if nextStatus == domain.StatusRejected {
		note := strings.TrimSpace(rejectionNote)
		if note == "" {
			return models.Transaction{}, &domain.ValidationError{Field: "rejectionNote", Reason: "a rejection note is required"}
		}
		payload.RejectionNote = note
	}

	updated, err := s.transactions.Update(ctx, tx.ID, payload)
	if err != nil {
		return models.Transaction{}, err
	}

	s.log.Info("transaction transition applied",
		zap.String("transaction", tx.ID),
		zap.String("from", string(tx.Status)),
		zap.String("to", string(nextStatus)),
	)
	return updated, nil
}

// Refresh reloads the review queue.
func (s *ReviewService) Refresh(ctx context.Context) error {
	return s.transactions.FetchAll(ctx)
}

// Snapshot exposes the current queue state for rendering.
func (s *ReviewService) Snapshot() store.Snapshot[models.Transaction] {
	return s.transactions.Snapshot()
}
