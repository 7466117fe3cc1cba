package service

import (
	"strings"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

// TransactionFilter is the declarative criteria applied to the review queue.
// Empty fields are no-ops; populated fields are AND-combined.
type TransactionFilter struct {
	// Query matches transactionUserId, the submitter's username or email.
	// Case-sensitive substring, any one match suffices.
	Query string
	// Status requires an exact match.
	Status domain.TransactionStatus
	// DatePrefix matches the start of the ISO createdAt form, so partial
	// dates like "2024-05" work.
	DatePrefix string
	// TimeFragment is a substring match against the full timestamp, not a
	// time-range comparison.
	TimeFragment string
}

// FilterTransactions computes the visible subset of txs. Pure: the source
// slice is never mutated and result order equals source order.
func FilterTransactions(txs []models.Transaction, f TransactionFilter) []models.Transaction {
	out := make([]models.Transaction, 0, len(txs))
	for _, tx := range txs {
		if f.Status != "" && tx.Status != f.Status {
			continue
		}
		createdAt := tx.CreatedAtString()
		if f.DatePrefix != "" && !strings.HasPrefix(createdAt, f.DatePrefix) {
			continue
		}
		if f.TimeFragment != "" && !strings.Contains(createdAt, f.TimeFragment) {
			continue
		}
		if f.Query != "" &&
			!strings.Contains(tx.TransactionUserID, f.Query) &&
			!strings.Contains(tx.User.Username, f.Query) &&
			!strings.Contains(tx.User.Email, f.Query) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// UserFilter is the criteria for the admin user listing.
type UserFilter struct {
	// Query matches the id, phone or IP address verbatim, or the username
	// and email case-insensitively.
	Query string
	// Role requires an exact match.
	Role domain.Role
}

// FilterUsers computes the visible subset of users, preserving order.
func FilterUsers(users []models.User, f UserFilter) []models.User {
	out := make([]models.User, 0, len(users))
	loweredQuery := strings.ToLower(f.Query)
	for _, u := range users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Query != "" &&
			!strings.Contains(u.ID, f.Query) &&
			!strings.Contains(strings.ToLower(u.Username), loweredQuery) &&
			!strings.Contains(strings.ToLower(u.Email), loweredQuery) &&
			!strings.Contains(u.Phone, f.Query) &&
			!strings.Contains(u.IPAddress, f.Query) {
			continue
		}
		out = append(out, u)
	}
	return out
}
