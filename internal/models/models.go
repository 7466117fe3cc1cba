package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jmswift/finconsole/internal/domain"
)

// User is a registered account as returned by the admin listing.
type User struct {
	ID        string      `json:"_id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Phone     string      `json:"phone"`
	IPAddress string      `json:"ipAddress"`
	Role      domain.Role `json:"role"`
}

// Validate checks the record at the decode boundary.
func (u *User) Validate() error {
	if u.ID == "" {
		return &domain.ValidationError{Field: "_id", Reason: "missing user id"}
	}
	if !u.Role.Valid() {
		return &domain.ValidationError{Field: "role", Reason: "unknown role " + string(u.Role)}
	}
	return nil
}

// TransactionUser is the submitter snapshot denormalized onto a transaction
// at creation time. Read-only.
type TransactionUser struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Transaction is a user-submitted payment awaiting financial review.
type Transaction struct {
	ID                    string                   `json:"_id"`
	Amount                decimal.Decimal          `json:"amount"`
	CompanyAccountNumber  string                   `json:"companyAccountNumber"`
	TransactionUserID     string                   `json:"transactionUserId"`
	UserAccountNumber     string                   `json:"userAccountNumber"`
	UserAccountHolderName string                   `json:"userAccountHolderName"`
	PaymentType           string                   `json:"paymentType"`
	PaymentMethod         string                   `json:"paymentMethod"`
	Status                domain.TransactionStatus `json:"status"`
	RejectionNote         string                   `json:"rejectionNote,omitempty"`
	CreatedAt             time.Time                `json:"createdAt"`
	User                  TransactionUser          `json:"user"`
}

// CreatedAtString is the ISO form the date and time filters match against.
func (t *Transaction) CreatedAtString() string {
	return t.CreatedAt.UTC().Format(time.RFC3339)
}

// Validate enforces the record invariants: a known status, a positive
// amount, and a rejection note present exactly when the status is rejected.
func (t *Transaction) Validate() error {
	if t.ID == "" {
		return &domain.ValidationError{Field: "_id", Reason: "missing transaction id"}
	}
	if !t.Status.Valid() {
		return &domain.ValidationError{Field: "status", Reason: "unknown status " + string(t.Status)}
	}
	if !t.Amount.IsPositive() {
		return &domain.ValidationError{Field: "amount", Reason: "amount must be positive"}
	}
	note := strings.TrimSpace(t.RejectionNote)
	if t.Status == domain.StatusRejected && note == "" {
		return &domain.ValidationError{Field: "rejectionNote", Reason: "rejected transaction requires a rejection note"}
	}
	if t.Status != domain.StatusRejected && note != "" {
		return &domain.ValidationError{Field: "rejectionNote", Reason: "rejection note only allowed on rejected transactions"}
	}
	return nil
}

// CompanyAccount is a payout/receiving profile managed by the finance team.
// Create/update use full-replacement semantics.
type CompanyAccount struct {
	ID                string          `json:"_id,omitempty"`
	BankName          string          `json:"bankName"`
	Image             string          `json:"image"`
	QRCode            string          `json:"QRcode"`
	Min               decimal.Decimal `json:"min"`
	Max               decimal.Decimal `json:"max"`
	PaymentType       string          `json:"paymentType"`
	AccountHolderName string          `json:"accountHolderName"`
	AccountNumber     string          `json:"accountNumber"`
	PaymentMethod     string          `json:"paymentMethod"`
	WalletAddress     string          `json:"WalletAddress"`
}

func (a *CompanyAccount) Validate() error {
	if !domain.ValidPaymentType(a.PaymentType) {
		return &domain.ValidationError{Field: "paymentType", Reason: "unknown payment type " + a.PaymentType}
	}
	if a.Min.IsNegative() {
		return &domain.ValidationError{Field: "min", Reason: "minimum bound must not be negative"}
	}
	if a.Max.LessThan(a.Min) {
		return &domain.ValidationError{Field: "max", Reason: "maximum bound must not be below minimum"}
	}
	return nil
}
