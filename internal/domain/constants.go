package domain

// TransactionStatus is the moderation state of a submitted payment.
type TransactionStatus string

const (
	StatusPending  TransactionStatus = "pending"
	StatusReceived TransactionStatus = "received"
	StatusRejected TransactionStatus = "rejected"
)

// Valid reports whether s is one of the known status values.
func (s TransactionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusRejected:
		return true
	}
	return false
}

// Role is the access level attached to a user account.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleFinance Role = "finance"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleFinance:
		return true
	}
	return false
}

// PaymentTypes lists the accepted payment channels. Legacy crypto channels
// were removed and must not reappear on company accounts.
var PaymentTypes = []string{
	"tum_bankalar",
	"bankpay",
	"othomatik",
	"banka_havalesi",
	"hizla_havalesi",
	"vip_havalesi",
	"fast_havele",
	"papara",
}

// ValidPaymentType reports whether t is an accepted payment channel.
func ValidPaymentType(t string) bool {
	for _, pt := range PaymentTypes {
		if pt == t {
			return true
		}
	}
	return false
}
