// Package gateway is an in-memory stand-in for the remote finance backend.
// It implements the console's wire contract faithfully enough for tests and
// local development; it is not a product backend.
package gateway

import (
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

const sessionCookie = "fin_session"

// Config carries the stub's runtime knobs.
type Config struct {
	JWTSecret        string
	SessionTTL       time.Duration
	AuthRateLimitRPS int
}

type seededUser struct {
	user     models.User
	password string
}

// Stub holds the backend's entire state in memory behind one mutex.
type Stub struct {
	cfg Config
	log *zap.Logger

	mu           sync.Mutex
	users        []seededUser
	transactions []models.Transaction
	accounts     []models.CompanyAccount
}

func NewStub(cfg Config, log *zap.Logger) *Stub {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if cfg.AuthRateLimitRPS <= 0 {
		cfg.AuthRateLimitRPS = 10
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Stub{cfg: cfg, log: log}
}

// SeedUser installs a login-able account. Blank ids are assigned.
func (s *Stub) SeedUser(user models.User, password string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	s.users = append(s.users, seededUser{user: user, password: password})
	return user
}

// SeedTransaction installs a pending submission into the review queue.
func (s *Stub) SeedTransaction(tx models.Transaction) models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Status == "" {
		tx.Status = domain.StatusPending
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	s.transactions = append(s.transactions, tx)
	return tx
}

// SeedAccount installs a company account.
func (s *Stub) SeedAccount(account models.CompanyAccount) models.CompanyAccount {
	s.mu.Lock()
	defer s.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	s.accounts = append(s.accounts, account)
	return account
}

// Routes builds the full backend surface.
func (s *Stub) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chiMiddleware.Recoverer)

	r.Group(func(r chi.Router) {
		r.Use(httprate.Limit(s.cfg.AuthRateLimitRPS, time.Second,
			httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
				writeMessage(w, http.StatusTooManyRequests, "too many requests")
			}),
		))
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/logout", s.handleLogout)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.requireFinance)
		r.Get("/admin/users", s.handleListUsers)
		r.Delete("/admin/users/{id}", s.handleDeleteUser)

		r.Get("/transactions", s.handleListTransactions)
		r.Patch("/transactions/{id}", s.handlePatchTransaction)

		r.Get("/company-accounts", s.handleListAccounts)
		r.Post("/company-accounts", s.handleCreateAccount)
		r.Patch("/company-accounts/{id}", s.handleUpdateAccount)
		r.Delete("/company-accounts/{id}", s.handleDeleteAccount)
	})

	return r
}

func (s *Stub) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	var found *seededUser
	for i := range s.users {
		if s.users[i].user.Email == req.Email {
			found = &s.users[i]
			break
		}
	}
	s.mu.Unlock()

	if found == nil || found.password != req.Password {
		writeMessage(w, http.StatusBadRequest, "invalid email or password")
		return
	}

	s.issueSession(w, found.user)
	writeJSON(w, http.StatusOK, found.user)
}

func (s *Stub) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s.mu.Lock()
	for i := range s.users {
		if s.users[i].user.Email == req.Email {
			s.mu.Unlock()
			writeMessage(w, http.StatusConflict, "email already registered")
			return
		}
	}
	user := models.User{
		ID:        uuid.NewString(),
		Username:  strings.SplitN(req.Email, "@", 2)[0],
		Email:     req.Email,
		IPAddress: strings.SplitN(r.RemoteAddr, ":", 2)[0],
		Role:      domain.RoleUser,
	}
	s.users = append(s.users, seededUser{user: user, password: req.Password})
	s.mu.Unlock()

	s.issueSession(w, user)
	writeJSON(w, http.StatusCreated, user)
}

func (s *Stub) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (s *Stub) handleListUsers(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	users := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u.user)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (s *Stub) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.users {
		if s.users[i].user.ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "user not found")
}

func (s *Stub) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	txs := make([]models.Transaction, len(s.transactions))
	copy(txs, s.transactions)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, txs)
}

// handlePatchTransaction applies the narrow review mutation: only the status,
// the reviewer-editable account fields and the rejection note change. Amount,
// payment type and the embedded user snapshot are server-owned. The note is
// cleared whenever the incoming status is not rejected, keeping the
// note-iff-rejected invariant intact.
func (s *Stub) handlePatchTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		TransactionUserID     string                   `json:"transactionUserId"`
		Status                domain.TransactionStatus `json:"status"`
		UserAccountNumber     string                   `json:"userAccountNumber"`
		UserAccountHolderName string                   `json:"userAccountHolderName"`
		RejectionNote         string                   `json:"rejectionNote"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		writeMessage(w, http.StatusBadRequest, "unknown status "+string(req.Status))
		return
	}
	if req.Status == domain.StatusRejected && strings.TrimSpace(req.RejectionNote) == "" {
		writeMessage(w, http.StatusBadRequest, "rejected transaction requires a rejection note")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID != id {
			continue
		}
		tx := &s.transactions[i]
		tx.TransactionUserID = req.TransactionUserID
		tx.UserAccountNumber = req.UserAccountNumber
		tx.UserAccountHolderName = req.UserAccountHolderName
		tx.Status = req.Status
		if req.Status == domain.StatusRejected {
			tx.RejectionNote = strings.TrimSpace(req.RejectionNote)
		} else {
			tx.RejectionNote = ""
		}
		s.log.Info("transaction updated",
			zap.String("transaction", tx.ID),
			zap.String("status", string(tx.Status)),
		)
		writeJSON(w, http.StatusOK, *tx)
		return
	}
	writeMessage(w, http.StatusNotFound, "transaction not found")
}

func (s *Stub) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	accounts := make([]models.CompanyAccount, len(s.accounts))
	copy(accounts, s.accounts)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Stub) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var account models.CompanyAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := account.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}
	account.ID = uuid.NewString()
	s.mu.Lock()
	s.accounts = append(s.accounts, account)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, account)
}

// handleUpdateAccount replaces the stored record wholesale with the caller's
// body; only the id survives.
func (s *Stub) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var account models.CompanyAccount
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := account.Validate(); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			account.ID = id
			s.accounts[i] = account
			writeJSON(w, http.StatusOK, account)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "company account not found")
}

func (s *Stub) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]string{"message": "company account deleted"})
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "company account not found")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
