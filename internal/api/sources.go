package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
)

type userSource struct{ c *Client }

func (s userSource) FetchAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.c.do(ctx, http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("user %d in listing: %w", i, err)
		}
	}
	return users, nil
}

func (s userSource) Create(ctx context.Context, input models.User) (models.User, error) {
	return models.User{}, domain.ErrNotSupported
}

func (s userSource) Update(ctx context.Context, id string, patch any) (models.User, error) {
	return models.User{}, domain.ErrNotSupported
}

func (s userSource) Remove(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/admin/users/"+id, nil, nil)
}

type transactionSource struct{ c *Client }

func (s transactionSource) FetchAll(ctx context.Context) ([]models.Transaction, error) {
	var txs []models.Transaction
	if err := s.c.do(ctx, http.MethodGet, "/transactions", nil, &txs); err != nil {
		return nil, err
	}
	for i := range txs {
		if err := txs[i].Validate(); err != nil {
			return nil, fmt.Errorf("transaction %d in listing: %w", i, err)
		}
	}
	return txs, nil
}

func (s transactionSource) Create(ctx context.Context, input models.Transaction) (models.Transaction, error) {
	return models.Transaction{}, domain.ErrNotSupported
}

func (s transactionSource) Update(ctx context.Context, id string, patch any) (models.Transaction, error) {
	var tx models.Transaction
	if err := s.c.do(ctx, http.MethodPatch, "/transactions/"+id, patch, &tx); err != nil {
		return models.Transaction{}, err
	}
	if err := tx.Validate(); err != nil {
		return models.Transaction{}, fmt.Errorf("updated transaction: %w", err)
	}
	return tx, nil
}

func (s transactionSource) Remove(ctx context.Context, id string) error {
	return domain.ErrNotSupported
}

type accountSource struct{ c *Client }

func (s accountSource) FetchAll(ctx context.Context) ([]models.CompanyAccount, error) {
	var accounts []models.CompanyAccount
	if err := s.c.do(ctx, http.MethodGet, "/company-accounts", nil, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s accountSource) Create(ctx context.Context, input models.CompanyAccount) (models.CompanyAccount, error) {
	var account models.CompanyAccount
	if err := s.c.do(ctx, http.MethodPost, "/company-accounts", input, &account); err != nil {
		return models.CompanyAccount{}, err
	}
	return account, nil
}

// Update sends the full record; the backend replaces rather than diffs.
func (s accountSource) Update(ctx context.Context, id string, patch any) (models.CompanyAccount, error) {
	var account models.CompanyAccount
	if err := s.c.do(ctx, http.MethodPatch, "/company-accounts/"+id, patch, &account); err != nil {
		return models.CompanyAccount{}, err
	}
	return account, nil
}

func (s accountSource) Remove(ctx context.Context, id string) error {
	return s.c.do(ctx, http.MethodDelete, "/company-accounts/"+id, nil, nil)
}
