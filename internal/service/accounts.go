package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/store"
)

// CompanyAccountService manages the payout/receiving profiles. Create and
// update send the full record; the backend replaces, it does not diff.
type CompanyAccountService struct {
	accounts *store.Collection[models.CompanyAccount]
	log      *zap.Logger
}

func NewCompanyAccountService(accounts *store.Collection[models.CompanyAccount], log *zap.Logger) *CompanyAccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CompanyAccountService{accounts: accounts, log: log}
}

func (s *CompanyAccountService) Refresh(ctx context.Context) error {
	return s.accounts.FetchAll(ctx)
}

func (s *CompanyAccountService) Snapshot() store.Snapshot[models.CompanyAccount] {
	return s.accounts.Snapshot()
}

func (s *CompanyAccountService) Create(ctx context.Context, account models.CompanyAccount) (models.CompanyAccount, error) {
	if err := account.Validate(); err != nil {
		return models.CompanyAccount{}, err
	}
	return s.accounts.Create(ctx, account)
}

func (s *CompanyAccountService) Update(ctx context.Context, id string, account models.CompanyAccount) (models.CompanyAccount, error) {
	if err := account.Validate(); err != nil {
		return models.CompanyAccount{}, err
	}
	return s.accounts.Update(ctx, id, account)
}

func (s *CompanyAccountService) Delete(ctx context.Context, id string) error {
	err := s.accounts.Remove(ctx, id)
	if err == nil {
		s.log.Info("company account deleted", zap.String("account", id))
	}
	return err
}
