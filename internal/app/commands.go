package app

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jmswift/finconsole/internal/domain"
	"github.com/jmswift/finconsole/internal/models"
	"github.com/jmswift/finconsole/internal/service"
)

const usage = `finconsole commands:
  users list [-query Q] [-role R]
  users delete <id>
  tx list [-query Q] [-status S] [-date PREFIX] [-time FRAGMENT]
  tx receive <id>
  tx reject <id> <note>
  accounts list
  accounts create <file.json>
  accounts update <id> <file.json>
  accounts delete <id>`

// Dispatch routes a parsed command line to the matching service call.
func (c *Console) Dispatch(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	switch args[0] + " " + args[1] {
	case "users list":
		return c.listUsers(ctx, args[2:])
	case "users delete":
		if len(args) < 3 {
			return errors.New("usage: users delete <id>")
		}
		return c.users.Remove(ctx, args[2])
	case "tx list":
		return c.listTransactions(ctx, args[2:])
	case "tx receive":
		if len(args) < 3 {
			return errors.New("usage: tx receive <id>")
		}
		return c.transition(ctx, args[2], domain.StatusReceived, "")
	case "tx reject":
		if len(args) < 4 {
			return errors.New("usage: tx reject <id> <note>")
		}
		return c.transition(ctx, args[2], domain.StatusRejected, args[3])
	case "accounts list":
		return c.listAccounts(ctx)
	case "accounts create":
		if len(args) < 3 {
			return errors.New("usage: accounts create <file.json>")
		}
		return c.createAccount(ctx, args[2])
	case "accounts update":
		if len(args) < 4 {
			return errors.New("usage: accounts update <id> <file.json>")
		}
		return c.updateAccount(ctx, args[2], args[3])
	case "accounts delete":
		if len(args) < 3 {
			return errors.New("usage: accounts delete <id>")
		}
		return c.accounts.Delete(ctx, args[2])
	}
	return errors.New(usage)
}

func (c *Console) listUsers(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("users list", flag.ContinueOnError)
	query := fs.String("query", "", "match id, name, email, phone or IP")
	role := fs.String("role", "", "exact role match")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.users.FetchAll(ctx); err != nil {
		return err
	}
	snap := c.users.Snapshot()
	visible := service.FilterUsers(snap.Data, service.UserFilter{
		Query: *query,
		Role:  domain.Role(*role),
	})
	for _, u := range visible {
		fmt.Printf("%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role)
	}
	return nil
}

func (c *Console) listTransactions(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tx list", flag.ContinueOnError)
	query := fs.String("query", "", "match transaction id, username or email")
	status := fs.String("status", "", "exact status match")
	datePrefix := fs.String("date", "", "ISO date prefix, e.g. 2024-05")
	timeFragment := fs.String("time", "", "timestamp fragment, e.g. 10:00")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := c.review.Refresh(ctx); err != nil {
		return err
	}
	snap := c.review.Snapshot()
	visible := service.FilterTransactions(snap.Data, service.TransactionFilter{
		Query:        *query,
		Status:       domain.TransactionStatus(*status),
		DatePrefix:   *datePrefix,
		TimeFragment: *timeFragment,
	})
	for _, tx := range visible {
		note := tx.RejectionNote
		if note == "" {
			note = "-"
		}
		fmt.Printf("%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ID, tx.TransactionUserID, tx.User.Email, tx.Amount.StringFixed(2), tx.Status, note)
	}
	return nil
}

// transition refreshes the queue, locates the record and submits the status
// change through the review state machine.
func (c *Console) transition(ctx context.Context, id string, status domain.TransactionStatus, note string) error {
	if err := c.review.Refresh(ctx); err != nil {
		return err
	}
	snap := c.review.Snapshot()
	for _, tx := range snap.Data {
		if tx.ID == id {
			updated, err := c.review.SubmitTransition(ctx, tx, status, note)
			if err != nil {
				return err
			}
			fmt.Printf("%s -> %s\n", updated.ID, updated.Status)
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", id)
}

func (c *Console) listAccounts(ctx context.Context) error {
	if err := c.accounts.Refresh(ctx); err != nil {
		return err
	}
	for _, a := range c.accounts.Snapshot().Data {
		fmt.Printf("%s\t%s\t%s\t%s\t%s-%s\n",
			a.ID, a.BankName, a.PaymentType, a.AccountNumber, a.Min.StringFixed(2), a.Max.StringFixed(2))
	}
	return nil
}

func (c *Console) createAccount(ctx context.Context, path string) error {
	account, err := readAccountFile(path)
	if err != nil {
		return err
	}
	created, err := c.accounts.Create(ctx, account)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", created.ID)
	return nil
}

func (c *Console) updateAccount(ctx context.Context, id, path string) error {
	account, err := readAccountFile(path)
	if err != nil {
		return err
	}
	updated, err := c.accounts.Update(ctx, id, account)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s\n", updated.ID)
	return nil
}

func readAccountFile(path string) (models.CompanyAccount, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.CompanyAccount{}, fmt.Errorf("read account file: %w", err)
	}
	var account models.CompanyAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return models.CompanyAccount{}, fmt.Errorf("parse account file: %w", err)
	}
	return account, nil
}
