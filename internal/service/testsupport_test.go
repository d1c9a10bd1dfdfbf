package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// memStore is a single-goroutine repository.Store double. It applies writes
// immediately; service code validates before mutating, so rollback is not
// modelled.
type memStore struct {
	accounts     map[string]*models.Account
	order        []string
	transactions []*models.Transaction
}

func newMemStore() *memStore {
	return &memStore{accounts: make(map[string]*models.Account)}
}

func (s *memStore) Accounts() repository.AccountRepository { return &memAccountRepo{s} }

func (s *memStore) Transactions() repository.TransactionRepository { return &memTransactionRepo{s} }

func (s *memStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	return fn(s)
}

func copyAccount(a *models.Account) *models.Account {
	dup := *a
	dup.Holders = append([]string{}, a.Holders...)
	dup.AuthorizedSigners = append([]string{}, a.AuthorizedSigners...)
	return &dup
}

type memAccountRepo struct {
	s *memStore
}

func (r *memAccountRepo) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.s.accounts[account.ID] = copyAccount(account)
	r.s.order = append(r.s.order, account.ID)
	return nil
}

func (r *memAccountRepo) GetByID(ctx context.Context, id string) (*models.Account, error) {
	account, ok := r.s.accounts[id]
	if !ok {
		return nil, errors.ErrAccountNotFound
	}
	return copyAccount(account), nil
}

func (r *memAccountRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *memAccountRepo) FindAll(ctx context.Context) ([]*models.Account, error) {
	accounts := make([]*models.Account, 0, len(r.s.order))
	for _, id := range r.s.order {
		accounts = append(accounts, copyAccount(r.s.accounts[id]))
	}
	return accounts, nil
}

func (r *memAccountRepo) FindByClientID(ctx context.Context, clientID string) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, id := range r.s.order {
		if account := r.s.accounts[id]; account.ClientID == clientID {
			accounts = append(accounts, copyAccount(account))
		}
	}
	return accounts, nil
}

func (r *memAccountRepo) FindByTypeAndClientID(ctx context.Context, accountType models.AccountType, clientID string) ([]*models.Account, error) {
	var accounts []*models.Account
	for _, id := range r.s.order {
		account := r.s.accounts[id]
		if account.Type == accountType && account.ClientID == clientID {
			accounts = append(accounts, copyAccount(account))
		}
	}
	return accounts, nil
}

func (r *memAccountRepo) Update(ctx context.Context, account *models.Account) error {
	stored, ok := r.s.accounts[account.ID]
	if !ok {
		return errors.ErrAccountNotFound
	}
	dup := copyAccount(account)
	dup.CreatedAt = stored.CreatedAt
	dup.UpdatedAt = time.Now()
	r.s.accounts[account.ID] = dup
	return nil
}

func (r *memAccountRepo) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error {
	account, ok := r.s.accounts[id]
	if !ok {
		return errors.ErrAccountNotFound
	}
	account.Balance = newBalance
	account.UpdatedAt = time.Now()
	return nil
}

func (r *memAccountRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.s.accounts[id]; !ok {
		return errors.ErrAccountNotFound
	}
	delete(r.s.accounts, id)
	for i, existing := range r.s.order {
		if existing == id {
			r.s.order = append(r.s.order[:i], r.s.order[i+1:]...)
			break
		}
	}
	return nil
}

type memTransactionRepo struct {
	s *memStore
}

func (r *memTransactionRepo) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}
	transaction.CreatedAt = transaction.Date
	dup := *transaction
	r.s.transactions = append(r.s.transactions, &dup)
	return nil
}

func (r *memTransactionRepo) FindByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for i := len(r.s.transactions) - 1; i >= 0; i-- {
		if r.s.transactions[i].ProductID == accountID {
			dup := *r.s.transactions[i]
			transactions = append(transactions, &dup)
		}
	}
	return transactions, nil
}

func (r *memTransactionRepo) FindByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	for _, transaction := range r.s.transactions {
		if transaction.ProductID != accountID {
			continue
		}
		if transaction.Date.Before(start) || transaction.Date.After(end) {
			continue
		}
		dup := *transaction
		transactions = append(transactions, &dup)
	}
	return transactions, nil
}

func (r *memTransactionRepo) CountByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) (int, error) {
	transactions, err := r.FindByAccountIDAndDateRange(ctx, accountID, start, end)
	return len(transactions), err
}

// commitFailStore applies the transaction body and then reports a lost
// commit acknowledgement.
type commitFailStore struct {
	*memStore
}

func (s *commitFailStore) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if err := fn(s.memStore); err != nil {
		return err
	}
	return fmt.Errorf("%w: connection reset during commit", errors.ErrTxCommit)
}

type fakeDirectory struct {
	clients     map[string]*models.ClientInfo
	unavailable bool
}

func (f *fakeDirectory) GetClient(ctx context.Context, clientID string) (*models.ClientInfo, error) {
	if f.unavailable {
		return nil, fmt.Errorf("%w: connection refused", errors.ErrDirectoryUnavailable)
	}
	client, ok := f.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("%w: id %s", errors.ErrClientNotFound, clientID)
	}
	return client, nil
}

// testEnv wires the full service stack against in-memory doubles with a
// controllable clock.
type testEnv struct {
	store    *memStore
	dir      *fakeDirectory
	selector *StrategySelector
	svc      *AccountServiceImpl
	now      time.Time
}

const (
	personalClientID = "client-personal"
	businessClientID = "client-business"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store: newMemStore(),
		dir: &fakeDirectory{clients: map[string]*models.ClientInfo{
			personalClientID: {ID: personalClientID, Type: models.ClientTypePersonal, Name: "Ana Torres", Status: true},
			businessClientID: {ID: businessClientID, Type: models.ClientTypeBusiness, SubType: "PYME", Name: "Torres SAC", Status: true},
		}},
		now: time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC),
	}
	clock := func() time.Time { return env.now }

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	saving := NewSavingStrategy(env.store, env.dir, logger)
	saving.now = clock
	current := NewCurrentStrategy(env.store, env.dir, logger)
	current.now = clock
	fixedTerm := NewFixedTermStrategy(env.store, env.dir, logger)
	fixedTerm.now = clock

	selector, err := NewStrategySelector(saving, current, fixedTerm)
	if err != nil {
		t.Fatalf("failed to build strategy selector: %v", err)
	}
	env.selector = selector

	env.svc = NewAccountService(env.store, selector, logger)
	env.svc.now = clock
	return env
}

func (e *testEnv) addAccount(t *testing.T, accountType models.AccountType, clientID, balance string) *models.Account {
	t.Helper()
	account := &models.Account{
		NroAccount:        "nro-" + uuid.New().String()[:8],
		Type:              accountType,
		ClientID:          clientID,
		Balance:           dec(balance),
		OpeningDate:       e.now,
		Holders:           []string{},
		AuthorizedSigners: []string{},
	}
	if err := e.store.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("failed to seed account: %v", err)
	}
	return account
}

func (e *testEnv) addTransaction(t *testing.T, accountID, amount string, txType models.TransactionType, date time.Time) {
	t.Helper()
	err := e.store.Transactions().Create(context.Background(), &models.Transaction{
		ProductID: accountID,
		Amount:    dec(amount),
		Type:      txType,
		Date:      date,
	})
	if err != nil {
		t.Fatalf("failed to seed transaction: %v", err)
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
