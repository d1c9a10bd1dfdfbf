package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// AccountService is the facade the HTTP layer calls. Type-specific
// operations dispatch through the strategy selector; the rest operate on the
// store directly.
type AccountService interface {
	FindAll(ctx context.Context) ([]models.AccountResponse, error)
	FindByID(ctx context.Context, id string) (*models.AccountResponse, error)
	Insert(ctx context.Context, req *models.CreateAccountRequest) (*models.AccountResponse, error)
	Update(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.AccountResponse, error)
	DeleteByID(ctx context.Context, id string) error
	Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error)
	Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error)
	Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransactionResponse, error)
	GetTransactionsByAccount(ctx context.Context, accountID string) ([]models.TransactionResponse, error)
	GetBalanceByAccount(ctx context.Context, accountID string) (*models.BalanceResponse, error)
	GetDailyAverageBalances(ctx context.Context, clientID string) ([]models.BalanceResponse, error)
	GetBalancesByClient(ctx context.Context, clientID string) ([]models.BalanceResponse, error)
	GetSummaryByClient(ctx context.Context, clientID string, filter *models.FilterRequest) ([]models.SummaryAccountResponse, error)
}

type AccountServiceImpl struct {
	store    repository.Store
	selector *StrategySelector
	logger   *slog.Logger
	now      func() time.Time
}

func NewAccountService(store repository.Store, selector *StrategySelector, logger *slog.Logger) *AccountServiceImpl {
	return &AccountServiceImpl{
		store:    store,
		selector: selector,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *AccountServiceImpl) FindAll(ctx context.Context) ([]models.AccountResponse, error) {
	accounts, err := s.store.Accounts().FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]models.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		responses = append(responses, *toAccountResponse(account))
	}
	return responses, nil
}

func (s *AccountServiceImpl) FindByID(ctx context.Context, id string) (*models.AccountResponse, error) {
	account, err := s.store.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

func (s *AccountServiceImpl) Insert(ctx context.Context, req *models.CreateAccountRequest) (*models.AccountResponse, error) {
	strategy, err := s.selector.For(req.Type)
	if err != nil {
		return nil, err
	}
	account, err := strategy.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Update overwrites the mutable account fields: client id, balance, type and
// account number.
func (s *AccountServiceImpl) Update(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.AccountResponse, error) {
	account, err := s.store.Accounts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	account.NroAccount = req.NroAccount
	account.Type = req.Type
	account.ClientID = req.ClientID
	account.Balance = req.Balance

	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

func (s *AccountServiceImpl) DeleteByID(ctx context.Context, id string) error {
	if err := s.store.Accounts().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("account deleted", "account_id", id)
	return nil
}

func (s *AccountServiceImpl) Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error) {
	strategy, err := s.strategyForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	transaction, err := strategy.Deposit(ctx, accountID, req)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(transaction), nil
}

func (s *AccountServiceImpl) Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error) {
	strategy, err := s.strategyForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	transaction, err := strategy.Withdraw(ctx, accountID, req)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(transaction), nil
}

// Transfer dispatches on the source account's type; the strategy applies any
// per-leg rules for the target itself.
func (s *AccountServiceImpl) Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransactionResponse, error) {
	strategy, err := s.strategyForAccount(ctx, req.SourceAccountID)
	if err != nil {
		return nil, err
	}
	transaction, err := strategy.Transfer(ctx, req)
	if err != nil {
		return nil, err
	}
	return toTransactionResponse(transaction), nil
}

func (s *AccountServiceImpl) GetTransactionsByAccount(ctx context.Context, accountID string) ([]models.TransactionResponse, error) {
	transactions, err := s.store.Transactions().FindByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(transactions), nil
}

func (s *AccountServiceImpl) GetBalanceByAccount(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(account), nil
}

// GetDailyAverageBalances reports, per account of the client, the average of
// this month's transaction amounts rounded half-up to two decimals. An
// account with no movements this month reports a zero average.
func (s *AccountServiceImpl) GetDailyAverageBalances(ctx context.Context, clientID string) ([]models.BalanceResponse, error) {
	accounts, err := s.store.Accounts().FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	balances := make([]models.BalanceResponse, 0, len(accounts))
	for _, account := range accounts {
		transactions, err := s.store.Transactions().FindByAccountIDAndDateRange(ctx, account.ID, startOfMonth, now)
		if err != nil {
			return nil, err
		}

		average := decimal.Zero
		if len(transactions) > 0 {
			total := decimal.Zero
			for _, transaction := range transactions {
				total = total.Add(transaction.Amount)
			}
			average = total.DivRound(decimal.NewFromInt(int64(len(transactions))), 2)
		}

		balances = append(balances, models.BalanceResponse{
			ProductID:  account.ID,
			NroAccount: account.NroAccount,
			Type:       account.Type,
			Balance:    average,
		})
	}
	return balances, nil
}

func (s *AccountServiceImpl) GetBalancesByClient(ctx context.Context, clientID string) ([]models.BalanceResponse, error) {
	accounts, err := s.store.Accounts().FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	balances := make([]models.BalanceResponse, 0, len(accounts))
	for _, account := range accounts {
		balances = append(balances, *toBalanceResponse(account))
	}
	return balances, nil
}

// GetSummaryByClient bundles each account of the client with its
// transactions inside the filter range. Accounts without matching
// transactions still yield a summary with an empty list.
func (s *AccountServiceImpl) GetSummaryByClient(ctx context.Context, clientID string, filter *models.FilterRequest) ([]models.SummaryAccountResponse, error) {
	accounts, err := s.store.Accounts().FindByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.SummaryAccountResponse, 0, len(accounts))
	for _, account := range accounts {
		transactions, err := s.store.Transactions().FindByAccountIDAndDateRange(ctx, account.ID, filter.StartDate, filter.EndDate)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, models.SummaryAccountResponse{
			Type:         account.Type,
			NroAccount:   account.NroAccount,
			Balance:      account.Balance,
			OpeningDate:  account.OpeningDate,
			Transactions: toTransactionResponses(transactions),
		})
	}
	return summaries, nil
}

func (s *AccountServiceImpl) strategyForAccount(ctx context.Context, accountID string) (AccountStrategy, error) {
	account, err := s.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return s.selector.For(account.Type)
}

func toTransactionResponses(transactions []*models.Transaction) []models.TransactionResponse {
	responses := make([]models.TransactionResponse, 0, len(transactions))
	for _, transaction := range transactions {
		responses = append(responses, *toTransactionResponse(transaction))
	}
	return responses
}
