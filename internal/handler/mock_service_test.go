package handler

import (
	"context"

	"github.com/mmoreno/bank-accounts/internal/models"
)

// mockAccountService implements service.AccountService with per-test
// function fields. Unset methods panic, which flags an unexpected call.
type mockAccountService struct {
	findAllFn                  func(ctx context.Context) ([]models.AccountResponse, error)
	findByIDFn                 func(ctx context.Context, id string) (*models.AccountResponse, error)
	insertFn                   func(ctx context.Context, req *models.CreateAccountRequest) (*models.AccountResponse, error)
	updateFn                   func(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.AccountResponse, error)
	deleteByIDFn               func(ctx context.Context, id string) error
	depositFn                  func(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error)
	withdrawFn                 func(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error)
	transferFn                 func(ctx context.Context, req *models.TransferRequest) (*models.TransactionResponse, error)
	getTransactionsByAccountFn func(ctx context.Context, accountID string) ([]models.TransactionResponse, error)
	getBalanceByAccountFn      func(ctx context.Context, accountID string) (*models.BalanceResponse, error)
	getDailyAverageBalancesFn  func(ctx context.Context, clientID string) ([]models.BalanceResponse, error)
	getBalancesByClientFn      func(ctx context.Context, clientID string) ([]models.BalanceResponse, error)
	getSummaryByClientFn       func(ctx context.Context, clientID string, filter *models.FilterRequest) ([]models.SummaryAccountResponse, error)
}

func (m *mockAccountService) FindAll(ctx context.Context) ([]models.AccountResponse, error) {
	return m.findAllFn(ctx)
}

func (m *mockAccountService) FindByID(ctx context.Context, id string) (*models.AccountResponse, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockAccountService) Insert(ctx context.Context, req *models.CreateAccountRequest) (*models.AccountResponse, error) {
	return m.insertFn(ctx, req)
}

func (m *mockAccountService) Update(ctx context.Context, id string, req *models.UpdateAccountRequest) (*models.AccountResponse, error) {
	return m.updateFn(ctx, id, req)
}

func (m *mockAccountService) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFn(ctx, id)
}

func (m *mockAccountService) Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error) {
	return m.depositFn(ctx, accountID, req)
}

func (m *mockAccountService) Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.TransactionResponse, error) {
	return m.withdrawFn(ctx, accountID, req)
}

func (m *mockAccountService) Transfer(ctx context.Context, req *models.TransferRequest) (*models.TransactionResponse, error) {
	return m.transferFn(ctx, req)
}

func (m *mockAccountService) GetTransactionsByAccount(ctx context.Context, accountID string) ([]models.TransactionResponse, error) {
	return m.getTransactionsByAccountFn(ctx, accountID)
}

func (m *mockAccountService) GetBalanceByAccount(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	return m.getBalanceByAccountFn(ctx, accountID)
}

func (m *mockAccountService) GetDailyAverageBalances(ctx context.Context, clientID string) ([]models.BalanceResponse, error) {
	return m.getDailyAverageBalancesFn(ctx, clientID)
}

func (m *mockAccountService) GetBalancesByClient(ctx context.Context, clientID string) ([]models.BalanceResponse, error) {
	return m.getBalancesByClientFn(ctx, clientID)
}

func (m *mockAccountService) GetSummaryByClient(ctx context.Context, clientID string, filter *models.FilterRequest) ([]models.SummaryAccountResponse, error) {
	return m.getSummaryByClientFn(ctx, clientID, filter)
}
