package service

import (
	"context"
	"log/slog"

	"github.com/mmoreno/bank-accounts/internal/clientdir"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// CurrentStrategy handles CURRENT accounts. Business clients may open any
// number of them; personal clients are held to one.
type CurrentStrategy struct {
	strategyDeps
}

func NewCurrentStrategy(store repository.Store, directory clientdir.Directory, logger *slog.Logger) *CurrentStrategy {
	return &CurrentStrategy{strategyDeps: newStrategyDeps(store, directory, logger)}
}

func (s *CurrentStrategy) AccountType() models.AccountType {
	return models.AccountTypeCurrent
}

func (s *CurrentStrategy) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	return s.createAccount(ctx, req, true)
}

func (s *CurrentStrategy) Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeDeposit, false)
}

func (s *CurrentStrategy) Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeWithdrawal, false)
}

func (s *CurrentStrategy) Balance(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	return s.balanceByID(ctx, accountID)
}

func (s *CurrentStrategy) ListTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return s.store.Transactions().FindByAccountID(ctx, accountID)
}

func (s *CurrentStrategy) Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error) {
	return s.executeTransfer(ctx, req)
}
