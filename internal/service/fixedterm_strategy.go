package service

import (
	"context"
	"log/slog"

	"github.com/mmoreno/bank-accounts/internal/clientdir"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// FixedTermStrategy handles FIXED_TERM accounts: personal clients only, one
// per client, and at most one movement per calendar month.
type FixedTermStrategy struct {
	strategyDeps
}

func NewFixedTermStrategy(store repository.Store, directory clientdir.Directory, logger *slog.Logger) *FixedTermStrategy {
	return &FixedTermStrategy{strategyDeps: newStrategyDeps(store, directory, logger)}
}

func (s *FixedTermStrategy) AccountType() models.AccountType {
	return models.AccountTypeFixedTerm
}

func (s *FixedTermStrategy) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	return s.createAccount(ctx, req, false)
}

func (s *FixedTermStrategy) Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeDeposit, true)
}

func (s *FixedTermStrategy) Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeWithdrawal, true)
}

func (s *FixedTermStrategy) Balance(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	return s.balanceByID(ctx, accountID)
}

func (s *FixedTermStrategy) ListTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return s.store.Transactions().FindByAccountID(ctx, accountID)
}

// Transfer relies on executeTransfer's per-leg cap check, which covers this
// account whether it is the source or the target of the movement.
func (s *FixedTermStrategy) Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error) {
	return s.executeTransfer(ctx, req)
}
