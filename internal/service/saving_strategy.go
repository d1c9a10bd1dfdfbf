package service

import (
	"context"
	"log/slog"

	"github.com/mmoreno/bank-accounts/internal/clientdir"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// SavingStrategy handles SAVING accounts. Personal clients may hold one
// saving account; business clients are unrestricted. Movements carry no
// monthly cap.
type SavingStrategy struct {
	strategyDeps
}

func NewSavingStrategy(store repository.Store, directory clientdir.Directory, logger *slog.Logger) *SavingStrategy {
	return &SavingStrategy{strategyDeps: newStrategyDeps(store, directory, logger)}
}

func (s *SavingStrategy) AccountType() models.AccountType {
	return models.AccountTypeSaving
}

func (s *SavingStrategy) Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error) {
	return s.createAccount(ctx, req, true)
}

func (s *SavingStrategy) Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeDeposit, false)
}

func (s *SavingStrategy) Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error) {
	return s.processMovement(ctx, accountID, req, models.TransactionTypeWithdrawal, false)
}

func (s *SavingStrategy) Balance(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	return s.balanceByID(ctx, accountID)
}

func (s *SavingStrategy) ListTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	return s.store.Transactions().FindByAccountID(ctx, accountID)
}

func (s *SavingStrategy) Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error) {
	return s.executeTransfer(ctx, req)
}
