package service

import (
	"context"
	"fmt"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
)

// AccountStrategy implements the per-account-type rules: creation
// eligibility, movement validation, transfer participation and reporting.
type AccountStrategy interface {
	// AccountType declares the single account type this strategy handles.
	AccountType() models.AccountType
	Create(ctx context.Context, req *models.CreateAccountRequest) (*models.Account, error)
	Deposit(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error)
	Withdraw(ctx context.Context, accountID string, req *models.MovementRequest) (*models.Transaction, error)
	Balance(ctx context.Context, accountID string) (*models.BalanceResponse, error)
	ListTransactions(ctx context.Context, accountID string) ([]*models.Transaction, error)
	Transfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error)
}

// StrategySelector maps an account type to its strategy. The mapping is fixed
// at construction; misconfiguration is rejected at startup, not at call time.
type StrategySelector struct {
	strategies map[models.AccountType]AccountStrategy
}

func NewStrategySelector(strategies ...AccountStrategy) (*StrategySelector, error) {
	selected := make(map[models.AccountType]AccountStrategy, len(strategies))
	for _, strategy := range strategies {
		accountType := strategy.AccountType()
		if accountType == "" {
			return nil, &errors.ConfigurationError{
				Reason: fmt.Sprintf("strategy %T declares no account type", strategy),
			}
		}
		if _, exists := selected[accountType]; exists {
			return nil, &errors.ConfigurationError{
				Reason: fmt.Sprintf("duplicate strategy registered for account type %s", accountType),
			}
		}
		selected[accountType] = strategy
	}
	return &StrategySelector{strategies: selected}, nil
}

func (s *StrategySelector) For(accountType models.AccountType) (AccountStrategy, error) {
	strategy, ok := s.strategies[accountType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errors.ErrUnsupportedAccountType, accountType)
	}
	return strategy, nil
}
