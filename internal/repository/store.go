package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx, letting the same
// repository code run inside and outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	// GetByIDForUpdate locks the account row for the remainder of the
	// enclosing transaction. Call it inside WithinTx.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error)
	FindAll(ctx context.Context) ([]*models.Account, error)
	FindByClientID(ctx context.Context, clientID string) ([]*models.Account, error)
	FindByTypeAndClientID(ctx context.Context, accountType models.AccountType, clientID string) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error
	Delete(ctx context.Context, id string) error
}

type TransactionRepository interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	FindByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error)
	FindByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error)
	CountByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) (int, error)
}

// Store groups the repositories with a transaction boundary. WithinTx runs fn
// against a Store whose repositories share one database transaction; any error
// rolls the whole unit back.
type Store interface {
	Accounts() AccountRepository
	Transactions() TransactionRepository
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type PostgresStore struct {
	db           *sql.DB
	accounts     *PostgresAccountRepository
	transactions *PostgresTransactionRepository
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db:           db,
		accounts:     &PostgresAccountRepository{q: db},
		transactions: &PostgresTransactionRepository{q: db},
	}
}

func (s *PostgresStore) Accounts() AccountRepository { return s.accounts }

func (s *PostgresStore) Transactions() TransactionRepository { return s.transactions }

// WithinTx begins a SERIALIZABLE transaction, hands fn a Store bound to it and
// commits when fn returns nil. Row locks taken via GetByIDForUpdate are held
// until commit or rollback.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx Store) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &PostgresStore{
		db:           s.db,
		accounts:     &PostgresAccountRepository{q: tx},
		transactions: &PostgresTransactionRepository{q: tx},
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	if err := fn(txStore); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrTxCommit, err)
	}
	committed = true
	return nil
}
