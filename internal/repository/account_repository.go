package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
)

type PostgresAccountRepository struct {
	q querier
}

const accountColumns = `id, nro_account, type, client_id, balance, opening_date,
	holders, authorized_signers, maintenance_commission, transaction_limit, created_at, updated_at`

func (r *PostgresAccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account.ID == "" {
		account.ID = uuid.New().String()
	}

	query := `INSERT INTO accounts (id, nro_account, type, client_id, balance, opening_date,
			holders, authorized_signers, maintenance_commission, transaction_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`

	err := r.q.QueryRowContext(ctx, query,
		account.ID,
		account.NroAccount,
		account.Type,
		account.ClientID,
		account.Balance,
		account.OpeningDate,
		pq.Array(account.Holders),
		pq.Array(account.AuthorizedSigners),
		nullDecimal(account.MaintenanceCommission),
		nullInt(account.TransactionLimit),
	).Scan(&account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return errors.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

func (r *PostgresAccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`
	return r.scanAccount(r.q.QueryRowContext(ctx, query, id))
}

func (r *PostgresAccountRepository) FindAll(ctx context.Context) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY created_at`
	return r.queryAccounts(ctx, query)
}

func (r *PostgresAccountRepository) FindByClientID(ctx context.Context, clientID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE client_id = $1 ORDER BY created_at`
	return r.queryAccounts(ctx, query, clientID)
}

func (r *PostgresAccountRepository) FindByTypeAndClientID(ctx context.Context, accountType models.AccountType, clientID string) ([]*models.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE type = $1 AND client_id = $2 ORDER BY created_at`
	return r.queryAccounts(ctx, query, accountType, clientID)
}

func (r *PostgresAccountRepository) Update(ctx context.Context, account *models.Account) error {
	query := `UPDATE accounts
		SET nro_account = $1, type = $2, client_id = $3, balance = $4,
			holders = $5, authorized_signers = $6, maintenance_commission = $7,
			transaction_limit = $8, updated_at = CURRENT_TIMESTAMP
		WHERE id = $9`

	result, err := r.q.ExecContext(ctx, query,
		account.NroAccount,
		account.Type,
		account.ClientID,
		account.Balance,
		pq.Array(account.Holders),
		pq.Array(account.AuthorizedSigners),
		nullDecimal(account.MaintenanceCommission),
		nullInt(account.TransactionLimit),
		account.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresAccountRepository) UpdateBalance(ctx context.Context, id string, newBalance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, newBalance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	return requireRow(result)
}

func (r *PostgresAccountRepository) Delete(ctx context.Context, id string) error {
	result, err := r.q.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return requireRow(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PostgresAccountRepository) scanAccount(row rowScanner) (*models.Account, error) {
	account := &models.Account{}
	var (
		commission decimal.NullDecimal
		limit      sql.NullInt64
	)

	err := row.Scan(
		&account.ID,
		&account.NroAccount,
		&account.Type,
		&account.ClientID,
		&account.Balance,
		&account.OpeningDate,
		pq.Array(&account.Holders),
		pq.Array(&account.AuthorizedSigners),
		&commission,
		&limit,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	if commission.Valid {
		account.MaintenanceCommission = &commission.Decimal
	}
	if limit.Valid {
		v := int(limit.Int64)
		account.TransactionLimit = &v
	}
	return account, nil
}

func (r *PostgresAccountRepository) queryAccounts(ctx context.Context, query string, args ...any) ([]*models.Account, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account, err := r.scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}
	return accounts, nil
}

func requireRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrAccountNotFound
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}
