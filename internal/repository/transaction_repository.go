package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmoreno/bank-accounts/internal/models"
)

type PostgresTransactionRepository struct {
	q querier
}

const transactionColumns = `id, product_id, amount, type, date, motive, created_at`

func (r *PostgresTransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.New().String()
	}

	query := `INSERT INTO transactions (id, product_id, amount, type, date, motive)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.q.QueryRowContext(ctx, query,
		transaction.ID,
		transaction.ProductID,
		transaction.Amount,
		transaction.Type,
		transaction.Date,
		transaction.Motive,
	).Scan(&transaction.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *PostgresTransactionRepository) FindByAccountID(ctx context.Context, accountID string) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE product_id = $1
		ORDER BY created_at DESC`
	return r.queryTransactions(ctx, query, accountID)
}

func (r *PostgresTransactionRepository) FindByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE product_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date`
	return r.queryTransactions(ctx, query, accountID, start, end)
}

func (r *PostgresTransactionRepository) CountByAccountIDAndDateRange(ctx context.Context, accountID string, start, end time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM transactions WHERE product_id = $1 AND date >= $2 AND date <= $3`

	var count int
	err := r.q.QueryRowContext(ctx, query, accountID, start, end).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *PostgresTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]*models.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		transaction := &models.Transaction{}
		err := rows.Scan(
			&transaction.ID,
			&transaction.ProductID,
			&transaction.Amount,
			&transaction.Type,
			&transaction.Date,
			&transaction.Motive,
			&transaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, transaction)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}
