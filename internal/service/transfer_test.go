package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
)

func TestTransferMovesFundsAndRecordsBothLegs(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "100")
	target := env.addAccount(t, models.AccountTypeCurrent, businessClientID, "50")

	debit, err := env.svc.Transfer(ctx, &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("30"), Motive: "invoice 42"},
	})
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeTransfer, debit.Type)
	assert.True(t, debit.Amount.Equal(dec("30")))
	assert.Equal(t, env.now, debit.Date)
	assert.Equal(t, "Transfer made to account "+target.NroAccount+" on 2026-08-15", debit.Motive)

	sourceBalance, err := env.svc.GetBalanceByAccount(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, sourceBalance.Balance.Equal(dec("70")), "source balance %s", sourceBalance.Balance)

	targetBalance, err := env.svc.GetBalanceByAccount(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, targetBalance.Balance.Equal(dec("80")), "target balance %s", targetBalance.Balance)

	sourceTxs, err := env.svc.GetTransactionsByAccount(ctx, source.ID)
	require.NoError(t, err)
	require.Len(t, sourceTxs, 1)
	assert.Equal(t, models.TransactionTypeTransfer, sourceTxs[0].Type)

	targetTxs, err := env.svc.GetTransactionsByAccount(ctx, target.ID)
	require.NoError(t, err)
	require.Len(t, targetTxs, 1)
	assert.Equal(t, models.TransactionTypeDeposit, targetTxs[0].Type)
	assert.Equal(t, env.now, targetTxs[0].Date)
	assert.Equal(t, "invoice 42", targetTxs[0].Motive)
}

func TestTransferInsufficientBalanceLeavesBothAccountsUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "10")
	target := env.addAccount(t, models.AccountTypeCurrent, businessClientID, "50")

	_, err := env.svc.Transfer(ctx, &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("10.01")},
	})
	assert.ErrorIs(t, err, errors.ErrInsufficientBalance)
	assert.False(t, errors.IsPartialFailure(err))

	sourceBalance, err := env.svc.GetBalanceByAccount(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, sourceBalance.Balance.Equal(dec("10")))

	targetBalance, err := env.svc.GetBalanceByAccount(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, targetBalance.Balance.Equal(dec("50")))

	sourceTxs, err := env.svc.GetTransactionsByAccount(ctx, source.ID)
	require.NoError(t, err)
	assert.Empty(t, sourceTxs)
}

func TestTransferToSameAccountRejected(t *testing.T) {
	env := newTestEnv(t)
	account := env.addAccount(t, models.AccountTypeSaving, personalClientID, "100")

	_, err := env.svc.Transfer(context.Background(), &models.TransferRequest{
		SourceAccountID: account.ID,
		TargetAccountID: account.ID,
		Movement:        models.MovementRequest{Amount: dec("10")},
	})
	assert.ErrorIs(t, err, errors.ErrSameAccount)
}

func TestTransferRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "100")
	target := env.addAccount(t, models.AccountTypeCurrent, businessClientID, "0")

	_, err := env.svc.Transfer(context.Background(), &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("0")},
	})
	assert.ErrorIs(t, err, errors.ErrInvalidAmount)
}

func TestTransferUnknownTargetAccount(t *testing.T) {
	env := newTestEnv(t)
	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "100")

	_, err := env.svc.Transfer(context.Background(), &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: "missing-id",
		Movement:        models.MovementRequest{Amount: dec("10")},
	})
	assert.ErrorIs(t, err, errors.ErrAccountNotFound)

	balance, err := env.svc.GetBalanceByAccount(context.Background(), source.ID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(dec("100")))
}

func TestTransferEnforcesFixedTermCapOnSourceLeg(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.addAccount(t, models.AccountTypeFixedTerm, personalClientID, "500")
	target := env.addAccount(t, models.AccountTypeCurrent, businessClientID, "0")

	env.addTransaction(t, source.ID, "100", models.TransactionTypeDeposit, env.now.AddDate(0, 0, -3))

	_, err := env.svc.Transfer(ctx, &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("50")},
	})
	assert.ErrorIs(t, err, errors.ErrMonthlyLimitExceeded)

	balance, err := env.svc.GetBalanceByAccount(ctx, source.ID)
	require.NoError(t, err)
	assert.True(t, balance.Balance.Equal(dec("500")))
}

func TestTransferEnforcesFixedTermCapOnTargetLeg(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "500")
	target := env.addAccount(t, models.AccountTypeFixedTerm, personalClientID, "0")

	env.addTransaction(t, target.ID, "100", models.TransactionTypeDeposit, env.now.AddDate(0, 0, -3))

	_, err := env.svc.Transfer(ctx, &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("50")},
	})
	assert.ErrorIs(t, err, errors.ErrMonthlyLimitExceeded)
}

func TestTransferFromFixedTermWithoutPriorMovementsSucceeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	source := env.addAccount(t, models.AccountTypeFixedTerm, personalClientID, "500")
	target := env.addAccount(t, models.AccountTypeSaving, personalClientID, "0")

	_, err := env.svc.Transfer(ctx, &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("50")},
	})
	require.NoError(t, err)

	targetBalance, err := env.svc.GetBalanceByAccount(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, targetBalance.Balance.Equal(dec("50")))
}

func TestTransferCommitFailureReportsPartialState(t *testing.T) {
	env := newTestEnv(t)
	deps := newStrategyDeps(&commitFailStore{env.store}, env.dir, env.svc.logger)
	deps.now = func() time.Time { return env.now }

	source := env.addAccount(t, models.AccountTypeSaving, personalClientID, "100")
	target := env.addAccount(t, models.AccountTypeCurrent, businessClientID, "0")

	_, err := deps.executeTransfer(context.Background(), &models.TransferRequest{
		SourceAccountID: source.ID,
		TargetAccountID: target.ID,
		Movement:        models.MovementRequest{Amount: dec("10")},
	})
	require.Error(t, err)
	assert.True(t, errors.IsPartialFailure(err))

	var transferErr *errors.TransferError
	require.ErrorAs(t, err, &transferErr)
	assert.True(t, transferErr.Committed)
	assert.ErrorIs(t, transferErr.Cause, errors.ErrTxCommit)
}
