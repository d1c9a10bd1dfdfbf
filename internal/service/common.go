package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmoreno/bank-accounts/internal/clientdir"
	"github.com/mmoreno/bank-accounts/internal/errors"
	"github.com/mmoreno/bank-accounts/internal/models"
	"github.com/mmoreno/bank-accounts/internal/repository"
)

// maxMovementsPerMonth caps fixed-term account activity: the count of
// movements already recorded this calendar month must stay below it.
const maxMovementsPerMonth = 1

// strategyDeps is the shared rule toolkit every strategy composes: store and
// directory handles plus a clock, with no account-type-specific state.
type strategyDeps struct {
	store     repository.Store
	directory clientdir.Directory
	logger    *slog.Logger
	now       func() time.Time
}

func newStrategyDeps(store repository.Store, directory clientdir.Directory, logger *slog.Logger) strategyDeps {
	return strategyDeps{store: store, directory: directory, logger: logger, now: time.Now}
}

func (d strategyDeps) lookupClient(ctx context.Context, clientID string) (*models.ClientInfo, error) {
	client, err := d.directory.GetClient(ctx, clientID)
	if err != nil {
		d.logger.Warn("client lookup failed", "client_id", clientID, "error", err.Error())
		return nil, err
	}
	return client, nil
}

// ensureEligible applies the creation rule table. Personal clients may hold
// at most one account per type; business clients are unrestricted except for
// account types they cannot open at all.
func (d strategyDeps) ensureEligible(ctx context.Context, client *models.ClientInfo, req *models.CreateAccountRequest, businessAllowed bool) error {
	switch client.Type {
	case models.ClientTypePersonal:
		existing, err := d.store.Accounts().FindByTypeAndClientID(ctx, req.Type, req.ClientID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return &errors.OnlyOneAccountPerTypeError{AccountType: string(req.Type)}
		}
	case models.ClientTypeBusiness:
		if !businessAllowed {
			return &errors.ClientTypeNotAllowedError{
				ClientType:  string(client.Type),
				AccountType: string(req.Type),
			}
		}
	}
	return nil
}

func (d strategyDeps) newAccountFromRequest(req *models.CreateAccountRequest) *models.Account {
	holders := req.Holders
	if holders == nil {
		holders = []string{}
	}
	signers := req.AuthorizedSigners
	if signers == nil {
		signers = []string{}
	}
	return &models.Account{
		NroAccount:        req.NroAccount,
		Type:              req.Type,
		ClientID:          req.ClientID,
		Balance:           req.Balance,
		OpeningDate:       d.now(),
		Holders:           holders,
		AuthorizedSigners: signers,
	}
}

func (d strategyDeps) createAccount(ctx context.Context, req *models.CreateAccountRequest, businessAllowed bool) (*models.Account, error) {
	client, err := d.lookupClient(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if err := d.ensureEligible(ctx, client, req, businessAllowed); err != nil {
		return nil, err
	}

	account := d.newAccountFromRequest(req)
	if err := d.store.Accounts().Create(ctx, account); err != nil {
		return nil, err
	}
	d.logger.Info("account created",
		"account_id", account.ID,
		"nro_account", account.NroAccount,
		"type", account.Type,
		"client_id", account.ClientID,
	)
	return account, nil
}

// monthRange returns the inclusive bounds of now's calendar month.
func monthRange(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func (d strategyDeps) countMovementsThisMonth(ctx context.Context, tx repository.Store, accountID string) (int, error) {
	start, end := monthRange(d.now())
	return tx.Transactions().CountByAccountIDAndDateRange(ctx, accountID, start, end)
}

// validateMovement applies the type-agnostic movement rules against a loaded
// account: a strictly positive amount, and for withdrawals a balance that
// covers it.
func validateMovement(account *models.Account, amount decimal.Decimal, movementType models.TransactionType) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return errors.ErrInvalidAmount
	}
	if movementType != models.TransactionTypeDeposit && account.Balance.LessThan(amount) {
		return errors.ErrInsufficientBalance
	}
	return nil
}

// processMovement performs one deposit or withdrawal atomically: the account
// row is locked for the duration of the transaction, so concurrent movements
// against the same account serialize.
func (d strategyDeps) processMovement(ctx context.Context, accountID string, req *models.MovementRequest, movementType models.TransactionType, enforceMonthlyCap bool) (*models.Transaction, error) {
	var created *models.Transaction

	err := d.store.WithinTx(ctx, func(tx repository.Store) error {
		account, err := tx.Accounts().GetByIDForUpdate(ctx, accountID)
		if err != nil {
			return err
		}
		if err := validateMovement(account, req.Amount, movementType); err != nil {
			return err
		}
		if enforceMonthlyCap {
			count, err := d.countMovementsThisMonth(ctx, tx, accountID)
			if err != nil {
				return err
			}
			if count >= maxMovementsPerMonth {
				return errors.ErrMonthlyLimitExceeded
			}
		}

		newBalance := account.Balance.Add(req.Amount)
		if movementType == models.TransactionTypeWithdrawal {
			newBalance = account.Balance.Sub(req.Amount)
		}
		if err := tx.Accounts().UpdateBalance(ctx, accountID, newBalance); err != nil {
			return err
		}

		created = &models.Transaction{
			ProductID: accountID,
			Amount:    req.Amount,
			Type:      movementType,
			Date:      d.now(),
			Motive:    req.Motive,
		}
		return tx.Transactions().Create(ctx, created)
	})
	if err != nil {
		return nil, err
	}

	d.logger.Info("movement applied",
		"account_id", accountID,
		"type", movementType,
		"amount", req.Amount.String(),
	)
	return created, nil
}

// executeTransfer moves funds between two accounts in one database
// transaction: both rows locked, balances adjusted, a TRANSFER debit written
// on the source and a DEPOSIT credit on the target. The returned transaction
// is the debit leg carrying the transfer summary motive.
func (d strategyDeps) executeTransfer(ctx context.Context, req *models.TransferRequest) (*models.Transaction, error) {
	if req.SourceAccountID == req.TargetAccountID {
		return nil, errors.ErrSameAccount
	}
	if req.Movement.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}

	var debit *models.Transaction

	err := d.store.WithinTx(ctx, func(tx repository.Store) error {
		source, err := tx.Accounts().GetByIDForUpdate(ctx, req.SourceAccountID)
		if err != nil {
			return fmt.Errorf("source account: %w", err)
		}
		target, err := tx.Accounts().GetByIDForUpdate(ctx, req.TargetAccountID)
		if err != nil {
			return fmt.Errorf("target account: %w", err)
		}

		if source.Balance.LessThan(req.Movement.Amount) {
			return errors.ErrInsufficientBalance
		}
		if err := d.checkTransferCaps(ctx, tx, source, target); err != nil {
			return err
		}

		if err := tx.Accounts().UpdateBalance(ctx, source.ID, source.Balance.Sub(req.Movement.Amount)); err != nil {
			return err
		}
		if err := tx.Accounts().UpdateBalance(ctx, target.ID, target.Balance.Add(req.Movement.Amount)); err != nil {
			return err
		}

		today := d.now()
		debit = &models.Transaction{
			ProductID: source.ID,
			Amount:    req.Movement.Amount,
			Type:      models.TransactionTypeTransfer,
			Date:      today,
			Motive:    transferMotive(target, today),
		}
		credit := &models.Transaction{
			ProductID: target.ID,
			Amount:    req.Movement.Amount,
			Type:      models.TransactionTypeDeposit,
			Date:      today,
			Motive:    req.Movement.Motive,
		}
		if err := tx.Transactions().Create(ctx, debit); err != nil {
			return err
		}
		return tx.Transactions().Create(ctx, credit)
	})
	if err != nil {
		if errors.IsValidation(err) || errors.IsNotFound(err) {
			return nil, err
		}
		// A lost commit ack may have applied the writes; anything else
		// rolled back cleanly.
		return nil, &errors.TransferError{
			Stage:     "transfer",
			Committed: errors.Is(err, errors.ErrTxCommit),
			Cause:     err,
		}
	}

	d.logger.Info("transfer completed",
		"source_account_id", req.SourceAccountID,
		"target_account_id", req.TargetAccountID,
		"amount", req.Movement.Amount.String(),
	)
	return debit, nil
}

// checkTransferCaps enforces the fixed-term monthly cap on whichever leg of
// the transfer is a fixed-term account.
func (d strategyDeps) checkTransferCaps(ctx context.Context, tx repository.Store, source, target *models.Account) error {
	for _, account := range []*models.Account{source, target} {
		if account.Type != models.AccountTypeFixedTerm {
			continue
		}
		count, err := d.countMovementsThisMonth(ctx, tx, account.ID)
		if err != nil {
			return err
		}
		if count >= maxMovementsPerMonth {
			return errors.ErrMonthlyLimitExceeded
		}
	}
	return nil
}

func (d strategyDeps) balanceByID(ctx context.Context, accountID string) (*models.BalanceResponse, error) {
	account, err := d.store.Accounts().GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toBalanceResponse(account), nil
}

func transferMotive(target *models.Account, date time.Time) string {
	return fmt.Sprintf("Transfer made to account %s on %s", target.NroAccount, date.Format(time.DateOnly))
}

func toBalanceResponse(account *models.Account) *models.BalanceResponse {
	return &models.BalanceResponse{
		ProductID:  account.ID,
		NroAccount: account.NroAccount,
		Type:       account.Type,
		Balance:    account.Balance,
	}
}

func toAccountResponse(account *models.Account) *models.AccountResponse {
	return &models.AccountResponse{
		ID:                account.ID,
		NroAccount:        account.NroAccount,
		Type:              account.Type,
		ClientID:          account.ClientID,
		Balance:           account.Balance,
		OpeningDate:       account.OpeningDate,
		Holders:           account.Holders,
		AuthorizedSigners: account.AuthorizedSigners,
	}
}

func toTransactionResponse(transaction *models.Transaction) *models.TransactionResponse {
	return &models.TransactionResponse{
		ID:     transaction.ID,
		Amount: transaction.Amount,
		Type:   transaction.Type,
		Date:   transaction.Date,
		Motive: transaction.Motive,
	}
}
