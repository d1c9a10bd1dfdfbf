package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateAccountRequest struct {
	NroAccount        string          `json:"nro_account" validate:"required"`
	Type              AccountType     `json:"type" validate:"required,oneof=SAVING CURRENT FIXED_TERM"`
	ClientID          string          `json:"client_id" validate:"required"`
	Balance           decimal.Decimal `json:"balance"`
	Holders           []string        `json:"holders"`
	AuthorizedSigners []string        `json:"authorized_signers"`
}

type UpdateAccountRequest struct {
	NroAccount string          `json:"nro_account" validate:"required"`
	Type       AccountType     `json:"type" validate:"required,oneof=SAVING CURRENT FIXED_TERM"`
	ClientID   string          `json:"client_id" validate:"required"`
	Balance    decimal.Decimal `json:"balance"`
}

// MovementRequest is the body of a deposit or withdrawal. Amount positivity
// is a domain rule checked in the service layer, not a binding rule.
type MovementRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Motive string          `json:"motive"`
}

type TransferRequest struct {
	SourceAccountID string          `json:"source_account_id" validate:"required"`
	TargetAccountID string          `json:"target_account_id" validate:"required"`
	Movement        MovementRequest `json:"movement"`
}

// FilterRequest bounds a client summary to an inclusive date range.
type FilterRequest struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
}

type AccountResponse struct {
	ID                string          `json:"id"`
	NroAccount        string          `json:"nro_account"`
	Type              AccountType     `json:"type"`
	ClientID          string          `json:"client_id"`
	Balance           decimal.Decimal `json:"balance"`
	OpeningDate       time.Time       `json:"opening_date"`
	Holders           []string        `json:"holders"`
	AuthorizedSigners []string        `json:"authorized_signers"`
}

type TransactionResponse struct {
	ID     string          `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Type   TransactionType `json:"type"`
	Date   time.Time       `json:"date"`
	Motive string          `json:"motive,omitempty"`
}

type BalanceResponse struct {
	ProductID  string          `json:"product_id"`
	NroAccount string          `json:"nro_account"`
	Type       AccountType     `json:"type"`
	Balance    decimal.Decimal `json:"balance"`
}

type SummaryAccountResponse struct {
	Type         AccountType           `json:"type"`
	NroAccount   string                `json:"nro_account"`
	Balance      decimal.Decimal       `json:"balance"`
	OpeningDate  time.Time             `json:"opening_date"`
	Transactions []TransactionResponse `json:"transactions"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
