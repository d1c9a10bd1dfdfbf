package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSaving    AccountType = "SAVING"
	AccountTypeCurrent   AccountType = "CURRENT"
	AccountTypeFixedTerm AccountType = "FIXED_TERM"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
	TransactionTypeTransfer   TransactionType = "TRANSFER"
)

type ClientType string

const (
	ClientTypePersonal ClientType = "PERSONAL"
	ClientTypeBusiness ClientType = "BUSINESS"
)

type Account struct {
	ID                    string           `json:"id"`
	NroAccount            string           `json:"nro_account"`
	Type                  AccountType      `json:"type"`
	ClientID              string           `json:"client_id"`
	Balance               decimal.Decimal  `json:"balance"`
	OpeningDate           time.Time        `json:"opening_date"`
	Holders               []string         `json:"holders"`
	AuthorizedSigners     []string         `json:"authorized_signers"`
	MaintenanceCommission *decimal.Decimal `json:"maintenance_commission,omitempty"`
	TransactionLimit      *int             `json:"transaction_limit,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at"`
}

// Transaction is an append-only movement record. A transfer writes two of
// these: a TRANSFER debit on the source account and a DEPOSIT credit on the
// target account. Amounts are always positive; direction is carried by Type.
type Transaction struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	Type      TransactionType `json:"type"`
	Date      time.Time       `json:"date"`
	Motive    string          `json:"motive"`
	CreatedAt time.Time       `json:"created_at"`
}

// ClientInfo is the client directory's view of a client. It is consulted
// during account creation and never persisted here.
type ClientInfo struct {
	ID          string     `json:"id"`
	Type        ClientType `json:"type"`
	SubType     string     `json:"sub_type,omitempty"`
	Name        string     `json:"name"`
	DocType     string     `json:"type_document,omitempty"`
	NroDocument string     `json:"nro_document,omitempty"`
	Status      bool       `json:"status"`
}
