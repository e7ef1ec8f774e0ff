package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is one of the three fictional currencies of the bank.
type Currency string

const (
	CurrencyCosmicCoins Currency = "COSMIC_COINS"
	CurrencyGalaxyGold  Currency = "GALAXY_GOLD"
	CurrencyMoonBucks   Currency = "MOON_BUCKS"
)

// Valid reports whether the currency is a member of the fixed set.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyCosmicCoins, CurrencyGalaxyGold, CurrencyMoonBucks:
		return true
	}
	return false
}

// AccountType classifies an account. It does not affect transaction logic.
type AccountType string

const (
	AccountTypeStandard AccountType = "STANDARD"
	AccountTypePremium  AccountType = "PREMIUM"
	AccountTypeBusiness AccountType = "BUSINESS"
)

// Valid reports whether the account type is a member of the fixed set.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeStandard, AccountTypePremium, AccountTypeBusiness:
		return true
	}
	return false
}

// Account holds the current balance for one account holder.
// Balance is never negative after a committed transaction, and is mutated
// only inside a transaction-processing unit of work.
type Account struct {
	ID          string          `json:"account_id"`
	Owner       string          `json:"owner"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    Currency        `json:"currency"`
	AccountType AccountType     `json:"account_type"`
	CreatedAt   time.Time       `json:"created_at"`
	OwnerKey    uuid.UUID       `json:"-"` // API key the account was created under
	Deleted     bool            `json:"-"` // soft-delete flag; deleted accounts are absent from lookups
}

// Today returns the current UTC date at day granularity.
// Account and transaction creation dates carry no time-of-day component.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
