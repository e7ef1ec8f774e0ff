// Package seed loads a demo data set on startup: one well-known API key
// and three funded accounts, so a fresh instance is usable immediately.
package seed

import (
	"context"
	"fmt"
	"time"

	"galactic-bank-api/internal/core/domain"
	"galactic-bank-api/internal/core/ports"
	"galactic-bank-api/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DemoAPIKey is the raw demo key. It is fixed so local clients can use it
// without first calling the key-issuance endpoint. Never enable seeding
// outside development.
const DemoAPIKey = "gb_live_0000000000000000000000000000000000000000000000000000000000000000"

type demoAccount struct {
	owner    string
	currency domain.Currency
	acctType domain.AccountType
	balance  string
}

var demoAccounts = []demoAccount{
	{owner: "Ada Starling", currency: domain.CurrencyCosmicCoins, acctType: domain.AccountTypeStandard, balance: "10000.00"},
	{owner: "Zed Nebular", currency: domain.CurrencyCosmicCoins, acctType: domain.AccountTypeStandard, balance: "237.00"},
	{owner: "Bea Orbital", currency: domain.CurrencyGalaxyGold, acctType: domain.AccountTypeBusiness, balance: "5000.00"},
}

// Run inserts the demo key and accounts. It is idempotent: when the demo
// key already exists the whole seed is skipped.
func Run(ctx context.Context, keyRepo ports.APIKeyRepository, accountSvc ports.AccountService, log zerolog.Logger) error {
	keyHash := service.HashAPIKey(DemoAPIKey)

	existing, err := keyRepo.GetByHash(ctx, keyHash)
	if err != nil {
		return fmt.Errorf("check demo key: %w", err)
	}
	if existing != nil {
		log.Debug().Msg("demo data already seeded, skipping")
		return nil
	}

	key := &domain.APIKey{
		ID:        uuid.New(),
		OwnerName: "Demo Station",
		KeyHash:   keyHash,
		CreatedAt: time.Now().UTC(),
	}
	if err := keyRepo.Create(ctx, key); err != nil {
		return fmt.Errorf("create demo key: %w", err)
	}

	for _, a := range demoAccounts {
		account, err := accountSvc.Create(ctx, ports.CreateAccountRequest{
			Owner:          a.owner,
			Currency:       a.currency,
			AccountType:    a.acctType,
			OpeningBalance: decimal.RequireFromString(a.balance),
			OwnerKey:       key.ID,
		})
		if err != nil {
			return fmt.Errorf("seed account for %s: %w", a.owner, err)
		}
		log.Info().
			Str("account_id", account.ID).
			Str("owner", a.owner).
			Str("balance", a.balance).
			Str("currency", string(a.currency)).
			Msg("demo account seeded")
	}

	log.Info().Str("api_key", DemoAPIKey).Msg("demo data seeded")
	return nil
}
