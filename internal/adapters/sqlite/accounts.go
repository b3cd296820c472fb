package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/db"
)

type accountDatabase interface {
	UpsertSupplierAccount(ctx context.Context, account db.SupplierAccount) (db.SupplierAccount, error)
}

// SeedSupplierAccounts upserts configured supplier credentials.
// Accounts without a token are skipped.
func SeedSupplierAccounts(ctx context.Context, database accountDatabase, accounts []ports.SupplierAccount) (int, error) {
	seeded := 0
	for _, account := range accounts {
		token := strings.TrimSpace(account.AuthToken)
		if token == "" {
			continue
		}
		name := strings.TrimSpace(account.Name)
		if name == "" {
			name = "default"
		}
		_, err := database.UpsertSupplierAccount(ctx, db.SupplierAccount{
			Source:        string(account.Source),
			Name:          name,
			AuthToken:     token,
			WebhookSecret: account.WebhookSecret,
			Enabled:       boolInt(account.Enabled),
		})
		if err != nil {
			return seeded, fmt.Errorf("seed %s account: %w", account.Source, err)
		}
		seeded++
	}
	return seeded, nil
}
