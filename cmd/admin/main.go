package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/crypto"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/postgres"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
	"github.com/bostrovsky/tastyreport02/internal/shared/config"
)

const usage = `Tastyreport Admin CLI - Management commands for the Tastyreport API

Usage:
  admin <command> [options]

Commands:
  sync    Run a brokerage sync for one account, one user, or everyone

Examples:
  # Sync one account
  admin sync --account-id=4f7c9a3e-...

  # Sync every account of one user
  admin sync --user-id=1

  # Sync all stored accounts
  admin sync --all

  # Run with a custom timeout
  admin sync --all --timeout=10m
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		runSync(os.Args[2:])
	default:
		fmt.Printf("Unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(1)
	}
}

func runSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	accountID := fs.String("account-id", "", "brokerage account ID to sync")
	userID := fs.Int64("user-id", 0, "sync every account owned by this user")
	all := fs.Bool("all", false, "sync every stored account")
	timeout := fs.Duration("timeout", 15*time.Minute, "overall timeout for the run")
	fs.Parse(args)

	if *accountID == "" && *userID == 0 && !*all {
		fmt.Println("one of --account-id, --user-id or --all is required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		log.Fatalf("Failed to initialize encryptor: %v", err)
	}

	accountRepo := postgres.NewAccountRepository(db)
	syncService := reconcile.NewService(
		tastytrade.NewClient(cfg.Tastytrade.BaseURL, cfg.Tastytrade.RequestTimeout),
		encryptor,
		accountRepo,
		postgres.NewBalanceRepository(db),
		postgres.NewPositionRepository(db),
		postgres.NewTransactionRepository(db),
		cfg.Tastytrade.LookbackDays,
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	accounts, err := resolveAccounts(ctx, accountRepo, *accountID, *userID, *all)
	if err != nil {
		log.Fatalf("Failed to resolve accounts: %v", err)
	}
	if len(accounts) == 0 {
		fmt.Println("No accounts to sync")
		return
	}

	failures := 0
	for i := range accounts {
		acc := &accounts[i]
		fmt.Printf("Syncing account %s (user %d)...\n", acc.ID, acc.UserID)

		result, err := syncService.SyncAccount(ctx, acc.ID, acc.UserID)
		if err != nil {
			failures++
			fmt.Printf("  FAILED: %v\n", err)
			if result == nil {
				continue
			}
		}
		fmt.Printf("  balances=%d positions=%d transactions: found=%d inserted=%d skipped=%d errors=%d\n",
			result.BalancesWritten, result.PositionsWritten,
			result.TransactionsFound, result.TransactionsInserted, result.TransactionsSkipped, len(result.Errors))
		for _, msg := range result.Errors {
			fmt.Printf("    %s\n", msg)
		}
	}

	fmt.Printf("Done: %d synced, %d failed\n", len(accounts)-failures, failures)
	if failures > 0 {
		os.Exit(1)
	}
}

func resolveAccounts(ctx context.Context, repo *postgres.AccountRepository, accountID string, userID int64, all bool) ([]account.Account, error) {
	switch {
	case accountID != "":
		acc, err := repo.GetByID(ctx, accountID)
		if err != nil {
			return nil, err
		}
		return []account.Account{*acc}, nil
	case userID != 0:
		return repo.ListByUserID(ctx, userID)
	case all:
		return repo.ListAll(ctx)
	}
	return nil, nil
}
