package main

import (
	"log"

	"github.com/bostrovsky/tastyreport02/internal/domain/account"
	"github.com/bostrovsky/tastyreport02/internal/domain/reconcile"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/crypto"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/postgres"
	"github.com/bostrovsky/tastyreport02/internal/infrastructure/tastytrade"
	httphandlers "github.com/bostrovsky/tastyreport02/internal/interfaces/http"
	"github.com/bostrovsky/tastyreport02/internal/shared/auth"
	"github.com/bostrovsky/tastyreport02/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	AccountHandler     *httphandlers.AccountHandler
	SnapshotHandler    *httphandlers.SnapshotHandler
	TransactionHandler *httphandlers.TransactionHandler

	// Auth
	JWT *auth.JWT

	// Sync wiring (for the scheduler job provider)
	SyncService *reconcile.Service
	AccountRepo *postgres.AccountRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize credential vault
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	balanceRepo := postgres.NewBalanceRepository(db)
	positionRepo := postgres.NewPositionRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize domain services
	accountService := account.NewService(accountRepo, encryptor)

	// Initialize brokerage client and sync service
	ttClient := tastytrade.NewClient(cfg.Tastytrade.BaseURL, cfg.Tastytrade.RequestTimeout)
	syncService := reconcile.NewService(
		ttClient, encryptor, accountRepo,
		balanceRepo, positionRepo, transactionRepo,
		cfg.Tastytrade.LookbackDays,
	)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	userHandler := httphandlers.NewUserHandler(userRepo)
	accountHandler := httphandlers.NewAccountHandler(accountService, syncService)
	snapshotHandler := httphandlers.NewSnapshotHandler(accountService, balanceRepo, positionRepo)
	transactionHandler := httphandlers.NewTransactionHandler(accountService, transactionRepo)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		AccountHandler:     accountHandler,
		SnapshotHandler:    snapshotHandler,
		TransactionHandler: transactionHandler,
		JWT:                jwt,
		SyncService:        syncService,
		AccountRepo:        accountRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
