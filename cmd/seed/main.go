// Package main provides a CLI tool for seeding the database with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	appctx "rxledger/internal/core/context"
	"rxledger/internal/core/id"
	"rxledger/internal/core/types"
	"rxledger/internal/domain/auth"
	"rxledger/internal/domain/catalogs/branch"
	"rxledger/internal/domain/catalogs/product"
	"rxledger/internal/infrastructure/storage/postgres"
	"rxledger/internal/infrastructure/storage/postgres/catalog_repo"
	"rxledger/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)
	branchRepo := catalog_repo.NewBranchRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)

	b, err := seedBranch(ctx, branchRepo)
	if err != nil {
		log.Fatalw("failed to seed branch", "error", err)
	}
	log.Infow("branch ready", "id", b.ID, "code", b.Code)

	if err := seedProducts(ctx, productRepo, b.ID); err != nil {
		log.Fatalw("failed to seed products", "error", err)
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		token, err := issueDemoToken(secret, b.ID)
		if err != nil {
			log.Fatalw("failed to issue demo token", "error", err)
		}
		log.Infow("demo admin token issued", "token", token)
	}

	log.Info("seeding complete")
}

// seedBranch creates the demo branch, or returns the existing one.
func seedBranch(ctx context.Context, repo branch.Repository) (*branch.Branch, error) {
	const code = "MAIN"

	existing, err := repo.GetByCode(ctx, code)
	if err == nil {
		return existing, nil
	}

	b := branch.New("Main Pharmacy", code)
	b.GSTIN = "29ABCDE1234F1Z5"
	b.State = "KA"
	b.Address = "12 MG Road, Bengaluru"
	b.Phone = "+91-80-00000000"

	if err := repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func seedProducts(ctx context.Context, repo product.Repository, branchID id.ID) error {
	demo := []struct {
		name     string
		sku      string
		hsn      string
		quantity string
		minStock string
		mrp      string
		purchase string
		gstRate  string
	}{
		{"Paracetamol 500mg (strip of 10)", "PARA-500", "3004", "120", "20", "30.00", "18.50", "12"},
		{"Amoxicillin 250mg (strip of 10)", "AMOX-250", "3004", "80", "15", "95.00", "62.00", "12"},
		{"Cough Syrup 100ml", "CSYR-100", "3004", "45", "10", "110.00", "74.00", "18"},
		{"Vitamin D3 60k (sachet)", "VITD-60K", "3004", "200", "30", "42.00", "25.00", "5"},
		{"Digital Thermometer", "THERM-01", "9025", "12", "3", "250.00", "160.00", "18"},
	}

	for _, d := range demo {
		p := product.New(branchID, d.name)
		p.SKU = d.sku
		p.HSNCode = d.hsn
		p.Quantity = types.MustMoney(d.quantity)
		p.MinStock = types.MustMoney(d.minStock)
		p.MRP = types.MustMoney(d.mrp)
		p.PurchasePrice = types.MustMoney(d.purchase)
		p.GSTRate = types.MustMoney(d.gstRate)
		p.IsActive = p.Quantity.GreaterThan(decimal.Zero)

		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("create %s: %w", d.sku, err)
		}
	}

	return nil
}

// issueDemoToken signs an admin token for local API exploration.
func issueDemoToken(secret string, branchID id.ID) (string, error) {
	issuer := os.Getenv("JWT_ISSUER")
	if issuer == "" {
		issuer = "rxledger"
	}
	validator := auth.NewTokenValidator(secret, issuer)

	return validator.Issue(&appctx.Principal{
		UserID:    id.New(),
		Name:      "Demo Admin",
		Role:      appctx.RoleAdmin,
		BranchIDs: []id.ID{branchID},
	}, 24*time.Hour)
}
