package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"expenseflow.backend/internal/config"
	"expenseflow.backend/internal/infrastructure/datasources/postgres"
	"expenseflow.backend/internal/infrastructure/models"
	"expenseflow.backend/pkg/crypto"
)

var openSeedDB = postgres.NewConnection

var openSeedSQLDB = func(db *gorm.DB) (io.Closer, error) {
	return db.DB()
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	openDB  func(cfg *config.Config) (*gorm.DB, io.Closer, error)
	out     io.Writer
}

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		openDB: func(cfg *config.Config) (*gorm.DB, io.Closer, error) {
			db, err := openSeedDB(cfg.Database)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := openSeedSQLDB(db)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return db, sqlDB, nil
		},
		out: os.Stdout,
	}
}

type seedOptions struct {
	companyName   string
	currencyCode  string
	adminName     string
	adminEmail    string
	adminPassword string
}

func parseSeedFlags(args []string) (seedOptions, error) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	opts := seedOptions{}
	fs.StringVar(&opts.companyName, "company", "ExpenseFlow Inc", "company name")
	fs.StringVar(&opts.currencyCode, "currency", "USD", "company default currency (ISO 4217)")
	fs.StringVar(&opts.adminName, "admin-name", "System Admin", "admin full name")
	fs.StringVar(&opts.adminEmail, "admin-email", "admin@expenseflow.local", "admin email")
	fs.StringVar(&opts.adminPassword, "admin-password", "", "admin password (required)")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if len(opts.currencyCode) != 3 {
		return opts, fmt.Errorf("invalid currency code: %s", opts.currencyCode)
	}
	if opts.adminPassword == "" {
		return opts, fmt.Errorf("--admin-password is required")
	}
	return opts, nil
}

// runSeed migrates the schema and ensures the single company row and an
// admin account exist. Re-running it against a seeded database is a no-op.
func runSeed(args []string, deps seedDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.openDB == nil {
		deps.openDB = defaultSeedDeps().openDB
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	opts, err := parseSeedFlags(args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		fmt.Fprintln(deps.out, "No .env file found, using environment variables")
	}
	cfg := deps.loadCfg()

	db, closer, err := deps.openDB(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	if err := db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Expense{},
		&models.ApprovalTransaction{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	fmt.Fprintln(deps.out, "Schema migrated")

	ctx := context.Background()
	if err := ensureCompany(ctx, db, opts, deps.out); err != nil {
		return err
	}
	return ensureAdmin(ctx, db, opts, deps.out)
}

func ensureCompany(ctx context.Context, db *gorm.DB, opts seedOptions, out io.Writer) error {
	var company models.Company
	err := db.WithContext(ctx).Order("created_at ASC").First(&company).Error
	if err == nil {
		fmt.Fprintf(out, "Company already present: %s (%s)\n", company.Name, company.DefaultCurrencyCode)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up company: %w", err)
	}

	company = models.Company{
		ID:                  uuid.New(),
		Name:                opts.companyName,
		DefaultCurrencyCode: opts.currencyCode,
	}
	if err := db.WithContext(ctx).Create(&company).Error; err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	fmt.Fprintf(out, "Company created: %s (%s)\n", company.Name, company.DefaultCurrencyCode)
	return nil
}

func ensureAdmin(ctx context.Context, db *gorm.DB, opts seedOptions, out io.Writer) error {
	var existing models.User
	err := db.WithContext(ctx).Where("email = ?", opts.adminEmail).First(&existing).Error
	if err == nil {
		fmt.Fprintf(out, "Admin already present: %s\n", existing.Email)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := crypto.HashPassword(opts.adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := models.User{
		ID:           uuid.New(),
		FullName:     opts.adminName,
		Email:        opts.adminEmail,
		PasswordHash: hash,
		Role:         "Admin",
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	fmt.Fprintf(out, "Admin created: %s\n", admin.Email)
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
