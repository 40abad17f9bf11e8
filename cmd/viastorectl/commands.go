package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/viastore/viastore/cmd/app"
	"github.com/viastore/viastore/internal/api/handler/v1/request"
	"github.com/viastore/viastore/internal/config"
	"github.com/viastore/viastore/internal/domain"
	"github.com/viastore/viastore/internal/logger"
	"github.com/viastore/viastore/internal/repository"
	"github.com/viastore/viastore/internal/repository/dao"
	"github.com/viastore/viastore/internal/service"
)

const defaultConfigPath = app.ConfigPath

var configPath string

var commands = []subcommands.Command{
	&migrateCmd{},
	&seedCmd{},
	&createUserCmd{},
	&importCmd{},
}

// openDatabase loads config, sets up logging and opens the migrated database.
func openDatabase() (*gorm.DB, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.Load -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, fmt.Errorf("logger.Init -> %w", err)
	}

	return app.OpenDatabase(conf)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

type migrateCmd struct{}

func (*migrateCmd) Name() string             { return "migrate" }
func (*migrateCmd) Synopsis() string         { return "create or update the database schema" }
func (*migrateCmd) Usage() string            { return "viastorectl migrate\n" }
func (*migrateCmd) SetFlags(_ *flag.FlagSet) {}

func (*migrateCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// Opening the database runs the migration.
	if _, err := openDatabase(); err != nil {
		return fail(err)
	}

	fmt.Println("schema up to date")
	return subcommands.ExitSuccess
}

type seedCmd struct{}

func (*seedCmd) Name() string     { return "seed" }
func (*seedCmd) Synopsis() string { return "insert sample warehouses, items and orders" }
func (*seedCmd) Usage() string {
	return `viastorectl seed

  Inserts a small sample data set. Does nothing when warehouses already exist.
`
}
func (*seedCmd) SetFlags(_ *flag.FlagSet) {}

func (*seedCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	database, err := openDatabase()
	if err != nil {
		return fail(err)
	}

	catalog := service.NewCatalogService(repository.NewInventoryRepository(dao.NewInventoryDAO(database)))

	n, err := seed(ctx, catalog)
	if err != nil {
		return fail(err)
	}

	fmt.Printf("seeded %d items\n", n)
	return subcommands.ExitSuccess
}

func seed(ctx context.Context, catalog *service.CatalogService) (int, error) {
	existing, err := catalog.ListWarehouses(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	samples := []struct {
		warehouse domain.Warehouse
		items     []domain.Item
	}{
		{
			warehouse: domain.Warehouse{Name: "Main", Location: "Hall A"},
			items: []domain.Item{
				{Name: "Brake pad set", SKU: "BP-1001", Quantity: 24},
				{Name: "Oil filter", SKU: "OF-2040", Quantity: 60},
			},
		},
		{
			warehouse: domain.Warehouse{Name: "Overflow", Location: "Yard"},
			items: []domain.Item{
				{Name: "Wiper blade 600mm", SKU: "WB-600", Quantity: 15},
			},
		},
	}

	count := 0
	for _, sample := range samples {
		w, err := catalog.CreateWarehouse(ctx, sample.warehouse)
		if err != nil {
			return count, err
		}

		for _, item := range sample.items {
			item.WarehouseID = w.ID
			created, err := catalog.CreateItem(ctx, item, "seed")
			if err != nil {
				return count, err
			}
			count++

			if _, err = catalog.CreateOrder(ctx, domain.Order{
				OrderNumber: "SEED-" + created.SKU,
				ItemID:      created.ID,
				Quantity:    1,
			}); err != nil {
				return count, err
			}
		}
	}

	return count, nil
}

type createUserCmd struct {
	username string
	password string
}

func (*createUserCmd) Name() string     { return "createuser" }
func (*createUserCmd) Synopsis() string { return "create a login for the web UI and API" }
func (*createUserCmd) Usage() string {
	return "viastorectl createuser -username <name> -password <password>\n"
}

func (c *createUserCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "username", "", "login name")
	f.StringVar(&c.password, "password", "", "at least 8 characters with a letter and a digit")
}

func (c *createUserCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	req := request.CreateUserRequest{Username: c.username, Password: c.password, ConfirmPassword: c.password}
	if err := req.Validate(); err != nil {
		return fail(err)
	}

	database, err := openDatabase()
	if err != nil {
		return fail(err)
	}

	auth := service.NewAuthService(repository.NewUserRepository(dao.NewUserDAO(database)))
	user, err := auth.CreateUser(ctx, c.username, c.password)
	if err != nil {
		return fail(err)
	}

	zap.L().Info("user created", zap.Uint("id", user.ID), zap.String("username", user.Username))
	return subcommands.ExitSuccess
}

type importCmd struct {
	file string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import items from an xlsx workbook" }
func (*importCmd) Usage() string {
	return `viastorectl import -file <workbook.xlsx>

  Reads Name, SKU, Quantity and Warehouse from the first sheet, skipping the
  header row. Either every row is imported or none is.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "file", "", "xlsx workbook to import")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		return fail(errors.New("-file is required"))
	}

	f, err := os.Open(c.file)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	database, err := openDatabase()
	if err != nil {
		return fail(err)
	}

	sheets := service.NewSpreadsheetService(repository.NewInventoryRepository(dao.NewInventoryDAO(database)), nil)
	n, err := sheets.Import(ctx, f, "import:"+filepath.Base(c.file))
	if err != nil {
		return fail(err)
	}

	fmt.Printf("imported %d rows\n", n)
	return subcommands.ExitSuccess
}
